package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	bookingModel "tutorhub_backend/internals/features/bookings/bookings/model"
	questionModel "tutorhub_backend/internals/features/learning/question_storage/model"
	quizModel "tutorhub_backend/internals/features/learning/quizzes/model"
	svc "tutorhub_backend/internals/features/learning/quizzes/service"
	notifModel "tutorhub_backend/internals/features/notifications/model"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&bookingModel.BookingModel{},
		&questionModel.QuestionStorageModel{},
		&quizModel.QuizStorageModel{},
		&quizModel.QuizModel{},
		&quizModel.QuizAttemptModel{},
		&quizModel.AnswerModel{},
		&notifModel.NotificationModel{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type fixture struct {
	tutorID   uuid.UUID
	learnerID uuid.UUID
	bookingID uuid.UUID
	storageID uuid.UUID
	questions []uuid.UUID
}

// seedQuizFixture: booking approve + 3 soal (kunci 0,1,2) + template.
func seedQuizFixture(t *testing.T, db *gorm.DB) fixture {
	t.Helper()
	f := fixture{tutorID: uuid.New(), learnerID: uuid.New()}

	b := bookingModel.BookingModel{
		BookingLearnerID:        f.learnerID,
		BookingTutorID:          f.tutorID,
		BookingSubjectID:        uuid.New(),
		BookingNumberOfMonths:   1,
		BookingNumberOfSessions: 4,
		BookingStatus:           bookingModel.BookingStatusApprove,
	}
	if err := db.Create(&b).Error; err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	f.bookingID = b.BookingID

	subjectID := uuid.New()
	qids := make(pq.StringArray, 0, 3)
	for i := int16(0); i < 3; i++ {
		q := questionModel.QuestionStorageModel{
			QuestionStorageTutorID:       f.tutorID,
			QuestionStorageSubjectID:     subjectID,
			QuestionStorageTopic:         "aljabar",
			QuestionStorageText:          "Soal nomor sekian",
			QuestionStorageOptions:       datatypes.JSON([]byte(`["a","b","c","d"]`)),
			QuestionStorageCorrectAnswer: i,
		}
		if err := db.Create(&q).Error; err != nil {
			t.Fatalf("seed question: %v", err)
		}
		f.questions = append(f.questions, q.QuestionStorageID)
		qids = append(qids, q.QuestionStorageID.String())
	}

	storage := quizModel.QuizStorageModel{
		QuizStorageTutorID:     f.tutorID,
		QuizStorageSubjectID:   subjectID,
		QuizStorageTopic:       "aljabar",
		QuizStorageTitle:       "Kuis Aljabar Dasar",
		QuizStorageQuestionIDs: qids,
		QuizStorageDuration:    30,
	}
	if err := db.Create(&storage).Error; err != nil {
		t.Fatalf("seed storage: %v", err)
	}
	f.storageID = storage.QuizStorageID
	return f
}

func window(openIn, closeIn time.Duration) (time.Time, time.Time) {
	now := time.Now()
	return now.Add(openIn), now.Add(closeIn)
}

func TestCreateFromStorageFreezesQuestions(t *testing.T) {
	db := openTestDB(t)
	s := svc.NewQuizService(db)
	f := seedQuizFixture(t, db)
	open, close := window(-time.Hour, time.Hour)

	quiz, err := s.CreateFromStorage(f.tutorID, svc.CreateQuizInput{
		QuizStorageID: f.storageID,
		BookingID:     f.bookingID,
		OpenTime:      open,
		CloseTime:     close,
		MaxAttempts:   2,
	})
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	if len(quiz.QuizQuestionIDs) != 3 {
		t.Fatalf("expected 3 frozen questions, got %d", len(quiz.QuizQuestionIDs))
	}

	// Ubah template sesudahnya: quiz yang sudah jalan tidak ikut berubah.
	if err := db.Model(&quizModel.QuizStorageModel{}).
		Where("quiz_storage_id = ?", f.storageID).
		Update("quiz_storage_question_ids", pq.StringArray{f.questions[0].String()}).Error; err != nil {
		t.Fatalf("mutate storage: %v", err)
	}
	var fresh quizModel.QuizModel
	db.Where("quiz_id = ?", quiz.QuizID).First(&fresh)
	if len(fresh.QuizQuestionIDs) != 3 {
		t.Errorf("expected frozen list intact, got %d", len(fresh.QuizQuestionIDs))
	}
}

func TestCreateFromStorageGuards(t *testing.T) {
	db := openTestDB(t)
	s := svc.NewQuizService(db)
	f := seedQuizFixture(t, db)
	open, close := window(-time.Hour, time.Hour)

	// template orang lain
	if _, err := s.CreateFromStorage(uuid.New(), svc.CreateQuizInput{
		QuizStorageID: f.storageID, BookingID: f.bookingID, OpenTime: open, CloseTime: close,
	}); !errors.Is(err, svc.ErrQuizStorageNotFound) {
		t.Fatalf("expected ErrQuizStorageNotFound, got %v", err)
	}

	// booking bukan milik tutor
	otherBooking := bookingModel.BookingModel{
		BookingLearnerID: uuid.New(), BookingTutorID: uuid.New(), BookingSubjectID: uuid.New(),
		BookingNumberOfMonths: 1, BookingNumberOfSessions: 1,
		BookingStatus: bookingModel.BookingStatusApprove,
	}
	db.Create(&otherBooking)
	if _, err := s.CreateFromStorage(f.tutorID, svc.CreateQuizInput{
		QuizStorageID: f.storageID, BookingID: otherBooking.BookingID, OpenTime: open, CloseTime: close,
	}); !errors.Is(err, svc.ErrNotQuizTutor) {
		t.Fatalf("expected ErrNotQuizTutor, got %v", err)
	}

	// booking belum approve
	db.Model(&bookingModel.BookingModel{}).
		Where("booking_id = ?", f.bookingID).
		Update("booking_status", bookingModel.BookingStatusPending)
	if _, err := s.CreateFromStorage(f.tutorID, svc.CreateQuizInput{
		QuizStorageID: f.storageID, BookingID: f.bookingID, OpenTime: open, CloseTime: close,
	}); !errors.Is(err, svc.ErrBookingNotActive) {
		t.Fatalf("expected ErrBookingNotActive, got %v", err)
	}
}

func TestStartAttemptWindowAndMaxAttempts(t *testing.T) {
	db := openTestDB(t)
	s := svc.NewQuizService(db)
	f := seedQuizFixture(t, db)
	open, close := window(-time.Hour, time.Hour)

	quiz, err := s.CreateFromStorage(f.tutorID, svc.CreateQuizInput{
		QuizStorageID: f.storageID, BookingID: f.bookingID,
		OpenTime: open, CloseTime: close, MaxAttempts: 1,
	})
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}

	// di luar window
	if _, err := s.StartAttempt(f.learnerID, quiz.QuizID, open.Add(-time.Minute)); !errors.Is(err, svc.ErrQuizNotOpen) {
		t.Fatalf("expected ErrQuizNotOpen before open, got %v", err)
	}
	if _, err := s.StartAttempt(f.learnerID, quiz.QuizID, close.Add(time.Minute)); !errors.Is(err, svc.ErrQuizNotOpen) {
		t.Fatalf("expected ErrQuizNotOpen after close, got %v", err)
	}

	// bukan learner booking ini
	if _, err := s.StartAttempt(uuid.New(), quiz.QuizID, time.Now()); !errors.Is(err, svc.ErrNotQuizLearner) {
		t.Fatalf("expected ErrNotQuizLearner, got %v", err)
	}

	attempt, err := s.StartAttempt(f.learnerID, quiz.QuizID, time.Now())
	if err != nil {
		t.Fatalf("start attempt: %v", err)
	}
	if attempt.QuizAttemptTotalQuestions != 3 {
		t.Errorf("expected 3 questions on attempt, got %d", attempt.QuizAttemptTotalQuestions)
	}

	// max_attempts=1: attempt kedua ditolak server
	if _, err := s.StartAttempt(f.learnerID, quiz.QuizID, time.Now()); !errors.Is(err, svc.ErrAttemptsExhausted) {
		t.Fatalf("expected ErrAttemptsExhausted, got %v", err)
	}
}

func TestSubmitAttemptScoring(t *testing.T) {
	db := openTestDB(t)
	s := svc.NewQuizService(db)
	f := seedQuizFixture(t, db)
	open, close := window(-time.Hour, time.Hour)

	quiz, _ := s.CreateFromStorage(f.tutorID, svc.CreateQuizInput{
		QuizStorageID: f.storageID, BookingID: f.bookingID,
		OpenTime: open, CloseTime: close, MaxAttempts: 1,
	})
	attempt, err := s.StartAttempt(f.learnerID, quiz.QuizID, time.Now())
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	// kunci: 0,1,2 (urutan frozen). Jawaban 0,1,3 → 2 benar dari 3.
	graded, err := s.SubmitAttempt(f.learnerID, attempt.QuizAttemptID, []int16{0, 1, 3}, time.Now())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if graded.QuizAttemptCorrectAnswers != 2 {
		t.Errorf("expected 2 correct, got %d", graded.QuizAttemptCorrectAnswers)
	}
	if graded.QuizAttemptScore != 67 { // round(2/3*100)
		t.Errorf("expected score 67, got %d", graded.QuizAttemptScore)
	}
	if !graded.QuizAttemptGraded || graded.QuizAttemptFinishedAt == nil {
		t.Error("expected attempt graded with finished_at")
	}

	var answers []quizModel.AnswerModel
	db.Where("answer_attempt_id = ?", attempt.QuizAttemptID).Find(&answers)
	if len(answers) != 3 {
		t.Fatalf("expected 3 answer rows, got %d", len(answers))
	}
	correct := 0
	for _, a := range answers {
		if a.AnswerIsCorrect {
			correct++
		}
	}
	if correct != 2 {
		t.Errorf("expected 2 correct answer rows, got %d", correct)
	}

	// dobel submit ditolak
	if _, err := s.SubmitAttempt(f.learnerID, attempt.QuizAttemptID, []int16{0, 1, 2}, time.Now()); !errors.Is(err, svc.ErrAttemptFinished) {
		t.Fatalf("expected ErrAttemptFinished, got %v", err)
	}
}

func TestSubmitAttemptValidation(t *testing.T) {
	db := openTestDB(t)
	s := svc.NewQuizService(db)
	f := seedQuizFixture(t, db)
	open, close := window(-time.Hour, time.Hour)

	quiz, _ := s.CreateFromStorage(f.tutorID, svc.CreateQuizInput{
		QuizStorageID: f.storageID, BookingID: f.bookingID,
		OpenTime: open, CloseTime: close, MaxAttempts: 1,
	})
	attempt, _ := s.StartAttempt(f.learnerID, quiz.QuizID, time.Now())

	if _, err := s.SubmitAttempt(f.learnerID, attempt.QuizAttemptID, []int16{0, 1}, time.Now()); !errors.Is(err, svc.ErrAnswerCountMismatch) {
		t.Fatalf("expected ErrAnswerCountMismatch, got %v", err)
	}
	if _, err := s.SubmitAttempt(f.learnerID, attempt.QuizAttemptID, []int16{0, 1, 5}, time.Now()); !errors.Is(err, svc.ErrInvalidAnswerIndex) {
		t.Fatalf("expected ErrInvalidAnswerIndex, got %v", err)
	}
	if _, err := s.SubmitAttempt(uuid.New(), attempt.QuizAttemptID, []int16{0, 1, 2}, time.Now()); !errors.Is(err, svc.ErrNotQuizLearner) {
		t.Fatalf("expected ErrNotQuizLearner, got %v", err)
	}
}

func TestDeriveStatus(t *testing.T) {
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	quiz := quizModel.QuizModel{
		QuizOpenTime:    now.Add(-time.Hour),
		QuizCloseTime:   now.Add(time.Hour),
		QuizMaxAttempts: 2,
	}

	cases := []struct {
		name     string
		at       time.Time
		attempts int64
		want     string
	}{
		{"before open", now.Add(-2 * time.Hour), 0, quizModel.QuizStatusUpcoming},
		{"in window no attempts", now, 0, quizModel.QuizStatusActive},
		{"in window attempts left", now, 1, quizModel.QuizStatusActive},
		{"in window exhausted", now, 2, quizModel.QuizStatusCompleted},
		{"past close with attempt", now.Add(2 * time.Hour), 1, quizModel.QuizStatusCompleted},
		{"past close untouched", now.Add(2 * time.Hour), 0, quizModel.QuizStatusOverdue},
	}
	for _, tc := range cases {
		if got := quiz.DeriveStatus(tc.at, tc.attempts); got != tc.want {
			t.Errorf("%s: got %s, want %s", tc.name, got, tc.want)
		}
	}
}
