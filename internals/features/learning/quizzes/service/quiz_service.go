package service

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	bookingModel "tutorhub_backend/internals/features/bookings/bookings/model"
	questionModel "tutorhub_backend/internals/features/learning/question_storage/model"
	quizModel "tutorhub_backend/internals/features/learning/quizzes/model"
	notifModel "tutorhub_backend/internals/features/notifications/model"
	notifService "tutorhub_backend/internals/features/notifications/service"
)

var (
	ErrQuizNotFound        = errors.New("quiz tidak ditemukan")
	ErrQuizStorageNotFound = errors.New("template quiz tidak ditemukan")
	ErrQuizStorageEmpty    = errors.New("template quiz belum punya soal")
	ErrBookingNotFound     = errors.New("booking tidak ditemukan")
	ErrBookingNotActive    = errors.New("quiz hanya bisa dibuat untuk booking aktif")
	ErrNotQuizTutor        = errors.New("bukan tutor dari booking ini")
	ErrNotQuizLearner      = errors.New("bukan learner dari quiz ini")
	ErrQuizNotOpen         = errors.New("quiz di luar window pengerjaan")
	ErrAttemptsExhausted   = errors.New("jatah attempt sudah habis")
	ErrAttemptNotFound     = errors.New("attempt tidak ditemukan")
	ErrAttemptFinished     = errors.New("attempt sudah disubmit")
	ErrAnswerCountMismatch = errors.New("jumlah jawaban tidak sama dengan jumlah soal")
	ErrInvalidAnswerIndex  = errors.New("jawaban harus index 0..3")
)

type QuizService struct {
	DB *gorm.DB
}

func NewQuizService(db *gorm.DB) *QuizService {
	return &QuizService{DB: db}
}

type CreateQuizInput struct {
	QuizStorageID uuid.UUID
	BookingID     uuid.UUID
	OpenTime      time.Time
	CloseTime     time.Time
	MaxAttempts   int16

	// Kosong/nol = pakai nilai template
	Title    string
	Duration int16
}

/* =========================
   Create live quiz (tutor)
   ========================= */

// CreateFromStorage menyalin template jadi live quiz untuk satu booking.
// Daftar soal dibekukan di sini: edit template sesudahnya tidak
// berpengaruh ke quiz yang sudah dibuat.
func (s *QuizService) CreateFromStorage(tutorID uuid.UUID, in CreateQuizInput) (*quizModel.QuizModel, error) {
	if !in.CloseTime.After(in.OpenTime) {
		return nil, errors.New("close_time harus setelah open_time")
	}
	if in.MaxAttempts < 1 {
		in.MaxAttempts = 1
	}

	var out *quizModel.QuizModel
	var learnerID uuid.UUID
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var storage quizModel.QuizStorageModel
		if err := tx.Where("quiz_storage_id = ? AND quiz_storage_tutor_id = ?", in.QuizStorageID, tutorID).
			First(&storage).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrQuizStorageNotFound
			}
			return err
		}
		if len(storage.QuizStorageQuestionIDs) == 0 {
			return ErrQuizStorageEmpty
		}

		var booking bookingModel.BookingModel
		if err := tx.Where("booking_id = ?", in.BookingID).First(&booking).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if booking.BookingTutorID != tutorID {
			return ErrNotQuizTutor
		}
		if booking.BookingStatus != bookingModel.BookingStatusApprove {
			return ErrBookingNotActive
		}
		learnerID = booking.BookingLearnerID

		frozen := make(pq.StringArray, len(storage.QuizStorageQuestionIDs))
		copy(frozen, storage.QuizStorageQuestionIDs)

		title := storage.QuizStorageTitle
		if in.Title != "" {
			title = in.Title
		}
		duration := storage.QuizStorageDuration
		if in.Duration > 0 {
			duration = in.Duration
		}

		row := quizModel.QuizModel{
			QuizStorageID:   storage.QuizStorageID,
			QuizBookingID:   booking.BookingID,
			QuizTitle:       title,
			QuizDuration:    duration,
			QuizQuestionIDs: frozen,
			QuizOpenTime:    in.OpenTime,
			QuizCloseTime:   in.CloseTime,
			QuizMaxAttempts: in.MaxAttempts,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		out = &row
		return nil
	})
	if err != nil {
		return nil, err
	}

	notifService.Notify(s.DB, learnerID, notifModel.NotificationTypeGrading,
		"Quiz baru: "+out.QuizTitle,
		"Dikerjakan "+out.QuizOpenTime.Format("2006-01-02 15:04")+" s/d "+out.QuizCloseTime.Format("2006-01-02 15:04"),
		map[string]interface{}{"quiz_id": out.QuizID.String()})

	return out, nil
}

/* =========================
   Attempt flow (learner)
   ========================= */

// StartAttempt: gate window dan max attempts dicek di server,
// bukan dipercayakan ke client.
func (s *QuizService) StartAttempt(learnerID, quizID uuid.UUID, now time.Time) (*quizModel.QuizAttemptModel, error) {
	var out *quizModel.QuizAttemptModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		quiz, err := s.fetchQuizForLearner(tx, quizID, learnerID)
		if err != nil {
			return err
		}
		if now.Before(quiz.QuizOpenTime) || now.After(quiz.QuizCloseTime) {
			return ErrQuizNotOpen
		}

		var used int64
		if err := tx.Model(&quizModel.QuizAttemptModel{}).
			Where("quiz_attempt_quiz_id = ? AND quiz_attempt_learner_id = ?", quizID, learnerID).
			Count(&used).Error; err != nil {
			return err
		}
		if used >= int64(quiz.QuizMaxAttempts) {
			return ErrAttemptsExhausted
		}

		row := quizModel.QuizAttemptModel{
			QuizAttemptQuizID:         quizID,
			QuizAttemptLearnerID:      learnerID,
			QuizAttemptTotalQuestions: int16(len(quiz.QuizQuestionIDs)),
			QuizAttemptStartedAt:      now,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		out = &row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SubmitAttempt menilai jawaban terhadap kunci di question_storages,
// menulis baris answers per soal, lalu mengunci attempt (graded).
// Skor = round(correct/total*100), dijamin 0..100.
func (s *QuizService) SubmitAttempt(learnerID, attemptID uuid.UUID, selected []int16, now time.Time) (*quizModel.QuizAttemptModel, error) {
	for _, sel := range selected {
		if sel < 0 || sel > 3 {
			return nil, ErrInvalidAnswerIndex
		}
	}

	var out *quizModel.QuizAttemptModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var attempt quizModel.QuizAttemptModel
		if err := tx.Where("quiz_attempt_id = ?", attemptID).First(&attempt).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAttemptNotFound
			}
			return err
		}
		if attempt.QuizAttemptLearnerID != learnerID {
			return ErrNotQuizLearner
		}
		if attempt.QuizAttemptFinishedAt != nil {
			return ErrAttemptFinished
		}

		var quiz quizModel.QuizModel
		if err := tx.Where("quiz_id = ?", attempt.QuizAttemptQuizID).First(&quiz).Error; err != nil {
			return err
		}
		if len(selected) != len(quiz.QuizQuestionIDs) {
			return ErrAnswerCountMismatch
		}

		// Kunci jawaban diambil sekali, di-index per question_id.
		var questions []questionModel.QuestionStorageModel
		if err := tx.Where("question_storage_id IN ?", []string(quiz.QuizQuestionIDs)).
			Find(&questions).Error; err != nil {
			return err
		}
		keys := make(map[uuid.UUID]int16, len(questions))
		for _, q := range questions {
			keys[q.QuestionStorageID] = q.QuestionStorageCorrectAnswer
		}

		correct := int16(0)
		answers := make([]quizModel.AnswerModel, 0, len(selected))
		for i, qidStr := range quiz.QuizQuestionIDs {
			qid, err := uuid.Parse(qidStr)
			if err != nil {
				return err
			}
			isCorrect := false
			if key, ok := keys[qid]; ok && key == selected[i] {
				isCorrect = true
				correct++
			}
			answers = append(answers, quizModel.AnswerModel{
				AnswerAttemptID:  attempt.QuizAttemptID,
				AnswerQuestionID: qid,
				AnswerLearnerID:  learnerID,
				AnswerSelected:   selected[i],
				AnswerIsCorrect:  isCorrect,
			})
		}
		if err := tx.Create(&answers).Error; err != nil {
			return err
		}

		total := len(quiz.QuizQuestionIDs)
		score := int16(math.Round(float64(correct) / float64(total) * 100))
		if score < 0 {
			score = 0
		}
		if score > 100 {
			score = 100
		}

		finished := now
		attempt.QuizAttemptCorrectAnswers = correct
		attempt.QuizAttemptScore = score
		attempt.QuizAttemptFinishedAt = &finished
		attempt.QuizAttemptGraded = true
		if err := tx.Model(&quizModel.QuizAttemptModel{}).
			Where("quiz_attempt_id = ? AND quiz_attempt_finished_at IS NULL", attempt.QuizAttemptID).
			Updates(map[string]interface{}{
				"quiz_attempt_correct_answers": correct,
				"quiz_attempt_score":           score,
				"quiz_attempt_finished_at":     finished,
				"quiz_attempt_graded":          true,
			}).Error; err != nil {
			return err
		}
		out = &attempt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AttemptCount: jumlah attempt learner pada satu quiz (untuk DeriveStatus).
func (s *QuizService) AttemptCount(db *gorm.DB, quizID, learnerID uuid.UUID) (int64, error) {
	var n int64
	err := db.Model(&quizModel.QuizAttemptModel{}).
		Where("quiz_attempt_quiz_id = ? AND quiz_attempt_learner_id = ?", quizID, learnerID).
		Count(&n).Error
	return n, err
}

func (s *QuizService) fetchQuizForLearner(tx *gorm.DB, quizID, learnerID uuid.UUID) (*quizModel.QuizModel, error) {
	var quiz quizModel.QuizModel
	if err := tx.Where("quiz_id = ?", quizID).First(&quiz).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}
	var booking bookingModel.BookingModel
	if err := tx.Where("booking_id = ?", quiz.QuizBookingID).First(&booking).Error; err != nil {
		return nil, err
	}
	if booking.BookingLearnerID != learnerID {
		return nil, ErrNotQuizLearner
	}
	return &quiz, nil
}
