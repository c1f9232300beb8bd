package dto

import (
	"time"

	"github.com/google/uuid"

	m "tutorhub_backend/internals/features/learning/quizzes/model"
)

/* =========================
   Requests
   ========================= */

type CreateQuizRequest struct {
	QuizStorageID uuid.UUID `json:"quiz_storage_id" validate:"required"`
	BookingID     uuid.UUID `json:"booking_id" validate:"required"`
	OpenTime      time.Time `json:"open_time" validate:"required"`
	CloseTime     time.Time `json:"close_time" validate:"required"`
	MaxAttempts   int16     `json:"max_attempts" validate:"omitempty,min=1,max=10"`

	// Opsional: override judul/durasi template
	Title    string `json:"title" validate:"omitempty,max=150"`
	Duration int16  `json:"duration" validate:"omitempty,min=5,max=240"`
}

type CreateQuizStorageRequest struct {
	SubjectID   uuid.UUID `json:"subject_id" validate:"required"`
	Topic       string    `json:"topic" validate:"required,max=100"`
	Title       string    `json:"title" validate:"required,max=150"`
	QuestionIDs []string  `json:"question_ids" validate:"required,min=1,max=50,dive,uuid4"`
	Duration    int16     `json:"duration" validate:"required,min=5,max=180"`
}

type SubmitAttemptRequest struct {
	Answers []int16 `json:"answers" validate:"required,min=1,dive,min=0,max=3"`
}

/* =========================
   Responses
   ========================= */

type QuizResponse struct {
	QuizID        uuid.UUID `json:"quiz_id"`
	QuizStorageID uuid.UUID `json:"quiz_storage_id"`
	BookingID     uuid.UUID `json:"booking_id"`
	Title         string    `json:"title"`
	Duration      int16     `json:"duration"`
	TotalQuestions int      `json:"total_questions"`
	OpenTime      time.Time `json:"open_time"`
	CloseTime     time.Time `json:"close_time"`
	MaxAttempts   int16     `json:"max_attempts"`
	Status        string    `json:"status,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func FromQuizModel(q *m.QuizModel) QuizResponse {
	return QuizResponse{
		QuizID:          q.QuizID,
		QuizStorageID:   q.QuizStorageID,
		BookingID:       q.QuizBookingID,
		Title:           q.QuizTitle,
		Duration:        q.QuizDuration,
		TotalQuestions:  len(q.QuizQuestionIDs),
		OpenTime:        q.QuizOpenTime,
		CloseTime:       q.QuizCloseTime,
		MaxAttempts:     q.QuizMaxAttempts,
		CreatedAt:       q.QuizCreatedAt,
	}
}

// FromQuizModelWithStatus melampirkan status derived (upcoming/active/
// completed/overdue) untuk sisi learner.
func FromQuizModelWithStatus(q *m.QuizModel, now time.Time, attempts int64) QuizResponse {
	resp := FromQuizModel(q)
	resp.Status = q.DeriveStatus(now, attempts)
	return resp
}

type QuizStorageResponse struct {
	QuizStorageID uuid.UUID  `json:"quiz_storage_id"`
	SubjectID     uuid.UUID  `json:"subject_id"`
	Topic         string     `json:"topic"`
	Title         string     `json:"title"`
	QuestionIDs   []string   `json:"question_ids"`
	Duration      int16      `json:"duration"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

func FromStorageModel(s *m.QuizStorageModel) QuizStorageResponse {
	return QuizStorageResponse{
		QuizStorageID: s.QuizStorageID,
		SubjectID:     s.QuizStorageSubjectID,
		Topic:         s.QuizStorageTopic,
		Title:         s.QuizStorageTitle,
		QuestionIDs:   []string(s.QuizStorageQuestionIDs),
		Duration:      s.QuizStorageDuration,
		CreatedAt:     s.QuizStorageCreatedAt,
		UpdatedAt:     s.QuizStorageUpdatedAt,
	}
}

func FromStorageModels(rows []m.QuizStorageModel) []QuizStorageResponse {
	out := make([]QuizStorageResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromStorageModel(&rows[i]))
	}
	return out
}

type AttemptResponse struct {
	QuizAttemptID  uuid.UUID  `json:"quiz_attempt_id"`
	QuizID         uuid.UUID  `json:"quiz_id"`
	TotalQuestions int16      `json:"total_questions"`
	CorrectAnswers int16      `json:"correct_answers"`
	Score          int16      `json:"score"`
	StartedAt      time.Time  `json:"started_at"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
	Graded         bool       `json:"graded"`
}

func FromAttemptModel(a *m.QuizAttemptModel) AttemptResponse {
	return AttemptResponse{
		QuizAttemptID:  a.QuizAttemptID,
		QuizID:         a.QuizAttemptQuizID,
		TotalQuestions: a.QuizAttemptTotalQuestions,
		CorrectAnswers: a.QuizAttemptCorrectAnswers,
		Score:          a.QuizAttemptScore,
		StartedAt:      a.QuizAttemptStartedAt,
		FinishedAt:     a.QuizAttemptFinishedAt,
		Graded:         a.QuizAttemptGraded,
	}
}

func FromAttemptModels(rows []m.QuizAttemptModel) []AttemptResponse {
	out := make([]AttemptResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromAttemptModel(&rows[i]))
	}
	return out
}
