package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuizAttemptModel struct {
	QuizAttemptID uuid.UUID `gorm:"column:quiz_attempt_id;type:uuid;primaryKey" json:"quiz_attempt_id"`

	QuizAttemptQuizID    uuid.UUID `gorm:"column:quiz_attempt_quiz_id;type:uuid;not null;index" json:"quiz_attempt_quiz_id"`
	QuizAttemptLearnerID uuid.UUID `gorm:"column:quiz_attempt_learner_id;type:uuid;not null;index" json:"quiz_attempt_learner_id"`

	QuizAttemptTotalQuestions int16 `gorm:"column:quiz_attempt_total_questions;type:smallint;not null" json:"quiz_attempt_total_questions"`
	QuizAttemptCorrectAnswers int16 `gorm:"column:quiz_attempt_correct_answers;type:smallint;not null;default:0" json:"quiz_attempt_correct_answers"`

	// 0..100, round(correct/total*100), diisi saat grading
	QuizAttemptScore int16 `gorm:"column:quiz_attempt_score;type:smallint;not null;default:0" json:"quiz_attempt_score"`

	QuizAttemptStartedAt  time.Time  `gorm:"column:quiz_attempt_started_at;not null" json:"quiz_attempt_started_at"`
	QuizAttemptFinishedAt *time.Time `gorm:"column:quiz_attempt_finished_at" json:"quiz_attempt_finished_at,omitempty"`

	QuizAttemptGraded bool `gorm:"column:quiz_attempt_graded;not null;default:false" json:"quiz_attempt_graded"`
}

func (QuizAttemptModel) TableName() string { return "quiz_attempts" }

func (a *QuizAttemptModel) BeforeCreate(tx *gorm.DB) error {
	if a.QuizAttemptID == uuid.Nil {
		a.QuizAttemptID = uuid.New()
	}
	return nil
}
