package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Baris jawaban denormalized, ditulis saat grading attempt.
type AnswerModel struct {
	AnswerID uuid.UUID `gorm:"column:answer_id;type:uuid;primaryKey" json:"answer_id"`

	AnswerAttemptID  uuid.UUID `gorm:"column:answer_attempt_id;type:uuid;not null;index" json:"answer_attempt_id"`
	AnswerQuestionID uuid.UUID `gorm:"column:answer_question_id;type:uuid;not null" json:"answer_question_id"`
	AnswerLearnerID  uuid.UUID `gorm:"column:answer_learner_id;type:uuid;not null;index" json:"answer_learner_id"`

	AnswerSelected  int16 `gorm:"column:answer_selected;type:smallint;not null" json:"answer_selected"`
	AnswerIsCorrect bool  `gorm:"column:answer_is_correct;not null" json:"answer_is_correct"`

	AnswerCreatedAt time.Time `gorm:"column:answer_created_at;autoCreateTime" json:"answer_created_at"`
}

func (AnswerModel) TableName() string { return "answers" }

func (a *AnswerModel) BeforeCreate(tx *gorm.DB) error {
	if a.AnswerID == uuid.Nil {
		a.AnswerID = uuid.New()
	}
	return nil
}
