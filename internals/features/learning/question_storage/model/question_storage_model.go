package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Bank soal milik tutor, discope subject + topic.
// Options: array JSON berisi 4 pilihan jawaban.
type QuestionStorageModel struct {
	QuestionStorageID uuid.UUID `gorm:"column:question_storage_id;type:uuid;primaryKey" json:"question_storage_id"`

	QuestionStorageTutorID   uuid.UUID `gorm:"column:question_storage_tutor_id;type:uuid;not null;index" json:"question_storage_tutor_id"`
	QuestionStorageSubjectID uuid.UUID `gorm:"column:question_storage_subject_id;type:uuid;not null;index" json:"question_storage_subject_id"`
	QuestionStorageTopic     string    `gorm:"column:question_storage_topic;type:varchar(100);not null" json:"question_storage_topic"`

	QuestionStorageText    string         `gorm:"column:question_storage_text;type:text;not null" json:"question_storage_text"`
	QuestionStorageOptions datatypes.JSON `gorm:"column:question_storage_options;type:jsonb;not null" json:"question_storage_options"`

	// Index 0..3 ke Options
	QuestionStorageCorrectAnswer int16 `gorm:"column:question_storage_correct_answer;type:smallint;not null" json:"question_storage_correct_answer"`

	QuestionStorageCreatedAt time.Time  `gorm:"column:question_storage_created_at;autoCreateTime" json:"question_storage_created_at"`
	QuestionStorageUpdatedAt *time.Time `gorm:"column:question_storage_updated_at;autoUpdateTime" json:"question_storage_updated_at,omitempty"`
}

func (QuestionStorageModel) TableName() string { return "question_storages" }

func (q *QuestionStorageModel) BeforeCreate(tx *gorm.DB) error {
	if q.QuestionStorageID == uuid.Nil {
		q.QuestionStorageID = uuid.New()
	}
	return nil
}
