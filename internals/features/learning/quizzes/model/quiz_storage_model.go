package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Template quiz reusable milik tutor. Live quiz per booking dibuat
// dengan menyalin template ini (lihat QuizModel).
type QuizStorageModel struct {
	QuizStorageID uuid.UUID `gorm:"column:quiz_storage_id;type:uuid;primaryKey" json:"quiz_storage_id"`

	QuizStorageTutorID   uuid.UUID `gorm:"column:quiz_storage_tutor_id;type:uuid;not null;index" json:"quiz_storage_tutor_id"`
	QuizStorageSubjectID uuid.UUID `gorm:"column:quiz_storage_subject_id;type:uuid;not null;index" json:"quiz_storage_subject_id"`
	QuizStorageTopic     string    `gorm:"column:quiz_storage_topic;type:varchar(100);not null" json:"quiz_storage_topic"`

	QuizStorageTitle string `gorm:"column:quiz_storage_title;type:varchar(150);not null" json:"quiz_storage_title"`

	// Referensi berurutan ke question_storages
	QuizStorageQuestionIDs pq.StringArray `gorm:"column:quiz_storage_question_ids;type:text[];not null" json:"quiz_storage_question_ids"`

	// Durasi default dalam menit
	QuizStorageDuration int16 `gorm:"column:quiz_storage_duration;type:smallint;not null" json:"quiz_storage_duration"`

	QuizStorageCreatedAt time.Time  `gorm:"column:quiz_storage_created_at;autoCreateTime" json:"quiz_storage_created_at"`
	QuizStorageUpdatedAt *time.Time `gorm:"column:quiz_storage_updated_at;autoUpdateTime" json:"quiz_storage_updated_at,omitempty"`
}

func (QuizStorageModel) TableName() string { return "quiz_storages" }

func (q *QuizStorageModel) BeforeCreate(tx *gorm.DB) error {
	if q.QuizStorageID == uuid.Nil {
		q.QuizStorageID = uuid.New()
	}
	return nil
}
