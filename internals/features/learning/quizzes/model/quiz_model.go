package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Status derived quiz (dihitung, tidak disimpan).
const (
	QuizStatusUpcoming  = "upcoming"
	QuizStatusActive    = "active"
	QuizStatusCompleted = "completed"
	QuizStatusOverdue   = "overdue"
)

// Live quiz: salinan template yang terikat satu booking,
// dengan window open/close dan batas attempt.
type QuizModel struct {
	QuizID uuid.UUID `gorm:"column:quiz_id;type:uuid;primaryKey" json:"quiz_id"`

	QuizStorageID uuid.UUID `gorm:"column:quiz_storage_id;type:uuid;not null" json:"quiz_storage_id"`
	QuizBookingID uuid.UUID `gorm:"column:quiz_booking_id;type:uuid;not null;index" json:"quiz_booking_id"`

	QuizTitle    string `gorm:"column:quiz_title;type:varchar(150);not null" json:"quiz_title"`
	QuizDuration int16  `gorm:"column:quiz_duration;type:smallint;not null" json:"quiz_duration"`

	// Daftar soal dibekukan saat instansiasi; edit template sesudahnya
	// tidak mengubah quiz yang sudah jalan.
	QuizQuestionIDs pq.StringArray `gorm:"column:quiz_question_ids;type:text[];not null" json:"quiz_question_ids"`

	QuizOpenTime  time.Time `gorm:"column:quiz_open_time;not null" json:"quiz_open_time"`
	QuizCloseTime time.Time `gorm:"column:quiz_close_time;not null" json:"quiz_close_time"`

	QuizMaxAttempts int16 `gorm:"column:quiz_max_attempts;type:smallint;not null;default:1" json:"quiz_max_attempts"`

	QuizCreatedAt time.Time `gorm:"column:quiz_created_at;autoCreateTime" json:"quiz_created_at"`
}

func (QuizModel) TableName() string { return "quizzes" }

func (q *QuizModel) BeforeCreate(tx *gorm.DB) error {
	if q.QuizID == uuid.Nil {
		q.QuizID = uuid.New()
	}
	return nil
}

// DeriveStatus: status client-facing dari window + jumlah attempt.
func (q *QuizModel) DeriveStatus(now time.Time, attempts int64) string {
	switch {
	case now.Before(q.QuizOpenTime):
		return QuizStatusUpcoming
	case !now.After(q.QuizCloseTime):
		if attempts >= int64(q.QuizMaxAttempts) {
			return QuizStatusCompleted
		}
		return QuizStatusActive
	case attempts > 0:
		return QuizStatusCompleted
	default:
		return QuizStatusOverdue
	}
}
