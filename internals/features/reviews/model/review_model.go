package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Satu review per booking; hanya booking completed yang bisa direview.
type ReviewModel struct {
	ReviewID uuid.UUID `gorm:"column:review_id;type:uuid;primaryKey" json:"review_id"`

	ReviewBookingID uuid.UUID `gorm:"column:review_booking_id;type:uuid;not null;uniqueIndex" json:"review_booking_id"`
	ReviewLearnerID uuid.UUID `gorm:"column:review_learner_id;type:uuid;not null;index" json:"review_learner_id"`
	ReviewTutorID   uuid.UUID `gorm:"column:review_tutor_id;type:uuid;not null;index" json:"review_tutor_id"`

	ReviewRating  int16  `gorm:"column:review_rating;type:smallint;not null" json:"review_rating"`
	ReviewComment string `gorm:"column:review_comment;type:text" json:"review_comment,omitempty"`

	ReviewCreatedAt time.Time `gorm:"column:review_created_at;autoCreateTime" json:"review_created_at"`
}

func (ReviewModel) TableName() string { return "reviews" }

func (r *ReviewModel) BeforeCreate(tx *gorm.DB) error {
	if r.ReviewID == uuid.Nil {
		r.ReviewID = uuid.New()
	}
	return nil
}
