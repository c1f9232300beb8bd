package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ChangeRequestStatusPending  = "pending"
	ChangeRequestStatusApproved = "approved"
	ChangeRequestStatusRejected = "rejected"
)

// Usulan pindah jadwal untuk tepat satu ScheduleSlot.
// pending → approved | rejected, terminal dua-duanya.
type ChangeRequestModel struct {
	ChangeRequestID uuid.UUID `gorm:"column:change_request_id;type:uuid;primaryKey" json:"change_request_id"`

	ChangeRequestScheduleID uuid.UUID `gorm:"column:change_request_schedule_id;type:uuid;not null;index" json:"change_request_schedule_id"`
	ChangeRequestLearnerID  uuid.UUID `gorm:"column:change_request_learner_id;type:uuid;not null;index" json:"change_request_learner_id"`

	ChangeRequestNewDate time.Time `gorm:"column:change_request_new_date;type:date;not null" json:"change_request_new_date"`
	ChangeRequestNewBand int16     `gorm:"column:change_request_new_band;type:smallint;not null" json:"change_request_new_band"`

	ChangeRequestReason string `gorm:"column:change_request_reason;type:text;not null" json:"change_request_reason"`

	ChangeRequestStatus     string     `gorm:"column:change_request_status;type:varchar(20);not null;default:'pending';index" json:"change_request_status"`
	ChangeRequestResolvedAt *time.Time `gorm:"column:change_request_resolved_at" json:"change_request_resolved_at,omitempty"`

	ChangeRequestCreatedAt time.Time `gorm:"column:change_request_created_at;autoCreateTime" json:"change_request_created_at"`
}

func (ChangeRequestModel) TableName() string { return "change_requests" }

func (r *ChangeRequestModel) BeforeCreate(tx *gorm.DB) error {
	if r.ChangeRequestID == uuid.Nil {
		r.ChangeRequestID = uuid.New()
	}
	return nil
}
