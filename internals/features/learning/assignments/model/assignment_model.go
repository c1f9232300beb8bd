package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Instance tugas per booking, hasil fan-out dari template.
type AssignmentModel struct {
	AssignmentID uuid.UUID `gorm:"column:assignment_id;type:uuid;primaryKey" json:"assignment_id"`

	// Satu template hanya boleh sekali per booking (uq_assignment_booking_template).
	AssignmentTemplateID uuid.UUID `gorm:"column:assignment_template_id;type:uuid;not null;uniqueIndex:uq_assignment_booking_template,priority:2" json:"assignment_template_id"`
	AssignmentBookingID  uuid.UUID `gorm:"column:assignment_booking_id;type:uuid;not null;index;uniqueIndex:uq_assignment_booking_template,priority:1" json:"assignment_booking_id"`

	AssignmentTitle       string `gorm:"column:assignment_title;type:varchar(150);not null" json:"assignment_title"`
	AssignmentDescription string `gorm:"column:assignment_description;type:text;not null" json:"assignment_description"`

	AssignmentOpenTime time.Time `gorm:"column:assignment_open_time;not null" json:"assignment_open_time"`
	AssignmentDeadline time.Time `gorm:"column:assignment_deadline;not null" json:"assignment_deadline"`

	AssignmentCreatedAt time.Time `gorm:"column:assignment_created_at;autoCreateTime" json:"assignment_created_at"`
}

func (AssignmentModel) TableName() string { return "assignments" }

func (a *AssignmentModel) BeforeCreate(tx *gorm.DB) error {
	if a.AssignmentID == uuid.Nil {
		a.AssignmentID = uuid.New()
	}
	return nil
}
