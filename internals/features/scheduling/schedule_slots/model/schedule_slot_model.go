package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ScheduleSlotStatusPending  = "pending"
	ScheduleSlotStatusApproved = "approved"
	// Booking-nya dibatalkan; sesi tidak lagi bisa diabsen atau dipindah.
	ScheduleSlotStatusCancelled = "cancelled"
)

// Satu ScheduleSlot = satu sesi konkret milik tepat satu booking.
type ScheduleSlotModel struct {
	ScheduleSlotID uuid.UUID `gorm:"column:schedule_slot_id;type:uuid;primaryKey" json:"schedule_slot_id"`

	ScheduleSlotBookingID uuid.UUID `gorm:"column:schedule_slot_booking_id;type:uuid;not null;index" json:"schedule_slot_booking_id"`
	ScheduleSlotLearnerID uuid.UUID `gorm:"column:schedule_slot_learner_id;type:uuid;not null;index" json:"schedule_slot_learner_id"`
	ScheduleSlotTutorID   uuid.UUID `gorm:"column:schedule_slot_tutor_id;type:uuid;not null;index" json:"schedule_slot_tutor_id"`

	ScheduleSlotDate time.Time `gorm:"column:schedule_slot_date;type:date;not null" json:"schedule_slot_date"`
	ScheduleSlotBand int16     `gorm:"column:schedule_slot_band;type:smallint;not null" json:"schedule_slot_band"`

	ScheduleSlotStatus   string `gorm:"column:schedule_slot_status;type:varchar(20);not null;default:'pending'" json:"schedule_slot_status"`
	ScheduleSlotAttended bool   `gorm:"column:schedule_slot_attended;not null;default:false" json:"schedule_slot_attended"`

	// Optimistic lock: setiap write menaikkan version, stale write ditolak.
	ScheduleSlotVersion int `gorm:"column:schedule_slot_version;not null;default:1" json:"schedule_slot_version"`

	ScheduleSlotCreatedAt time.Time  `gorm:"column:schedule_slot_created_at;autoCreateTime" json:"schedule_slot_created_at"`
	ScheduleSlotUpdatedAt *time.Time `gorm:"column:schedule_slot_updated_at;autoUpdateTime" json:"schedule_slot_updated_at,omitempty"`
}

func (ScheduleSlotModel) TableName() string { return "schedule_slots" }

func (s *ScheduleSlotModel) BeforeCreate(tx *gorm.DB) error {
	if s.ScheduleSlotID == uuid.Nil {
		s.ScheduleSlotID = uuid.New()
	}
	if s.ScheduleSlotVersion == 0 {
		s.ScheduleSlotVersion = 1
	}
	return nil
}
