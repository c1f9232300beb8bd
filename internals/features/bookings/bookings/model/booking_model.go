package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusApprove   = "approve"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
	BookingStatusRejected  = "rejected"
)

// Booking = kontrak learner-tutor untuk N bulan / M sesi.
// Deposit ditahan (escrow) sampai booking selesai atau dibatalkan.
type BookingModel struct {
	BookingID uuid.UUID `gorm:"column:booking_id;type:uuid;primaryKey" json:"booking_id"`

	BookingLearnerID uuid.UUID `gorm:"column:booking_learner_id;type:uuid;not null;index" json:"booking_learner_id"`
	BookingTutorID   uuid.UUID `gorm:"column:booking_tutor_id;type:uuid;not null;index" json:"booking_tutor_id"`
	BookingSubjectID uuid.UUID `gorm:"column:booking_subject_id;type:uuid;not null" json:"booking_subject_id"`

	BookingNumberOfMonths   int16 `gorm:"column:booking_number_of_months;type:smallint;not null" json:"booking_number_of_months"`
	BookingNumberOfSessions int16 `gorm:"column:booking_number_of_sessions;type:smallint;not null" json:"booking_number_of_sessions"`

	// Nominal dalam satuan mata uang terkecil
	BookingAmount         int64 `gorm:"column:booking_amount;not null" json:"booking_amount"`
	BookingDeposit        int64 `gorm:"column:booking_deposit;not null" json:"booking_deposit"`
	BookingMonthlyPayment int64 `gorm:"column:booking_monthly_payment;not null" json:"booking_monthly_payment"`
	BookingPaidMonths     int16 `gorm:"column:booking_paid_months;type:smallint;not null;default:0" json:"booking_paid_months"`

	// Pola mingguan: availability yang dipilih learner saat request.
	// Dipakai ulang saat approve untuk generate schedule slots.
	BookingAvailabilityIDs pq.StringArray `gorm:"column:booking_availability_ids;type:text[]" json:"booking_availability_ids"`

	BookingStatus       string  `gorm:"column:booking_status;type:varchar(20);not null;default:'pending';index" json:"booking_status"`
	BookingCancelReason *string `gorm:"column:booking_cancel_reason;type:text" json:"booking_cancel_reason,omitempty"`
	BookingReported     bool    `gorm:"column:booking_reported;not null;default:false" json:"booking_reported"`
	BookingReportReason *string `gorm:"column:booking_report_reason;type:text" json:"booking_report_reason,omitempty"`

	// Optimistic lock
	BookingVersion int `gorm:"column:booking_version;not null;default:1" json:"booking_version"`

	BookingCreatedAt time.Time      `gorm:"column:booking_created_at;autoCreateTime" json:"booking_created_at"`
	BookingUpdatedAt *time.Time     `gorm:"column:booking_updated_at;autoUpdateTime" json:"booking_updated_at,omitempty"`
	BookingDeletedAt gorm.DeletedAt `gorm:"column:booking_deleted_at;index" json:"booking_deleted_at,omitempty"`
}

func (BookingModel) TableName() string { return "bookings" }

func (b *BookingModel) BeforeCreate(tx *gorm.DB) error {
	if b.BookingID == uuid.Nil {
		b.BookingID = uuid.New()
	}
	if b.BookingVersion == 0 {
		b.BookingVersion = 1
	}
	return nil
}

// IsTerminal: status yang tidak menerima transisi lagi.
func (b *BookingModel) IsTerminal() bool {
	switch b.BookingStatus {
	case BookingStatusCancelled, BookingStatusCompleted, BookingStatusRejected:
		return true
	}
	return false
}
