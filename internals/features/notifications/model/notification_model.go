package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	NotificationTypeBooking       = "booking"
	NotificationTypeSchedule      = "schedule"
	NotificationTypeChangeRequest = "change_request"
	NotificationTypeGrading       = "grading"
	NotificationTypePayment       = "payment"
)

// Notifikasi persisted; delivery real-time bukan urusan service ini.
type NotificationModel struct {
	NotificationID uuid.UUID `gorm:"column:notification_id;type:uuid;primaryKey" json:"notification_id"`

	NotificationUserID uuid.UUID `gorm:"column:notification_user_id;type:uuid;not null;index" json:"notification_user_id"`

	NotificationType  string `gorm:"column:notification_type;type:varchar(30);not null" json:"notification_type"`
	NotificationTitle string `gorm:"column:notification_title;type:varchar(150);not null" json:"notification_title"`
	NotificationBody  string `gorm:"column:notification_body;type:text;not null" json:"notification_body"`

	NotificationPayload datatypes.JSON `gorm:"column:notification_payload;type:jsonb" json:"notification_payload,omitempty"`

	NotificationRead bool `gorm:"column:notification_read;not null;default:false" json:"notification_read"`

	NotificationCreatedAt time.Time `gorm:"column:notification_created_at;autoCreateTime" json:"notification_created_at"`
}

func (NotificationModel) TableName() string { return "notifications" }

func (n *NotificationModel) BeforeCreate(tx *gorm.DB) error {
	if n.NotificationID == uuid.Nil {
		n.NotificationID = uuid.New()
	}
	return nil
}
