package service

import (
	"log"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	m "tutorhub_backend/internals/features/notifications/model"
)

// Notify menulis satu notifikasi untuk user. Gagal insert tidak boleh
// menggagalkan operasi utama: error cuma dicatat ke log.
func Notify(db *gorm.DB, userID uuid.UUID, typ, title, body string, payload map[string]interface{}) {
	row := m.NotificationModel{
		NotificationUserID: userID,
		NotificationType:   typ,
		NotificationTitle:  title,
		NotificationBody:   body,
	}
	if len(payload) > 0 {
		if b, err := sonic.Marshal(payload); err == nil {
			row.NotificationPayload = datatypes.JSON(b)
		}
	}
	if err := db.Create(&row).Error; err != nil {
		log.Printf("[ERROR] gagal menulis notifikasi user=%s type=%s: %v", userID, typ, err)
	}
}
