package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	notifCtl "tutorhub_backend/internals/features/notifications/controller"
)

// Dipasang di /api/u dan /api/t; notifikasi mengikuti user di token.
func NotificationRoutes(r fiber.Router, db *gorm.DB) {
	ctl := notifCtl.NewNotificationController(db)

	n := r.Group("/notifications")
	n.Get("/", ctl.List)                   // GET   .../notifications
	n.Patch("/read-all", ctl.MarkAllRead)  // PATCH .../notifications/read-all
	n.Patch("/:id/read", ctl.MarkRead)     // PATCH .../notifications/:id/read
}
