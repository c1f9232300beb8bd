package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	slotCtl "tutorhub_backend/internals/features/scheduling/schedule_slots/controller"
)

// Dipasang di group learner maupun tutor; controller sendiri yang
// membatasi ke peserta sesi.
func ScheduleSlotRoutes(r fiber.Router, db *gorm.DB) {
	ctl := slotCtl.NewScheduleSlotController(db)

	sc := r.Group("/schedules")
	sc.Get("/", ctl.List)                          // GET   /schedules
	sc.Patch("/:id/attendance", ctl.MarkAttendance) // PATCH /schedules/:id/attendance
}
