package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	availCtl "tutorhub_backend/internals/features/scheduling/availability/controller"
)

// Rute tutor: kelola slot milik sendiri.
func AvailabilityTutorRoutes(r fiber.Router, db *gorm.DB) {
	ctl := availCtl.NewAvailabilityController(db)

	av := r.Group("/availability")
	av.Post("/", ctl.Add)          // POST   /api/t/availability
	av.Delete("/:id", ctl.Remove)  // DELETE /api/t/availability/:id
}

// Rute publik: learner melihat jadwal kosong tutor.
func AvailabilityPublicRoutes(r fiber.Router, db *gorm.DB) {
	ctl := availCtl.NewAvailabilityController(db)

	av := r.Group("/availability")
	av.Get("/", ctl.ListWeek) // GET /api/public/availability?tutor_id=&week_start=
}
