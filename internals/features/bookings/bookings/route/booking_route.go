package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	bookingCtl "tutorhub_backend/internals/features/bookings/bookings/controller"
)

func BookingLearnerRoutes(r fiber.Router, db *gorm.DB) {
	ctl := bookingCtl.NewBookingController(db)

	b := r.Group("/bookings")
	b.Post("/", ctl.Create)                  // POST /api/u/bookings
	b.Get("/", ctl.ListMine)                 // GET  /api/u/bookings
	b.Post("/:id/cancel", ctl.CancelByLearner) // POST /api/u/bookings/:id/cancel
	b.Post("/:id/pay-monthly", ctl.PayMonthly) // POST /api/u/bookings/:id/pay-monthly
	b.Post("/:id/report", ctl.Report)          // POST /api/u/bookings/:id/report
}

func BookingTutorRoutes(r fiber.Router, db *gorm.DB) {
	ctl := bookingCtl.NewBookingController(db)

	b := r.Group("/bookings")
	b.Get("/", ctl.ListForTutor)             // GET  /api/t/bookings
	b.Post("/:id/respond", ctl.Respond)      // POST /api/t/bookings/:id/respond
	b.Post("/:id/cancel", ctl.CancelByTutor) // POST /api/t/bookings/:id/cancel
	b.Post("/:id/finish", ctl.Finish)        // POST /api/t/bookings/:id/finish
}
