package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	reviewCtl "tutorhub_backend/internals/features/reviews/controller"
)

func ReviewLearnerRoutes(r fiber.Router, db *gorm.DB) {
	ctl := reviewCtl.NewReviewController(db)

	rv := r.Group("/reviews")
	rv.Post("/", ctl.Create) // POST /api/u/reviews
}

func ReviewPublicRoutes(r fiber.Router, db *gorm.DB) {
	ctl := reviewCtl.NewReviewController(db)

	tutors := r.Group("/tutors")
	tutors.Get("/:id/reviews", ctl.ListByTutor)   // GET /api/public/tutors/:id/reviews
	tutors.Get("/:id/rating", ctl.RatingSummary)  // GET /api/public/tutors/:id/rating
}
