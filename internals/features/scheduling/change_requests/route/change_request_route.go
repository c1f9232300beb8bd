package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	crCtl "tutorhub_backend/internals/features/scheduling/change_requests/controller"
)

func ChangeRequestLearnerRoutes(r fiber.Router, db *gorm.DB) {
	ctl := crCtl.NewChangeRequestController(db)

	cr := r.Group("/change-requests")
	cr.Post("/", ctl.Create)   // POST /api/u/change-requests
	cr.Get("/", ctl.ListMine)  // GET  /api/u/change-requests
}

func ChangeRequestTutorRoutes(r fiber.Router, db *gorm.DB) {
	ctl := crCtl.NewChangeRequestController(db)

	cr := r.Group("/change-requests")
	cr.Get("/", ctl.ListForTutor)        // GET  /api/t/change-requests
	cr.Post("/:id/accept", ctl.Accept)   // POST /api/t/change-requests/:id/accept
	cr.Post("/:id/reject", ctl.Reject)   // POST /api/t/change-requests/:id/reject
}
