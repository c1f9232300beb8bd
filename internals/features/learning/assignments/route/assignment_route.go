package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	asgCtl "tutorhub_backend/internals/features/learning/assignments/controller"
)

func AssignmentTutorRoutes(r fiber.Router, db *gorm.DB) {
	ctl := asgCtl.NewAssignmentController(db)

	tpl := r.Group("/assignment-templates")
	tpl.Post("/", ctl.CreateTemplate) // POST /api/t/assignment-templates
	tpl.Get("/", ctl.ListTemplates)   // GET  /api/t/assignment-templates

	asg := r.Group("/assignments")
	asg.Post("/assign", ctl.AssignMultiple)          // POST /api/t/assignments/assign
	asg.Get("/:id/submissions", ctl.ListSubmissions) // GET  /api/t/assignments/:id/submissions

	sub := r.Group("/submissions")
	sub.Patch("/:id/grade", ctl.Grade) // PATCH /api/t/submissions/:id/grade
}

func AssignmentLearnerRoutes(r fiber.Router, db *gorm.DB) {
	ctl := asgCtl.NewAssignmentController(db)

	asg := r.Group("/assignments")
	asg.Get("/", ctl.ListForLearner)     // GET  /api/u/assignments
	asg.Post("/:id/submit", ctl.Submit)  // POST /api/u/assignments/:id/submit
}
