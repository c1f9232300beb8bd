package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	qsCtl "tutorhub_backend/internals/features/learning/question_storage/controller"
)

func QuestionStorageTutorRoutes(r fiber.Router, db *gorm.DB) {
	ctl := qsCtl.NewQuestionStorageController(db)

	qs := r.Group("/question-storages")
	qs.Post("/", ctl.Create)      // POST   /api/t/question-storages
	qs.Get("/", ctl.List)         // GET    /api/t/question-storages
	qs.Put("/:id", ctl.Update)    // PUT    /api/t/question-storages/:id
	qs.Delete("/:id", ctl.Delete) // DELETE /api/t/question-storages/:id
}
