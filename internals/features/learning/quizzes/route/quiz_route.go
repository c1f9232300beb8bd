package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	quizCtl "tutorhub_backend/internals/features/learning/quizzes/controller"
)

func QuizTutorRoutes(r fiber.Router, db *gorm.DB) {
	ctl := quizCtl.NewQuizController(db)

	storage := r.Group("/quiz-storages")
	storage.Post("/", ctl.CreateStorage)      // POST   /api/t/quiz-storages
	storage.Get("/", ctl.ListStorages)        // GET    /api/t/quiz-storages
	storage.Delete("/:id", ctl.DeleteStorage) // DELETE /api/t/quiz-storages/:id

	quiz := r.Group("/quizzes")
	quiz.Post("/", ctl.Create)                        // POST /api/t/quizzes
	quiz.Get("/", ctl.ListForTutor)                   // GET  /api/t/quizzes
	quiz.Get("/:id/attempts", ctl.ListAttemptsForTutor) // GET /api/t/quizzes/:id/attempts
}

func QuizLearnerRoutes(r fiber.Router, db *gorm.DB) {
	ctl := quizCtl.NewQuizController(db)

	quiz := r.Group("/quizzes")
	quiz.Get("/", ctl.ListForLearner)          // GET  /api/u/quizzes
	quiz.Post("/:id/attempts", ctl.StartAttempt) // POST /api/u/quizzes/:id/attempts

	attempts := r.Group("/quiz-attempts")
	attempts.Post("/:id/submit", ctl.SubmitAttempt) // POST /api/u/quiz-attempts/:id/submit
}
