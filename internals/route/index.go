package routes

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tutorhub_backend/internals/constants"
	authMiddleware "tutorhub_backend/internals/middlewares/auth"
	routeDetails "tutorhub_backend/internals/route/details"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	// ===================== PUBLIC =====================
	log.Println("[INFO] Setting up PUBLIC group...")
	public := app.Group("/api/public")
	routeDetails.PublicRoutes(public, db)

	// ===================== LEARNER (/api/u) =====================
	log.Println("[INFO] Setting up LEARNER group...")
	learner := app.Group("/api/u",
		authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
			Secret:              os.Getenv("JWT_SECRET"),
			AllowCookieFallback: true,
		}),
	)
	routeDetails.LearnerRoutes(learner, db)

	// ===================== TUTOR (/api/t) =====================
	log.Println("[INFO] Setting up TUTOR group (Auth + RoleCheck)...")
	tutor := app.Group("/api/t",
		authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
			Secret:              os.Getenv("JWT_SECRET"),
			AllowCookieFallback: true,
		}),
		authMiddleware.OnlyRoles(constants.RoleErrorTutor("tutor area"), constants.TutorAndAbove...),
	)
	routeDetails.TutorRoutes(tutor, db)
}
