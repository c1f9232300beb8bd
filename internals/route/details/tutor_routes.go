package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	bookingRoute "tutorhub_backend/internals/features/bookings/bookings/route"
	asgRoute "tutorhub_backend/internals/features/learning/assignments/route"
	questionRoute "tutorhub_backend/internals/features/learning/question_storage/route"
	quizRoute "tutorhub_backend/internals/features/learning/quizzes/route"
	notifRoute "tutorhub_backend/internals/features/notifications/route"
	walletRoute "tutorhub_backend/internals/features/payment/wallet/route"
	availRoute "tutorhub_backend/internals/features/scheduling/availability/route"
	crRoute "tutorhub_backend/internals/features/scheduling/change_requests/route"
	slotRoute "tutorhub_backend/internals/features/scheduling/schedule_slots/route"
)

// Semua route di bawah /api/t (tutor only).
func TutorRoutes(r fiber.Router, db *gorm.DB) {
	availRoute.AvailabilityTutorRoutes(r, db)
	bookingRoute.BookingTutorRoutes(r, db)
	slotRoute.ScheduleSlotRoutes(r, db)
	crRoute.ChangeRequestTutorRoutes(r, db)
	questionRoute.QuestionStorageTutorRoutes(r, db)
	quizRoute.QuizTutorRoutes(r, db)
	asgRoute.AssignmentTutorRoutes(r, db)
	walletRoute.WalletTutorRoutes(r, db)
	notifRoute.NotificationRoutes(r, db)
}
