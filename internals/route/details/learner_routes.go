package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	bookingRoute "tutorhub_backend/internals/features/bookings/bookings/route"
	asgRoute "tutorhub_backend/internals/features/learning/assignments/route"
	quizRoute "tutorhub_backend/internals/features/learning/quizzes/route"
	notifRoute "tutorhub_backend/internals/features/notifications/route"
	walletRoute "tutorhub_backend/internals/features/payment/wallet/route"
	reviewRoute "tutorhub_backend/internals/features/reviews/route"
	crRoute "tutorhub_backend/internals/features/scheduling/change_requests/route"
	slotRoute "tutorhub_backend/internals/features/scheduling/schedule_slots/route"
)

// Semua route di bawah /api/u (learner).
func LearnerRoutes(r fiber.Router, db *gorm.DB) {
	bookingRoute.BookingLearnerRoutes(r, db)
	slotRoute.ScheduleSlotRoutes(r, db)
	crRoute.ChangeRequestLearnerRoutes(r, db)
	quizRoute.QuizLearnerRoutes(r, db)
	asgRoute.AssignmentLearnerRoutes(r, db)
	walletRoute.WalletLearnerRoutes(r, db)
	reviewRoute.ReviewLearnerRoutes(r, db)
	notifRoute.NotificationRoutes(r, db)
}
