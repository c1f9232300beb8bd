package database

import (
	"log"

	bookingModel "tutorhub_backend/internals/features/bookings/bookings/model"
	asgModel "tutorhub_backend/internals/features/learning/assignments/model"
	questionModel "tutorhub_backend/internals/features/learning/question_storage/model"
	quizModel "tutorhub_backend/internals/features/learning/quizzes/model"
	notifModel "tutorhub_backend/internals/features/notifications/model"
	walletModel "tutorhub_backend/internals/features/payment/wallet/model"
	reviewModel "tutorhub_backend/internals/features/reviews/model"
	availModel "tutorhub_backend/internals/features/scheduling/availability/model"
	crModel "tutorhub_backend/internals/features/scheduling/change_requests/model"
	slotModel "tutorhub_backend/internals/features/scheduling/schedule_slots/model"
)

// Migrate menjalankan AutoMigrate untuk semua tabel aplikasi.
func Migrate() {
	log.Println("[INFO] Running AutoMigrate...")
	if err := DB.AutoMigrate(
		&availModel.AvailabilityModel{},
		&bookingModel.BookingModel{},
		&slotModel.ScheduleSlotModel{},
		&crModel.ChangeRequestModel{},
		&questionModel.QuestionStorageModel{},
		&quizModel.QuizStorageModel{},
		&quizModel.QuizModel{},
		&quizModel.QuizAttemptModel{},
		&quizModel.AnswerModel{},
		&asgModel.AssignmentTemplateModel{},
		&asgModel.AssignmentModel{},
		&asgModel.AssignmentSubmissionModel{},
		&walletModel.WalletModel{},
		&walletModel.WalletTransactionModel{},
		&reviewModel.ReviewModel{},
		&notifModel.NotificationModel{},
	); err != nil {
		log.Fatalf("❌ AutoMigrate gagal: %v", err)
	}
	log.Println("✅ AutoMigrate selesai.")
}
