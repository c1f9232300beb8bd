package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	walletRoute "tutorhub_backend/internals/features/payment/wallet/route"
	reviewRoute "tutorhub_backend/internals/features/reviews/route"
	availRoute "tutorhub_backend/internals/features/scheduling/availability/route"
)

// Semua route di bawah /api/public (tanpa auth).
func PublicRoutes(r fiber.Router, db *gorm.DB) {
	availRoute.AvailabilityPublicRoutes(r, db)
	reviewRoute.ReviewPublicRoutes(r, db)
	walletRoute.WalletPublicRoutes(r, db)
}
