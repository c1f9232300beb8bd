package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	walletCtl "tutorhub_backend/internals/features/payment/wallet/controller"
	"tutorhub_backend/internals/middlewares"
)

func WalletLearnerRoutes(r fiber.Router, db *gorm.DB) {
	ctl := walletCtl.NewWalletController(db)

	w := r.Group("/wallet")
	w.Get("/", ctl.GetWallet)                   // GET  /api/u/wallet
	w.Get("/transactions", ctl.ListTransactions) // GET  /api/u/wallet/transactions
	w.Post("/topup", middlewares.PaymentRateLimiter(), ctl.Topup) // POST /api/u/wallet/topup
}

func WalletTutorRoutes(r fiber.Router, db *gorm.DB) {
	ctl := walletCtl.NewWalletController(db)

	w := r.Group("/wallet")
	w.Get("/", ctl.GetWallet)                    // GET  /api/t/wallet
	w.Get("/transactions", ctl.ListTransactions) // GET  /api/t/wallet/transactions
	w.Post("/withdraw", middlewares.PaymentRateLimiter(), ctl.Withdraw) // POST /api/t/wallet/withdraw
}

func WalletPublicRoutes(r fiber.Router, db *gorm.DB) {
	ctl := walletCtl.NewWalletController(db)

	// Callback dari Midtrans, tanpa auth (signature diverifikasi di handler).
	r.Post("/payment/webhook", ctl.MidtransWebhook)
}
