package controller

import (
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tutorhub_backend/internals/configs"
	d "tutorhub_backend/internals/features/payment/wallet/dto"
	m "tutorhub_backend/internals/features/payment/wallet/model"
	svc "tutorhub_backend/internals/features/payment/wallet/service"
	helper "tutorhub_backend/internals/helpers"
)

type WalletController struct {
	DB       *gorm.DB
	Service  *svc.WalletService
	Validate *validator.Validate
}

func NewWalletController(db *gorm.DB) *WalletController {
	return &WalletController{
		DB:       db,
		Service:  svc.NewWalletService(db),
		Validate: validator.New(),
	}
}

/* =========================
   Wallet (learner & tutor)
   ========================= */

// GET /api/u/wallet (juga dipasang di /api/t)
func (ctl *WalletController) GetWallet(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var w *m.WalletModel
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		var terr error
		w, terr = svc.GetOrCreateWallet(tx, userID)
		return terr
	})
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "OK", d.FromWalletModel(w))
}

// GET /api/u/wallet/transactions — riwayat ledger, terbaru dulu
func (ctl *WalletController) ListTransactions(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	p := helper.ParsePagination(c, "created_at", "desc")

	var w m.WalletModel
	if err := ctl.DB.WithContext(c.UserContext()).
		Where("wallet_user_id = ?", userID).First(&w).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Success(c, "OK", []d.TransactionResponse{})
		}
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	q := ctl.DB.WithContext(c.UserContext()).
		Model(&m.WalletTransactionModel{}).
		Where("wallet_transaction_wallet_id = ?", w.WalletID)
	if typ := strings.TrimSpace(c.Query("type")); typ != "" {
		q = q.Where("wallet_transaction_type = ?", typ)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	order, err := p.SafeOrderClause(map[string]string{
		"created_at": "wallet_transaction_created_at",
		"amount":     "wallet_transaction_amount",
	}, "created_at")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, err.Error())
	}

	var rows []m.WalletTransactionModel
	if err := q.Order(order).Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.Success(c, "OK", fiber.Map{
		"transactions": d.FromTransactionModels(rows),
		"pagination":   helper.BuildMeta(total, p),
	})
}

// POST /api/u/wallet/topup
func (ctl *WalletController) Topup(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req d.TopupRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	res, err := ctl.Service.CreateTopup(userID, req.Amount, strings.TrimSpace(req.Name), strings.TrimSpace(req.Email))
	if err != nil {
		return walletError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Order top-up dibuat", res)
}

// POST /api/t/wallet/withdraw
func (ctl *WalletController) Withdraw(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req d.WithdrawRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	row, err := ctl.Service.Withdraw(userID, svc.WithdrawInput{
		Amount:            req.Amount,
		BankName:          strings.TrimSpace(req.BankName),
		BankAccountNumber: strings.TrimSpace(req.BankAccountNumber),
		BankAccountHolder: strings.TrimSpace(req.BankAccountHolder),
	})
	if err != nil {
		return walletError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Withdrawal diproses", d.FromTransactionModel(row))
}

/* =========================
   Webhook (public)
   ========================= */

// POST /api/public/payment/webhook
// Verifikasi signature: SHA512(order_id + status_code + gross_amount + ServerKey)
func (ctl *WalletController) MidtransWebhook(c *fiber.Ctx) error {
	var notif d.MidtransNotif
	if err := c.BodyParser(&notif); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid payload: "+err.Error())
	}

	want := strings.ToLower(notif.SignatureKey)
	raw := notif.OrderID + notif.StatusCode + notif.GrossAmount + configs.MidtransServerKey
	if want == "" || sha512sum(raw) != want {
		return helper.Error(c, fiber.StatusUnauthorized, "invalid signature")
	}

	log.Printf("📄 webhook order=%s status=%s", notif.OrderID, notif.TransactionStatus)

	var err error
	switch notif.TransactionStatus {
	case "capture", "settlement":
		err = ctl.Service.SettleTopup(notif.OrderID, time.Now())
	case "expire":
		err = ctl.Service.ExpireTopup(notif.OrderID, m.TxStatusExpired)
	case "cancel", "deny":
		err = ctl.Service.ExpireTopup(notif.OrderID, m.TxStatusCancelled)
	default:
		log.Printf("[INFO] status %s tidak diproses", notif.TransactionStatus)
	}
	if err != nil {
		if errors.Is(err, svc.ErrOrderNotFound) {
			// Balas 200 supaya Midtrans tidak retry terus untuk order asing.
			return c.JSON(fiber.Map{"status": "ignored", "reason": "order not found"})
		}
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func sha512sum(s string) string {
	sum := sha512.Sum512([]byte(s))
	return hex.EncodeToString(sum[:])
}

func walletError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, svc.ErrInsufficientBalance):
		return helper.Error(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, svc.ErrBelowMinWithdrawal), errors.Is(err, svc.ErrAmountNotPositive):
		return helper.Error(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, svc.ErrOrderNotFound):
		return helper.Error(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, svc.ErrWalletConflict):
		return helper.Error(c, fiber.StatusConflict, err.Error())
	default:
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
}
