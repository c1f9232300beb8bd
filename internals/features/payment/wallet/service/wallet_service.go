package service

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	notifModel "tutorhub_backend/internals/features/notifications/model"
	notifService "tutorhub_backend/internals/features/notifications/service"
	m "tutorhub_backend/internals/features/payment/wallet/model"
)

var (
	ErrBelowMinWithdrawal = errors.New("withdrawal minimal 100000")
	ErrOrderNotFound      = errors.New("order tidak ditemukan")
)

type WalletService struct {
	DB *gorm.DB
}

func NewWalletService(db *gorm.DB) *WalletService {
	return &WalletService{DB: db}
}

/* =========================
   Top-up via Midtrans
   ========================= */

type TopupResult struct {
	OrderID     string `json:"order_id"`
	SnapToken   string `json:"snap_token"`
	RedirectURL string `json:"redirect_url"`
	Amount      int64  `json:"amount"`
}

// CreateTopup menulis transaksi pending + minta Snap token.
// Saldo baru bertambah saat webhook settlement masuk.
func (s *WalletService) CreateTopup(userID uuid.UUID, amount int64, name, email string) (*TopupResult, error) {
	if amount <= 0 {
		return nil, ErrAmountNotPositive
	}

	orderID := "TOPUP-" + uuid.New().String()
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		w, err := GetOrCreateWallet(tx, userID)
		if err != nil {
			return err
		}
		row := m.WalletTransactionModel{
			WalletTransactionWalletID: w.WalletID,
			WalletTransactionType:     m.TxTypeTopup,
			WalletTransactionStatus:   m.TxStatusPending,
			WalletTransactionAmount:   amount,
			WalletTransactionOrderID:  &orderID,
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		return nil, err
	}

	token, redirectURL, err := GenerateTopupSnapToken(orderID, amount, name, email)
	if err != nil {
		// Order pending dibiarkan; akan expired lewat webhook Midtrans.
		return nil, err
	}
	return &TopupResult{
		OrderID:     orderID,
		SnapToken:   token,
		RedirectURL: redirectURL,
		Amount:      amount,
	}, nil
}

// SettleTopup dipakai webhook: pending → settled + kredit saldo.
// Idempotent: status-guarded, notifikasi ganda tidak terjadi.
func (s *WalletService) SettleTopup(orderID string, now time.Time) error {
	var userID uuid.UUID
	var amount int64
	settled := false

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var row m.WalletTransactionModel
		if err := tx.Where("wallet_transaction_order_id = ?", orderID).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if row.WalletTransactionStatus != m.TxStatusPending {
			log.Printf("[INFO] webhook ulang untuk order %s (status %s), diabaikan", orderID, row.WalletTransactionStatus)
			return nil
		}

		res := tx.Model(&m.WalletTransactionModel{}).
			Where("wallet_transaction_id = ? AND wallet_transaction_status = ?", row.WalletTransactionID, m.TxStatusPending).
			Updates(map[string]interface{}{
				"wallet_transaction_status":     m.TxStatusSettled,
				"wallet_transaction_settled_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		if err := tx.Model(&m.WalletModel{}).
			Where("wallet_id = ?", row.WalletTransactionWalletID).
			Updates(map[string]interface{}{
				"wallet_balance": gorm.Expr("wallet_balance + ?", row.WalletTransactionAmount),
				"wallet_version": gorm.Expr("wallet_version + 1"),
			}).Error; err != nil {
			return err
		}

		var w m.WalletModel
		if err := tx.Where("wallet_id = ?", row.WalletTransactionWalletID).First(&w).Error; err != nil {
			return err
		}
		userID = w.WalletUserID
		amount = row.WalletTransactionAmount
		settled = true
		return nil
	})
	if err != nil {
		return err
	}

	if settled {
		notifService.Notify(s.DB, userID, notifModel.NotificationTypePayment,
			"Top-up berhasil",
			"Saldo kamu bertambah.",
			map[string]interface{}{"order_id": orderID, "amount": amount})
	}
	return nil
}

// ExpireTopup: pending → expired/cancelled, saldo tidak disentuh.
func (s *WalletService) ExpireTopup(orderID, toStatus string) error {
	res := s.DB.Model(&m.WalletTransactionModel{}).
		Where("wallet_transaction_order_id = ? AND wallet_transaction_status = ?", orderID, m.TxStatusPending).
		Update("wallet_transaction_status", toStatus)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		log.Printf("[INFO] expire webhook untuk order %s tidak mengubah apa-apa", orderID)
	}
	return nil
}

/* =========================
   Withdrawal
   ========================= */

type WithdrawInput struct {
	Amount            int64
	BankName          string
	BankAccountNumber string
	BankAccountHolder string
}

// Withdraw: minimal dicek server-side, fee floor 15%, saldo langsung
// didebit penuh (fee termasuk).
func (s *WalletService) Withdraw(userID uuid.UUID, in WithdrawInput) (*m.WalletTransactionModel, error) {
	if in.Amount < MinWithdrawalAmount {
		return nil, ErrBelowMinWithdrawal
	}
	fee := WithdrawalFee(in.Amount)

	orderID := "WD-" + uuid.New().String()
	var out *m.WalletTransactionModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		row, err := Debit(tx, userID, in.Amount, Entry{
			Type:    m.TxTypeWithdrawal,
			Fee:     fee,
			OrderID: &orderID,
		})
		if err != nil {
			return err
		}
		row.WalletTransactionBankName = &in.BankName
		row.WalletTransactionBankAccountNumber = &in.BankAccountNumber
		row.WalletTransactionBankAccountHolder = &in.BankAccountHolder
		if err := tx.Save(row).Error; err != nil {
			return err
		}
		out = row
		return nil
	})
	if err != nil {
		return nil, err
	}

	notifService.Notify(s.DB, userID, notifModel.NotificationTypePayment,
		"Withdrawal diproses",
		"Dana akan ditransfer ke rekening kamu setelah dipotong fee.",
		map[string]interface{}{"order_id": orderID, "amount": in.Amount, "fee": fee})

	return out, nil
}
