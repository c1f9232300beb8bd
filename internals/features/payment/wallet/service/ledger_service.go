package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	m "tutorhub_backend/internals/features/payment/wallet/model"
)

const (
	// Withdrawal: minimal 100.000, fee flat 15% (floor).
	MinWithdrawalAmount int64 = 100_000
	WithdrawalFeePct    int64 = 15
)

var (
	ErrInsufficientBalance = errors.New("saldo tidak mencukupi")
	ErrAmountNotPositive   = errors.New("amount harus lebih dari 0")
	// Versi wallet berubah di antara baca dan tulis; aman di-retry.
	ErrWalletConflict = errors.New("wallet sedang dimutasi proses lain, coba lagi")
)

func WithdrawalFee(amount int64) int64 {
	return amount * WithdrawalFeePct / 100
}

// GetOrCreateWallet: wallet dibuat lazy saat pertama kali disentuh.
func GetOrCreateWallet(tx *gorm.DB, userID uuid.UUID) (*m.WalletModel, error) {
	var w m.WalletModel
	err := tx.Where("wallet_user_id = ?", userID).First(&w).Error
	if err == nil {
		return &w, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	w = m.WalletModel{WalletUserID: userID}
	if cerr := tx.Create(&w).Error; cerr != nil {
		return nil, cerr
	}
	return &w, nil
}

// Entry: parameter baris ledger yang menyertai mutasi saldo.
type Entry struct {
	Type      string
	Fee       int64
	OrderID   *string
	BookingID *uuid.UUID
	Status    string // default "settled"
}

// Credit menambah saldo user + menulis baris ledger, dalam transaksi pemanggil.
func Credit(tx *gorm.DB, userID uuid.UUID, amount int64, e Entry) (*m.WalletTransactionModel, error) {
	if amount <= 0 {
		return nil, ErrAmountNotPositive
	}
	w, err := GetOrCreateWallet(tx, userID)
	if err != nil {
		return nil, err
	}

	res := tx.Model(&m.WalletModel{}).
		Where("wallet_id = ? AND wallet_version = ?", w.WalletID, w.WalletVersion).
		Updates(map[string]interface{}{
			"wallet_balance": gorm.Expr("wallet_balance + ?", amount),
			"wallet_version": gorm.Expr("wallet_version + 1"),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrWalletConflict
	}

	return writeEntry(tx, w.WalletID, amount, e)
}

// Debit mengurangi saldo; gagal kalau saldo kurang.
func Debit(tx *gorm.DB, userID uuid.UUID, amount int64, e Entry) (*m.WalletTransactionModel, error) {
	if amount <= 0 {
		return nil, ErrAmountNotPositive
	}
	w, err := GetOrCreateWallet(tx, userID)
	if err != nil {
		return nil, err
	}
	if w.WalletBalance < amount {
		return nil, ErrInsufficientBalance
	}

	res := tx.Model(&m.WalletModel{}).
		Where("wallet_id = ? AND wallet_version = ? AND wallet_balance >= ?", w.WalletID, w.WalletVersion, amount).
		Updates(map[string]interface{}{
			"wallet_balance": gorm.Expr("wallet_balance - ?", amount),
			"wallet_version": gorm.Expr("wallet_version + 1"),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// versi berubah di tengah jalan atau saldo keburu berkurang
		return nil, ErrInsufficientBalance
	}

	return writeEntry(tx, w.WalletID, -amount, e)
}

func writeEntry(tx *gorm.DB, walletID uuid.UUID, signedAmount int64, e Entry) (*m.WalletTransactionModel, error) {
	status := e.Status
	if status == "" {
		status = m.TxStatusSettled
	}
	now := time.Now()
	row := m.WalletTransactionModel{
		WalletTransactionWalletID:  walletID,
		WalletTransactionType:      e.Type,
		WalletTransactionStatus:    status,
		WalletTransactionAmount:    signedAmount,
		WalletTransactionFee:       e.Fee,
		WalletTransactionOrderID:   e.OrderID,
		WalletTransactionBookingID: e.BookingID,
	}
	if status == m.TxStatusSettled {
		row.WalletTransactionSettledAt = &now
	}
	if err := tx.Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}
