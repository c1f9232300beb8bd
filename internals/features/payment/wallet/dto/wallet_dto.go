package dto

import (
	"time"

	"github.com/google/uuid"

	m "tutorhub_backend/internals/features/payment/wallet/model"
)

/* =========================
   Requests
   ========================= */

type TopupRequest struct {
	Amount int64  `json:"amount" validate:"required,min=10000"`
	Name   string `json:"name" validate:"required,max=100"`
	Email  string `json:"email" validate:"required,email"`
}

type WithdrawRequest struct {
	Amount            int64  `json:"amount" validate:"required,min=1"`
	BankName          string `json:"bank_name" validate:"required,max=100"`
	BankAccountNumber string `json:"bank_account_number" validate:"required,max=50"`
	BankAccountHolder string `json:"bank_account_holder" validate:"required,max=100"`
}

// Payload notifikasi Midtrans; field lain aman diabaikan.
type MidtransNotif struct {
	TransactionTime   string `json:"transaction_time"`
	TransactionStatus string `json:"transaction_status"` // capture, settlement, pending, deny, cancel, expire
	StatusCode        string `json:"status_code"`
	SignatureKey      string `json:"signature_key"`
	OrderID           string `json:"order_id"`
	GrossAmount       string `json:"gross_amount"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"`
	TransactionID     string `json:"transaction_id"`
	SettlementTime    string `json:"settlement_time"`
}

/* =========================
   Responses
   ========================= */

type WalletResponse struct {
	WalletID uuid.UUID `json:"wallet_id"`
	UserID   uuid.UUID `json:"user_id"`
	Balance  int64     `json:"balance"`
}

func FromWalletModel(w *m.WalletModel) WalletResponse {
	return WalletResponse{
		WalletID: w.WalletID,
		UserID:   w.WalletUserID,
		Balance:  w.WalletBalance,
	}
}

type TransactionResponse struct {
	WalletTransactionID uuid.UUID  `json:"wallet_transaction_id"`
	Type                string     `json:"type"`
	Status              string     `json:"status"`
	Amount              int64      `json:"amount"`
	Fee                 int64      `json:"fee"`
	OrderID             *string    `json:"order_id,omitempty"`
	BookingID           *uuid.UUID `json:"booking_id,omitempty"`
	BankName            *string    `json:"bank_name,omitempty"`
	BankAccountNumber   *string    `json:"bank_account_number,omitempty"`
	BankAccountHolder   *string    `json:"bank_account_holder,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	SettledAt           *time.Time `json:"settled_at,omitempty"`
}

func FromTransactionModel(t *m.WalletTransactionModel) TransactionResponse {
	return TransactionResponse{
		WalletTransactionID: t.WalletTransactionID,
		Type:                t.WalletTransactionType,
		Status:              t.WalletTransactionStatus,
		Amount:              t.WalletTransactionAmount,
		Fee:                 t.WalletTransactionFee,
		OrderID:             t.WalletTransactionOrderID,
		BookingID:           t.WalletTransactionBookingID,
		BankName:            t.WalletTransactionBankName,
		BankAccountNumber:   t.WalletTransactionBankAccountNumber,
		BankAccountHolder:   t.WalletTransactionBankAccountHolder,
		CreatedAt:           t.WalletTransactionCreatedAt,
		SettledAt:           t.WalletTransactionSettledAt,
	}
}

func FromTransactionModels(rows []m.WalletTransactionModel) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromTransactionModel(&rows[i]))
	}
	return out
}
