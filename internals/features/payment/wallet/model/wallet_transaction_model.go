package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TxTypeTopup          = "topup"
	TxTypeWithdrawal     = "withdrawal"
	TxTypeDepositHold    = "deposit_hold"
	TxTypeDepositRefund  = "deposit_refund"
	TxTypeEscrowRelease  = "escrow_release"
	TxTypeMonthlyPayment = "monthly_payment"

	TxStatusPending   = "pending"
	TxStatusSettled   = "settled"
	TxStatusExpired   = "expired"
	TxStatusCancelled = "cancelled"
)

// Satu baris ledger per mutasi saldo. OrderID unik dipakai sebagai
// idempotency key untuk top-up (Midtrans) dan withdrawal.
type WalletTransactionModel struct {
	WalletTransactionID uuid.UUID `gorm:"column:wallet_transaction_id;type:uuid;primaryKey" json:"wallet_transaction_id"`

	WalletTransactionWalletID uuid.UUID `gorm:"column:wallet_transaction_wallet_id;type:uuid;not null;index" json:"wallet_transaction_wallet_id"`

	WalletTransactionType   string `gorm:"column:wallet_transaction_type;type:varchar(20);not null" json:"wallet_transaction_type"`
	WalletTransactionStatus string `gorm:"column:wallet_transaction_status;type:varchar(20);not null;default:'settled'" json:"wallet_transaction_status"`

	WalletTransactionAmount int64 `gorm:"column:wallet_transaction_amount;not null" json:"wallet_transaction_amount"`
	WalletTransactionFee    int64 `gorm:"column:wallet_transaction_fee;not null;default:0" json:"wallet_transaction_fee"`

	WalletTransactionOrderID *string `gorm:"column:wallet_transaction_order_id;type:varchar(64);uniqueIndex" json:"wallet_transaction_order_id,omitempty"`

	// Referensi booking untuk entry escrow/monthly
	WalletTransactionBookingID *uuid.UUID `gorm:"column:wallet_transaction_booking_id;type:uuid;index" json:"wallet_transaction_booking_id,omitempty"`

	// Metadata bank untuk withdrawal
	WalletTransactionBankName          *string `gorm:"column:wallet_transaction_bank_name;type:varchar(100)" json:"wallet_transaction_bank_name,omitempty"`
	WalletTransactionBankAccountNumber *string `gorm:"column:wallet_transaction_bank_account_number;type:varchar(50)" json:"wallet_transaction_bank_account_number,omitempty"`
	WalletTransactionBankAccountHolder *string `gorm:"column:wallet_transaction_bank_account_holder;type:varchar(100)" json:"wallet_transaction_bank_account_holder,omitempty"`

	WalletTransactionCreatedAt time.Time  `gorm:"column:wallet_transaction_created_at;autoCreateTime" json:"wallet_transaction_created_at"`
	WalletTransactionSettledAt *time.Time `gorm:"column:wallet_transaction_settled_at" json:"wallet_transaction_settled_at,omitempty"`
}

func (WalletTransactionModel) TableName() string { return "wallet_transactions" }

func (t *WalletTransactionModel) BeforeCreate(tx *gorm.DB) error {
	if t.WalletTransactionID == uuid.Nil {
		t.WalletTransactionID = uuid.New()
	}
	return nil
}
