package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WalletModel struct {
	WalletID     uuid.UUID `gorm:"column:wallet_id;type:uuid;primaryKey" json:"wallet_id"`
	WalletUserID uuid.UUID `gorm:"column:wallet_user_id;type:uuid;not null;uniqueIndex" json:"wallet_user_id"`

	// Saldo dalam satuan mata uang terkecil, tidak boleh negatif.
	WalletBalance int64 `gorm:"column:wallet_balance;not null;default:0" json:"wallet_balance"`

	WalletVersion int `gorm:"column:wallet_version;not null;default:1" json:"wallet_version"`

	WalletCreatedAt time.Time  `gorm:"column:wallet_created_at;autoCreateTime" json:"wallet_created_at"`
	WalletUpdatedAt *time.Time `gorm:"column:wallet_updated_at;autoUpdateTime" json:"wallet_updated_at,omitempty"`
}

func (WalletModel) TableName() string { return "wallets" }

func (w *WalletModel) BeforeCreate(tx *gorm.DB) error {
	if w.WalletID == uuid.Nil {
		w.WalletID = uuid.New()
	}
	if w.WalletVersion == 0 {
		w.WalletVersion = 1
	}
	return nil
}
