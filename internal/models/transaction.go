package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a balance mutation in the ledger
type Transaction struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	User        *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Type        string          `gorm:"size:50;not null;index" json:"type"` // referral_commission, video_credit, welcome_bonus, withdrawal, withdrawal_refund
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Description string          `gorm:"type:text" json:"description"`
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for Transaction model
func (Transaction) TableName() string {
	return "transactions"
}
