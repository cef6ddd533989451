package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Withdrawal statuses
const (
	WithdrawalPending   = "pending"
	WithdrawalConfirmed = "confirmed"
	WithdrawalCompleted = "completed"
	WithdrawalRejected  = "rejected"
)

// Withdrawal balance sources
const (
	SourceMain    = "main"
	SourceYoutube = "youtube"
	SourceTiktok  = "tiktok"
)

// Withdrawal is a mobile-money cash-out request
type Withdrawal struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Reference   string          `gorm:"uniqueIndex;size:40;not null" json:"reference"`
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	User        *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Method      string          `gorm:"size:50;not null" json:"method"` // orange_money, mtn_momo, ...
	Phone       string          `gorm:"size:30;not null" json:"phone"`
	Source      string          `gorm:"size:20;not null" json:"source"` // main, youtube, tiktok
	Status      string          `gorm:"size:20;default:pending;index" json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	ProcessedAt *time.Time      `json:"processed_at,omitempty"`
}

func (Withdrawal) TableName() string {
	return "withdrawals"
}
