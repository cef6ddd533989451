package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a platform member
type User struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	Username       string  `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Phone          string  `gorm:"uniqueIndex;size:30;not null" json:"phone"`
	Email          string  `gorm:"size:100" json:"email,omitempty"`
	PasswordHash   string  `gorm:"size:100;not null" json:"-"`
	Country        string  `gorm:"size:50" json:"country,omitempty"`
	ReferralCode   string  `gorm:"uniqueIndex;size:50;not null" json:"referral_code"`
	ReferredByCode *string `gorm:"size:50;index" json:"referred_by_code,omitempty"`

	Balance             decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"balance"`
	WithdrawableBalance decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"withdrawable_balance"`
	YoutubeBalance      decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"youtube_balance"`
	TiktokBalance       decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"tiktok_balance"`
	WelcomeBonus        decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"welcome_bonus"`
	TotalWithdrawals    decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"total_withdrawals"`
	AffiliationFee      decimal.Decimal `gorm:"type:decimal(15,2);default:4000" json:"affiliation_fee"`

	AccountActive bool       `gorm:"default:false;index" json:"account_active"`
	ActivatedAt   *time.Time `json:"activated_at,omitempty"`
	PaymentMethod string     `gorm:"size:50" json:"payment_method,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}
