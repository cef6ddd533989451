package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Referral records a commission paid to a referrer when a referred user
// activated their account. One row per (referrer, referred, level); rows
// are written once and never mutated.
type Referral struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	ReferrerID uint            `gorm:"not null;index" json:"referrer_id"`
	Referrer   *User           `gorm:"foreignKey:ReferrerID" json:"referrer,omitempty"`
	ReferredID uint            `gorm:"not null;index" json:"referred_id"`
	Referred   *User           `gorm:"foreignKey:ReferredID" json:"referred,omitempty"`
	Level      int             `gorm:"not null" json:"level"` // 1, 2 or 3
	Commission decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"commission"`
	Paid       bool            `gorm:"default:true" json:"paid"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (Referral) TableName() string {
	return "referrals"
}
