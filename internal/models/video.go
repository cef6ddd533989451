package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Video channels
const (
	ChannelYoutube = "youtube"
	ChannelTiktok  = "tiktok"
)

// Video is an embeddable video users watch to earn credits
type Video struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Channel      string          `gorm:"size:20;not null;index" json:"channel"` // youtube, tiktok
	ExternalID   string          `gorm:"size:100;not null" json:"external_id"`
	EmbedCode    string          `gorm:"type:text" json:"embed_code,omitempty"`
	Title        string          `gorm:"size:200" json:"title,omitempty"`
	WatchSeconds int             `gorm:"default:60" json:"watch_seconds"`
	Reward       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"reward"`
	Active       bool            `gorm:"default:true" json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (Video) TableName() string {
	return "videos"
}

// WatchSession is the audit record of one claimed video watch
type WatchSession struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	UserID     uint            `gorm:"not null;index" json:"user_id"`
	User       *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	VideoID    uint            `gorm:"not null;index" json:"video_id"`
	Video      *Video          `gorm:"foreignKey:VideoID" json:"video,omitempty"`
	Channel    string          `gorm:"size:20;not null" json:"channel"`
	Reward     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"reward"`
	CreditedAt time.Time       `gorm:"autoCreateTime" json:"credited_at"`
}

func (WatchSession) TableName() string {
	return "watch_sessions"
}
