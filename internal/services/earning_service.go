package services

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/Apashash/Qashgo-new/internal/commission"
	"github.com/Apashash/Qashgo-new/internal/models"
)

// EarningService handles the video catalog and watch-credit payouts
type EarningService struct {
	db *gorm.DB
}

// NewEarningService creates a new EarningService
func NewEarningService(db *gorm.DB) *EarningService {
	return &EarningService{db: db}
}

// ListVideos returns the active videos for a channel
func (s *EarningService) ListVideos(channel string) ([]models.Video, error) {
	if channel != models.ChannelYoutube && channel != models.ChannelTiktok {
		return nil, fmt.Errorf("unknown channel %q", channel)
	}

	var videos []models.Video
	if err := s.db.Where("channel = ? AND active = ?", channel, true).
		Find(&videos).Error; err != nil {
		return nil, err
	}
	return videos, nil
}

// ClaimWatch credits a user for a completed video watch. The channel
// balance and total balance are always credited; the withdrawable balance
// is credited only once the channel balance has reached the withdrawal
// threshold, matching the per-channel cash-out rule.
func (s *EarningService) ClaimWatch(userID, videoID uint) (*models.WatchSession, error) {
	var video models.Video
	if err := s.db.First(&video, videoID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("video not found")
		}
		return nil, err
	}
	if !video.Active {
		return nil, fmt.Errorf("video is not active")
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}
	if !user.AccountActive {
		return nil, fmt.Errorf("account is not active")
	}

	channelColumn := "youtube_balance"
	if video.Channel == models.ChannelTiktok {
		channelColumn = "tiktok_balance"
	}

	session := models.WatchSession{
		UserID:  userID,
		VideoID: video.ID,
		Channel: video.Channel,
		Reward:  video.Reward,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", userID).
			Updates(map[string]interface{}{
				channelColumn: gorm.Expr(channelColumn+" + ?", video.Reward),
				"balance":     gorm.Expr("balance + ?", video.Reward),
			}).Error; err != nil {
			return fmt.Errorf("failed to credit watch reward: %w", err)
		}

		// Post-credit channel balance decides whether this reward also
		// becomes withdrawable.
		var updated models.User
		if err := tx.First(&updated, userID).Error; err != nil {
			return err
		}
		channelBalance := updated.YoutubeBalance
		if video.Channel == models.ChannelTiktok {
			channelBalance = updated.TiktokBalance
		}
		if channelBalance.GreaterThanOrEqual(commission.VideoWithdrawThreshold) {
			if err := tx.Model(&models.User{}).Where("id = ?", userID).
				Update("withdrawable_balance", gorm.Expr("withdrawable_balance + ?", video.Reward)).
				Error; err != nil {
				return fmt.Errorf("failed to credit withdrawable balance: %w", err)
			}
		}

		if err := tx.Create(&session).Error; err != nil {
			return fmt.Errorf("failed to record watch session: %w", err)
		}

		entry := models.Transaction{
			UserID:      userID,
			Type:        "video_credit",
			Amount:      video.Reward,
			Description: fmt.Sprintf("Watch reward for %s video %d", video.Channel, video.ID),
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("User %d earned %s for watching %s video %d", userID, video.Reward, video.Channel, video.ID)
	return &session, nil
}

// SeedVideos inserts the default catalog if no videos exist yet
func (s *EarningService) SeedVideos() error {
	var count int64
	if err := s.db.Model(&models.Video{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []models.Video{
		{Channel: models.ChannelYoutube, ExternalID: "sn3nlzbzQBU", WatchSeconds: commission.VideoWatchSeconds, Reward: commission.VideoReward, Active: true},
		{Channel: models.ChannelYoutube, ExternalID: "J0h9ICvu1xI", WatchSeconds: commission.VideoWatchSeconds, Reward: commission.VideoReward, Active: true},
	}
	if err := s.db.Create(&defaults).Error; err != nil {
		return fmt.Errorf("failed to seed videos: %w", err)
	}

	log.Printf("Seeded %d default videos", len(defaults))
	return nil
}
