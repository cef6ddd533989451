package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Apashash/Qashgo-new/internal/models"
)

func createTestVideo(t *testing.T, db *gorm.DB, channel string) *models.Video {
	video := models.Video{
		Channel:      channel,
		ExternalID:   "vid-" + channel,
		WatchSeconds: 60,
		Reward:       decimal.NewFromInt(50),
		Active:       true,
	}
	if err := db.Create(&video).Error; err != nil {
		t.Fatalf("failed to create video: %v", err)
	}
	return &video
}

func activateTestUser(t *testing.T, db *gorm.DB, userID uint) {
	if err := db.Model(&models.User{}).Where("id = ?", userID).
		Update("account_active", true).Error; err != nil {
		t.Fatalf("failed to activate user: %v", err)
	}
}

func TestClaimWatchCreditsChannelAndTotal(t *testing.T) {
	db := setupTestDB(t)
	service := NewEarningService(db)

	user := createTestUser(t, db, "WATCHER", "")
	activateTestUser(t, db, user.ID)
	video := createTestVideo(t, db, models.ChannelYoutube)

	session, err := service.ClaimWatch(user.ID, video.ID)
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if session.Channel != models.ChannelYoutube {
		t.Errorf("expected youtube session, got %s", session.Channel)
	}

	after := getUser(t, db, user.ID)
	if !after.YoutubeBalance.Equal(decimal.NewFromInt(50)) {
		t.Errorf("expected youtube balance 50, got %s", after.YoutubeBalance)
	}
	if !after.Balance.Equal(decimal.NewFromInt(50)) {
		t.Errorf("expected total balance 50, got %s", after.Balance)
	}
	// Below the 500 threshold nothing becomes withdrawable
	if !after.WithdrawableBalance.IsZero() {
		t.Errorf("expected withdrawable 0 below threshold, got %s", after.WithdrawableBalance)
	}

	var sessions int64
	db.Model(&models.WatchSession{}).Where("user_id = ?", user.ID).Count(&sessions)
	if sessions != 1 {
		t.Errorf("expected 1 watch session, got %d", sessions)
	}
}

func TestClaimWatchThresholdUnlocksWithdrawable(t *testing.T) {
	db := setupTestDB(t)
	service := NewEarningService(db)

	user := createTestUser(t, db, "WATCHER", "")
	activateTestUser(t, db, user.ID)
	video := createTestVideo(t, db, models.ChannelTiktok)

	// 9 watches: 450 FCFA, still under the threshold
	for i := 0; i < 9; i++ {
		if _, err := service.ClaimWatch(user.ID, video.ID); err != nil {
			t.Fatalf("claim %d failed: %v", i, err)
		}
	}
	after := getUser(t, db, user.ID)
	if !after.TiktokBalance.Equal(decimal.NewFromInt(450)) {
		t.Fatalf("expected tiktok balance 450, got %s", after.TiktokBalance)
	}
	if !after.WithdrawableBalance.IsZero() {
		t.Errorf("expected withdrawable 0 at 450, got %s", after.WithdrawableBalance)
	}

	// 10th watch reaches 500: this reward becomes withdrawable
	if _, err := service.ClaimWatch(user.ID, video.ID); err != nil {
		t.Fatalf("10th claim failed: %v", err)
	}
	after = getUser(t, db, user.ID)
	if !after.TiktokBalance.Equal(decimal.NewFromInt(500)) {
		t.Errorf("expected tiktok balance 500, got %s", after.TiktokBalance)
	}
	if !after.WithdrawableBalance.Equal(decimal.NewFromInt(50)) {
		t.Errorf("expected withdrawable 50 at threshold, got %s", after.WithdrawableBalance)
	}
	if !after.Balance.Equal(decimal.NewFromInt(500)) {
		t.Errorf("expected total balance 500, got %s", after.Balance)
	}
}

func TestClaimWatchRequiresActiveAccount(t *testing.T) {
	db := setupTestDB(t)
	service := NewEarningService(db)

	user := createTestUser(t, db, "INACTIVE", "")
	video := createTestVideo(t, db, models.ChannelYoutube)

	if _, err := service.ClaimWatch(user.ID, video.ID); err == nil {
		t.Fatal("expected claim to fail for an inactive account")
	}

	after := getUser(t, db, user.ID)
	if !after.Balance.IsZero() {
		t.Errorf("expected no credit, got %s", after.Balance)
	}
}

func TestClaimWatchRejectsInactiveVideo(t *testing.T) {
	db := setupTestDB(t)
	service := NewEarningService(db)

	user := createTestUser(t, db, "WATCHER", "")
	activateTestUser(t, db, user.ID)
	video := createTestVideo(t, db, models.ChannelYoutube)
	db.Model(video).Update("active", false)

	if _, err := service.ClaimWatch(user.ID, video.ID); err == nil {
		t.Fatal("expected claim to fail for an inactive video")
	}
}

func TestListVideosFiltersByChannel(t *testing.T) {
	db := setupTestDB(t)
	service := NewEarningService(db)

	createTestVideo(t, db, models.ChannelYoutube)
	createTestVideo(t, db, models.ChannelTiktok)

	videos, err := service.ListVideos(models.ChannelYoutube)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(videos) != 1 {
		t.Fatalf("expected 1 youtube video, got %d", len(videos))
	}
	if videos[0].Channel != models.ChannelYoutube {
		t.Errorf("expected youtube video, got %s", videos[0].Channel)
	}

	if _, err := service.ListVideos("facebook"); err == nil {
		t.Error("expected unknown channel to be rejected")
	}
}

func TestSeedVideosIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	service := NewEarningService(db)

	if err := service.SeedVideos(); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	var first int64
	db.Model(&models.Video{}).Count(&first)
	if first == 0 {
		t.Fatal("expected seeded videos")
	}

	if err := service.SeedVideos(); err != nil {
		t.Fatalf("second seed failed: %v", err)
	}
	var second int64
	db.Model(&models.Video{}).Count(&second)
	if second != first {
		t.Errorf("expected seed to be idempotent: %d != %d", second, first)
	}
}
