package jobs

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Apashash/Qashgo-new/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Withdrawal{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	db.Exec("DELETE FROM withdrawals")
	db.Exec("DELETE FROM users")
	return db
}

func TestReconcilerRunTolerancesStatuses(t *testing.T) {
	db := setupTestDB(t)
	job := NewWithdrawalReconcilerJob(db, 48*time.Hour)

	old := time.Now().Add(-72 * time.Hour)

	stale := models.Withdrawal{
		Reference: "stale-ref", UserID: 1, Amount: decimal.NewFromInt(2500),
		Method: "orange_money", Phone: "+237650000001",
		Source: models.SourceMain, Status: models.WithdrawalPending,
	}
	db.Create(&stale)
	db.Model(&stale).Update("created_at", old)

	completedOld := models.Withdrawal{
		Reference: "done-ref", UserID: 1, Amount: decimal.NewFromInt(2500),
		Method: "orange_money", Phone: "+237650000001",
		Source: models.SourceMain, Status: models.WithdrawalCompleted,
	}
	db.Create(&completedOld)
	db.Model(&completedOld).Update("created_at", old)

	freshPending := models.Withdrawal{
		Reference: "fresh-ref", UserID: 1, Amount: decimal.NewFromInt(2500),
		Method: "orange_money", Phone: "+237650000001",
		Source: models.SourceMain, Status: models.WithdrawalPending,
	}
	db.Create(&freshPending)

	if err := job.Run(); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// Run only reports; nothing may be mutated
	var pending int64
	db.Model(&models.Withdrawal{}).Where("status = ?", models.WithdrawalPending).Count(&pending)
	if pending != 2 {
		t.Errorf("expected 2 pending withdrawals untouched, got %d", pending)
	}
}
