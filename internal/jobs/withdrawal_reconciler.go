package jobs

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/Apashash/Qashgo-new/internal/models"
)

// WithdrawalReconcilerJob periodically reports withdrawals stuck in
// pending, giving operators visibility into payouts the mobile-money side
// never confirmed.
type WithdrawalReconcilerJob struct {
	db     *gorm.DB
	maxAge time.Duration
}

func NewWithdrawalReconcilerJob(db *gorm.DB, maxAge time.Duration) *WithdrawalReconcilerJob {
	return &WithdrawalReconcilerJob{db: db, maxAge: maxAge}
}

// Start begins the periodic reconciliation job
func (j *WithdrawalReconcilerJob) Start(interval time.Duration) {
	go func() {
		// Run immediately on start
		if err := j.Run(); err != nil {
			log.Printf("Initial reconciliation error: %v", err)
		}

		// Then run periodically
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			if err := j.Run(); err != nil {
				log.Printf("Reconciliation error: %v", err)
			}
		}
	}()
}

// Run reports pending withdrawals older than the cutoff
func (j *WithdrawalReconcilerJob) Run() error {
	cutoff := time.Now().Add(-j.maxAge)

	var stale []models.Withdrawal
	if err := j.db.Where("status = ? AND created_at < ?", models.WithdrawalPending, cutoff).
		Find(&stale).Error; err != nil {
		return err
	}

	for _, w := range stale {
		log.Printf("Stale withdrawal %s: user %d, %s FCFA pending since %s",
			w.Reference, w.UserID, w.Amount, w.CreatedAt.Format(time.RFC3339))
	}
	if len(stale) > 0 {
		log.Printf("Reconciliation found %d stale pending withdrawals", len(stale))
	}

	return nil
}
