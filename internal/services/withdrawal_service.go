package services

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Apashash/Qashgo-new/internal/commission"
	"github.com/Apashash/Qashgo-new/internal/models"
)

// WithdrawalService handles mobile-money cash-out requests
type WithdrawalService struct {
	db *gorm.DB
}

// NewWithdrawalService creates a new WithdrawalService
func NewWithdrawalService(db *gorm.DB) *WithdrawalService {
	return &WithdrawalService{db: db}
}

// WithdrawalInput carries the withdrawal form fields
type WithdrawalInput struct {
	Amount decimal.Decimal
	Method string
	Phone  string
	Source string
}

// sourceColumn maps a withdrawal source to the balance column it debits
func sourceColumn(source string) (string, error) {
	switch source {
	case models.SourceMain:
		return "withdrawable_balance", nil
	case models.SourceYoutube:
		return "youtube_balance", nil
	case models.SourceTiktok:
		return "tiktok_balance", nil
	default:
		return "", fmt.Errorf("unknown withdrawal source %q", source)
	}
}

func minimumFor(source string) decimal.Decimal {
	if source == models.SourceMain {
		return commission.MinMainWithdrawal
	}
	return commission.MinVideoWithdrawal
}

// RequestWithdrawal debits the source balance and records a pending
// withdrawal. The debit is a single conditional update guarded on the
// current balance, so a concurrent request cannot overdraw.
func (s *WithdrawalService) RequestWithdrawal(userID uint, input WithdrawalInput) (*models.Withdrawal, error) {
	if input.Method == "" || input.Phone == "" {
		return nil, fmt.Errorf("method and phone are required")
	}
	if !input.Amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive")
	}

	column, err := sourceColumn(input.Source)
	if err != nil {
		return nil, err
	}

	if minimum := minimumFor(input.Source); input.Amount.LessThan(minimum) {
		return nil, fmt.Errorf("minimum withdrawal for %s balance is %s FCFA", input.Source, minimum)
	}

	withdrawal := models.Withdrawal{
		Reference: uuid.NewString(),
		UserID:    userID,
		Amount:    input.Amount,
		Method:    input.Method,
		Phone:     input.Phone,
		Source:    input.Source,
		Status:    models.WithdrawalPending,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ? AND "+column+" >= ?", userID, input.Amount).
			Updates(map[string]interface{}{
				column:              gorm.Expr(column+" - ?", input.Amount),
				"total_withdrawals": gorm.Expr("total_withdrawals + ?", input.Amount),
			})
		if res.Error != nil {
			return fmt.Errorf("failed to debit balance: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("insufficient %s balance", input.Source)
		}

		if err := tx.Create(&withdrawal).Error; err != nil {
			return fmt.Errorf("failed to create withdrawal: %w", err)
		}

		entry := models.Transaction{
			UserID:      userID,
			Type:        "withdrawal",
			Amount:      input.Amount.Neg(),
			Description: fmt.Sprintf("Withdrawal %s via %s", withdrawal.Reference, input.Method),
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Withdrawal %s: user %d requested %s from %s balance", withdrawal.Reference, userID, input.Amount, input.Source)
	return &withdrawal, nil
}

// ListUserWithdrawals returns a user's withdrawal history, newest first
func (s *WithdrawalService) ListUserWithdrawals(userID uint) ([]models.Withdrawal, error) {
	var withdrawals []models.Withdrawal
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC").
		Find(&withdrawals).Error; err != nil {
		return nil, err
	}
	return withdrawals, nil
}

// UpdateStatus moves a pending withdrawal to confirmed, completed or
// rejected. Rejection refunds the debited amount to the source balance.
func (s *WithdrawalService) UpdateStatus(withdrawalID uint, status string) (*models.Withdrawal, error) {
	switch status {
	case models.WithdrawalConfirmed, models.WithdrawalCompleted, models.WithdrawalRejected:
	default:
		return nil, fmt.Errorf("invalid status %q", status)
	}

	var withdrawal models.Withdrawal
	if err := s.db.First(&withdrawal, withdrawalID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("withdrawal not found")
		}
		return nil, err
	}

	// pending may go anywhere, confirmed may only complete; completed and
	// rejected are terminal
	switch withdrawal.Status {
	case models.WithdrawalPending:
	case models.WithdrawalConfirmed:
		if status != models.WithdrawalCompleted {
			return nil, fmt.Errorf("confirmed withdrawal %s can only be completed", withdrawal.Reference)
		}
	default:
		return nil, fmt.Errorf("withdrawal %s already %s", withdrawal.Reference, withdrawal.Status)
	}

	now := time.Now()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&withdrawal).Updates(map[string]interface{}{
			"status":       status,
			"processed_at": now,
		}).Error; err != nil {
			return fmt.Errorf("failed to update withdrawal: %w", err)
		}

		if status != models.WithdrawalRejected {
			return nil
		}

		column, err := sourceColumn(withdrawal.Source)
		if err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("id = ?", withdrawal.UserID).
			Updates(map[string]interface{}{
				column:              gorm.Expr(column+" + ?", withdrawal.Amount),
				"total_withdrawals": gorm.Expr("total_withdrawals - ?", withdrawal.Amount),
			}).Error; err != nil {
			return fmt.Errorf("failed to refund balance: %w", err)
		}

		entry := models.Transaction{
			UserID:      withdrawal.UserID,
			Type:        "withdrawal_refund",
			Amount:      withdrawal.Amount,
			Description: fmt.Sprintf("Refund for rejected withdrawal %s", withdrawal.Reference),
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, err
	}

	withdrawal.Status = status
	withdrawal.ProcessedAt = &now
	return &withdrawal, nil
}
