package services

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Apashash/Qashgo-new/internal/commission"
	"github.com/Apashash/Qashgo-new/internal/models"
)

type ReferralService struct {
	db *gorm.DB
}

func NewReferralService(db *gorm.DB) *ReferralService {
	return &ReferralService{db: db}
}

// Commission outcome statuses
const (
	OutcomeNoOp      = "no_op"
	OutcomeCompleted = "completed"
	OutcomePartial   = "partial_failure"
)

// CommissionOutcome reports how a commission walk ended. LevelsPaid is the
// number of referrer levels actually credited; Reason is set when the walk
// stopped before the chain was exhausted.
type CommissionOutcome struct {
	Status     string `json:"status"`
	LevelsPaid int    `json:"levels_paid"`
	Reason     string `json:"reason,omitempty"`
}

// ProcessReferralCommissions pays fixed commissions to up to three ancestor
// referrers of a newly activated user. referrerCode is the activated user's
// stored referred_by_code; an empty code means no referrer and no payout.
//
// Levels are walked strictly in order: each level's referrer is resolved
// from the previous referrer's referred_by_code, and the walk stops at the
// first failed lookup, keeping the payouts already made. Each level's
// referral row and balance credit are applied in one transaction. Not
// idempotent: call exactly once per activation.
func (s *ReferralService) ProcessReferralCommissions(referrerCode string, newUserID uint) CommissionOutcome {
	if referrerCode == "" {
		return CommissionOutcome{Status: OutcomeNoOp}
	}

	referrer, err := s.findByReferralCode(referrerCode)
	if err != nil {
		log.Printf("Warning: level-1 referrer %q not resolved for user %d: %v", referrerCode, newUserID, err)
		return CommissionOutcome{Status: OutcomeNoOp, Reason: fmt.Sprintf("level 1 lookup: %v", err)}
	}

	levelsPaid := 0
	for level := 1; level <= commission.MaxLevel; level++ {
		if err := s.payCommission(referrer, newUserID, level); err != nil {
			log.Printf("Warning: level-%d commission for user %d failed: %v", level, newUserID, err)
			return CommissionOutcome{
				Status:     OutcomePartial,
				LevelsPaid: levelsPaid,
				Reason:     fmt.Sprintf("level %d payout: %v", level, err),
			}
		}
		levelsPaid++

		if level == commission.MaxLevel {
			break
		}
		if referrer.ReferredByCode == nil || *referrer.ReferredByCode == "" {
			break
		}

		next, err := s.findByReferralCode(*referrer.ReferredByCode)
		if err != nil {
			log.Printf("Warning: level-%d referrer %q not resolved for user %d: %v",
				level+1, *referrer.ReferredByCode, newUserID, err)
			return CommissionOutcome{
				Status:     OutcomePartial,
				LevelsPaid: levelsPaid,
				Reason:     fmt.Sprintf("level %d lookup: %v", level+1, err),
			}
		}
		referrer = next
	}

	return CommissionOutcome{Status: OutcomeCompleted, LevelsPaid: levelsPaid}
}

func (s *ReferralService) findByReferralCode(code string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("referral_code = ?", code).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// payCommission writes the referral row and credits the referrer's
// balances atomically. The balance update is a server-side increment, so
// concurrent activations sharing a referrer cannot lose a credit.
func (s *ReferralService) payCommission(referrer *models.User, newUserID uint, level int) error {
	amount := commission.ForLevel(level)

	return s.db.Transaction(func(tx *gorm.DB) error {
		referral := models.Referral{
			ReferrerID: referrer.ID,
			ReferredID: newUserID,
			Level:      level,
			Commission: amount,
			Paid:       true,
		}
		if err := tx.Create(&referral).Error; err != nil {
			return fmt.Errorf("failed to create referral: %w", err)
		}

		if err := tx.Model(&models.User{}).Where("id = ?", referrer.ID).
			Updates(map[string]interface{}{
				"balance":              gorm.Expr("balance + ?", amount),
				"withdrawable_balance": gorm.Expr("withdrawable_balance + ?", amount),
			}).Error; err != nil {
			return fmt.Errorf("failed to credit referrer: %w", err)
		}

		entry := models.Transaction{
			UserID:      referrer.ID,
			Type:        "referral_commission",
			Amount:      amount,
			Description: fmt.Sprintf("Level %d commission for activation of user %d", level, newUserID),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to record transaction: %w", err)
		}

		return nil
	})
}

// BonusEligibility describes a user's progress toward the welcome bonus
type BonusEligibility struct {
	CurrentReferrals   int             `json:"current_referrals"`
	BonusEligible      bool            `json:"bonus_eligible"`
	BonusAmount        decimal.Decimal `json:"bonus_amount"`
	RemainingReferrals int             `json:"remaining_referrals"`
	TargetReferrals    int             `json:"target_referrals"`
}

// CalculateBonusEligibility counts a user's direct referrals whose referred
// user has activated, and compares against the welcome-bonus target. Fetch
// failures yield the safe zero-progress default instead of an error.
func (s *ReferralService) CalculateBonusEligibility(userID uint) BonusEligibility {
	result := BonusEligibility{
		BonusAmount:        commission.WelcomeBonusAmount,
		RemainingReferrals: commission.WelcomeBonusTarget,
		TargetReferrals:    commission.WelcomeBonusTarget,
	}

	var referrals []models.Referral
	if err := s.db.Where("referrer_id = ? AND level = ?", userID, 1).
		Preload("Referred").Find(&referrals).Error; err != nil {
		log.Printf("Warning: failed to fetch referrals for user %d: %v", userID, err)
		return result
	}

	qualifying := 0
	for _, r := range referrals {
		if r.Referred != nil && r.Referred.AccountActive {
			qualifying++
		}
	}

	result.CurrentReferrals = qualifying
	result.BonusEligible = qualifying >= commission.WelcomeBonusTarget
	result.RemainingReferrals = commission.WelcomeBonusTarget - qualifying
	if result.RemainingReferrals < 0 {
		result.RemainingReferrals = 0
	}
	return result
}

// ClaimWelcomeBonus credits the welcome bonus once a user has reached the
// referral target. The welcome_bonus = 0 guard in the update makes a
// second claim a no-op.
func (s *ReferralService) ClaimWelcomeBonus(userID uint) error {
	eligibility := s.CalculateBonusEligibility(userID)
	if !eligibility.BonusEligible {
		return fmt.Errorf("welcome bonus requires %d active referrals, user has %d",
			eligibility.TargetReferrals, eligibility.CurrentReferrals)
	}

	amount := commission.WelcomeBonusAmount

	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ? AND welcome_bonus = 0", userID).
			Updates(map[string]interface{}{
				"welcome_bonus":        amount,
				"balance":              gorm.Expr("balance + ?", amount),
				"withdrawable_balance": gorm.Expr("withdrawable_balance + ?", amount),
			})
		if res.Error != nil {
			return fmt.Errorf("failed to credit welcome bonus: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("welcome bonus already claimed")
		}

		entry := models.Transaction{
			UserID:      userID,
			Type:        "welcome_bonus",
			Amount:      amount,
			Description: fmt.Sprintf("Welcome bonus for %d active referrals", eligibility.CurrentReferrals),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to record transaction: %w", err)
		}
		return nil
	})
}

// GetUserReferrals returns all referrals for a user with the referred
// users preloaded
func (s *ReferralService) GetUserReferrals(userID uint) ([]models.Referral, error) {
	var referrals []models.Referral
	if err := s.db.Where("referrer_id = ?", userID).Preload("Referred").
		Order("created_at DESC").Find(&referrals).Error; err != nil {
		return nil, err
	}
	return referrals, nil
}
