package services

import (
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Apashash/Qashgo-new/internal/commission"
	"github.com/Apashash/Qashgo-new/internal/models"
)

// UserService handles registration, activation and profile access
type UserService struct {
	db              *gorm.DB
	referralService *ReferralService
}

// NewUserService creates a new UserService
func NewUserService(db *gorm.DB, referralService *ReferralService) *UserService {
	return &UserService{db: db, referralService: referralService}
}

// RegisterInput carries the registration form fields
type RegisterInput struct {
	Username       string
	Phone          string
	Email          string
	Password       string
	Country        string
	ReferredByCode string
}

// Register creates an inactive account with zeroed balances. The referral
// code is derived from the username; the referrer's code (if any) is only
// stored here — commissions are paid at activation, not registration.
func (s *UserService) Register(input RegisterInput) (*models.User, error) {
	code := commission.DeriveCode(input.Username)
	if code == "" {
		return nil, fmt.Errorf("username is required")
	}

	var existing models.User
	if err := s.db.Where("username = ? OR phone = ? OR referral_code = ?",
		input.Username, input.Phone, code).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("username, phone or referral code already taken")
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Username:       input.Username,
		Phone:          input.Phone,
		Email:          input.Email,
		PasswordHash:   string(hash),
		Country:        input.Country,
		ReferralCode:   code,
		AffiliationFee: commission.ActivationFee,
	}
	if input.ReferredByCode != "" {
		referredBy := input.ReferredByCode
		user.ReferredByCode = &referredBy
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("Registered user %d (%s), referred by %q", user.ID, user.Username, input.ReferredByCode)
	return &user, nil
}

// ActivateAccount marks the account active after the affiliation fee was
// paid, then runs the commission walk for the user's referrer chain.
// Activation succeeds even when the walk does not complete; the outcome is
// returned so operators can monitor payout health.
func (s *UserService) ActivateAccount(userID uint, paymentMethod string) (*models.User, CommissionOutcome, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, CommissionOutcome{}, fmt.Errorf("user not found")
		}
		return nil, CommissionOutcome{}, err
	}

	// Conditional update: the account_active guard lives in the WHERE
	// clause, so two concurrent activations cannot both pass and run the
	// commission walk twice.
	now := time.Now()
	res := s.db.Model(&models.User{}).
		Where("id = ? AND account_active = ?", userID, false).
		Updates(map[string]interface{}{
			"account_active": true,
			"activated_at":   now,
			"payment_method": paymentMethod,
		})
	if res.Error != nil {
		return nil, CommissionOutcome{}, fmt.Errorf("failed to activate account: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, CommissionOutcome{}, fmt.Errorf("account already active")
	}
	user.AccountActive = true
	user.ActivatedAt = &now
	user.PaymentMethod = paymentMethod

	referrerCode := ""
	if user.ReferredByCode != nil {
		referrerCode = *user.ReferredByCode
	}
	outcome := s.referralService.ProcessReferralCommissions(referrerCode, user.ID)
	if outcome.Status != OutcomeNoOp {
		log.Printf("Commission walk for user %d: %s (%d levels paid) %s",
			user.ID, outcome.Status, outcome.LevelsPaid, outcome.Reason)
	}

	return &user, outcome, nil
}

// GetUserByID retrieves a user by ID
func (s *UserService) GetUserByID(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}
	return &user, nil
}

// GetUserTransactions returns a user's ledger entries, newest first
func (s *UserService) GetUserTransactions(userID uint) ([]models.Transaction, error) {
	var entries []models.Transaction
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
