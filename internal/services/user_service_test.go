package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Apashash/Qashgo-new/internal/models"
)

func TestRegisterDerivesReferralCode(t *testing.T) {
	db := setupTestDB(t)
	service := NewUserService(db, NewReferralService(db))

	user, err := service.Register(RegisterInput{
		Username: "Marie Claire",
		Phone:    "+237650000001",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if user.ReferralCode != "MARIECLAIRE" {
		t.Errorf("expected referral code MARIECLAIRE, got %s", user.ReferralCode)
	}
	if user.AccountActive {
		t.Error("new accounts must start inactive")
	}
	if !user.Balance.IsZero() || !user.WithdrawableBalance.IsZero() {
		t.Error("new accounts must start with zero balances")
	}
	if !user.AffiliationFee.Equal(decimal.NewFromInt(4000)) {
		t.Errorf("expected affiliation fee 4000, got %s", user.AffiliationFee)
	}
	if user.ReferredByCode != nil {
		t.Error("expected no referrer code")
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	db := setupTestDB(t)
	service := NewUserService(db, NewReferralService(db))

	if _, err := service.Register(RegisterInput{
		Username: "marcel", Phone: "+237650000001", Password: "secret123",
	}); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	if _, err := service.Register(RegisterInput{
		Username: "marcel", Phone: "+237650000002", Password: "secret123",
	}); err == nil {
		t.Error("expected duplicate username to be rejected")
	}

	if _, err := service.Register(RegisterInput{
		Username: "other", Phone: "+237650000001", Password: "secret123",
	}); err == nil {
		t.Error("expected duplicate phone to be rejected")
	}
}

func TestActivateAccountPaysCommissions(t *testing.T) {
	db := setupTestDB(t)
	referralService := NewReferralService(db)
	service := NewUserService(db, referralService)

	referrer, err := service.Register(RegisterInput{
		Username: "sponsor", Phone: "+237650000001", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register referrer failed: %v", err)
	}

	newUser, err := service.Register(RegisterInput{
		Username: "newcomer", Phone: "+237650000002", Password: "secret123",
		ReferredByCode: "SPONSOR",
	})
	if err != nil {
		t.Fatalf("register new user failed: %v", err)
	}

	// No commission at registration
	var count int64
	db.Model(&models.Referral{}).Count(&count)
	if count != 0 {
		t.Fatalf("registration must not pay commissions, found %d rows", count)
	}

	activated, outcome, err := service.ActivateAccount(newUser.ID, "orange_money")
	if err != nil {
		t.Fatalf("activation failed: %v", err)
	}

	if !activated.AccountActive {
		t.Error("expected account to be active")
	}
	if activated.ActivatedAt == nil {
		t.Error("expected activated_at to be set")
	}
	if activated.PaymentMethod != "orange_money" {
		t.Errorf("expected payment method orange_money, got %s", activated.PaymentMethod)
	}

	if outcome.Status != OutcomeCompleted || outcome.LevelsPaid != 1 {
		t.Errorf("expected completed walk with 1 level, got %s/%d", outcome.Status, outcome.LevelsPaid)
	}

	sponsorAfter := getUser(t, db, referrer.ID)
	if !sponsorAfter.Balance.Equal(decimal.NewFromInt(1800)) {
		t.Errorf("expected sponsor balance 1800, got %s", sponsorAfter.Balance)
	}

	// Re-activation is refused, so commissions cannot be paid twice
	if _, _, err := service.ActivateAccount(newUser.ID, "orange_money"); err == nil {
		t.Fatal("expected second activation to fail")
	}
	db.Model(&models.Referral{}).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 referral row after re-activation attempt, got %d", count)
	}
}

func TestActivateAccountGuardIsConditionalWrite(t *testing.T) {
	db := setupTestDB(t)
	service := NewUserService(db, NewReferralService(db))

	sponsor, err := service.Register(RegisterInput{
		Username: "sponsor", Phone: "+237650000001", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register sponsor failed: %v", err)
	}
	newUser, err := service.Register(RegisterInput{
		Username: "newcomer", Phone: "+237650000002", Password: "secret123",
		ReferredByCode: "SPONSOR",
	})
	if err != nil {
		t.Fatalf("register new user failed: %v", err)
	}

	// Flip the flag behind the service's back, as a concurrent activation
	// landing between its read and its write would: the guard must hold at
	// the update itself, not at the earlier read.
	if err := db.Model(&models.User{}).Where("id = ?", newUser.ID).
		Update("account_active", true).Error; err != nil {
		t.Fatalf("failed to flip flag: %v", err)
	}

	if _, _, err := service.ActivateAccount(newUser.ID, "orange_money"); err == nil {
		t.Fatal("expected activation of an already-active account to fail")
	}

	// No commission walk ran
	var count int64
	db.Model(&models.Referral{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no referral rows, got %d", count)
	}
	sponsorAfter := getUser(t, db, sponsor.ID)
	if !sponsorAfter.Balance.IsZero() {
		t.Errorf("expected sponsor balance untouched, got %s", sponsorAfter.Balance)
	}
}

func TestActivateAccountWithoutReferrer(t *testing.T) {
	db := setupTestDB(t)
	service := NewUserService(db, NewReferralService(db))

	user, err := service.Register(RegisterInput{
		Username: "solo", Phone: "+237650000001", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, outcome, err := service.ActivateAccount(user.ID, "mtn_momo")
	if err != nil {
		t.Fatalf("activation failed: %v", err)
	}
	if outcome.Status != OutcomeNoOp {
		t.Errorf("expected no_op walk, got %s", outcome.Status)
	}

	var count int64
	db.Model(&models.Referral{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no referral rows, got %d", count)
	}
}
