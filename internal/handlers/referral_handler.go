package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apashash/Qashgo-new/internal/auth"
	"github.com/Apashash/Qashgo-new/internal/services"
)

// ReferralHandler handles referral overview and welcome-bonus endpoints
type ReferralHandler struct {
	referralService *services.ReferralService
	userService     *services.UserService
	frontendURL     string
}

// NewReferralHandler creates a new ReferralHandler
func NewReferralHandler(referralService *services.ReferralService, userService *services.UserService, frontendURL string) *ReferralHandler {
	return &ReferralHandler{
		referralService: referralService,
		userService:     userService,
		frontendURL:     frontendURL,
	}
}

// GetOverview returns the user's referral code, share link and referral list
func (h *ReferralHandler) GetOverview(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	referrals, err := h.referralService.GetUserReferrals(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get referrals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"referral_code": user.ReferralCode,
		"referral_link": fmt.Sprintf("%s/register?ref=%s", h.frontendURL, user.ReferralCode),
		"data":          referrals,
		"count":         len(referrals),
	})
}

// GetBonus returns welcome-bonus progress for the user
func (h *ReferralHandler) GetBonus(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	eligibility := h.referralService.CalculateBonusEligibility(userID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    eligibility,
	})
}

// ClaimBonus credits the welcome bonus if the user qualifies
func (h *ReferralHandler) ClaimBonus(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.referralService.ClaimWelcomeBonus(userID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Welcome bonus credited",
	})
}
