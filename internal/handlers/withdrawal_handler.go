package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Apashash/Qashgo-new/internal/auth"
	"github.com/Apashash/Qashgo-new/internal/services"
)

// WithdrawalHandler handles cash-out request and history endpoints
type WithdrawalHandler struct {
	withdrawalService *services.WithdrawalService
	adminUsers        map[string]bool
}

// NewWithdrawalHandler creates a new WithdrawalHandler. adminUsers is the
// comma-separated list of usernames allowed to process withdrawals.
func NewWithdrawalHandler(withdrawalService *services.WithdrawalService, adminUsers string) *WithdrawalHandler {
	admins := make(map[string]bool)
	for _, name := range strings.Split(adminUsers, ",") {
		if name = strings.TrimSpace(name); name != "" {
			admins[name] = true
		}
	}
	return &WithdrawalHandler{withdrawalService: withdrawalService, adminUsers: admins}
}

// RequestWithdrawal creates a pending withdrawal and debits the balance
func (h *WithdrawalHandler) RequestWithdrawal(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		Amount string `json:"amount" binding:"required"`
		Method string `json:"method" binding:"required"`
		Phone  string `json:"phone" binding:"required"`
		Source string `json:"source" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
		return
	}

	withdrawal, err := h.withdrawalService.RequestWithdrawal(userID, services.WithdrawalInput{
		Amount: amount,
		Method: req.Method,
		Phone:  req.Phone,
		Source: req.Source,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    withdrawal,
	})
}

// GetWithdrawals returns the user's withdrawal history
func (h *WithdrawalHandler) GetWithdrawals(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	withdrawals, err := h.withdrawalService.ListUserWithdrawals(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get withdrawals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    withdrawals,
		"count":   len(withdrawals),
	})
}

// AdminMiddleware restricts a route group to configured admin usernames
func (h *WithdrawalHandler) AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		username, exists := auth.GetUsername(c)
		if !exists || !h.adminUsers[username] {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// UpdateStatus moves a withdrawal through its status lifecycle
func (h *WithdrawalHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid withdrawal id"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	withdrawal, err := h.withdrawalService.UpdateStatus(uint(id), req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    withdrawal,
	})
}
