package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apashash/Qashgo-new/internal/auth"
	"github.com/Apashash/Qashgo-new/internal/services"
)

// EarningHandler handles the video catalog and watch-claim endpoints
type EarningHandler struct {
	earningService *services.EarningService
}

// NewEarningHandler creates a new EarningHandler
func NewEarningHandler(earningService *services.EarningService) *EarningHandler {
	return &EarningHandler{earningService: earningService}
}

// ListVideos returns the active videos for a channel
func (h *EarningHandler) ListVideos(c *gin.Context) {
	if _, exists := auth.GetUserID(c); !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	videos, err := h.earningService.ListVideos(c.Param("channel"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    videos,
		"count":   len(videos),
	})
}

// ClaimWatch credits the reward for a completed watch
func (h *EarningHandler) ClaimWatch(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		VideoID uint `json:"video_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.earningService.ClaimWatch(userID, req.VideoID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    session,
	})
}
