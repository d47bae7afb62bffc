package handlers

import (
	"errors"
	"net/http"

	"invest_webapp/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Тело триггера каскада: вызывается из флоу создания инвестиции
type CascadeRequest struct {
	UserID           string  `json:"user_id" binding:"required"`
	InvestmentAmount float64 `json:"investment_amount" binding:"required"`
}

// CascadeBonus распределяет реферальные бонусы по цепочке пригласивших
// для нового события инвестиции
func (h *Handler) CascadeBonus(c *gin.Context) {
	var req CascadeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "user_id and investment_amount are required"})
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid user_id"})
		return
	}

	report, err := h.ReferralService.CascadeBonus(c.Request.Context(), userID, req.InvestmentAmount)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "user not found"})
			return
		}
		if errors.Is(err, service.ErrInvalidAmount) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid investment_amount"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"error":     err.Error(),
			"processed": report,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "referral bonuses processed",
		"processed": report,
	})
}

// MyReferrals возвращает бонусы, полученные текущим пользователем как
// пригласившим
func (h *Handler) MyReferrals(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := c.Request.Context()
	bonuses, err := h.BonusRepo.GetByReferrer(ctx, userID, 100)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get bonuses"})
		return
	}

	total, err := h.BonusRepo.TotalByReferrer(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get total"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_earned": total,
		"bonuses":      bonuses,
	})
}
