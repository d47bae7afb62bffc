package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// MyProfile возвращает профиль и балансы текущего пользователя
func (h *Handler) MyProfile(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, err := h.UserRepo.GetByID(c.Request.Context(), userID)
	if err != nil || user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":                 user.ID,
		"phone":              user.Phone,
		"balance_deposit":    user.BalanceDeposit,
		"balance_withdrawal": user.BalanceWithdrawal,
		"total_earned":       user.TotalEarned,
		"vip_level":          user.VipLevel,
		"created_at":         user.CreatedAt,
	})
}

// MyInvestments возвращает инвестиции текущего пользователя (обе категории)
func (h *Handler) MyInvestments(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := c.Request.Context()

	vip, err := h.InvestmentRepo.GetVipByUserID(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get investments"})
		return
	}

	staking, err := h.InvestmentRepo.GetStakingByUserID(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get investments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vip":     vip,
		"staking": staking,
	})
}

// MyEarnings возвращает историю дневных начислений текущего пользователя
func (h *Handler) MyEarnings(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit := parseLimit(c.Query("limit"), 100)
	earnings, err := h.EarningRepo.GetByUserID(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get earnings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"earnings": earnings})
}

// MyTransactions возвращает журнал операций текущего пользователя
func (h *Handler) MyTransactions(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit := parseLimit(c.Query("limit"), 100)
	transactions, err := h.TransactionRepo.GetByUserID(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get transactions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

// разбирает limit из query с верхней границей 500
func parseLimit(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	if n > 500 {
		return 500
	}
	return n
}
