package handlers

import (
	"context"
	"net/http"
	"time"

	"invest_webapp/internal/scheduler"

	"github.com/gin-gonic/gin"
)

// Лок задачи. HTTP-триггер берет лок под тем же именем, что и cron-тик,
// поэтому два источника запуска не гоняют одну задачу параллельно
type jobLock interface {
	Acquire(ctx context.Context, job string, ttl time.Duration) (bool, func(), error)
}

// Триггеры фоновых задач. Ответ всегда в конверте
// {success, message?, error?, processed?}: 200 при успехе, 500 при сбое

// triggerLocked выполняет задачу под локом. Занятый лок - не ошибка:
// задача уже идет, триггер отвечает 200 с пометкой skipped
func (h *Handler) triggerLocked(c *gin.Context, job, doneMsg string, fn func(ctx context.Context) (interface{}, error)) {
	ok, release, err := h.Lock.Acquire(c.Request.Context(), job, scheduler.JobLockTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"skipped": true,
			"message": "job is already running",
		})
		return
	}
	defer release()

	report, err := fn(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"error":     err.Error(),
			"processed": report,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   doneMsg,
		"processed": report,
	})
}

// RunDailyEarnings запускает прогон дневных начислений за сегодня
func (h *Handler) RunDailyEarnings(c *gin.Context) {
	h.triggerLocked(c, scheduler.JobDailyAccrual, "daily earnings processed", func(ctx context.Context) (interface{}, error) {
		report, err := h.AccrualService.RunDailyAccrual(ctx, time.Now())
		return report, err
	})
}

// RunStakingMaturity запускает проход по погашенным стейкингам
func (h *Handler) RunStakingMaturity(c *gin.Context) {
	h.triggerLocked(c, scheduler.JobStakingMaturity, "staking maturity processed", func(ctx context.Context) (interface{}, error) {
		report, err := h.MaturityService.SweepMaturedStaking(ctx, time.Now())
		return report, err
	})
}

// RunRetention запускает очистку записей старше окна хранения
func (h *Handler) RunRetention(c *gin.Context) {
	h.triggerLocked(c, scheduler.JobRetentionPurge, "retention purge completed", func(ctx context.Context) (interface{}, error) {
		report, err := h.RetentionService.PurgeOldRecords(ctx, time.Now())
		return report, err
	})
}
