package http

import (
	"net/http"
	"time"

	"invest_webapp/internal/config"
	"invest_webapp/internal/http/handlers"
	"invest_webapp/internal/http/middleware"
	"invest_webapp/internal/metrics"
	"invest_webapp/internal/scheduler"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegisterRoutes настраивает маршруты приложения: триггеры фоновых задач
// под cron-секретом и пользовательское API под JWT. Лок общий с
// планировщиком, чтобы ручной триггер не пересекался с cron-тиком
func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, cfg *config.Config, lock *scheduler.RunLock, version string) {
	h := handlers.New(db, lock)

	// счетчик запросов для /metrics
	r.Use(func(c *gin.Context) {
		c.Next()
		metrics.HTTPRequest(c.Request.Method, c.FullPath(), c.Writer.Status())
	})

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": version})
	})

	// триггеры для cron-расписания или ручного запуска; флоу создания
	// инвестиции дергает каскад бонусов через этот же интерфейс
	jobs := r.Group("/api/jobs")
	jobs.Use(middleware.CronAuth(cfg.CronSecret))
	{
		jobs.POST("/daily-earnings", h.RunDailyEarnings)
		jobs.POST("/staking-maturity", h.RunStakingMaturity)
		jobs.POST("/retention", h.RunRetention)
	}

	referrals := r.Group("/api/referrals")
	referrals.POST("/cascade", middleware.CronAuth(cfg.CronSecret), h.CascadeBonus)

	api := r.Group("/api")
	api.Use(middleware.JWTAuth(cfg.JWTSecret))
	api.Use(middleware.RateLimit(60, time.Minute))
	{
		api.GET("/profile", h.MyProfile)
		api.GET("/investments", h.MyInvestments)
		api.GET("/earnings", h.MyEarnings)
		api.GET("/transactions", h.MyTransactions)
		api.GET("/referrals", h.MyReferrals)
	}
}
