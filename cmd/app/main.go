package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"invest_webapp/internal/bot"
	"invest_webapp/internal/config"
	"invest_webapp/internal/db"
	httpServer "invest_webapp/internal/http"
	"invest_webapp/internal/http/middleware"
	"invest_webapp/internal/logger"
	"invest_webapp/internal/scheduler"
	"invest_webapp/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Version устанавливается при сборке
var Version = "dev"

func main() {
	cfg := config.Load()

	logger.InitFromEnv()
	log := logger.Get()

	dbPool := db.Connect(cfg.DatabaseURL)
	defer dbPool.Close()

	r := gin.Default()

	// CORS для прода и связи фронта с бэкендом (разные домены)
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Cron-Secret")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	middleware.InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// один лок на оба источника триггеров: cron-тик и HTTP
	runLock := scheduler.NewRunLock(middleware.RateLimitClient())

	httpServer.RegisterRoutes(r, dbPool, cfg, runLock, Version)

	// планировщик фоновых задач: начисления, погашения, очистка истории
	accrualService := service.NewAccrualService(dbPool)
	maturityService := service.NewMaturityService(dbPool)
	retentionService := service.NewRetentionService(dbPool)

	sched, err := scheduler.New(cfg, runLock, accrualService, maturityService, retentionService)
	if err != nil {
		logger.Fatal("не удалось создать планировщик", "error", err)
	}

	// Запуск админ бота ПЕРЕД планировщиком, чтобы callback был установлен
	var adminBot *bot.AdminBot
	if cfg.AdminBotEnabled && len(cfg.AdminTelegramIDs) > 0 {
		adminService := service.NewAdminService(dbPool)

		adminBot, err = bot.NewAdminBot(cfg.BotToken, adminService, sched, cfg.AdminTelegramIDs)
		if err != nil {
			log.Error("failed to start admin bot", "error", err)
		} else {
			go adminBot.Start()
			log.Info("admin bot started", "admin_ids", cfg.AdminTelegramIDs)

			// Итоги прогонов уходят админам в Telegram
			sched.SetNotifyCallback(adminBot.NotifyAdmins)
		}
	}

	if cfg.SchedulerEnabled {
		sched.Start()
		log.Info("scheduler started",
			"accrual", cfg.AccrualSchedule,
			"maturity", cfg.MaturitySchedule,
			"retention", cfg.RetentionSchedule)
	} else {
		log.Warn("планировщик отключен, задачи запускаются только через HTTP-триггеры")
	}

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		log.Info("server started", "port", cfg.AppPort, "version", Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	if adminBot != nil {
		adminBot.Stop()
	}

	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}

	log.Info("server exited")
}
