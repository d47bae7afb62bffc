package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Конфигурация приложения из переменных окружения
type Config struct {
	AppPort     string
	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret  string
	CronSecret string // авторизация для триггеров фоновых задач

	BotToken         string
	AdminBotEnabled  bool
	AdminTelegramIDs []int64

	// cron-расписания фоновых задач
	AccrualSchedule   string
	MaturitySchedule  string
	RetentionSchedule string
	SchedulerEnabled  bool
}

// Load читает конфигурацию из окружения (.env подхватывается, если есть)
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppPort:     getEnv("APP_PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		JWTSecret:  os.Getenv("JWT_SECRET"),
		CronSecret: os.Getenv("CRON_SECRET"),

		BotToken:         os.Getenv("BOT_TOKEN"),
		AdminBotEnabled:  getEnvBool("ADMIN_BOT_ENABLED", false),
		AdminTelegramIDs: parseIDList(os.Getenv("ADMIN_TELEGRAM_IDS")),

		// начисления в 00:01, погашение стейкинга в 00:30, очистка раз в неделю
		AccrualSchedule:   getEnv("ACCRUAL_SCHEDULE", "1 0 * * *"),
		MaturitySchedule:  getEnv("MATURITY_SCHEDULE", "30 0 * * *"),
		RetentionSchedule: getEnv("RETENTION_SCHEDULE", "0 3 * * 1"),
		SchedulerEnabled:  getEnvBool("SCHEDULER_ENABLED", true),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// разбирает список telegram id через запятую
func parseIDList(raw string) []int64 {
	if raw == "" {
		return nil
	}
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if id, err := strconv.ParseInt(part, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}
