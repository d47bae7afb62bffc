package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"invest_webapp/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

var rateLimitClient *redis.Client

// InitRedisRateLimiter подключает redis для лимитера запросов. С пустым
// адресом лимитер отключен (запросы проходят без ограничений)
func InitRedisRateLimiter(addr, password string, db int) {
	if addr == "" {
		logger.Warn("rate limiter отключен: REDIS_ADDR не задан")
		return
	}
	rateLimitClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// RateLimitClient возвращает клиент redis лимитера (для переиспользования)
func RateLimitClient() *redis.Client {
	return rateLimitClient
}

// RateLimit ограничивает количество запросов с одного ip в окне window.
// При недоступном redis запросы пропускаются
func RateLimit(limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rateLimitClient == nil {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		key := fmt.Sprintf("ratelimit:%s:%s", c.FullPath(), c.ClientIP())

		count, err := rateLimitClient.Incr(ctx, key).Result()
		if err != nil {
			c.Next()
			return
		}
		if count == 1 {
			rateLimitClient.Expire(ctx, key, window)
		}

		if count > int64(limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}

		c.Next()
	}
}
