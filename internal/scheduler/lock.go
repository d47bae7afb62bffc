package scheduler

import (
	"context"
	"os"
	"time"

	"invest_webapp/internal/logger"

	"github.com/redis/go-redis/v9"
)

// RunLock не дает двум источникам триггеров (cron-тик и ручной запуск)
// выполнять одну задачу одновременно. Лок берется через SET NX с TTL.
// Корректность денег от лока не зависит - идемпотентность обеспечивают
// уникальные индексы и CAS в базе, лок только экономит пустые прогоны
type RunLock struct {
	client *redis.Client
}

func NewRunLock(client *redis.Client) *RunLock {
	return &RunLock{client: client}
}

// Acquire пытается взять лок задачи. Возвращает false, если задача уже
// выполняется. Без настроенного redis лок всегда успешен (одиночный узел)
func (l *RunLock) Acquire(ctx context.Context, job string, ttl time.Duration) (bool, func(), error) {
	if l.client == nil {
		return true, func() {}, nil
	}

	key := "jobs:lock:" + job
	owner, _ := os.Hostname()

	ok, err := l.client.SetNX(ctx, key, owner, ttl).Result()
	if err != nil {
		// redis недоступен - не блокируем задачу, база защитит от дублей
		logger.Warn("redis недоступен, задача запускается без лока", "job", job, "error", err)
		return true, func() {}, nil
	}
	if !ok {
		return false, nil, nil
	}

	release := func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := l.client.Del(releaseCtx, key).Err(); err != nil {
			logger.Warn("не удалось снять лок задачи", "job", job, "error", err)
		}
	}
	return true, release, nil
}
