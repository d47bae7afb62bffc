package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"invest_webapp/internal/config"
	"invest_webapp/internal/logger"
	"invest_webapp/internal/service"

	"github.com/robfig/cron/v3"
)

// Имена фоновых задач. Это же ключи локов: HTTP-триггеры берут лок под
// тем же именем, поэтому cron-тик и ручной запуск исключают друг друга
const (
	JobDailyAccrual    = "daily_accrual"
	JobStakingMaturity = "staking_maturity"
	JobRetentionPurge  = "retention_purge"
)

// JobLockTTL - TTL лока задачи: ни одна задача не должна работать дольше
const JobLockTTL = 30 * time.Minute

// таймаут одного прогона
const jobTimeout = 25 * time.Minute

// Планировщик фоновых задач движка: дневные начисления, погашение
// стейкингов и очистка истории по cron-расписанию
type Scheduler struct {
	cron      *cron.Cron
	lock      *RunLock
	accrual   *service.AccrualService
	maturity  *service.MaturityService
	retention *service.RetentionService

	mu       sync.Mutex
	running  bool
	notifyCb func(string) // уведомление админов об итогах прогона
}

func New(cfg *config.Config, lock *RunLock, accrual *service.AccrualService, maturity *service.MaturityService, retention *service.RetentionService) (*Scheduler, error) {
	s := &Scheduler{
		cron:      cron.New(),
		lock:      lock,
		accrual:   accrual,
		maturity:  maturity,
		retention: retention,
	}

	// начисления в 00:01, погашение в 00:30, очистка раз в неделю -
	// порядок гарантирует, что очистка не трогает данные текущего дня
	if _, err := s.cron.AddFunc(cfg.AccrualSchedule, func() { s.RunAccrual() }); err != nil {
		return nil, fmt.Errorf("расписание начислений: %w", err)
	}
	if _, err := s.cron.AddFunc(cfg.MaturitySchedule, func() { s.RunMaturity() }); err != nil {
		return nil, fmt.Errorf("расписание погашений: %w", err)
	}
	if _, err := s.cron.AddFunc(cfg.RetentionSchedule, func() { s.RunRetention() }); err != nil {
		return nil, fmt.Errorf("расписание очистки: %w", err)
	}

	return s, nil
}

// Start запускает cron-цикл в фоне
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.cron.Start()
	logger.Info("планировщик фоновых задач запущен")
}

// Stop плавно останавливает планировщик, дожидаясь текущих задач
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false

	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
		logger.Info("планировщик остановлен")
	case <-time.After(30 * time.Second):
		logger.Warn("таймаут остановки планировщика, задачи могли не завершиться")
	}
}

// SetNotifyCallback устанавливает уведомление об итогах прогонов (админ-бот)
func (s *Scheduler) SetNotifyCallback(cb func(string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifyCb = cb
}

func (s *Scheduler) notify(text string) {
	s.mu.Lock()
	cb := s.notifyCb
	s.mu.Unlock()
	if cb != nil {
		go cb(text)
	}
}

// RunAccrual выполняет прогон дневных начислений под локом задачи
func (s *Scheduler) RunAccrual() {
	s.withLock(JobDailyAccrual, func(ctx context.Context) {
		report, err := s.accrual.RunDailyAccrual(ctx, time.Now())
		if err != nil {
			logger.Error("прогон начислений завершился ошибкой", "error", err)
			s.notify(fmt.Sprintf("❌ Начисления: %v", err))
			return
		}
		s.notify(fmt.Sprintf("✅ Начисления за %s: VIP %d, стейкинг %d, пропущено %d, ошибок %d",
			report.Date, report.VipProcessed, report.StakingProcessed, report.Skipped, report.Failed))
	})
}

// RunMaturity выполняет проход по погашенным стейкингам под локом задачи
func (s *Scheduler) RunMaturity() {
	s.withLock(JobStakingMaturity, func(ctx context.Context) {
		report, err := s.maturity.SweepMaturedStaking(ctx, time.Now())
		if err != nil {
			logger.Error("проход погашений завершился ошибкой", "error", err)
			s.notify(fmt.Sprintf("❌ Погашение стейкингов: %v", err))
			return
		}
		if report.Matured > 0 || report.Failed > 0 {
			s.notify(fmt.Sprintf("✅ Погашено стейкингов: %d, ошибок %d", report.Matured, report.Failed))
		}
	})
}

// RunRetention выполняет очистку старых записей под локом задачи
func (s *Scheduler) RunRetention() {
	s.withLock(JobRetentionPurge, func(ctx context.Context) {
		report, err := s.retention.PurgeOldRecords(ctx, time.Now())
		if err != nil {
			logger.Error("очистка истории завершилась ошибкой", "error", err)
			s.notify(fmt.Sprintf("❌ Очистка истории: %v", err))
			return
		}
		s.notify(fmt.Sprintf("🧹 Очистка истории: транзакций %d, начислений %d",
			report.TransactionsDeleted, report.EarningsDeleted))
	})
}

// withLock выполняет задачу, если ее лок свободен, иначе молча пропускает тик
func (s *Scheduler) withLock(job string, fn func(ctx context.Context)) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	ok, release, err := s.lock.Acquire(ctx, job, JobLockTTL)
	if err != nil {
		logger.Error("не удалось взять лок задачи", "job", job, "error", err)
		return
	}
	if !ok {
		logger.Info("задача уже выполняется, тик пропущен", "job", job)
		return
	}
	defer release()

	fn(ctx)
}
