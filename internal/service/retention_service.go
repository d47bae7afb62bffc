package service

import (
	"context"
	"fmt"
	"time"

	"invest_webapp/internal/domain"
	"invest_webapp/internal/logger"
	"invest_webapp/internal/metrics"
	"invest_webapp/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Окно хранения исторических записей
const RetentionMonths = 6

// Итог очистки старых записей
type RetentionReport struct {
	TransactionsDeleted int64 `json:"transactions_deleted"`
	EarningsDeleted     int64 `json:"earnings_deleted"`
}

// Удаляет исторические записи старше окна хранения. Удаление необратимо,
// другого архива по дизайну нет
type RetentionService struct {
	txRepo      *repository.TransactionRepository
	earningRepo *repository.EarningRepository
	audit       *AuditService
}

func NewRetentionService(db *pgxpool.Pool) *RetentionService {
	return &RetentionService{
		txRepo:      repository.NewTransactionRepository(db),
		earningRepo: repository.NewEarningRepository(db),
		audit:       NewAuditService(db),
	}
}

// PurgeOldRecords удаляет завершенные/отклоненные транзакции и записи о
// начислениях старше 6 месяцев. Запускается после начислений и погашений
// в цикле планировщика, чтобы не трогать данные текущего дня
func (s *RetentionService) PurgeOldRecords(ctx context.Context, now time.Time) (*RetentionReport, error) {
	log := logger.With("component", "retention")
	report := &RetentionReport{}

	started := time.Now()
	cutoff := RetentionCutoff(now)
	log.Info("запуск очистки старых записей", "cutoff", cutoff)

	deleted, err := s.txRepo.DeleteOldFinalized(ctx, cutoff)
	if err != nil {
		return report, fmt.Errorf("очистка журнала операций: %w", err)
	}
	report.TransactionsDeleted = deleted

	deleted, err = s.earningRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return report, fmt.Errorf("очистка начислений: %w", err)
	}
	report.EarningsDeleted = deleted

	metrics.ObserveJobRun("retention_purge", true, time.Since(started))

	s.audit.LogJobRun(ctx, domain.AuditActionRetentionPurge, map[string]interface{}{
		"cutoff":               cutoff.Format(time.RFC3339),
		"transactions_deleted": report.TransactionsDeleted,
		"earnings_deleted":     report.EarningsDeleted,
	})

	log.Info("очистка завершена",
		"transactions_deleted", report.TransactionsDeleted,
		"earnings_deleted", report.EarningsDeleted)

	return report, nil
}

// RetentionCutoff возвращает отсечку окна хранения для момента времени now
func RetentionCutoff(now time.Time) time.Time {
	return now.AddDate(0, -RetentionMonths, 0)
}
