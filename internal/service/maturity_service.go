package service

import (
	"context"
	"fmt"
	"time"

	"invest_webapp/internal/domain"
	"invest_webapp/internal/logger"
	"invest_webapp/internal/metrics"
	"invest_webapp/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Итог прохода по погашенным стейкингам
type MaturityReport struct {
	Matured int      `json:"matured"`
	Skipped int      `json:"skipped"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// Закрывает стейкинги с наступившей датой разблокировки и возвращает тело
// инвестиции на вывод
type MaturityService struct {
	db             *pgxpool.Pool
	investmentRepo *repository.InvestmentRepository
	userRepo       *repository.UserRepository
	txRepo         *repository.TransactionRepository
	audit          *AuditService
}

func NewMaturityService(db *pgxpool.Pool) *MaturityService {
	return &MaturityService{
		db:             db,
		investmentRepo: repository.NewInvestmentRepository(db),
		userRepo:       repository.NewUserRepository(db),
		txRepo:         repository.NewTransactionRepository(db),
		audit:          NewAuditService(db),
	}
}

// SweepMaturedStaking закрывает все активные стейкинги с unlock_date <= now.
// Перевод в completed выполняется compare-and-set'ом и коммитится в одной
// транзакции с возвратом тела, поэтому повторный проход (или параллельный)
// не может вернуть тело дважды
func (s *MaturityService) SweepMaturedStaking(ctx context.Context, now time.Time) (*MaturityReport, error) {
	log := logger.With("component", "maturity")
	report := &MaturityReport{}

	started := time.Now()

	matured, err := s.investmentRepo.GetMaturedStaking(ctx, now)
	if err != nil {
		return report, fmt.Errorf("выборка погашенных стейкингов: %w", err)
	}

	for _, inv := range matured {
		ok, err := s.matureOne(ctx, &inv)
		if err != nil {
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("staking %s: %v", domain.ShortID(inv.ID), err))
			log.Error("ошибка погашения стейкинга", "investment_id", inv.ID, "error", err)
			continue
		}
		if ok {
			report.Matured++
			log.Info("стейкинг погашен, тело возвращено",
				"investment_id", inv.ID,
				"user_id", inv.UserID,
				"amount", inv.Amount)
		} else {
			// кто-то успел закрыть строку между выборкой и CAS
			report.Skipped++
		}
	}

	metrics.ObserveJobRun("staking_maturity", report.Failed == 0, time.Since(started))

	s.audit.LogJobRun(ctx, domain.AuditActionMaturitySweep, map[string]interface{}{
		"matured": report.Matured,
		"skipped": report.Skipped,
		"failed":  report.Failed,
	})

	return report, nil
}

// matureOne закрывает один стейкинг: CAS статуса, возврат тела на
// balance_withdrawal и строка журнала - одной транзакцией
func (s *MaturityService) matureOne(ctx context.Context, inv *domain.StakingInvestment) (bool, error) {
	if !inv.Status.CanTransitionTo(domain.InvestmentCompleted) {
		return false, nil
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	flipped, err := s.investmentRepo.CompleteStaking(ctx, tx, inv.ID)
	if err != nil {
		return false, fmt.Errorf("перевод в completed: %w", err)
	}
	if !flipped {
		return false, nil
	}

	// возвращается тело инвестиции, не daily_earnings; total_earned не растет
	if _, err := s.userRepo.AdjustBalance(ctx, tx, inv.UserID, domain.BalanceWithdrawal, inv.Amount, 0); err != nil {
		return false, fmt.Errorf("возврат тела: %w", err)
	}

	if err := s.txRepo.CreateWithTx(ctx, tx, &domain.Transaction{
		UserID:    inv.UserID,
		Type:      domain.TransactionEarning,
		Amount:    inv.Amount,
		Status:    domain.TransactionCompleted,
		Reference: domain.NewReference(domain.RefStakingRefund, inv.ID),
	}); err != nil {
		return false, fmt.Errorf("строка журнала: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}

	metrics.PrincipalRefunded(inv.Amount)

	s.audit.Log(ctx, &domain.AuditLog{
		UserID:   &inv.UserID,
		Action:   domain.AuditActionPrincipalRefund,
		Category: domain.AuditCategoryBalance,
		Details: map[string]interface{}{
			"investment_id": inv.ID.String(),
			"amount":        inv.Amount,
		},
	})

	return true, nil
}
