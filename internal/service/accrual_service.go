package service

import (
	"context"
	"fmt"
	"time"

	"invest_webapp/internal/domain"
	"invest_webapp/internal/logger"
	"invest_webapp/internal/metrics"
	"invest_webapp/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Итог прогона дневных начислений
type AccrualReport struct {
	Date             string   `json:"date"`
	VipProcessed     int      `json:"vip_processed"`
	StakingProcessed int      `json:"staking_processed"`
	Skipped          int      `json:"skipped"`
	Failed           int      `json:"failed"`
	Errors           []string `json:"errors,omitempty"`
}

// Движок дневных начислений: один раз в календарный день начисляет
// daily_earnings по каждой активной инвестиции
type AccrualService struct {
	db             *pgxpool.Pool
	investmentRepo *repository.InvestmentRepository
	earningRepo    *repository.EarningRepository
	userRepo       *repository.UserRepository
	txRepo         *repository.TransactionRepository
	audit          *AuditService
}

func NewAccrualService(db *pgxpool.Pool) *AccrualService {
	return &AccrualService{
		db:             db,
		investmentRepo: repository.NewInvestmentRepository(db),
		earningRepo:    repository.NewEarningRepository(db),
		userRepo:       repository.NewUserRepository(db),
		txRepo:         repository.NewTransactionRepository(db),
		audit:          NewAuditService(db),
	}
}

// RunDailyAccrual начисляет дневной доход по всем активным инвестициям за
// календарный день asOf. Прогон идемпотентен: повторный запуск за тот же день
// не создает дублей (уникальный индекс на investment_id + earning_date).
// Ошибка по одной инвестиции не прерывает прогон - она логируется и попадает
// в отчет, остальные инвестиции обрабатываются дальше.
func (s *AccrualService) RunDailyAccrual(ctx context.Context, asOf time.Time) (*AccrualReport, error) {
	log := logger.With("component", "accrual")
	date := domain.EarningDay(asOf)
	report := &AccrualReport{Date: date.Format("2006-01-02")}

	started := time.Now()
	log.Info("запуск дневных начислений", "date", report.Date)

	vips, err := s.investmentRepo.GetActiveVip(ctx)
	if err != nil {
		return report, fmt.Errorf("выборка VIP-инвестиций: %w", err)
	}

	for _, inv := range vips {
		credited, err := s.accrueOne(ctx, accrualItem{
			investmentID:   inv.ID,
			userID:         inv.UserID,
			investmentType: domain.InvestmentTypeVip,
			amount:         inv.DailyEarnings,
			date:           date,
		})
		if err != nil {
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("vip %s: %v", domain.ShortID(inv.ID), err))
			log.Error("ошибка начисления по VIP-инвестиции", "investment_id", inv.ID, "error", err)
			continue
		}
		if credited {
			report.VipProcessed++
		} else {
			report.Skipped++
		}
	}

	stakings, err := s.investmentRepo.GetActiveStaking(ctx)
	if err != nil {
		// VIP уже обработаны и закоммичены, их результат сохраняем в отчете
		return report, fmt.Errorf("выборка стейкинг-инвестиций: %w", err)
	}

	for _, inv := range stakings {
		// после даты разблокировки начисления замораживаются до прохода
		// maturity sweep'а; сама дата разблокировки еще начисляется
		if !StakingAccruable(inv.UnlockDate, date) {
			continue
		}

		credited, err := s.accrueOne(ctx, accrualItem{
			investmentID:   inv.ID,
			userID:         inv.UserID,
			investmentType: domain.InvestmentTypeStaking,
			amount:         inv.DailyEarnings,
			date:           date,
		})
		if err != nil {
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("staking %s: %v", domain.ShortID(inv.ID), err))
			log.Error("ошибка начисления по стейкингу", "investment_id", inv.ID, "error", err)
			continue
		}
		if credited {
			report.StakingProcessed++
		} else {
			report.Skipped++
		}
	}

	metrics.ObserveJobRun("daily_accrual", report.Failed == 0, time.Since(started))

	s.audit.LogJobRun(ctx, domain.AuditActionAccrualRun, map[string]interface{}{
		"date":              report.Date,
		"vip_processed":     report.VipProcessed,
		"staking_processed": report.StakingProcessed,
		"skipped":           report.Skipped,
		"failed":            report.Failed,
	})

	log.Info("дневные начисления завершены",
		"date", report.Date,
		"vip", report.VipProcessed,
		"staking", report.StakingProcessed,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"duration", time.Since(started))

	// ни одна инвестиция не прошла - похоже на недоступность базы,
	// вызывающая сторона должна увидеть сбой, а не success
	if report.allFailed() {
		return report, fmt.Errorf("ни одно начисление не прошло: %s", report.Errors[0])
	}

	return report, nil
}

// allFailed сообщает, что прогон не обработал ни одной инвестиции и все
// попытки завершились ошибкой
func (r *AccrualReport) allFailed() bool {
	return r.Failed > 0 && r.VipProcessed+r.StakingProcessed+r.Skipped == 0
}

type accrualItem struct {
	investmentID   uuid.UUID
	userID         uuid.UUID
	investmentType domain.InvestmentType
	amount         float64
	date           time.Time
}

// accrueOne выполняет одно начисление атомарно: запись о начислении,
// инкремент накопленного заработка инвестиции, кредит баланса и строка
// журнала коммитятся одной транзакцией. Возвращает false, если начисление
// за этот день уже существует (повторный прогон)
func (s *AccrualService) accrueOne(ctx context.Context, item accrualItem) (bool, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	inserted, err := s.earningRepo.InsertIfAbsent(ctx, tx, &domain.DailyEarning{
		UserID:         item.userID,
		InvestmentID:   item.investmentID,
		InvestmentType: item.investmentType,
		Amount:         item.amount,
		EarningDate:    item.date,
	})
	if err != nil {
		return false, fmt.Errorf("запись начисления: %w", err)
	}
	if !inserted {
		// за этот день уже начислено - не ошибка
		return false, nil
	}

	if item.investmentType == domain.InvestmentTypeVip {
		err = s.investmentRepo.AddVipEarned(ctx, tx, item.investmentID, item.amount)
	} else {
		err = s.investmentRepo.AddStakingEarned(ctx, tx, item.investmentID, item.amount)
	}
	if err != nil {
		return false, fmt.Errorf("инкремент заработка инвестиции: %w", err)
	}

	if _, err := s.userRepo.AdjustBalance(ctx, tx, item.userID, domain.BalanceWithdrawal, item.amount, item.amount); err != nil {
		return false, fmt.Errorf("кредит баланса: %w", err)
	}

	prefix := domain.RefVipEarning
	if item.investmentType == domain.InvestmentTypeStaking {
		prefix = domain.RefStakingEarning
	}

	if err := s.txRepo.CreateWithTx(ctx, tx, &domain.Transaction{
		UserID:    item.userID,
		Type:      domain.TransactionEarning,
		Amount:    item.amount,
		Status:    domain.TransactionCompleted,
		Reference: domain.NewReference(prefix, item.investmentID),
	}); err != nil {
		return false, fmt.Errorf("строка журнала: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}

	metrics.EarningCredited(string(item.investmentType), item.amount)

	s.audit.Log(ctx, &domain.AuditLog{
		UserID:   &item.userID,
		Action:   domain.AuditActionEarningCredit,
		Category: domain.AuditCategoryBalance,
		Details: map[string]interface{}{
			"investment_id":   item.investmentID.String(),
			"investment_type": string(item.investmentType),
			"amount":          item.amount,
			"date":            item.date.Format("2006-01-02"),
		},
	})

	return true, nil
}

// StakingAccruable сообщает, начисляется ли доход по стейкингу за данный
// календарный день. Граница включающая: день, на который приходится
// unlock_date, еще начисляется
func StakingAccruable(unlockDate, day time.Time) bool {
	return !domain.EarningDay(day).After(unlockDate)
}
