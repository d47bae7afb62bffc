package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"invest_webapp/internal/domain"
	"invest_webapp/internal/logger"
	"invest_webapp/internal/metrics"
	"invest_webapp/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Итог каскада реферальных бонусов по одной инвестиции
type CascadeReport struct {
	Levels int      `json:"levels"` // сколько уровней получили бонус
	Total  float64  `json:"total"`  // сумма всех бонусов
	Failed int      `json:"failed"`
	Errors []string `json:"errors,omitempty"`
}

// функция поиска пригласившего; выделена, чтобы обход цепочки тестировался
// без базы
type referrerLookup func(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error)

// Распределяет комиссию по цепочке пригласивших (до 3 уровней вверх)
type ReferralService struct {
	db           *pgxpool.Pool
	userRepo     *repository.UserRepository
	bonusRepo    *repository.BonusRepository
	txRepo       *repository.TransactionRepository
	settingsRepo *repository.SettingsRepository
	audit        *AuditService
}

func NewReferralService(db *pgxpool.Pool) *ReferralService {
	return &ReferralService{
		db:           db,
		userRepo:     repository.NewUserRepository(db),
		bonusRepo:    repository.NewBonusRepository(db),
		txRepo:       repository.NewTransactionRepository(db),
		settingsRepo: repository.NewSettingsRepository(db),
		audit:        NewAuditService(db),
	}
}

// CascadeBonus начисляет реферальные бонусы по цепочке пригласивших для
// события новой инвестиции. Проценты берутся из настройки referral_rates,
// при ее отсутствии или порче применяются значения по умолчанию. Обход
// ограничен тремя уровнями и защищен от циклов в данных
func (s *ReferralService) CascadeBonus(ctx context.Context, investorID uuid.UUID, amount float64) (*CascadeReport, error) {
	log := logger.With("component", "referral")
	report := &CascadeReport{}

	if amount <= 0 {
		return report, ErrInvalidAmount
	}

	started := time.Now()

	investor, err := s.userRepo.GetByID(ctx, investorID)
	if err != nil {
		return report, fmt.Errorf("поиск инвестора: %w", err)
	}
	if investor == nil {
		return report, ErrUserNotFound
	}

	rates := s.loadRates(ctx)

	chain, err := CollectReferralChain(ctx, s.userRepo.GetReferrerID, investorID, domain.MaxReferralDepth)
	if err != nil {
		return report, fmt.Errorf("обход цепочки пригласивших: %w", err)
	}
	if len(chain) == 0 {
		log.Debug("у инвестора нет пригласившего", "user_id", investorID)
		return report, nil
	}

	for i, referrerID := range chain {
		level := i + 1
		pct := rates.ForLevel(level)
		bonus := ComputeBonus(amount, pct)

		if err := s.payBonus(ctx, referrerID, investor, level, bonus, pct); err != nil {
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("level %d: %v", level, err))
			log.Error("ошибка начисления реферального бонуса",
				"referrer_id", referrerID,
				"level", level,
				"error", err)
			continue
		}

		report.Levels++
		report.Total += bonus
		log.Info("реферальный бонус начислен",
			"referrer_id", referrerID,
			"referred_id", investorID,
			"level", level,
			"amount", bonus)
	}

	metrics.ObserveJobRun("referral_cascade", report.Failed == 0, time.Since(started))

	s.audit.LogJobRun(ctx, domain.AuditActionCascadeRun, map[string]interface{}{
		"referred_id": investorID.String(),
		"amount":      amount,
		"levels":      report.Levels,
		"total":       report.Total,
		"failed":      report.Failed,
	})

	return report, nil
}

// payBonus начисляет бонус одному пригласившему: строка бонуса, кредит
// баланса и строка журнала - одной транзакцией
func (s *ReferralService) payBonus(ctx context.Context, referrerID uuid.UUID, investor *domain.User, level int, bonus, pct float64) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := s.bonusRepo.CreateWithTx(ctx, tx, &domain.ReferralBonus{
		ReferrerID:   referrerID,
		ReferredID:   investor.ID,
		ReferredName: investor.Phone,
		Level:        level,
		Amount:       bonus,
		Percentage:   pct,
	}); err != nil {
		return fmt.Errorf("строка бонуса: %w", err)
	}

	if _, err := s.userRepo.AdjustBalance(ctx, tx, referrerID, domain.BalanceWithdrawal, bonus, 0); err != nil {
		return fmt.Errorf("кредит баланса: %w", err)
	}

	if err := s.txRepo.CreateWithTx(ctx, tx, &domain.Transaction{
		UserID:    referrerID,
		Type:      domain.TransactionReferral,
		Amount:    bonus,
		Status:    domain.TransactionCompleted,
		Reference: domain.ReferralReference(level, investor.ID),
	}); err != nil {
		return fmt.Errorf("строка журнала: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	metrics.BonusPaid(level, bonus)

	s.audit.Log(ctx, &domain.AuditLog{
		UserID:   &referrerID,
		Action:   domain.AuditActionReferralBonus,
		Category: domain.AuditCategoryReferral,
		Details: map[string]interface{}{
			"referred_id": investor.ID.String(),
			"level":       level,
			"amount":      bonus,
			"percentage":  pct,
		},
	})

	return nil
}

// loadRates читает проценты из настроек, откатываясь на значения по
// умолчанию при любой проблеме
func (s *ReferralService) loadRates(ctx context.Context) domain.ReferralRates {
	setting, err := s.settingsRepo.Get(ctx, domain.SettingReferralRates)
	if err != nil {
		logger.Warn("не удалось прочитать referral_rates, используются значения по умолчанию", "error", err)
		return domain.DefaultReferralRates
	}
	if setting == nil {
		return domain.DefaultReferralRates
	}
	return ParseReferralRates(setting.Value)
}

// ParseReferralRates разбирает настройку referral_rates. Отсутствующая или
// битая настройка (а также неположительные проценты) заменяется значениями
// по умолчанию целиком
func ParseReferralRates(raw json.RawMessage) domain.ReferralRates {
	if len(raw) == 0 {
		return domain.DefaultReferralRates
	}

	var rates domain.ReferralRates
	if err := json.Unmarshal(raw, &rates); err != nil {
		logger.Warn("битая настройка referral_rates, используются значения по умолчанию", "error", err)
		return domain.DefaultReferralRates
	}
	if rates.Level1 <= 0 || rates.Level2 < 0 || rates.Level3 < 0 {
		return domain.DefaultReferralRates
	}
	return rates
}

// CollectReferralChain собирает цепочку пригласивших снизу вверх, не глубже
// maxDepth уровней. Обход защищен от циклов в поле referred_by (A пригласил B,
// B пригласил A): уже посещенный id останавливает обход
func CollectReferralChain(ctx context.Context, lookup referrerLookup, start uuid.UUID, maxDepth int) ([]uuid.UUID, error) {
	visited := map[uuid.UUID]bool{start: true}
	var chain []uuid.UUID

	current := start
	for len(chain) < maxDepth {
		referrer, err := lookup(ctx, current)
		if err != nil {
			return chain, err
		}
		if referrer == nil {
			break
		}
		if visited[*referrer] {
			logger.Warn("цикл в реферальной цепочке, обход остановлен", "user_id", referrer.String())
			break
		}
		visited[*referrer] = true
		chain = append(chain, *referrer)
		current = *referrer
	}

	return chain, nil
}

// ComputeBonus считает бонус как простой процент от суммы инвестиции
// (без компаундинга между уровнями), округляя до копеек
func ComputeBonus(amount, pct float64) float64 {
	return math.Round(amount*pct) / 100
}
