package service

import (
	"context"
	"time"

	"invest_webapp/internal/domain"
	"invest_webapp/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Сводка по платформе для админ-бота
type PlatformStats struct {
	Users         int64   `json:"users"`
	ActiveVip     int64   `json:"active_vip"`
	ActiveStaking int64   `json:"active_staking"`
	EarningsToday float64 `json:"earnings_today"`
}

// Собирает статистику для административных команд
type AdminService struct {
	userRepo       *repository.UserRepository
	investmentRepo *repository.InvestmentRepository
	earningRepo    *repository.EarningRepository
	audit          *AuditService
}

func NewAdminService(db *pgxpool.Pool) *AdminService {
	return &AdminService{
		userRepo:       repository.NewUserRepository(db),
		investmentRepo: repository.NewInvestmentRepository(db),
		earningRepo:    repository.NewEarningRepository(db),
		audit:          NewAuditService(db),
	}
}

// GetStats собирает текущую сводку по платформе
func (s *AdminService) GetStats(ctx context.Context) (*PlatformStats, error) {
	stats := &PlatformStats{}

	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	stats.Users = users

	vip, staking, err := s.investmentRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	stats.ActiveVip = vip
	stats.ActiveStaking = staking

	today := domain.EarningDay(time.Now())
	earnings, err := s.earningRepo.SumForDate(ctx, today)
	if err != nil {
		return nil, err
	}
	stats.EarningsToday = earnings

	return stats, nil
}

// возвращает последние прогоны фоновых задач из аудита
func (s *AdminService) GetRecentJobRuns(ctx context.Context, limit int) ([]*domain.AuditLog, error) {
	return s.audit.GetLogsByCategory(ctx, domain.AuditCategoryJob, limit)
}

// возвращает последние записи аудита по всем категориям для команды /audit
func (s *AdminService) GetRecentAudit(ctx context.Context, limit int) ([]*domain.AuditLog, error) {
	return s.audit.GetRecentLogs(ctx, limit)
}
