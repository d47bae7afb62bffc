package service

import (
	"context"

	"invest_webapp/internal/domain"
	"invest_webapp/internal/logger"
	"invest_webapp/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

// обрабатывает логирование аудита
type AuditService struct {
	repo *repository.AuditRepository
}

func NewAuditService(db *pgxpool.Pool) *AuditService {
	return &AuditService{
		repo: repository.NewAuditRepository(db),
	}
}

// создает новую запись в журнале аудита
func (s *AuditService) Log(ctx context.Context, log *domain.AuditLog) {
	if err := s.repo.Create(ctx, log); err != nil {
		logger.Error("не удалось создать запись аудита", "error", err, "action", log.Action)
	}
}

// логирует итог прогона фоновой задачи
func (s *AuditService) LogJobRun(ctx context.Context, action string, details map[string]interface{}) {
	s.Log(ctx, &domain.AuditLog{
		Action:   action,
		Category: domain.AuditCategoryJob,
		Details:  details,
	})
}

// возвращает последние записи аудита
func (s *AuditService) GetRecentLogs(ctx context.Context, limit int) ([]*domain.AuditLog, error) {
	return s.repo.GetRecent(ctx, limit)
}

// возвращает записи аудита по категории
func (s *AuditService) GetLogsByCategory(ctx context.Context, category string, limit int) ([]*domain.AuditLog, error) {
	return s.repo.GetByCategory(ctx, category, limit)
}
