package handlers

import (
	"invest_webapp/internal/repository"
	"invest_webapp/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Handler держит зависимости HTTP-обработчиков
type Handler struct {
	DB   *pgxpool.Pool
	Lock jobLock

	AccrualService   *service.AccrualService
	MaturityService  *service.MaturityService
	ReferralService  *service.ReferralService
	RetentionService *service.RetentionService

	UserRepo        *repository.UserRepository
	InvestmentRepo  *repository.InvestmentRepository
	EarningRepo     *repository.EarningRepository
	TransactionRepo *repository.TransactionRepository
	BonusRepo       *repository.BonusRepository
}

func New(db *pgxpool.Pool, lock jobLock) *Handler {
	return &Handler{
		DB:               db,
		Lock:             lock,
		AccrualService:   service.NewAccrualService(db),
		MaturityService:  service.NewMaturityService(db),
		ReferralService:  service.NewReferralService(db),
		RetentionService: service.NewRetentionService(db),
		UserRepo:         repository.NewUserRepository(db),
		InvestmentRepo:   repository.NewInvestmentRepository(db),
		EarningRepo:      repository.NewEarningRepository(db),
		TransactionRepo:  repository.NewTransactionRepository(db),
		BonusRepo:        repository.NewBonusRepository(db),
	}
}

// достает id пользователя, положенный в контекст auth-middleware
func getUserID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetString("user_id")
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
