package domain

import (
	"time"

	"github.com/google/uuid"
)

// Статус инвестиции. Единственный разрешенный переход: active -> completed
type InvestmentStatus string

const (
	InvestmentActive    InvestmentStatus = "active"
	InvestmentCompleted InvestmentStatus = "completed"
)

// проверяет, допустим ли переход статуса
func (s InvestmentStatus) CanTransitionTo(next InvestmentStatus) bool {
	return s == InvestmentActive && next == InvestmentCompleted
}

// Тип инвестиции для записей о начислениях
type InvestmentType string

const (
	InvestmentTypeVip     InvestmentType = "vip"
	InvestmentTypeStaking InvestmentType = "staking"
)

// VIP-инвестиция: фиксированная дневная доходность, без даты погашения.
// DailyEarnings фиксируется при создании и больше не пересчитывается.
type VipInvestment struct {
	ID            uuid.UUID        `db:"id" json:"id"`
	UserID        uuid.UUID        `db:"user_id" json:"user_id"`
	Amount        float64          `db:"amount" json:"amount"`
	DailyEarnings float64          `db:"daily_earnings" json:"daily_earnings"`
	TotalEarned   float64          `db:"total_earned" json:"total_earned"` // только растет
	Status        InvestmentStatus `db:"status" json:"status"`
	CreatedAt     time.Time        `db:"created_at" json:"created_at"`
}

// Стейкинг: заморожен до UnlockDate, после чего тело возвращается на баланс.
// Начисления идут только пока дата начисления <= UnlockDate.
type StakingInvestment struct {
	ID            uuid.UUID        `db:"id" json:"id"`
	UserID        uuid.UUID        `db:"user_id" json:"user_id"`
	Amount        float64          `db:"amount" json:"amount"`
	DailyEarnings float64          `db:"daily_earnings" json:"daily_earnings"`
	TotalEarned   float64          `db:"total_earned" json:"total_earned"`
	UnlockDate    time.Time        `db:"unlock_date" json:"unlock_date"`
	Status        InvestmentStatus `db:"status" json:"status"`
	CreatedAt     time.Time        `db:"created_at" json:"created_at"`
}
