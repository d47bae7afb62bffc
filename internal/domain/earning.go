package domain

import (
	"time"

	"github.com/google/uuid"
)

// Запись о дневном начислении. Создается не более одного раза на инвестицию
// за календарный день (уникальный индекс на investment_id + earning_date),
// после создания не изменяется.
type DailyEarning struct {
	ID             uuid.UUID      `db:"id" json:"id"`
	UserID         uuid.UUID      `db:"user_id" json:"user_id"`
	InvestmentID   uuid.UUID      `db:"investment_id" json:"investment_id"`
	InvestmentType InvestmentType `db:"investment_type" json:"investment_type"`
	Amount         float64        `db:"amount" json:"amount"`
	EarningDate    time.Time      `db:"earning_date" json:"earning_date"` // календарный день, не момент времени
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
}

// EarningDay приводит момент времени к календарному дню (UTC)
func EarningDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
