package domain

import (
	"time"

	"github.com/google/uuid"
)

// Реферальный бонус за инвестицию приглашенного. Создается один раз на
// событие инвестиции и уровень, после создания не изменяется.
type ReferralBonus struct {
	ID           uuid.UUID `db:"id" json:"id"`
	ReferrerID   uuid.UUID `db:"referrer_id" json:"referrer_id"`
	ReferredID   uuid.UUID `db:"referred_id" json:"referred_id"`
	ReferredName string    `db:"referred_name" json:"referred_name"` // снимок на момент начисления
	Level        int       `db:"level" json:"level"`                 // 1..3
	Amount       float64   `db:"amount" json:"amount"`
	Percentage   float64   `db:"percentage" json:"percentage"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Проценты бонусов по уровням цепочки
type ReferralRates struct {
	Level1 float64 `json:"level1"`
	Level2 float64 `json:"level2"`
	Level3 float64 `json:"level3"`
}

// значения по умолчанию, если настройка отсутствует или битая
var DefaultReferralRates = ReferralRates{Level1: 11, Level2: 2, Level3: 1}

// ForLevel возвращает процент для уровня 1..3
func (r ReferralRates) ForLevel(level int) float64 {
	switch level {
	case 1:
		return r.Level1
	case 2:
		return r.Level2
	case 3:
		return r.Level3
	}
	return 0
}
