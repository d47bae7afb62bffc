package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	Phone             string     `db:"phone" json:"phone"`
	BalanceDeposit    float64    `db:"balance_deposit" json:"balance_deposit"`       // пополняемый баланс
	BalanceWithdrawal float64    `db:"balance_withdrawal" json:"balance_withdrawal"` // заработанное, доступно к выводу
	TotalEarned       float64    `db:"total_earned" json:"total_earned"`             // заработано за все время
	ReferredBy        *uuid.UUID `db:"referred_by" json:"referred_by,omitempty"`     // кто пригласил
	VipLevel          int        `db:"vip_level" json:"vip_level"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
}

// Поля баланса, которые разрешено менять атомарным инкрементом
type BalanceField string

const (
	BalanceDeposit    BalanceField = "balance_deposit"
	BalanceWithdrawal BalanceField = "balance_withdrawal"
)

// Максимальная глубина реферальной цепочки
const MaxReferralDepth = 3
