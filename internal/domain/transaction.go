package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TransactionEarning    TransactionType = "earning"
	TransactionReferral   TransactionType = "referral"
	TransactionDeposit    TransactionType = "deposit"
	TransactionWithdrawal TransactionType = "withdrawal"
)

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionApproved  TransactionStatus = "approved"
	TransactionRejected  TransactionStatus = "rejected"
)

// финальные статусы, строки с ними попадают под ретеншн-очистку
func (s TransactionStatus) IsFinal() bool {
	return s == TransactionCompleted || s == TransactionRejected
}

// Строка в журнале операций. Каждая мутация баланса создает ровно одну такую
// строку с человекочитаемым тегом Reference вида <PREFIX>-<id8>.
type Transaction struct {
	ID         int64             `db:"id" json:"id"`
	UserID     uuid.UUID         `db:"user_id" json:"user_id"`
	Type       TransactionType   `db:"type" json:"type"`
	Amount     float64           `db:"amount" json:"amount"`
	Status     TransactionStatus `db:"status" json:"status"`
	Reference  string            `db:"reference" json:"reference"`
	AdminNotes string            `db:"admin_notes" json:"admin_notes,omitempty"`
	CreatedAt  time.Time         `db:"created_at" json:"created_at"`
}

// Префиксы тегов журнала
const (
	RefVipEarning     = "VIP-EARN"
	RefStakingEarning = "STAKE-EARN"
	RefStakingRefund  = "STAKE-REFUND"
)

// ShortID возвращает первые 8 символов uuid для тегов журнала
func ShortID(id uuid.UUID) string {
	return id.String()[:8]
}

// NewReference собирает тег журнала вида PREFIX-id8
func NewReference(prefix string, id uuid.UUID) string {
	return prefix + "-" + ShortID(id)
}

// ReferralReference собирает тег реферального бонуса вида REF-L<level>-<referredId8>
func ReferralReference(level int, referredID uuid.UUID) string {
	return fmt.Sprintf("REF-L%d-%s", level, ShortID(referredID))
}
