package domain

import (
	"time"

	"github.com/google/uuid"
)

// Журнал аудита важных действий платформы
type AuditLog struct {
	ID        int64                  `db:"id" json:"id"`
	UserID    *uuid.UUID             `db:"user_id" json:"user_id,omitempty"` // nil для системных задач
	Action    string                 `db:"action" json:"action"`
	Category  string                 `db:"category" json:"category"`
	Details   map[string]interface{} `db:"details" json:"details"`
	CreatedAt time.Time              `db:"created_at" json:"created_at"`
}

// Категории действий
const (
	AuditCategoryJob      = "job"
	AuditCategoryBalance  = "balance"
	AuditCategoryReferral = "referral"
)

const (
	// Фоновые задачи
	AuditActionAccrualRun     = "accrual_run"
	AuditActionMaturitySweep  = "maturity_sweep"
	AuditActionRetentionPurge = "retention_purge"
	AuditActionCascadeRun     = "cascade_run"

	// Движение денег
	AuditActionEarningCredit   = "earning_credit"
	AuditActionPrincipalRefund = "principal_refund"
	AuditActionReferralBonus   = "referral_bonus"
)
