package domain

import (
	"encoding/json"
	"time"
)

// Настройка платформы в виде ключ/значение (значение - jsonb)
type PlatformSetting struct {
	Key       string          `db:"key" json:"key"`
	Value     json.RawMessage `db:"value" json:"value"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// Ключи настроек, которые читает движок
const (
	SettingReferralRates = "referral_rates"
)
