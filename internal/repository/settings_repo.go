package repository

import (
	"context"
	"encoding/json"
	"errors"

	"invest_webapp/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SettingsRepository struct {
	db *pgxpool.Pool
}

func NewSettingsRepository(db *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get возвращает настройку по ключу или nil, если настройки нет
func (r *SettingsRepository) Get(ctx context.Context, key string) (*domain.PlatformSetting, error) {
	setting := domain.PlatformSetting{Key: key}
	err := r.db.QueryRow(ctx,
		`SELECT value, updated_at FROM platform_settings WHERE key = $1`,
		key,
	).Scan(&setting.Value, &setting.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &setting, nil
}

// Set записывает значение настройки (upsert)
func (r *SettingsRepository) Set(ctx context.Context, key string, value json.RawMessage) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO platform_settings (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`, key, value)
	return err
}
