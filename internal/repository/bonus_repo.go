package repository

import (
	"context"

	"invest_webapp/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BonusRepository struct {
	db *pgxpool.Pool
}

func NewBonusRepository(db *pgxpool.Pool) *BonusRepository {
	return &BonusRepository{db: db}
}

// записывает реферальный бонус внутри транзакции начисления
func (r *BonusRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, b *domain.ReferralBonus) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return tx.QueryRow(ctx, `
		INSERT INTO referral_bonuses (id, referrer_id, referred_id, referred_name, level, amount, percentage)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, b.ID, b.ReferrerID, b.ReferredID, b.ReferredName, b.Level, b.Amount, b.Percentage).Scan(&b.CreatedAt)
}

// возвращает бонусы, полученные пригласившим
func (r *BonusRepository) GetByReferrer(ctx context.Context, referrerID uuid.UUID, limit int) ([]domain.ReferralBonus, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, referrer_id, referred_id, referred_name, level, amount, percentage, created_at
		FROM referral_bonuses
		WHERE referrer_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, referrerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bonuses []domain.ReferralBonus
	for rows.Next() {
		var b domain.ReferralBonus
		if err := rows.Scan(
			&b.ID, &b.ReferrerID, &b.ReferredID, &b.ReferredName, &b.Level, &b.Amount, &b.Percentage, &b.CreatedAt,
		); err != nil {
			return nil, err
		}
		bonuses = append(bonuses, b)
	}
	return bonuses, rows.Err()
}

// сумма бонусов пригласившего за все время
func (r *BonusRepository) TotalByReferrer(ctx context.Context, referrerID uuid.UUID) (float64, error) {
	var total float64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM referral_bonuses WHERE referrer_id = $1
	`, referrerID).Scan(&total)
	return total, err
}
