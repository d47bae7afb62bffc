package repository

import (
	"context"
	"errors"
	"fmt"

	"invest_webapp/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// получает пользователя по id
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, phone, balance_deposit, balance_withdrawal, total_earned, referred_by, vip_level, created_at
		FROM users
		WHERE id = $1
	`, id)

	return scanUser(row)
}

// возвращает id пригласившего или nil, если пользователя никто не приглашал
func (r *UserRepository) GetReferrerID(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error) {
	var referrerID *uuid.UUID
	err := r.db.QueryRow(ctx,
		`SELECT referred_by FROM users WHERE id = $1`,
		userID,
	).Scan(&referrerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return referrerID, nil
}

// AdjustBalance атомарно изменяет один из балансов пользователя внутри
// транзакции. Инкремент выполняется на стороне базы относительно хранимого
// значения, прочитанная ранее копия не используется. earnedDelta дополнительно
// увеличивает счетчик total_earned.
func (r *UserRepository) AdjustBalance(ctx context.Context, tx pgx.Tx, userID uuid.UUID, field domain.BalanceField, delta, earnedDelta float64) (float64, error) {
	var column string
	switch field {
	case domain.BalanceDeposit:
		column = "balance_deposit"
	case domain.BalanceWithdrawal:
		column = "balance_withdrawal"
	default:
		return 0, fmt.Errorf("недопустимое поле баланса: %s", field)
	}

	var newBalance float64
	query := fmt.Sprintf(`
		UPDATE users
		SET %s = %s + $1, total_earned = total_earned + $2
		WHERE id = $3
		RETURNING %s
	`, column, column, column)

	err := tx.QueryRow(ctx, query, delta, earnedDelta, userID).Scan(&newBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return newBalance, nil
}

// считает пользователей на платформе
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

// преобразует строку из базы в структуру User
func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(
		&u.ID, &u.Phone, &u.BalanceDeposit, &u.BalanceWithdrawal, &u.TotalEarned, &u.ReferredBy, &u.VipLevel, &u.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
