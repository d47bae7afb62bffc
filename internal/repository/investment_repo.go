package repository

import (
	"context"
	"time"

	"invest_webapp/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InvestmentRepository struct {
	db *pgxpool.Pool
}

func NewInvestmentRepository(db *pgxpool.Pool) *InvestmentRepository {
	return &InvestmentRepository{db: db}
}

// возвращает все активные VIP-инвестиции
func (r *InvestmentRepository) GetActiveVip(ctx context.Context) ([]domain.VipInvestment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, amount, daily_earnings, total_earned, status, created_at
		FROM vip_investments
		WHERE status = 'active'
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var investments []domain.VipInvestment
	for rows.Next() {
		var inv domain.VipInvestment
		if err := rows.Scan(
			&inv.ID, &inv.UserID, &inv.Amount, &inv.DailyEarnings, &inv.TotalEarned, &inv.Status, &inv.CreatedAt,
		); err != nil {
			return nil, err
		}
		investments = append(investments, inv)
	}
	return investments, rows.Err()
}

// возвращает все активные стейкинг-инвестиции
func (r *InvestmentRepository) GetActiveStaking(ctx context.Context) ([]domain.StakingInvestment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, amount, daily_earnings, total_earned, unlock_date, status, created_at
		FROM staking_investments
		WHERE status = 'active'
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanStakingRows(rows)
}

// возвращает активные стейкинги, у которых наступила дата разблокировки
func (r *InvestmentRepository) GetMaturedStaking(ctx context.Context, now time.Time) ([]domain.StakingInvestment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, amount, daily_earnings, total_earned, unlock_date, status, created_at
		FROM staking_investments
		WHERE status = 'active' AND unlock_date <= $1
		ORDER BY unlock_date ASC
	`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanStakingRows(rows)
}

// увеличивает накопленный заработок VIP-инвестиции внутри транзакции
func (r *InvestmentRepository) AddVipEarned(ctx context.Context, tx pgx.Tx, id uuid.UUID, amount float64) error {
	_, err := tx.Exec(ctx, `
		UPDATE vip_investments SET total_earned = total_earned + $1 WHERE id = $2
	`, amount, id)
	return err
}

// увеличивает накопленный заработок стейкинга внутри транзакции
func (r *InvestmentRepository) AddStakingEarned(ctx context.Context, tx pgx.Tx, id uuid.UUID, amount float64) error {
	_, err := tx.Exec(ctx, `
		UPDATE staking_investments SET total_earned = total_earned + $1 WHERE id = $2
	`, amount, id)
	return err
}

// CompleteStaking переводит стейкинг в completed. Переход выполняется только
// из active (compare-and-set), повторный вызов вернет false - это исключает
// двойной возврат тела при параллельных проходах
func (r *InvestmentRepository) CompleteStaking(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error) {
	result, err := tx.Exec(ctx, `
		UPDATE staking_investments SET status = 'completed'
		WHERE id = $1 AND status = 'active'
	`, id)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

// возвращает инвестиции пользователя (обе категории) для API
func (r *InvestmentRepository) GetVipByUserID(ctx context.Context, userID uuid.UUID) ([]domain.VipInvestment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, amount, daily_earnings, total_earned, status, created_at
		FROM vip_investments
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var investments []domain.VipInvestment
	for rows.Next() {
		var inv domain.VipInvestment
		if err := rows.Scan(
			&inv.ID, &inv.UserID, &inv.Amount, &inv.DailyEarnings, &inv.TotalEarned, &inv.Status, &inv.CreatedAt,
		); err != nil {
			return nil, err
		}
		investments = append(investments, inv)
	}
	return investments, rows.Err()
}

func (r *InvestmentRepository) GetStakingByUserID(ctx context.Context, userID uuid.UUID) ([]domain.StakingInvestment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, amount, daily_earnings, total_earned, unlock_date, status, created_at
		FROM staking_investments
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanStakingRows(rows)
}

// считает активные инвестиции по категориям (для статистики)
func (r *InvestmentRepository) CountActive(ctx context.Context) (vip int64, staking int64, err error) {
	err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM vip_investments WHERE status = 'active'`).Scan(&vip)
	if err != nil {
		return 0, 0, err
	}
	err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM staking_investments WHERE status = 'active'`).Scan(&staking)
	return vip, staking, err
}

// преобразует набор строк из базы в срез стейкинг-инвестиций
func scanStakingRows(rows pgx.Rows) ([]domain.StakingInvestment, error) {
	var investments []domain.StakingInvestment
	for rows.Next() {
		var inv domain.StakingInvestment
		if err := rows.Scan(
			&inv.ID, &inv.UserID, &inv.Amount, &inv.DailyEarnings, &inv.TotalEarned, &inv.UnlockDate, &inv.Status, &inv.CreatedAt,
		); err != nil {
			return nil, err
		}
		investments = append(investments, inv)
	}
	return investments, rows.Err()
}
