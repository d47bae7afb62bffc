package repository

import (
	"context"
	"time"

	"invest_webapp/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EarningRepository struct {
	db *pgxpool.Pool
}

func NewEarningRepository(db *pgxpool.Pool) *EarningRepository {
	return &EarningRepository{db: db}
}

// InsertIfAbsent вставляет запись о начислении, если за этот день для этой
// инвестиции ее еще нет. Идемпотентность обеспечивает уникальный индекс на
// (investment_id, earning_date): при конфликте вставка молча пропускается
// и возвращается false. Гонки двух параллельных запусков исключает сама база,
// а не предварительная проверка чтением.
func (r *EarningRepository) InsertIfAbsent(ctx context.Context, tx pgx.Tx, e *domain.DailyEarning) (bool, error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}

	result, err := tx.Exec(ctx, `
		INSERT INTO daily_earnings (id, user_id, investment_id, investment_type, amount, earning_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (investment_id, earning_date) DO NOTHING
	`, e.ID, e.UserID, e.InvestmentID, e.InvestmentType, e.Amount, e.EarningDate)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

// возвращает начисления пользователя для API
func (r *EarningRepository) GetByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]domain.DailyEarning, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, investment_id, investment_type, amount, earning_date, created_at
		FROM daily_earnings
		WHERE user_id = $1
		ORDER BY earning_date DESC, created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var earnings []domain.DailyEarning
	for rows.Next() {
		var e domain.DailyEarning
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.InvestmentID, &e.InvestmentType, &e.Amount, &e.EarningDate, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		earnings = append(earnings, e)
	}
	return earnings, rows.Err()
}

// сумма начислений за календарный день (для статистики)
func (r *EarningRepository) SumForDate(ctx context.Context, date time.Time) (float64, error) {
	var total float64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM daily_earnings WHERE earning_date = $1
	`, date).Scan(&total)
	return total, err
}

// DeleteOlderThan удаляет записи о начислениях старше отсечки. Начисления не
// имеют статуса, удаляются все подряд
func (r *EarningRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.Exec(ctx, `
		DELETE FROM daily_earnings WHERE created_at < $1
	`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
