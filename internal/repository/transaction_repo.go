package repository

import (
	"context"
	"time"

	"invest_webapp/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TransactionRepository struct {
	db *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// CreateWithTx записывает строку журнала внутри той же транзакции, что и
// мутация баланса, - пара "движение денег + строка журнала" коммитится атомарно
func (r *TransactionRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	if t.Status == "" {
		t.Status = domain.TransactionCompleted
	}
	return tx.QueryRow(ctx, `
		INSERT INTO transactions (user_id, type, amount, status, reference, admin_notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, t.UserID, t.Type, t.Amount, t.Status, t.Reference, t.AdminNotes).Scan(&t.ID, &t.CreatedAt)
}

// возвращает журнал операций пользователя
func (r *TransactionRepository) GetByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Transaction, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, type, amount, status, reference, admin_notes, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// DeleteOldFinalized удаляет завершенные и отклоненные строки журнала старше
// отсечки. Строки в pending и approved не трогаются независимо от возраста
func (r *TransactionRepository) DeleteOldFinalized(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.Exec(ctx, `
		DELETE FROM transactions
		WHERE status IN ('completed', 'rejected') AND created_at < $1
	`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

// преобразует набор строк из базы в срез транзакций
func scanTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	var transactions []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		var adminNotes *string
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Status, &t.Reference, &adminNotes, &t.CreatedAt,
		); err != nil {
			return nil, err
		}
		if adminNotes != nil {
			t.AdminNotes = *adminNotes
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}
