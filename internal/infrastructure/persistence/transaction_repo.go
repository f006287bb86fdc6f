package persistence

import (
	"context"

	"github.com/jmoiron/sqlx"

	"students-erp/internal/domain"
	"students-erp/internal/domain/entity"
	"students-erp/pkg/errcodes"
)

// TransactionRepository читает журнал аудита начислений.
// Записи создаются только внутри расчётных транзакций, отсюда нет вставки.
type TransactionRepository struct {
	db *sqlx.DB
}

func NewTransactionRepository(db *sqlx.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) ListByManager(ctx context.Context, managerID int64, limit, offset int) ([]entity.Transaction, error) {
	query := `
		SELECT id, manager_id, amount, payment_id, description, created_at
		FROM transactions
		WHERE manager_id = $1
		ORDER BY id DESC
		LIMIT $2 OFFSET $3`

	var schemas []transactionSchema
	if err := r.db.SelectContext(ctx, &schemas, query, managerID, limit, offset); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list transactions")
	}

	transactions := make([]entity.Transaction, 0, len(schemas))
	for _, s := range schemas {
		transactions = append(transactions, *s.toDomain())
	}

	return transactions, nil
}
