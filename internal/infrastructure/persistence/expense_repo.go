package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"students-erp/internal/domain"
	"students-erp/internal/domain/entity"
	"students-erp/pkg/errcodes"
)

type ExpenseRepository struct {
	db *sqlx.DB
}

func NewExpenseRepository(db *sqlx.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Create(ctx context.Context, e *entity.Expense) error {
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now

	query := `
		INSERT INTO expenses (title, amount, currency_code, amount_usd, manager_id, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	err := r.db.GetContext(ctx, &e.ID, query,
		e.Title, e.Amount, e.CurrencyCode, e.AmountUSD, e.ManagerID, e.Date, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to insert expense")
	}

	return nil
}

func (r *ExpenseRepository) List(ctx context.Context, from, to *time.Time) ([]entity.Expense, error) {
	query := `
		SELECT id, title, amount, currency_code, amount_usd, manager_id, date, created_at, updated_at
		FROM expenses
		WHERE 1=1`
	args := []any{}

	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}

	query += " ORDER BY date DESC, id DESC"

	var schemas []expenseSchema
	if err := r.db.SelectContext(ctx, &schemas, query, args...); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list expenses")
	}

	expenses := make([]entity.Expense, 0, len(schemas))
	for _, s := range schemas {
		expenses = append(expenses, *s.toDomain())
	}

	return expenses, nil
}
