package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"students-erp/internal/domain"
	"students-erp/internal/domain/entity"
	"students-erp/pkg/errcodes"
)

const periodColumns = `id, start_date, end_date, total_revenue, total_expenses, net_profit, is_closed, created_at`

type PeriodRepository struct {
	db *sqlx.DB
}

func NewPeriodRepository(db *sqlx.DB) *PeriodRepository {
	return &PeriodRepository{db: db}
}

// GetOrCreate возвращает период с такими границами. Гонка двух создателей
// разруливается уникальным индексом по start_date: проигравший просто
// читает уже созданную строку.
func (r *PeriodRepository) GetOrCreate(ctx context.Context, start, end time.Time) (*entity.Period, error) {
	insertQuery := `
		INSERT INTO financial_periods (start_date, end_date, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (start_date) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, insertQuery, start, end, time.Now()); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to create period")
	}

	query := `SELECT ` + periodColumns + ` FROM financial_periods WHERE start_date = $1`

	var schema periodSchema
	if err := r.db.GetContext(ctx, &schema, query, start); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get period")
	}

	return schema.toDomain(), nil
}

func (r *PeriodRepository) GetByID(ctx context.Context, id int64) (*entity.Period, error) {
	query := `SELECT ` + periodColumns + ` FROM financial_periods WHERE id = $1`

	var schema periodSchema
	if err := r.db.GetContext(ctx, &schema, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(errcodes.PeriodNotFound, "period not found")
		}
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get period")
	}

	return schema.toDomain(), nil
}

func (r *PeriodRepository) List(ctx context.Context) ([]entity.Period, error) {
	query := `SELECT ` + periodColumns + ` FROM financial_periods ORDER BY start_date DESC`

	var schemas []periodSchema
	if err := r.db.SelectContext(ctx, &schemas, query); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list periods")
	}

	periods := make([]entity.Period, 0, len(schemas))
	for _, s := range schemas {
		periods = append(periods, *s.toDomain())
	}

	return periods, nil
}

func (r *PeriodRepository) SaveStats(ctx context.Context, id int64, revenue, expenses, profit decimal.Decimal) error {
	query := `
		UPDATE financial_periods
		SET total_revenue = $1, total_expenses = $2, net_profit = $3
		WHERE id = $4`

	res, err := r.db.ExecContext(ctx, query, revenue, expenses, profit, id)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to save period stats")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
	}

	if rows == 0 {
		return domain.NewError(errcodes.PeriodNotFound, "period not found")
	}

	return nil
}

func (r *PeriodRepository) Close(ctx context.Context, id int64) error {
	query := `UPDATE financial_periods SET is_closed = TRUE WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to close period")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
	}

	if rows == 0 {
		return domain.NewError(errcodes.PeriodNotFound, "period not found")
	}

	return nil
}
