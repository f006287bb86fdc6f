package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"students-erp/internal/domain"
	"students-erp/internal/domain/entity"
	"students-erp/internal/domain/service/billing"
	"students-erp/pkg/errcodes"
)

const paymentColumns = `id, deal_id, manager_id, amount, currency_code, exchange_rate, amount_usd,
	net_income_usd, payment_date, method, is_confirmed, confirmed_by, confirmed_at,
	created_at, updated_at`

type PaymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create сохраняет платёж и в той же транзакции пересчитывает сделку,
// чтобы её статус не разъезжался с платежами.
func (r *PaymentRepository) Create(ctx context.Context, p *entity.Payment) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		now := time.Now()
		p.CreatedAt = now
		p.UpdatedAt = now

		if p.PaymentDate.IsZero() {
			p.PaymentDate = now
		}

		query := `
			INSERT INTO payments (deal_id, manager_id, amount, currency_code, exchange_rate,
				amount_usd, net_income_usd, payment_date, method, is_confirmed, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING id`

		err := tx.GetContext(ctx, &p.ID, query,
			p.DealID, p.ManagerID, p.Amount, p.CurrencyCode, p.ExchangeRate,
			p.AmountUSD, p.NetIncomeUSD, p.PaymentDate, p.Method, p.IsConfirmed, p.CreatedAt, p.UpdatedAt)
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to insert payment")
		}

		_, err = syncDealTx(ctx, tx, p.DealID)
		return err
	})
}

// Update переписывает редактируемые поля платежа и пересчитывает сделку.
func (r *PaymentRepository) Update(ctx context.Context, p *entity.Payment) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		p.UpdatedAt = time.Now()

		query := `
			UPDATE payments
			SET amount = $1, amount_usd = $2, net_income_usd = $3, payment_date = $4,
			    method = $5, updated_at = $6
			WHERE id = $7 AND NOT is_confirmed`

		res, err := tx.ExecContext(ctx, query,
			p.Amount, p.AmountUSD, p.NetIncomeUSD, p.PaymentDate, p.Method, p.UpdatedAt, p.ID)
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to update payment")
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
		}

		if rows == 0 {
			return domain.NewError(errcodes.Conflict, "payment is confirmed or missing")
		}

		_, err = syncDealTx(ctx, tx, p.DealID)
		return err
	})
}

func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*entity.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE id = $1`, paymentColumns)

	var schema paymentSchema
	if err := r.db.GetContext(ctx, &schema, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(errcodes.PaymentNotFound, "payment not found")
		}
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get payment")
	}

	return schema.toDomain(), nil
}

func (r *PaymentRepository) List(ctx context.Context, filter billing.Filter) ([]entity.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE 1=1`, paymentColumns)
	args := []any{}

	if filter.DealID != nil {
		args = append(args, *filter.DealID)
		query += fmt.Sprintf(" AND deal_id = $%d", len(args))
	}
	if filter.ManagerID != nil {
		args = append(args, *filter.ManagerID)
		query += fmt.Sprintf(" AND manager_id = $%d", len(args))
	}
	if filter.Confirmed != nil {
		args = append(args, *filter.Confirmed)
		query += fmt.Sprintf(" AND is_confirmed = $%d", len(args))
	}

	args = append(args, filter.Limit)
	query += fmt.Sprintf(" ORDER BY id DESC LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	var schemas []paymentSchema
	if err := r.db.SelectContext(ctx, &schemas, query, args...); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list payments")
	}

	payments := make([]entity.Payment, 0, len(schemas))
	for _, s := range schemas {
		payments = append(payments, *s.toDomain())
	}

	return payments, nil
}
