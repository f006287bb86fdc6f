package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"students-erp/internal/domain"
	"students-erp/internal/domain/entity"
	"students-erp/internal/domain/service/deal"
	"students-erp/pkg/errcodes"
)

const dealColumns = `id, client_id, manager_id, kind, program_id, service_id, custom_service_name,
	currency_code, price_client, expected_revenue_usd, total_to_pay_usd, paid_amount_usd,
	payment_status, created_at, updated_at`

type DealRepository struct {
	db *sqlx.DB
}

func NewDealRepository(db *sqlx.DB) *DealRepository {
	return &DealRepository{db: db}
}

func (r *DealRepository) Create(ctx context.Context, d *entity.Deal) error {
	now := time.Now()
	d.CreatedAt = now
	d.UpdatedAt = now

	query := `
		INSERT INTO deals (client_id, manager_id, kind, program_id, service_id, custom_service_name,
			currency_code, price_client, expected_revenue_usd, total_to_pay_usd, paid_amount_usd,
			payment_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`

	err := r.db.GetContext(ctx, &d.ID, query,
		d.ClientID, d.ManagerID, d.Kind, d.ProgramID, d.ServiceID, d.CustomServiceName,
		d.CurrencyCode, d.PriceClient, d.ExpectedRevenueUSD, d.TotalToPayUSD, d.PaidAmountUSD,
		d.PaymentStatus, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to insert deal")
	}

	return nil
}

func (r *DealRepository) Update(ctx context.Context, d *entity.Deal) error {
	d.UpdatedAt = time.Now()

	query := `
		UPDATE deals
		SET client_id = $1, manager_id = $2, kind = $3, program_id = $4, service_id = $5,
		    custom_service_name = $6, currency_code = $7, price_client = $8,
		    expected_revenue_usd = $9, total_to_pay_usd = $10, payment_status = $11, updated_at = $12
		WHERE id = $13`

	res, err := r.db.ExecContext(ctx, query,
		d.ClientID, d.ManagerID, d.Kind, d.ProgramID, d.ServiceID,
		d.CustomServiceName, d.CurrencyCode, d.PriceClient,
		d.ExpectedRevenueUSD, d.TotalToPayUSD, d.PaymentStatus, d.UpdatedAt, d.ID)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to update deal")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
	}

	if rows == 0 {
		return domain.NewError(errcodes.DealNotFound, "deal not found")
	}

	return nil
}

func (r *DealRepository) GetByID(ctx context.Context, id int64) (*entity.Deal, error) {
	query := fmt.Sprintf(`SELECT %s FROM deals WHERE id = $1`, dealColumns)

	var schema dealSchema
	if err := r.db.GetContext(ctx, &schema, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(errcodes.DealNotFound, "deal not found")
		}
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get deal")
	}

	return schema.toDomain(), nil
}

func (r *DealRepository) List(ctx context.Context, filter deal.Filter) ([]entity.Deal, error) {
	query := fmt.Sprintf(`SELECT %s FROM deals WHERE 1=1`, dealColumns)
	args := []any{}

	if filter.ManagerID != nil {
		args = append(args, *filter.ManagerID)
		query += fmt.Sprintf(" AND manager_id = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND payment_status = $%d", len(args))
	}
	if filter.UpdatedAfter != nil {
		args = append(args, *filter.UpdatedAfter)
		query += fmt.Sprintf(" AND updated_at > $%d", len(args))
	}

	args = append(args, filter.Limit)
	query += fmt.Sprintf(" ORDER BY id DESC LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	var schemas []dealSchema
	if err := r.db.SelectContext(ctx, &schemas, query, args...); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list deals")
	}

	deals := make([]entity.Deal, 0, len(schemas))
	for _, s := range schemas {
		deals = append(deals, *s.toDomain())
	}

	return deals, nil
}

// SyncPaidAmount пересчитывает оплаченную сумму сделки по подтверждённым
// платежам и выводит статус. Одна транзакция с блокировкой строки сделки.
func (r *DealRepository) SyncPaidAmount(ctx context.Context, dealID int64) (*entity.Deal, error) {
	var synced *entity.Deal

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		d, err := syncDealTx(ctx, tx, dealID)
		if err != nil {
			return err
		}
		synced = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	return synced, nil
}

// syncDealTx - общий шаг пересчёта сделки внутри уже открытой транзакции.
// Им же пользуются репозитории платежей и расчётов.
func syncDealTx(ctx context.Context, tx *sqlx.Tx, dealID int64) (*entity.Deal, error) {
	query := fmt.Sprintf(`SELECT %s FROM deals WHERE id = $1 FOR UPDATE`, dealColumns)

	var schema dealSchema
	if err := tx.GetContext(ctx, &schema, query, dealID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(errcodes.DealNotFound, "deal not found")
		}
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to lock deal")
	}

	var paid decimal.Decimal
	sumQuery := `
		SELECT COALESCE(SUM(amount_usd), 0)
		FROM payments
		WHERE deal_id = $1 AND is_confirmed`

	if err := tx.GetContext(ctx, &paid, sumQuery, dealID); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to sum confirmed payments")
	}

	d := schema.toDomain()
	d.ApplyPaid(paid)
	d.UpdatedAt = time.Now()

	updateQuery := `
		UPDATE deals
		SET paid_amount_usd = $1, payment_status = $2, updated_at = $3
		WHERE id = $4`

	if _, err := tx.ExecContext(ctx, updateQuery, d.PaidAmountUSD, d.PaymentStatus, d.UpdatedAt, dealID); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to update deal status")
	}

	return d, nil
}
