package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"students-erp/internal/domain"
	"students-erp/internal/domain/entity"
	"students-erp/pkg/errcodes"
)

type CurrencyRepository struct {
	db *sqlx.DB
}

func NewCurrencyRepository(db *sqlx.DB) *CurrencyRepository {
	return &CurrencyRepository{db: db}
}

// GetByCode возвращает валюту по ISO-коду.
func (r *CurrencyRepository) GetByCode(ctx context.Context, code string) (*entity.Currency, error) {
	query := `
		SELECT code, name, symbol, rate, updated_at
		FROM currencies
		WHERE code = $1`

	var schema currencySchema
	if err := r.db.GetContext(ctx, &schema, query, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(errcodes.CurrencyNotFound, "currency not found")
		}
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get currency")
	}

	return schema.toDomain(), nil
}

func (r *CurrencyRepository) List(ctx context.Context) ([]entity.Currency, error) {
	query := `
		SELECT code, name, symbol, rate, updated_at
		FROM currencies
		ORDER BY code`

	var schemas []currencySchema
	if err := r.db.SelectContext(ctx, &schemas, query); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list currencies")
	}

	currencies := make([]entity.Currency, 0, len(schemas))
	for _, s := range schemas {
		currencies = append(currencies, *s.toDomain())
	}

	return currencies, nil
}

// Upsert создаёт валюту или обновляет её курс и реквизиты.
func (r *CurrencyRepository) Upsert(ctx context.Context, currency *entity.Currency) error {
	query := `
		INSERT INTO currencies (code, name, symbol, rate, updated_at)
		VALUES (:code, :name, :symbol, :rate, :updated_at)
		ON CONFLICT (code) DO UPDATE
		SET name = EXCLUDED.name,
		    symbol = EXCLUDED.symbol,
		    rate = EXCLUDED.rate,
		    updated_at = EXCLUDED.updated_at`

	currency.UpdatedAt = time.Now()

	params := map[string]any{
		"code":       currency.Code,
		"name":       currency.Name,
		"symbol":     currency.Symbol,
		"rate":       currency.Rate,
		"updated_at": currency.UpdatedAt,
	}

	if _, err := r.db.NamedExecContext(ctx, query, params); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to upsert currency")
	}

	return nil
}
