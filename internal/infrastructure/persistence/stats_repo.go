package persistence

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"students-erp/internal/domain"
	"students-erp/internal/domain/entity"
	"students-erp/internal/domain/service/report"
	"students-erp/pkg/errcodes"
)

// StatsRepository считает агрегаты для отчётных периодов.
// Запросы тяжёлые, дергаются только при явном пересчёте снапшота.
type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) PaymentTotals(ctx context.Context, from, to time.Time) (*report.PaymentTotals, error) {
	query := `
		SELECT COALESCE(SUM(amount_usd), 0) AS revenue,
		       COALESCE(SUM(net_income_usd), 0) AS net_income
		FROM payments
		WHERE is_confirmed AND payment_date >= $1 AND payment_date < $2`

	var row struct {
		Revenue   decimal.Decimal `db:"revenue"`
		NetIncome decimal.Decimal `db:"net_income"`
	}

	if err := r.db.GetContext(ctx, &row, query, from, endExclusive(to)); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to sum payments")
	}

	return &report.PaymentTotals{Revenue: row.Revenue, NetIncome: row.NetIncome}, nil
}

func (r *StatsRepository) ExpenseTotal(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount_usd), 0)
		FROM expenses
		WHERE date >= $1 AND date < $2`

	var total decimal.Decimal
	if err := r.db.GetContext(ctx, &total, query, from, endExclusive(to)); err != nil {
		return decimal.Zero, domain.WrapError(err, errcodes.InternalServerError, "failed to sum expenses")
	}

	return total, nil
}

func (r *StatsRepository) ManagerTotals(ctx context.Context, from, to time.Time) ([]entity.LeaderboardRow, error) {
	query := `
		SELECT m.id AS manager_id,
		       TRIM(m.first_name || ' ' || m.last_name) AS name,
		       COUNT(DISTINCT p.deal_id) AS deals_count,
		       COALESCE(SUM(p.amount_usd), 0) AS total_raised_usd,
		       COALESCE(SUM(p.net_income_usd), 0) AS net_income_usd
		FROM managers m
		JOIN payments p ON p.manager_id = m.id
		WHERE p.is_confirmed AND p.payment_date >= $1 AND p.payment_date < $2
		GROUP BY m.id, m.first_name, m.last_name`

	var schemas []leaderboardSchema
	if err := r.db.SelectContext(ctx, &schemas, query, from, endExclusive(to)); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to aggregate manager totals")
	}

	rows := make([]entity.LeaderboardRow, 0, len(schemas))
	for _, s := range schemas {
		rows = append(rows, s.toDomain())
	}

	return rows, nil
}

// endExclusive переводит включительную дату конца окна в эксклюзивную
// границу, чтобы захватить платежи за весь последний день.
func endExclusive(to time.Time) time.Time {
	return to.AddDate(0, 0, 1)
}
