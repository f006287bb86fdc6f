package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Period - отчётное окно в полмесяца (1-15 и 16-конец месяца).
// Суммы - снапшот на момент последнего пересчёта, не живые данные.
type Period struct {
	ID        int64     `json:"id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`

	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetProfit     decimal.Decimal `json:"net_profit"`

	IsClosed  bool      `json:"is_closed"`
	CreatedAt time.Time `json:"created_at"`
}
