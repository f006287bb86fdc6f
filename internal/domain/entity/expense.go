package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID           int64           `json:"id"`
	Title        string          `json:"title"`
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currency_code"`
	AmountUSD    decimal.Decimal `json:"amount_usd"`
	ManagerID    *int64          `json:"manager_id,omitempty"`
	Date         time.Time       `json:"date"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
