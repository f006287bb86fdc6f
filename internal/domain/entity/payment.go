package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodBank PaymentMethod = "bank"
)

// Payment - один входящий платёж по сделке.
// ExchangeRate фиксируется при первом сохранении и больше не перезаписывается,
// чтобы поздние правки курса не переписывали историю.
type Payment struct {
	ID        int64 `json:"id"`
	DealID    int64 `json:"deal_id"`
	ManagerID int64 `json:"manager_id"`

	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currency_code"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
	AmountUSD    decimal.Decimal `json:"amount_usd"`
	NetIncomeUSD decimal.Decimal `json:"net_income_usd"`

	PaymentDate time.Time     `json:"payment_date"`
	Method      PaymentMethod `json:"method"`

	IsConfirmed bool       `json:"is_confirmed"`
	ConfirmedBy *int64     `json:"confirmed_by,omitempty"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodBank:
		return true
	}
	return false
}
