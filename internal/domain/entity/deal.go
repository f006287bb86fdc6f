package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type DealKind string

const (
	DealKindUniversity DealKind = "university"
	DealKindService    DealKind = "service"
)

func (k DealKind) Valid() bool {
	switch k {
	case DealKindUniversity, DealKindService:
		return true
	}
	return false
}

type DealStatus string

const (
	DealStatusNew            DealStatus = "new"
	DealStatusProcess        DealStatus = "process"
	DealStatusWaitingPayment DealStatus = "waiting_payment"
	DealStatusPaidPartial    DealStatus = "paid_partial"
	DealStatusPaidFull       DealStatus = "paid_full"
	DealStatusClosed         DealStatus = "closed"
)

// paidEpsilon гасит копеечные расхождения при сравнении оплат (0.01 USD).
var paidEpsilon = decimal.New(1, -2) //nolint:gochecknoglobals

type Deal struct {
	ID        int64    `json:"id"`
	ClientID  int64    `json:"client_id"`
	ManagerID int64    `json:"manager_id"`
	Kind      DealKind `json:"kind"`

	ProgramID         *int64 `json:"program_id,omitempty"`
	ServiceID         *int64 `json:"service_id,omitempty"`
	CustomServiceName string `json:"custom_service_name,omitempty"`

	CurrencyCode string          `json:"currency_code"`
	PriceClient  decimal.Decimal `json:"price_client"`

	ExpectedRevenueUSD decimal.Decimal `json:"expected_revenue_usd"`
	TotalToPayUSD      decimal.Decimal `json:"total_to_pay_usd"`
	PaidAmountUSD      decimal.Decimal `json:"paid_amount_usd"`
	PaymentStatus      DealStatus      `json:"payment_status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ApplyPaid выставляет оплаченную сумму и выводит статус оплаты.
// Порядок проверок фиксирован: ноль -> new, достигли суммы -> paid_full,
// иначе paid_partial. Остальные статусы проставляются только вручную.
func (d *Deal) ApplyPaid(paid decimal.Decimal) {
	d.PaidAmountUSD = paid

	switch {
	case paid.Sign() <= 0:
		d.PaymentStatus = DealStatusNew
	case d.TotalToPayUSD.Sign() > 0 && paid.GreaterThanOrEqual(d.TotalToPayUSD.Sub(paidEpsilon)):
		d.PaymentStatus = DealStatusPaidFull
	default:
		d.PaymentStatus = DealStatusPaidPartial
	}
}
