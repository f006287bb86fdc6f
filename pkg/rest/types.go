// Данный файл должен быть сгенерирован из openapi спецификации и называться types.gen.go
package rest

import (
	"time"

	"github.com/shopspring/decimal"
)

// Error Модель ошибок
type Error struct {
	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Message Сообщение об ошибке (для отображения в UI в будущем)
	Message string `json:"message"`
}

// ErrorCode Код ошибки
type ErrorCode string

type Currency struct {
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Symbol    string          `json:"symbol,omitempty"`
	Rate      decimal.Decimal `json:"rate"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type SaveCurrencyRequest struct {
	Code   string          `json:"code" validate:"required,len=3"`
	Name   string          `json:"name" validate:"required"`
	Symbol string          `json:"symbol"`
	Rate   decimal.Decimal `json:"rate" validate:"required"`
}

type Manager struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateManagerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsAdmin   bool   `json:"is_admin"`
}

type Wallet struct {
	ManagerID           int64           `json:"manager_id"`
	CurrentBalance      decimal.Decimal `json:"current_balance"`
	FixedSalary         decimal.Decimal `json:"fixed_salary"`
	CommissionPercent   decimal.Decimal `json:"commission_percent"`
	MonthlyPlan         decimal.Decimal `json:"monthly_plan"`
	CurrentMonthRevenue decimal.Decimal `json:"current_month_revenue"`
	MotivationTarget    decimal.Decimal `json:"motivation_target"`
	MotivationReward    decimal.Decimal `json:"motivation_reward"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

type UpdateWalletRequest struct {
	FixedSalary       decimal.Decimal `json:"fixed_salary"`
	CommissionPercent decimal.Decimal `json:"commission_percent"`
	MonthlyPlan       decimal.Decimal `json:"monthly_plan"`
	MotivationTarget  decimal.Decimal `json:"motivation_target"`
	MotivationReward  decimal.Decimal `json:"motivation_reward"`
}

type Deal struct {
	ID                 int64           `json:"id"`
	ClientID           int64           `json:"client_id"`
	ManagerID          int64           `json:"manager_id"`
	Kind               string          `json:"kind"`
	ProgramID          *int64          `json:"program_id,omitempty"`
	ServiceID          *int64          `json:"service_id,omitempty"`
	CustomServiceName  string          `json:"custom_service_name,omitempty"`
	CurrencyCode       string          `json:"currency_code"`
	PriceClient        decimal.Decimal `json:"price_client"`
	ExpectedRevenueUSD decimal.Decimal `json:"expected_revenue_usd"`
	TotalToPayUSD      decimal.Decimal `json:"total_to_pay_usd"`
	PaidAmountUSD      decimal.Decimal `json:"paid_amount_usd"`
	PaymentStatus      string          `json:"payment_status"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

type SaveDealRequest struct {
	ClientID          int64           `json:"client_id" validate:"required"`
	ManagerID         int64           `json:"manager_id" validate:"required"`
	Kind              string          `json:"kind" validate:"required,oneof=university service"`
	ProgramID         *int64          `json:"program_id"`
	ServiceID         *int64          `json:"service_id"`
	CustomServiceName string          `json:"custom_service_name"`
	CurrencyCode      string          `json:"currency_code" validate:"required,len=3"`
	PriceClient       decimal.Decimal `json:"price_client" validate:"required"`
}

type Payment struct {
	ID           int64           `json:"id"`
	DealID       int64           `json:"deal_id"`
	ManagerID    int64           `json:"manager_id"`
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currency_code"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
	AmountUSD    decimal.Decimal `json:"amount_usd"`
	NetIncomeUSD decimal.Decimal `json:"net_income_usd"`
	PaymentDate  time.Time       `json:"payment_date"`
	Method       string          `json:"method"`
	IsConfirmed  bool            `json:"is_confirmed"`
	ConfirmedBy  *int64          `json:"confirmed_by,omitempty"`
	ConfirmedAt  *time.Time      `json:"confirmed_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type CreatePaymentRequest struct {
	DealID       int64           `json:"deal_id" validate:"required"`
	ManagerID    int64           `json:"manager_id" validate:"required"`
	Amount       decimal.Decimal `json:"amount" validate:"required"`
	CurrencyCode string          `json:"currency_code" validate:"required,len=3"`
	Method       string          `json:"method" validate:"required,oneof=cash card bank"`
	PaymentDate  *time.Time      `json:"payment_date"`
}

type UpdatePaymentRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Method      string          `json:"method" validate:"required,oneof=cash card bank"`
	PaymentDate *time.Time      `json:"payment_date"`
}

type ConfirmPaymentResponse struct {
	Payment          Payment         `json:"payment"`
	Bonus            decimal.Decimal `json:"bonus"`
	AlreadyConfirmed bool            `json:"already_confirmed"`
}

type BulkConfirmRequest struct {
	PaymentIDs []int64 `json:"payment_ids" validate:"required,min=1,dive,required"`
}

type BulkConfirmResponse struct {
	Confirmed        int `json:"confirmed"`
	AlreadyConfirmed int `json:"already_confirmed"`
}

type PayoutResponse struct {
	ManagerID int64           `json:"manager_id"`
	Amount    decimal.Decimal `json:"amount"`
}

type Transaction struct {
	ID          int64           `json:"id"`
	ManagerID   int64           `json:"manager_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentID   *int64          `json:"payment_id,omitempty"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}

type Expense struct {
	ID           int64           `json:"id"`
	Title        string          `json:"title"`
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currency_code"`
	AmountUSD    decimal.Decimal `json:"amount_usd"`
	ManagerID    *int64          `json:"manager_id,omitempty"`
	Date         time.Time       `json:"date"`
	CreatedAt    time.Time       `json:"created_at"`
}

type CreateExpenseRequest struct {
	Title        string          `json:"title" validate:"required"`
	Amount       decimal.Decimal `json:"amount" validate:"required"`
	CurrencyCode string          `json:"currency_code" validate:"required,len=3"`
	ManagerID    *int64          `json:"manager_id"`
	Date         *time.Time      `json:"date"`
}

type Period struct {
	ID            int64           `json:"id"`
	StartDate     time.Time       `json:"start_date"`
	EndDate       time.Time       `json:"end_date"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetProfit     decimal.Decimal `json:"net_profit"`
	IsClosed      bool            `json:"is_closed"`
	CreatedAt     time.Time       `json:"created_at"`
}

type RecalculateResponse struct {
	Status string  `json:"status"`
	Period *Period `json:"period,omitempty"`
}

type LeaderboardRow struct {
	ManagerID      int64           `json:"manager_id"`
	Name           string          `json:"name"`
	DealsCount     int             `json:"deals_count"`
	TotalRaisedUSD decimal.Decimal `json:"total_raised_usd"`
	NetIncomeUSD   decimal.Decimal `json:"net_income_usd"`
}
