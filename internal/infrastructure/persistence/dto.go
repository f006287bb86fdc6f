package persistence

import (
	"time"

	"github.com/shopspring/decimal"

	"students-erp/internal/domain/entity"
)

// currencySchema - представление таблицы currencies в БД.
type currencySchema struct {
	Code      string          `db:"code"`
	Name      string          `db:"name"`
	Symbol    string          `db:"symbol"`
	Rate      decimal.Decimal `db:"rate"`
	UpdatedAt time.Time       `db:"updated_at"`
}

func (s *currencySchema) toDomain() *entity.Currency {
	return &entity.Currency{
		Code:      s.Code,
		Name:      s.Name,
		Symbol:    s.Symbol,
		Rate:      s.Rate,
		UpdatedAt: s.UpdatedAt,
	}
}

// managerSchema - представление таблицы managers в БД.
type managerSchema struct {
	ID        int64     `db:"id"`
	Email     string    `db:"email"`
	FirstName string    `db:"first_name"`
	LastName  string    `db:"last_name"`
	IsAdmin   bool      `db:"is_admin"`
	CreatedAt time.Time `db:"created_at"`
}

func (s *managerSchema) toDomain() *entity.Manager {
	return &entity.Manager{
		ID:        s.ID,
		Email:     s.Email,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		IsAdmin:   s.IsAdmin,
		CreatedAt: s.CreatedAt,
	}
}

// walletSchema - представление таблицы wallets в БД.
type walletSchema struct {
	ManagerID           int64           `db:"manager_id"`
	CurrentBalance      decimal.Decimal `db:"current_balance"`
	FixedSalary         decimal.Decimal `db:"fixed_salary"`
	CommissionPercent   decimal.Decimal `db:"commission_percent"`
	MonthlyPlan         decimal.Decimal `db:"monthly_plan"`
	CurrentMonthRevenue decimal.Decimal `db:"current_month_revenue"`
	MotivationTarget    decimal.Decimal `db:"motivation_target"`
	MotivationReward    decimal.Decimal `db:"motivation_reward"`
	UpdatedAt           time.Time       `db:"updated_at"`
}

func (s *walletSchema) toDomain() *entity.Wallet {
	return &entity.Wallet{
		ManagerID:           s.ManagerID,
		CurrentBalance:      s.CurrentBalance,
		FixedSalary:         s.FixedSalary,
		CommissionPercent:   s.CommissionPercent,
		MonthlyPlan:         s.MonthlyPlan,
		CurrentMonthRevenue: s.CurrentMonthRevenue,
		MotivationTarget:    s.MotivationTarget,
		MotivationReward:    s.MotivationReward,
		UpdatedAt:           s.UpdatedAt,
	}
}

// dealSchema - представление таблицы deals в БД.
type dealSchema struct {
	ID                 int64           `db:"id"`
	ClientID           int64           `db:"client_id"`
	ManagerID          int64           `db:"manager_id"`
	Kind               string          `db:"kind"`
	ProgramID          *int64          `db:"program_id"`
	ServiceID          *int64          `db:"service_id"`
	CustomServiceName  string          `db:"custom_service_name"`
	CurrencyCode       string          `db:"currency_code"`
	PriceClient        decimal.Decimal `db:"price_client"`
	ExpectedRevenueUSD decimal.Decimal `db:"expected_revenue_usd"`
	TotalToPayUSD      decimal.Decimal `db:"total_to_pay_usd"`
	PaidAmountUSD      decimal.Decimal `db:"paid_amount_usd"`
	PaymentStatus      string          `db:"payment_status"`
	CreatedAt          time.Time       `db:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at"`
}

func (s *dealSchema) toDomain() *entity.Deal {
	return &entity.Deal{
		ID:                 s.ID,
		ClientID:           s.ClientID,
		ManagerID:          s.ManagerID,
		Kind:               entity.DealKind(s.Kind),
		ProgramID:          s.ProgramID,
		ServiceID:          s.ServiceID,
		CustomServiceName:  s.CustomServiceName,
		CurrencyCode:       s.CurrencyCode,
		PriceClient:        s.PriceClient,
		ExpectedRevenueUSD: s.ExpectedRevenueUSD,
		TotalToPayUSD:      s.TotalToPayUSD,
		PaidAmountUSD:      s.PaidAmountUSD,
		PaymentStatus:      entity.DealStatus(s.PaymentStatus),
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

// paymentSchema - представление таблицы payments в БД.
type paymentSchema struct {
	ID           int64           `db:"id"`
	DealID       int64           `db:"deal_id"`
	ManagerID    int64           `db:"manager_id"`
	Amount       decimal.Decimal `db:"amount"`
	CurrencyCode string          `db:"currency_code"`
	ExchangeRate decimal.Decimal `db:"exchange_rate"`
	AmountUSD    decimal.Decimal `db:"amount_usd"`
	NetIncomeUSD decimal.Decimal `db:"net_income_usd"`
	PaymentDate  time.Time       `db:"payment_date"`
	Method       string          `db:"method"`
	IsConfirmed  bool            `db:"is_confirmed"`
	ConfirmedBy  *int64          `db:"confirmed_by"`
	ConfirmedAt  *time.Time      `db:"confirmed_at"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

func (s *paymentSchema) toDomain() *entity.Payment {
	return &entity.Payment{
		ID:           s.ID,
		DealID:       s.DealID,
		ManagerID:    s.ManagerID,
		Amount:       s.Amount,
		CurrencyCode: s.CurrencyCode,
		ExchangeRate: s.ExchangeRate,
		AmountUSD:    s.AmountUSD,
		NetIncomeUSD: s.NetIncomeUSD,
		PaymentDate:  s.PaymentDate,
		Method:       entity.PaymentMethod(s.Method),
		IsConfirmed:  s.IsConfirmed,
		ConfirmedBy:  s.ConfirmedBy,
		ConfirmedAt:  s.ConfirmedAt,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// transactionSchema - представление таблицы transactions в БД.
type transactionSchema struct {
	ID          int64           `db:"id"`
	ManagerID   int64           `db:"manager_id"`
	Amount      decimal.Decimal `db:"amount"`
	PaymentID   *int64          `db:"payment_id"`
	Description string          `db:"description"`
	CreatedAt   time.Time       `db:"created_at"`
}

func (s *transactionSchema) toDomain() *entity.Transaction {
	return &entity.Transaction{
		ID:          s.ID,
		ManagerID:   s.ManagerID,
		Amount:      s.Amount,
		PaymentID:   s.PaymentID,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
	}
}

// expenseSchema - представление таблицы expenses в БД.
type expenseSchema struct {
	ID           int64           `db:"id"`
	Title        string          `db:"title"`
	Amount       decimal.Decimal `db:"amount"`
	CurrencyCode string          `db:"currency_code"`
	AmountUSD    decimal.Decimal `db:"amount_usd"`
	ManagerID    *int64          `db:"manager_id"`
	Date         time.Time       `db:"date"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

func (s *expenseSchema) toDomain() *entity.Expense {
	return &entity.Expense{
		ID:           s.ID,
		Title:        s.Title,
		Amount:       s.Amount,
		CurrencyCode: s.CurrencyCode,
		AmountUSD:    s.AmountUSD,
		ManagerID:    s.ManagerID,
		Date:         s.Date,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// periodSchema - представление таблицы financial_periods в БД.
type periodSchema struct {
	ID            int64           `db:"id"`
	StartDate     time.Time       `db:"start_date"`
	EndDate       time.Time       `db:"end_date"`
	TotalRevenue  decimal.Decimal `db:"total_revenue"`
	TotalExpenses decimal.Decimal `db:"total_expenses"`
	NetProfit     decimal.Decimal `db:"net_profit"`
	IsClosed      bool            `db:"is_closed"`
	CreatedAt     time.Time       `db:"created_at"`
}

func (s *periodSchema) toDomain() *entity.Period {
	return &entity.Period{
		ID:            s.ID,
		StartDate:     s.StartDate,
		EndDate:       s.EndDate,
		TotalRevenue:  s.TotalRevenue,
		TotalExpenses: s.TotalExpenses,
		NetProfit:     s.NetProfit,
		IsClosed:      s.IsClosed,
		CreatedAt:     s.CreatedAt,
	}
}

// leaderboardSchema - строка агрегата по менеджерам.
type leaderboardSchema struct {
	ManagerID      int64           `db:"manager_id"`
	Name           string          `db:"name"`
	DealsCount     int             `db:"deals_count"`
	TotalRaisedUSD decimal.Decimal `db:"total_raised_usd"`
	NetIncomeUSD   decimal.Decimal `db:"net_income_usd"`
}

func (s *leaderboardSchema) toDomain() entity.LeaderboardRow {
	return entity.LeaderboardRow{
		ManagerID:      s.ManagerID,
		Name:           s.Name,
		DealsCount:     s.DealsCount,
		TotalRaisedUSD: s.TotalRaisedUSD,
		NetIncomeUSD:   s.NetIncomeUSD,
	}
}

// programSchema - представление таблицы programs в БД.
type programSchema struct {
	ID            int64           `db:"id"`
	Name          string          `db:"name"`
	ServiceFeeUSD decimal.Decimal `db:"service_fee_usd"`
}

func (s *programSchema) toDomain() *entity.Program {
	return &entity.Program{ID: s.ID, Name: s.Name, ServiceFeeUSD: s.ServiceFeeUSD}
}

// catalogServiceSchema - представление таблицы catalog_services в БД.
type catalogServiceSchema struct {
	ID             int64           `db:"id"`
	Title          string          `db:"title"`
	PriceClientUSD decimal.Decimal `db:"price_client_usd"`
	RealCostUSD    decimal.Decimal `db:"real_cost_usd"`
	IsActive       bool            `db:"is_active"`
}

func (s *catalogServiceSchema) toDomain() *entity.CatalogService {
	return &entity.CatalogService{
		ID:             s.ID,
		Title:          s.Title,
		PriceClientUSD: s.PriceClientUSD,
		RealCostUSD:    s.RealCostUSD,
		IsActive:       s.IsActive,
	}
}
