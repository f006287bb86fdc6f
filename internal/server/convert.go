package server

import (
	"students-erp/internal/domain/entity"
	"students-erp/internal/domain/service/billing"
	"students-erp/pkg/lox"
	"students-erp/pkg/rest"
)

func newRESTCurrency(c entity.Currency) rest.Currency {
	return rest.Currency{
		Code:      c.Code,
		Name:      c.Name,
		Symbol:    c.Symbol,
		Rate:      c.Rate,
		UpdatedAt: c.UpdatedAt,
	}
}

func newRESTManager(m entity.Manager) rest.Manager {
	return rest.Manager{
		ID:        m.ID,
		Email:     m.Email,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		IsAdmin:   m.IsAdmin,
		CreatedAt: m.CreatedAt,
	}
}

func newRESTWallet(w entity.Wallet) rest.Wallet {
	return rest.Wallet{
		ManagerID:           w.ManagerID,
		CurrentBalance:      w.CurrentBalance,
		FixedSalary:         w.FixedSalary,
		CommissionPercent:   w.CommissionPercent,
		MonthlyPlan:         w.MonthlyPlan,
		CurrentMonthRevenue: w.CurrentMonthRevenue,
		MotivationTarget:    w.MotivationTarget,
		MotivationReward:    w.MotivationReward,
		UpdatedAt:           w.UpdatedAt,
	}
}

func newRESTDeal(d entity.Deal) rest.Deal {
	return rest.Deal{
		ID:                 d.ID,
		ClientID:           d.ClientID,
		ManagerID:          d.ManagerID,
		Kind:               string(d.Kind),
		ProgramID:          d.ProgramID,
		ServiceID:          d.ServiceID,
		CustomServiceName:  d.CustomServiceName,
		CurrencyCode:       d.CurrencyCode,
		PriceClient:        d.PriceClient,
		ExpectedRevenueUSD: d.ExpectedRevenueUSD,
		TotalToPayUSD:      d.TotalToPayUSD,
		PaidAmountUSD:      d.PaidAmountUSD,
		PaymentStatus:      string(d.PaymentStatus),
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}

func newRESTPayment(p entity.Payment) rest.Payment {
	return rest.Payment{
		ID:           p.ID,
		DealID:       p.DealID,
		ManagerID:    p.ManagerID,
		Amount:       p.Amount,
		CurrencyCode: p.CurrencyCode,
		ExchangeRate: p.ExchangeRate,
		AmountUSD:    p.AmountUSD,
		NetIncomeUSD: p.NetIncomeUSD,
		PaymentDate:  p.PaymentDate,
		Method:       string(p.Method),
		IsConfirmed:  p.IsConfirmed,
		ConfirmedBy:  p.ConfirmedBy,
		ConfirmedAt:  p.ConfirmedAt,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func newRESTConfirmOutcome(o billing.ConfirmOutcome) rest.ConfirmPaymentResponse {
	return rest.ConfirmPaymentResponse{
		Payment:          newRESTPayment(o.Payment),
		Bonus:            o.Bonus,
		AlreadyConfirmed: o.AlreadyConfirmed,
	}
}

func newRESTTransaction(t entity.Transaction) rest.Transaction {
	return rest.Transaction{
		ID:          t.ID,
		ManagerID:   t.ManagerID,
		Amount:      t.Amount,
		PaymentID:   t.PaymentID,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
	}
}

func newRESTExpense(e entity.Expense) rest.Expense {
	return rest.Expense{
		ID:           e.ID,
		Title:        e.Title,
		Amount:       e.Amount,
		CurrencyCode: e.CurrencyCode,
		AmountUSD:    e.AmountUSD,
		ManagerID:    e.ManagerID,
		Date:         e.Date,
		CreatedAt:    e.CreatedAt,
	}
}

func newRESTPeriod(p entity.Period) rest.Period {
	return rest.Period{
		ID:            p.ID,
		StartDate:     p.StartDate,
		EndDate:       p.EndDate,
		TotalRevenue:  p.TotalRevenue,
		TotalExpenses: p.TotalExpenses,
		NetProfit:     p.NetProfit,
		IsClosed:      p.IsClosed,
		CreatedAt:     p.CreatedAt,
	}
}

func newRESTLeaderboardRow(row entity.LeaderboardRow) rest.LeaderboardRow {
	return rest.LeaderboardRow{
		ManagerID:      row.ManagerID,
		Name:           row.Name,
		DealsCount:     row.DealsCount,
		TotalRaisedUSD: row.TotalRaisedUSD,
		NetIncomeUSD:   row.NetIncomeUSD,
	}
}

func newRESTDeals(deals []entity.Deal) []rest.Deal {
	return lox.Map(deals, newRESTDeal)
}

func newRESTPayments(payments []entity.Payment) []rest.Payment {
	return lox.Map(payments, newRESTPayment)
}
