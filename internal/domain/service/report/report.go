package report

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"students-erp/internal/domain"
	"students-erp/internal/domain/entity"
	"students-erp/pkg/errcodes"
)

const midMonthDay = 15

type PeriodRepository interface {
	// GetOrCreate возвращает период с такими границами, создавая его
	// при первом обращении.
	GetOrCreate(ctx context.Context, start, end time.Time) (*entity.Period, error)
	GetByID(ctx context.Context, id int64) (*entity.Period, error)
	List(ctx context.Context) ([]entity.Period, error)
	SaveStats(ctx context.Context, id int64, revenue, expenses, profit decimal.Decimal) error
	Close(ctx context.Context, id int64) error
}

// PaymentTotals - агрегаты по подтверждённым платежам за окно.
type PaymentTotals struct {
	Revenue   decimal.Decimal
	NetIncome decimal.Decimal
}

type StatsRepository interface {
	PaymentTotals(ctx context.Context, from, to time.Time) (*PaymentTotals, error)
	ExpenseTotal(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	ManagerTotals(ctx context.Context, from, to time.Time) ([]entity.LeaderboardRow, error)
}

type ExpenseRepository interface {
	Create(ctx context.Context, expense *entity.Expense) error
	List(ctx context.Context, from, to *time.Time) ([]entity.Expense, error)
}

type Converter interface {
	ConvertToSettlement(ctx context.Context, amount decimal.Decimal, code string) (decimal.Decimal, error)
}

// Service - отчётные периоды по полмесяца: создание текущего окна,
// пересчёт снапшота, закрытие и рейтинг менеджеров.
type Service struct {
	periods  PeriodRepository
	stats    StatsRepository
	expenses ExpenseRepository

	converter Converter
	now       func() time.Time
}

type Option func(*Service)

// WithClock подменяет источник времени, нужен в тестах.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(periods PeriodRepository, stats StatsRepository, expenses ExpenseRepository, converter Converter, opts ...Option) *Service {
	s := &Service{
		periods:   periods,
		stats:     stats,
		expenses:  expenses,
		converter: converter,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// PeriodBounds возвращает границы полумесячного окна для даты:
// 1-15 число или 16-конец месяца. Время обрезается до дат в UTC.
func PeriodBounds(day time.Time) (start, end time.Time) {
	year, month, _ := day.Date()

	if day.Day() <= midMonthDay {
		start = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		end = time.Date(year, month, midMonthDay, 0, 0, 0, 0, time.UTC)
		return start, end
	}

	start = time.Date(year, month, midMonthDay+1, 0, 0, 0, 0, time.UTC)
	// Нулевой день следующего месяца - последний день текущего.
	end = time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)

	return start, end
}

// EnsureCurrentPeriod возвращает период, в который попадает сегодняшняя
// дата, создавая его при необходимости. Повторные вызовы в одном окне
// возвращают ту же запись.
func (s *Service) EnsureCurrentPeriod(ctx context.Context) (*entity.Period, error) {
	start, end := PeriodBounds(s.now())
	return s.periods.GetOrCreate(ctx, start, end)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*entity.Period, error) {
	return s.periods.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]entity.Period, error) {
	return s.periods.List(ctx)
}

// RecalculateStats пересчитывает снапшот периода по фактическим данным.
// Закрытые периоды пересчитывать нельзя.
func (s *Service) RecalculateStats(ctx context.Context, periodID int64) (*entity.Period, error) {
	period, err := s.periods.GetByID(ctx, periodID)
	if err != nil {
		return nil, err
	}

	if period.IsClosed {
		return nil, domain.NewError(errcodes.PeriodClosed, "closed period is immutable")
	}

	return s.recalculate(ctx, period)
}

func (s *Service) recalculate(ctx context.Context, period *entity.Period) (*entity.Period, error) {
	totals, err := s.stats.PaymentTotals(ctx, period.StartDate, period.EndDate)
	if err != nil {
		return nil, err
	}

	expenses, err := s.stats.ExpenseTotal(ctx, period.StartDate, period.EndDate)
	if err != nil {
		return nil, err
	}

	profit := totals.NetIncome.Sub(expenses)

	if err := s.periods.SaveStats(ctx, period.ID, totals.Revenue, expenses, profit); err != nil {
		return nil, err
	}

	period.TotalRevenue = totals.Revenue
	period.TotalExpenses = expenses
	period.NetProfit = profit

	return period, nil
}

// ClosePeriod делает финальный пересчёт и закрывает период.
// Закрытие уже закрытого периода ничего не меняет.
func (s *Service) ClosePeriod(ctx context.Context, periodID int64) (*entity.Period, error) {
	period, err := s.periods.GetByID(ctx, periodID)
	if err != nil {
		return nil, err
	}

	if period.IsClosed {
		return period, nil
	}

	period, err = s.recalculate(ctx, period)
	if err != nil {
		return nil, err
	}

	if err := s.periods.Close(ctx, periodID); err != nil {
		return nil, err
	}
	period.IsClosed = true

	return period, nil
}

// Leaderboard - рейтинг менеджеров за период: по убыванию привлечённой
// суммы, при равенстве порядок стабилен по идентификатору менеджера.
func (s *Service) Leaderboard(ctx context.Context, periodID int64) ([]entity.LeaderboardRow, error) {
	period, err := s.periods.GetByID(ctx, periodID)
	if err != nil {
		return nil, err
	}

	rows, err := s.stats.ManagerTotals(ctx, period.StartDate, period.EndDate)
	if err != nil {
		return nil, err
	}

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].TotalRaisedUSD.Equal(rows[j].TotalRaisedUSD) {
			return rows[i].TotalRaisedUSD.GreaterThan(rows[j].TotalRaisedUSD)
		}
		return rows[i].ManagerID < rows[j].ManagerID
	})

	return rows, nil
}

// SaveExpense регистрирует расход, сразу переводя сумму в расчётную валюту.
func (s *Service) SaveExpense(ctx context.Context, expense *entity.Expense) error {
	if strings.TrimSpace(expense.Title) == "" {
		return domain.NewError(errcodes.ValidationError, "expense title is required")
	}

	if expense.Amount.Sign() <= 0 {
		return domain.NewError(errcodes.ValidationError, "expense amount must be positive")
	}

	amountUSD, err := s.converter.ConvertToSettlement(ctx, expense.Amount, expense.CurrencyCode)
	if err != nil {
		return err
	}
	expense.AmountUSD = amountUSD

	if expense.Date.IsZero() {
		expense.Date = s.now()
	}

	return s.expenses.Create(ctx, expense)
}

func (s *Service) Expenses(ctx context.Context, from, to *time.Time) ([]entity.Expense, error) {
	return s.expenses.List(ctx, from, to)
}
