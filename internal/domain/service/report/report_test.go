package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"students-erp/internal/domain"
	"students-erp/internal/domain/entity"
	"students-erp/internal/domain/service/report"
	"students-erp/pkg/errcodes"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPeriodBounds(t *testing.T) {
	cases := []struct {
		day   time.Time
		start time.Time
		end   time.Time
	}{
		{date(2026, time.January, 1), date(2026, time.January, 1), date(2026, time.January, 15)},
		{date(2026, time.January, 15), date(2026, time.January, 1), date(2026, time.January, 15)},
		{date(2026, time.January, 16), date(2026, time.January, 16), date(2026, time.January, 31)},
		{date(2026, time.January, 31), date(2026, time.January, 16), date(2026, time.January, 31)},
		// Февраль: конец месяца не 30/31.
		{date(2026, time.February, 20), date(2026, time.February, 16), date(2026, time.February, 28)},
		{date(2028, time.February, 29), date(2028, time.February, 16), date(2028, time.February, 29)},
		// 30-дневный месяц.
		{date(2026, time.April, 16), date(2026, time.April, 16), date(2026, time.April, 30)},
		// Время и зона не влияют на границы.
		{time.Date(2026, time.March, 3, 23, 59, 0, 0, time.FixedZone("AST", 3*3600)), date(2026, time.March, 1), date(2026, time.March, 15)},
	}

	for _, tc := range cases {
		start, end := report.PeriodBounds(tc.day)
		require.Equal(t, tc.start, start, "start for %s", tc.day)
		require.Equal(t, tc.end, end, "end for %s", tc.day)
	}
}

type fakePeriodRepo struct {
	periods map[int64]entity.Period
	nextID  int64
}

func newFakePeriodRepo() *fakePeriodRepo {
	return &fakePeriodRepo{periods: make(map[int64]entity.Period), nextID: 1}
}

func (r *fakePeriodRepo) GetOrCreate(_ context.Context, start, end time.Time) (*entity.Period, error) {
	for _, p := range r.periods {
		if p.StartDate.Equal(start) && p.EndDate.Equal(end) {
			return &p, nil
		}
	}
	p := entity.Period{ID: r.nextID, StartDate: start, EndDate: end}
	r.nextID++
	r.periods[p.ID] = p
	return &p, nil
}

func (r *fakePeriodRepo) GetByID(_ context.Context, id int64) (*entity.Period, error) {
	p, ok := r.periods[id]
	if !ok {
		return nil, domain.NewError(errcodes.PeriodNotFound, "period not found")
	}
	return &p, nil
}

func (r *fakePeriodRepo) List(_ context.Context) ([]entity.Period, error) {
	out := make([]entity.Period, 0, len(r.periods))
	for _, p := range r.periods {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakePeriodRepo) SaveStats(_ context.Context, id int64, revenue, expenses, profit decimal.Decimal) error {
	p := r.periods[id]
	p.TotalRevenue = revenue
	p.TotalExpenses = expenses
	p.NetProfit = profit
	r.periods[id] = p
	return nil
}

func (r *fakePeriodRepo) Close(_ context.Context, id int64) error {
	p := r.periods[id]
	p.IsClosed = true
	r.periods[id] = p
	return nil
}

type fakeStatsRepo struct {
	revenue   decimal.Decimal
	netIncome decimal.Decimal
	expenses  decimal.Decimal
	rows      []entity.LeaderboardRow
}

func (r *fakeStatsRepo) PaymentTotals(_ context.Context, _, _ time.Time) (*report.PaymentTotals, error) {
	return &report.PaymentTotals{Revenue: r.revenue, NetIncome: r.netIncome}, nil
}

func (r *fakeStatsRepo) ExpenseTotal(_ context.Context, _, _ time.Time) (decimal.Decimal, error) {
	return r.expenses, nil
}

func (r *fakeStatsRepo) ManagerTotals(_ context.Context, _, _ time.Time) ([]entity.LeaderboardRow, error) {
	rows := make([]entity.LeaderboardRow, len(r.rows))
	copy(rows, r.rows)
	return rows, nil
}

type fakeExpenseRepo struct {
	expenses []entity.Expense
}

func (r *fakeExpenseRepo) Create(_ context.Context, e *entity.Expense) error {
	e.ID = int64(len(r.expenses) + 1)
	r.expenses = append(r.expenses, *e)
	return nil
}

func (r *fakeExpenseRepo) List(_ context.Context, _, _ *time.Time) ([]entity.Expense, error) {
	return r.expenses, nil
}

type fixedConverter struct{}

func (fixedConverter) ConvertToSettlement(_ context.Context, amount decimal.Decimal, code string) (decimal.Decimal, error) {
	if code == "USD" {
		return amount, nil
	}
	return amount.DivRound(decimal.NewFromInt(2), 2), nil
}

func TestEnsureCurrentPeriod(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	repo := newFakePeriodRepo()
	svc := report.NewService(repo, &fakeStatsRepo{}, &fakeExpenseRepo{}, fixedConverter{},
		report.WithClock(func() time.Time { return date(2026, time.August, 20) }))

	first, err := svc.EnsureCurrentPeriod(ctx)
	rq.NoError(err)
	rq.Equal(date(2026, time.August, 16), first.StartDate)
	rq.Equal(date(2026, time.August, 31), first.EndDate)

	second, err := svc.EnsureCurrentPeriod(ctx)
	rq.NoError(err)
	rq.Equal(first.ID, second.ID)
}

func TestRecalculateStats(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	repo := newFakePeriodRepo()
	stats := &fakeStatsRepo{
		revenue:   decimal.NewFromInt(5000),
		netIncome: decimal.NewFromInt(1200),
		expenses:  decimal.NewFromInt(300),
	}
	svc := report.NewService(repo, stats, &fakeExpenseRepo{}, fixedConverter{},
		report.WithClock(func() time.Time { return date(2026, time.August, 10) }))

	period, err := svc.EnsureCurrentPeriod(ctx)
	rq.NoError(err)

	got, err := svc.RecalculateStats(ctx, period.ID)
	rq.NoError(err)
	rq.True(got.TotalRevenue.Equal(decimal.NewFromInt(5000)))
	rq.True(got.TotalExpenses.Equal(decimal.NewFromInt(300)))
	rq.True(got.NetProfit.Equal(decimal.NewFromInt(900)))

	// Снапшот сохранён, повторный пересчёт даёт тот же результат.
	stored, err := svc.GetByID(ctx, period.ID)
	rq.NoError(err)
	rq.True(stored.NetProfit.Equal(decimal.NewFromInt(900)))
}

func TestRecalculateClosedPeriodRejected(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	repo := newFakePeriodRepo()
	svc := report.NewService(repo, &fakeStatsRepo{}, &fakeExpenseRepo{}, fixedConverter{},
		report.WithClock(func() time.Time { return date(2026, time.August, 10) }))

	period, err := svc.EnsureCurrentPeriod(ctx)
	rq.NoError(err)

	closed, err := svc.ClosePeriod(ctx, period.ID)
	rq.NoError(err)
	rq.True(closed.IsClosed)

	_, err = svc.RecalculateStats(ctx, period.ID)
	rq.True(domain.HasCode(err, errcodes.PeriodClosed))

	// Повторное закрытие ничего не меняет.
	again, err := svc.ClosePeriod(ctx, period.ID)
	rq.NoError(err)
	rq.True(again.IsClosed)
}

func TestLeaderboardOrder(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	repo := newFakePeriodRepo()
	stats := &fakeStatsRepo{rows: []entity.LeaderboardRow{
		{ManagerID: 3, TotalRaisedUSD: decimal.NewFromInt(100)},
		{ManagerID: 1, TotalRaisedUSD: decimal.NewFromInt(100)},
		{ManagerID: 2, TotalRaisedUSD: decimal.NewFromInt(900)},
	}}
	svc := report.NewService(repo, stats, &fakeExpenseRepo{}, fixedConverter{},
		report.WithClock(func() time.Time { return date(2026, time.August, 10) }))

	period, err := svc.EnsureCurrentPeriod(ctx)
	rq.NoError(err)

	rows, err := svc.Leaderboard(ctx, period.ID)
	rq.NoError(err)
	rq.Len(rows, 3)
	rq.EqualValues(2, rows[0].ManagerID)
	// При равной выручке порядок стабилен: меньший ID выше.
	rq.EqualValues(1, rows[1].ManagerID)
	rq.EqualValues(3, rows[2].ManagerID)
}

func TestSaveExpense(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	expenses := &fakeExpenseRepo{}
	svc := report.NewService(newFakePeriodRepo(), &fakeStatsRepo{}, expenses, fixedConverter{},
		report.WithClock(func() time.Time { return date(2026, time.August, 10) }))

	err := svc.SaveExpense(ctx, &entity.Expense{Title: " ", Amount: decimal.NewFromInt(10), CurrencyCode: "USD"})
	rq.True(domain.HasCode(err, errcodes.ValidationError))

	err = svc.SaveExpense(ctx, &entity.Expense{Title: "Office rent", Amount: decimal.Zero, CurrencyCode: "USD"})
	rq.True(domain.HasCode(err, errcodes.ValidationError))

	e := &entity.Expense{Title: "Office rent", Amount: decimal.NewFromInt(500), CurrencyCode: "AED"}
	rq.NoError(svc.SaveExpense(ctx, e))
	rq.True(e.AmountUSD.Equal(decimal.NewFromInt(250)))
	rq.Equal(date(2026, time.August, 10), e.Date)
	rq.NotZero(e.ID)
}
