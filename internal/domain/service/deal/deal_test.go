package deal_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"students-erp/internal/domain"
	"students-erp/internal/domain/entity"
	"students-erp/internal/domain/service/deal"
	"students-erp/pkg/errcodes"
)

type fakeDealRepo struct {
	deals  map[int64]entity.Deal
	paid   map[int64]decimal.Decimal
	nextID int64
}

func newFakeDealRepo() *fakeDealRepo {
	return &fakeDealRepo{
		deals:  make(map[int64]entity.Deal),
		paid:   make(map[int64]decimal.Decimal),
		nextID: 1,
	}
}

func (r *fakeDealRepo) Create(_ context.Context, d *entity.Deal) error {
	d.ID = r.nextID
	r.nextID++
	r.deals[d.ID] = *d
	return nil
}

func (r *fakeDealRepo) Update(_ context.Context, d *entity.Deal) error {
	if _, ok := r.deals[d.ID]; !ok {
		return domain.NewError(errcodes.DealNotFound, "deal not found")
	}
	r.deals[d.ID] = *d
	return nil
}

func (r *fakeDealRepo) GetByID(_ context.Context, id int64) (*entity.Deal, error) {
	d, ok := r.deals[id]
	if !ok {
		return nil, domain.NewError(errcodes.DealNotFound, "deal not found")
	}
	return &d, nil
}

func (r *fakeDealRepo) List(_ context.Context, _ deal.Filter) ([]entity.Deal, error) {
	out := make([]entity.Deal, 0, len(r.deals))
	for _, d := range r.deals {
		out = append(out, d)
	}
	return out, nil
}

func (r *fakeDealRepo) SyncPaidAmount(_ context.Context, dealID int64) (*entity.Deal, error) {
	d, ok := r.deals[dealID]
	if !ok {
		return nil, domain.NewError(errcodes.DealNotFound, "deal not found")
	}
	d.ApplyPaid(r.paid[dealID])
	r.deals[dealID] = d
	return &d, nil
}

type fakeCatalogRepo struct {
	programs map[int64]entity.Program
	services map[int64]entity.CatalogService
}

func (r *fakeCatalogRepo) GetProgram(_ context.Context, id int64) (*entity.Program, error) {
	p, ok := r.programs[id]
	if !ok {
		return nil, domain.NewError(errcodes.ProgramNotFound, "program not found")
	}
	return &p, nil
}

func (r *fakeCatalogRepo) GetService(_ context.Context, id int64) (*entity.CatalogService, error) {
	s, ok := r.services[id]
	if !ok {
		return nil, domain.NewError(errcodes.ServiceNotFound, "service not found")
	}
	return &s, nil
}

type fixedConverter struct {
	rates map[string]decimal.Decimal
}

func (c fixedConverter) ConvertToSettlement(_ context.Context, amount decimal.Decimal, code string) (decimal.Decimal, error) {
	if code == "USD" {
		return amount, nil
	}
	rate, ok := c.rates[code]
	if !ok {
		return decimal.Zero, domain.NewError(errcodes.CurrencyNotFound, "currency not found")
	}
	return amount.DivRound(rate, 2), nil
}

func newService(repo *fakeDealRepo) *deal.Service {
	catalog := &fakeCatalogRepo{
		programs: map[int64]entity.Program{
			10: {ID: 10, Name: "MSc Computer Science", ServiceFeeUSD: decimal.NewFromInt(500)},
		},
		services: map[int64]entity.CatalogService{
			20: {
				ID:             20,
				Title:          "Visa support",
				PriceClientUSD: decimal.NewFromInt(300),
				RealCostUSD:    decimal.NewFromInt(120),
			},
		},
	}
	converter := fixedConverter{rates: map[string]decimal.Decimal{
		"EUR": decimal.RequireFromString("0.9050"),
	}}
	return deal.NewService(repo, catalog, converter)
}

func TestSaveDerivesUniversityDeal(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	repo := newFakeDealRepo()
	svc := newService(repo)

	programID := int64(10)
	d := &entity.Deal{
		ClientID:     1,
		ManagerID:    1,
		Kind:         entity.DealKindUniversity,
		ProgramID:    &programID,
		CurrencyCode: "EUR",
		PriceClient:  decimal.RequireFromString("9050.00"),
	}

	rq.NoError(svc.Save(ctx, d))
	rq.NotZero(d.ID)
	rq.True(d.TotalToPayUSD.Equal(decimal.NewFromInt(10000)), "got %s", d.TotalToPayUSD)
	rq.True(d.ExpectedRevenueUSD.Equal(decimal.NewFromInt(500)))
	rq.Equal(entity.DealStatusNew, d.PaymentStatus)
}

func TestSaveDerivesServiceDeal(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	repo := newFakeDealRepo()
	svc := newService(repo)

	serviceID := int64(20)
	d := &entity.Deal{
		ClientID:     1,
		ManagerID:    1,
		Kind:         entity.DealKindService,
		ServiceID:    &serviceID,
		CurrencyCode: "USD",
		PriceClient:  decimal.NewFromInt(300),
	}

	rq.NoError(svc.Save(ctx, d))
	rq.True(d.TotalToPayUSD.Equal(decimal.NewFromInt(300)))
	// Маржа услуги: цена клиента минус себестоимость.
	rq.True(d.ExpectedRevenueUSD.Equal(decimal.NewFromInt(180)))
}

func TestSaveCustomServiceDealHasZeroExpectedRevenue(t *testing.T) {
	rq := require.New(t)

	repo := newFakeDealRepo()
	svc := newService(repo)

	d := &entity.Deal{
		ClientID:          1,
		ManagerID:         1,
		Kind:              entity.DealKindService,
		CustomServiceName: "Airport transfer",
		CurrencyCode:      "USD",
		PriceClient:       decimal.NewFromInt(50),
	}

	rq.NoError(svc.Save(context.Background(), d))
	rq.True(d.ExpectedRevenueUSD.IsZero())
}

func TestSaveValidation(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc := newService(newFakeDealRepo())

	err := svc.Save(ctx, &entity.Deal{Kind: "rental", CurrencyCode: "USD", PriceClient: decimal.NewFromInt(1)})
	rq.True(domain.HasCode(err, errcodes.InvalidDealKind))

	err = svc.Save(ctx, &entity.Deal{Kind: entity.DealKindService, CurrencyCode: "USD", PriceClient: decimal.Zero})
	rq.True(domain.HasCode(err, errcodes.InvalidDealPrice))

	missing := int64(404)
	err = svc.Save(ctx, &entity.Deal{
		Kind:         entity.DealKindUniversity,
		ProgramID:    &missing,
		CurrencyCode: "USD",
		PriceClient:  decimal.NewFromInt(100),
	})
	rq.True(domain.HasCode(err, errcodes.ProgramNotFound))
}

func TestRecomputeStatus(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	repo := newFakeDealRepo()
	svc := newService(repo)

	d := &entity.Deal{
		ClientID:     1,
		ManagerID:    1,
		Kind:         entity.DealKindService,
		CurrencyCode: "USD",
		PriceClient:  decimal.NewFromInt(1000),
	}
	rq.NoError(svc.Save(ctx, d))

	repo.paid[d.ID] = decimal.RequireFromString("400.00")
	got, err := svc.RecomputeStatus(ctx, d.ID)
	rq.NoError(err)
	rq.Equal(entity.DealStatusPaidPartial, got.PaymentStatus)

	// В пределах эпсилона от полной суммы сделка считается оплаченной.
	repo.paid[d.ID] = decimal.RequireFromString("999.99")
	got, err = svc.RecomputeStatus(ctx, d.ID)
	rq.NoError(err)
	rq.Equal(entity.DealStatusPaidFull, got.PaymentStatus)

	repo.paid[d.ID] = decimal.Zero
	got, err = svc.RecomputeStatus(ctx, d.ID)
	rq.NoError(err)
	rq.Equal(entity.DealStatusNew, got.PaymentStatus)
}

func TestSaveKeepsManualStatusOnEdit(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	repo := newFakeDealRepo()
	svc := newService(repo)

	d := &entity.Deal{
		ClientID:     1,
		ManagerID:    1,
		Kind:         entity.DealKindService,
		CurrencyCode: "USD",
		PriceClient:  decimal.NewFromInt(1000),
	}
	rq.NoError(svc.Save(ctx, d))

	// Менеджер перевёл сделку в работу руками.
	stored := repo.deals[d.ID]
	stored.PaymentStatus = entity.DealStatusProcess
	repo.deals[d.ID] = stored

	// Правка приходит в форме HTTP-запроса: без статуса и без paid.
	edit := &entity.Deal{
		ID:           d.ID,
		ClientID:     1,
		ManagerID:    1,
		Kind:         entity.DealKindService,
		CurrencyCode: "USD",
		PriceClient:  decimal.NewFromInt(1500),
	}
	rq.NoError(svc.Save(ctx, edit))

	rq.Equal(entity.DealStatusProcess, edit.PaymentStatus)
	rq.Equal(entity.DealStatusProcess, repo.deals[d.ID].PaymentStatus)
	rq.True(repo.deals[d.ID].TotalToPayUSD.Equal(decimal.NewFromInt(1500)))
}
