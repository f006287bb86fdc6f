package deal

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"students-erp/internal/domain"
	"students-erp/internal/domain/entity"
	"students-erp/pkg/errcodes"
)

type DealRepository interface {
	Create(ctx context.Context, deal *entity.Deal) error
	Update(ctx context.Context, deal *entity.Deal) error
	GetByID(ctx context.Context, id int64) (*entity.Deal, error)
	List(ctx context.Context, filter Filter) ([]entity.Deal, error)
	// SyncPaidAmount пересчитывает сумму подтверждённых платежей сделки
	// и выводит из неё статус. Выполняется одной транзакцией.
	SyncPaidAmount(ctx context.Context, dealID int64) (*entity.Deal, error)
}

type CatalogRepository interface {
	GetProgram(ctx context.Context, id int64) (*entity.Program, error)
	GetService(ctx context.Context, id int64) (*entity.CatalogService, error)
}

type Converter interface {
	ConvertToSettlement(ctx context.Context, amount decimal.Decimal, code string) (decimal.Decimal, error)
}

// Filter - параметры выборки сделок.
type Filter struct {
	ManagerID    *int64
	Status       *entity.DealStatus
	UpdatedAfter *time.Time
	Limit        int
	Offset       int
}

// Service отвечает за производные денежные поля сделки.
// total_to_pay_usd и expected_revenue_usd считаются при каждом сохранении,
// руками их менять нельзя.
type Service struct {
	deals     DealRepository
	catalog   CatalogRepository
	converter Converter
}

func NewService(deals DealRepository, catalog CatalogRepository, converter Converter) *Service {
	return &Service{
		deals:     deals,
		catalog:   catalog,
		converter: converter,
	}
}

// Save создаёт или обновляет сделку, заново выводя производные поля
// из цены клиента и каталога.
func (s *Service) Save(ctx context.Context, deal *entity.Deal) error {
	if !deal.Kind.Valid() {
		return domain.NewError(errcodes.InvalidDealKind, "unknown deal kind")
	}

	if deal.PriceClient.Sign() <= 0 {
		return domain.NewError(errcodes.InvalidDealPrice, "client price must be positive")
	}

	if err := s.derive(ctx, deal); err != nil {
		return err
	}

	if deal.ID == 0 {
		deal.PaymentStatus = entity.DealStatusNew
		return s.deals.Create(ctx, deal)
	}

	existing, err := s.deals.GetByID(ctx, deal.ID)
	if err != nil {
		return err
	}
	deal.PaidAmountUSD = existing.PaidAmountUSD
	deal.CreatedAt = existing.CreatedAt

	// Статус оплаты выводится только из платежей. Правка сделки его
	// не трогает, иначе выставленный руками process или closed
	// сбрасывался бы любой правкой цены. Новый порог paid_full
	// подхватит следующий платёж или явный пересчёт.
	deal.PaymentStatus = existing.PaymentStatus

	return s.deals.Update(ctx, deal)
}

func (s *Service) derive(ctx context.Context, deal *entity.Deal) error {
	total, err := s.converter.ConvertToSettlement(ctx, deal.PriceClient, deal.CurrencyCode)
	if err != nil {
		return err
	}
	deal.TotalToPayUSD = total

	switch deal.Kind {
	case entity.DealKindUniversity:
		if deal.ProgramID == nil {
			deal.ExpectedRevenueUSD = decimal.Zero
			return nil
		}

		program, err := s.catalog.GetProgram(ctx, *deal.ProgramID)
		if err != nil {
			return err
		}
		deal.ExpectedRevenueUSD = program.ServiceFeeUSD

	case entity.DealKindService:
		if deal.ServiceID == nil {
			deal.ExpectedRevenueUSD = decimal.Zero
			return nil
		}

		service, err := s.catalog.GetService(ctx, *deal.ServiceID)
		if err != nil {
			return err
		}
		deal.ExpectedRevenueUSD = service.PriceClientUSD.Sub(service.RealCostUSD)
	}

	return nil
}

// RecomputeStatus синхронизирует оплаченную сумму и статус сделки
// с фактическими подтверждёнными платежами.
func (s *Service) RecomputeStatus(ctx context.Context, dealID int64) (*entity.Deal, error) {
	return s.deals.SyncPaidAmount(ctx, dealID)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*entity.Deal, error) {
	return s.deals.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter Filter) ([]entity.Deal, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 100
	}

	return s.deals.List(ctx, filter)
}
