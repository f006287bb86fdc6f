package currency

import (
	"context"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"

	"students-erp/internal/domain"
	"students-erp/internal/domain/entity"
	"students-erp/pkg/errcodes"
)

const (
	rateCacheTTL     = 5 * time.Minute
	rateCacheCleanup = 10 * time.Minute

	amountScale = 2
)

type RateRepository interface {
	GetByCode(ctx context.Context, code string) (*entity.Currency, error)
	List(ctx context.Context) ([]entity.Currency, error)
	Upsert(ctx context.Context, currency *entity.Currency) error
}

// Service конвертирует суммы в расчётную валюту по таблице курсов.
// Код расчётной валюты задаётся один раз при старте процесса.
type Service struct {
	rates          RateRepository
	settlementCode string
	rateCache      *cache.Cache
}

func NewService(rates RateRepository, settlementCode string) *Service {
	return &Service{
		rates:          rates,
		settlementCode: strings.ToUpper(settlementCode),
		rateCache:      cache.New(rateCacheTTL, rateCacheCleanup),
	}
}

func (s *Service) SettlementCode() string {
	return s.settlementCode
}

// Rate возвращает текущий курс валюты к расчётной. Для самой расчётной
// валюты курс всегда 1.
func (s *Service) Rate(ctx context.Context, code string) (decimal.Decimal, error) {
	code = strings.ToUpper(code)

	if code == s.settlementCode {
		return decimal.NewFromInt(1), nil
	}

	if cached, found := s.rateCache.Get(code); found {
		return cached.(decimal.Decimal), nil
	}

	currency, err := s.rates.GetByCode(ctx, code)
	if err != nil {
		return decimal.Zero, err
	}

	if currency.Rate.Sign() <= 0 {
		return decimal.Zero, domain.NewError(errcodes.InvalidExchangeRate, "currency rate must be positive")
	}

	s.rateCache.Set(code, currency.Rate, cache.DefaultExpiration)

	return currency.Rate, nil
}

// ConvertToSettlement переводит сумму в расчётную валюту по живому курсу.
func (s *Service) ConvertToSettlement(ctx context.Context, amount decimal.Decimal, code string) (decimal.Decimal, error) {
	if strings.ToUpper(code) == s.settlementCode {
		return amount, nil
	}

	rate, err := s.Rate(ctx, code)
	if err != nil {
		return decimal.Zero, err
	}

	return ConvertAtRate(amount, rate)
}

// ConvertAtRate переводит сумму по уже зафиксированному курсу.
func ConvertAtRate(amount, rate decimal.Decimal) (decimal.Decimal, error) {
	if rate.Sign() <= 0 {
		return decimal.Zero, domain.NewError(errcodes.InvalidExchangeRate, "exchange rate must be positive")
	}

	return amount.DivRound(rate, amountScale), nil
}

// Save создаёт валюту или обновляет курс. Кэш по коду сбрасывается сразу,
// чтобы следующая конвертация взяла новый курс.
func (s *Service) Save(ctx context.Context, currency *entity.Currency) error {
	currency.Code = strings.ToUpper(strings.TrimSpace(currency.Code))

	if len(currency.Code) != 3 {
		return domain.NewError(errcodes.InvalidCurrencyCode, "currency code must be a 3-letter ISO code")
	}

	if currency.Rate.Sign() <= 0 {
		return domain.NewError(errcodes.InvalidExchangeRate, "currency rate must be positive")
	}

	if currency.Code == s.settlementCode && !currency.Rate.Equal(decimal.NewFromInt(1)) {
		return domain.NewError(errcodes.InvalidExchangeRate, "settlement currency rate is fixed at 1")
	}

	if err := s.rates.Upsert(ctx, currency); err != nil {
		return err
	}

	s.rateCache.Delete(currency.Code)

	return nil
}

func (s *Service) List(ctx context.Context) ([]entity.Currency, error) {
	return s.rates.List(ctx)
}
