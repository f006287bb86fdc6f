package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"students-erp/internal/domain"
	"students-erp/internal/domain/entity"
	"students-erp/pkg/contextx"
	"students-erp/pkg/errcodes"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	Update(ctx context.Context, payment *entity.Payment) error
	GetByID(ctx context.Context, id int64) (*entity.Payment, error)
	List(ctx context.Context, filter Filter) ([]entity.Payment, error)
}

// BonusFunc считает бонус менеджера под блокировкой кошелька.
// Возвращает сумму начисления и текст для записи аудита.
type BonusFunc func(payment entity.Payment, wallet entity.Wallet) (decimal.Decimal, string)

// ConfirmOutcome - результат подтверждения платежа.
type ConfirmOutcome struct {
	Payment          entity.Payment
	Bonus            decimal.Decimal
	AlreadyConfirmed bool
}

// PayoutOutcome - результат выплаты: сколько списали с кошелька.
type PayoutOutcome struct {
	ManagerID int64
	Amount    decimal.Decimal
}

// SettlementRepository выполняет денежные операции одной транзакцией БД
// с блокировкой кошелька.
type SettlementRepository interface {
	ConfirmPayment(ctx context.Context, paymentID, adminID int64, bonus BonusFunc) (*ConfirmOutcome, error)
	Payout(ctx context.Context, managerID int64, description string) (*PayoutOutcome, error)
}

type ManagerRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Manager, error)
}

type DealRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Deal, error)
}

type WalletRepository interface {
	GetByManager(ctx context.Context, managerID int64) (*entity.Wallet, error)
}

type TransactionRepository interface {
	ListByManager(ctx context.Context, managerID int64, limit, offset int) ([]entity.Transaction, error)
}

type Rates interface {
	Rate(ctx context.Context, code string) (decimal.Decimal, error)
	SettlementCode() string
}

type Notifier interface {
	PaymentConfirmed(ctx context.Context, payment entity.Payment, bonus decimal.Decimal)
}

// Filter - параметры выборки платежей.
type Filter struct {
	DealID    *int64
	ManagerID *int64
	Confirmed *bool
	Limit     int
	Offset    int
}

// BulkResult - итог пакетного подтверждения.
type BulkResult struct {
	Confirmed        int `json:"confirmed"`
	AlreadyConfirmed int `json:"already_confirmed"`
}

// Service - биллинг: сохранение платежей с фиксацией курса,
// подтверждение с начислением бонуса и выплаты.
type Service struct {
	payments     PaymentRepository
	settlement   SettlementRepository
	deals        DealRepository
	managers     ManagerRepository
	wallets      WalletRepository
	transactions TransactionRepository
	rates        Rates
	notifier     Notifier
}

func NewService(
	payments PaymentRepository,
	settlement SettlementRepository,
	deals DealRepository,
	managers ManagerRepository,
	wallets WalletRepository,
	transactions TransactionRepository,
	rates Rates,
	notifier Notifier,
) *Service {
	return &Service{
		payments:     payments,
		settlement:   settlement,
		deals:        deals,
		managers:     managers,
		wallets:      wallets,
		transactions: transactions,
		rates:        rates,
		notifier:     notifier,
	}
}

// SavePayment создаёт или редактирует платёж. Курс фиксируется при первом
// сохранении; суммы в расчётной валюте и чистый доход пересчитываются
// при каждом сохранении по зафиксированному курсу.
func (s *Service) SavePayment(ctx context.Context, payment *entity.Payment) error {
	if payment.Amount.Sign() <= 0 {
		return domain.NewError(errcodes.InvalidPaymentAmount, "payment amount must be positive")
	}

	if !payment.Method.Valid() {
		return domain.NewError(errcodes.InvalidPaymentMethod, "unknown payment method")
	}

	if payment.ID == 0 {
		rate, err := s.rates.Rate(ctx, payment.CurrencyCode)
		if err != nil {
			return err
		}
		payment.ExchangeRate = rate
	} else {
		existing, err := s.payments.GetByID(ctx, payment.ID)
		if err != nil {
			return err
		}

		if existing.IsConfirmed {
			return domain.NewError(errcodes.Conflict, "confirmed payment cannot be edited")
		}

		// Курс зафиксирован, правки его не трогают.
		// Сделка и менеджер у платежа тоже не меняются, поэтому запрос
		// на правку их не несёт.
		payment.ExchangeRate = existing.ExchangeRate
		payment.CurrencyCode = existing.CurrencyCode
		payment.DealID = existing.DealID
		payment.ManagerID = existing.ManagerID
		payment.CreatedAt = existing.CreatedAt
	}

	// Сделку ищем после восстановления DealID, иначе правка без deal_id
	// в запросе считала бы долю дохода по чужой сделке.
	deal, err := s.deals.GetByID(ctx, payment.DealID)
	if err != nil {
		return err
	}

	if err := s.derive(payment, deal); err != nil {
		return err
	}

	if payment.ID == 0 {
		return s.payments.Create(ctx, payment)
	}

	return s.payments.Update(ctx, payment)
}

func (s *Service) derive(payment *entity.Payment, deal *entity.Deal) error {
	if strings.EqualFold(payment.CurrencyCode, s.rates.SettlementCode()) {
		payment.AmountUSD = payment.Amount
	} else {
		if payment.ExchangeRate.Sign() <= 0 {
			return domain.NewError(errcodes.InvalidExchangeRate, "captured exchange rate must be positive")
		}
		payment.AmountUSD = payment.Amount.DivRound(payment.ExchangeRate, 2)
	}

	// Доля ожидаемого дохода, приходящаяся на этот платёж.
	if deal.TotalToPayUSD.Sign() > 0 {
		payment.NetIncomeUSD = payment.AmountUSD.Mul(deal.ExpectedRevenueUSD).DivRound(deal.TotalToPayUSD, 2)
	} else {
		payment.NetIncomeUSD = decimal.Zero
	}

	return nil
}

// ConfirmPayment подтверждает платёж и начисляет бонус менеджеру.
// Повторное подтверждение уже подтверждённого платежа ничего не меняет.
func (s *Service) ConfirmPayment(ctx context.Context, paymentID, adminID int64) (*ConfirmOutcome, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	outcome, err := s.settlement.ConfirmPayment(ctx, paymentID, adminID, computeBonus)
	if err != nil {
		return nil, err
	}

	if !outcome.AlreadyConfirmed && s.notifier != nil {
		s.notifier.PaymentConfirmed(ctx, outcome.Payment, outcome.Bonus)
	}

	return outcome, nil
}

// ConfirmPayments подтверждает платежи по одному. Ошибка на одном платеже
// не откатывает уже подтверждённые.
func (s *Service) ConfirmPayments(ctx context.Context, paymentIDs []int64, adminID int64) (*BulkResult, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	result := &BulkResult{}

	for _, id := range paymentIDs {
		outcome, err := s.settlement.ConfirmPayment(ctx, id, adminID, computeBonus)
		if err != nil {
			logger(ctx).Error("bulk confirm failed", "payment_id", id, "error", err)
			return result, err
		}

		if outcome.AlreadyConfirmed {
			result.AlreadyConfirmed++
			continue
		}

		result.Confirmed++

		if s.notifier != nil {
			s.notifier.PaymentConfirmed(ctx, outcome.Payment, outcome.Bonus)
		}
	}

	return result, nil
}

// Payout обнуляет баланс кошелька менеджера и пишет расходную запись аудита.
func (s *Service) Payout(ctx context.Context, managerID, adminID int64) (*PayoutOutcome, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	if _, err := s.managers.GetByID(ctx, managerID); err != nil {
		return nil, err
	}

	return s.settlement.Payout(ctx, managerID, "Выплата бонусов, обнуление баланса")
}

func (s *Service) Wallet(ctx context.Context, managerID int64) (*entity.Wallet, error) {
	return s.wallets.GetByManager(ctx, managerID)
}

func (s *Service) Transactions(ctx context.Context, managerID int64, limit, offset int) ([]entity.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	return s.transactions.ListByManager(ctx, managerID, limit, offset)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*entity.Payment, error) {
	return s.payments.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter Filter) ([]entity.Payment, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 100
	}

	return s.payments.List(ctx, filter)
}

func (s *Service) requireAdmin(ctx context.Context, adminID int64) error {
	manager, err := s.managers.GetByID(ctx, adminID)
	if err != nil {
		return err
	}

	if !manager.IsAdmin {
		return domain.NewError(errcodes.Forbidden, "only admin can run settlement operations")
	}

	return nil
}

// computeBonus: база - чистый доход платежа, а если он не посчитан,
// вся сумма платежа. Бонус - комиссия менеджера от базы.
func computeBonus(payment entity.Payment, wallet entity.Wallet) (decimal.Decimal, string) {
	base := payment.NetIncomeUSD
	if base.Sign() <= 0 {
		base = payment.AmountUSD
	}

	bonus := base.Mul(wallet.CommissionPercent).DivRound(decimal.NewFromInt(100), 2)
	description := fmt.Sprintf("Бонус за платёж #%d по сделке #%d", payment.ID, payment.DealID)

	return bonus, description
}
