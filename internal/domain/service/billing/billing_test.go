package billing_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"students-erp/internal/domain"
	"students-erp/internal/domain/entity"
	"students-erp/internal/domain/service/billing"
	"students-erp/pkg/errcodes"
)

// world держит всё состояние фейковых репозиториев под одним мьютексом,
// имитируя транзакционность боевого хранилища.
type world struct {
	mu            sync.Mutex
	payments      map[int64]entity.Payment
	deals         map[int64]entity.Deal
	managers      map[int64]entity.Manager
	wallets       map[int64]entity.Wallet
	transactions  []entity.Transaction
	nextPaymentID int64
}

func newWorld() *world {
	return &world{
		payments: make(map[int64]entity.Payment),
		deals: map[int64]entity.Deal{
			100: {
				ID:            100,
				ManagerID:     2,
				Kind:          entity.DealKindUniversity,
				CurrencyCode:  "USD",
				PriceClient:   decimal.NewFromInt(1000),
				TotalToPayUSD: decimal.NewFromInt(1000),

				ExpectedRevenueUSD: decimal.NewFromInt(200),
				PaymentStatus:      entity.DealStatusNew,
			},
		},
		managers: map[int64]entity.Manager{
			1: {ID: 1, Email: "admin@example.com", IsAdmin: true},
			2: {ID: 2, Email: "manager@example.com"},
		},
		wallets: map[int64]entity.Wallet{
			2: {ManagerID: 2, CommissionPercent: decimal.NewFromInt(10)},
		},
		nextPaymentID: 1,
	}
}

type paymentStore struct{ w *world }

func (s paymentStore) Create(_ context.Context, p *entity.Payment) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	p.ID = s.w.nextPaymentID
	s.w.nextPaymentID++
	s.w.payments[p.ID] = *p
	return nil
}

func (s paymentStore) Update(_ context.Context, p *entity.Payment) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	if _, ok := s.w.payments[p.ID]; !ok {
		return domain.NewError(errcodes.PaymentNotFound, "payment not found")
	}
	s.w.payments[p.ID] = *p
	return nil
}

func (s paymentStore) GetByID(_ context.Context, id int64) (*entity.Payment, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	p, ok := s.w.payments[id]
	if !ok {
		return nil, domain.NewError(errcodes.PaymentNotFound, "payment not found")
	}
	return &p, nil
}

func (s paymentStore) List(_ context.Context, _ billing.Filter) ([]entity.Payment, error) {
	return nil, nil
}

type dealStore struct{ w *world }

func (s dealStore) GetByID(_ context.Context, id int64) (*entity.Deal, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	d, ok := s.w.deals[id]
	if !ok {
		return nil, domain.NewError(errcodes.DealNotFound, "deal not found")
	}
	return &d, nil
}

type managerStore struct{ w *world }

func (s managerStore) GetByID(_ context.Context, id int64) (*entity.Manager, error) {
	m, ok := s.w.managers[id]
	if !ok {
		return nil, domain.NewError(errcodes.ManagerNotFound, "manager not found")
	}
	return &m, nil
}

type walletStore struct{ w *world }

func (s walletStore) GetByManager(_ context.Context, managerID int64) (*entity.Wallet, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	wl, ok := s.w.wallets[managerID]
	if !ok {
		return nil, domain.NewError(errcodes.WalletNotFound, "wallet not found")
	}
	return &wl, nil
}

type transactionStore struct{ w *world }

func (s transactionStore) ListByManager(_ context.Context, managerID int64, _, _ int) ([]entity.Transaction, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	var out []entity.Transaction
	for _, t := range s.w.transactions {
		if t.ManagerID == managerID {
			out = append(out, t)
		}
	}
	return out, nil
}

type settlementStore struct{ w *world }

func (s settlementStore) ConfirmPayment(_ context.Context, paymentID, adminID int64, bonus billing.BonusFunc) (*billing.ConfirmOutcome, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()

	p, ok := s.w.payments[paymentID]
	if !ok {
		return nil, domain.NewError(errcodes.PaymentNotFound, "payment not found")
	}
	if p.IsConfirmed {
		return &billing.ConfirmOutcome{Payment: p, AlreadyConfirmed: true}, nil
	}

	wallet, ok := s.w.wallets[p.ManagerID]
	if !ok {
		return nil, domain.NewError(errcodes.WalletNotFound, "wallet not found")
	}

	amount, description := bonus(p, wallet)

	now := time.Now()
	p.IsConfirmed = true
	p.ConfirmedBy = &adminID
	p.ConfirmedAt = &now
	s.w.payments[paymentID] = p

	wallet.CurrentBalance = wallet.CurrentBalance.Add(amount)
	wallet.CurrentMonthRevenue = wallet.CurrentMonthRevenue.Add(p.AmountUSD)
	s.w.wallets[p.ManagerID] = wallet

	s.w.transactions = append(s.w.transactions, entity.Transaction{
		ManagerID:   p.ManagerID,
		Amount:      amount,
		PaymentID:   &p.ID,
		Description: description,
	})

	d := s.w.deals[p.DealID]
	paid := decimal.Zero
	for _, other := range s.w.payments {
		if other.DealID == p.DealID && other.IsConfirmed {
			paid = paid.Add(other.AmountUSD)
		}
	}
	d.ApplyPaid(paid)
	s.w.deals[p.DealID] = d

	return &billing.ConfirmOutcome{Payment: p, Bonus: amount}, nil
}

func (s settlementStore) Payout(_ context.Context, managerID int64, description string) (*billing.PayoutOutcome, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()

	wallet, ok := s.w.wallets[managerID]
	if !ok {
		return nil, domain.NewError(errcodes.WalletNotFound, "wallet not found")
	}

	amount := wallet.CurrentBalance
	if amount.Sign() != 0 {
		wallet.CurrentBalance = decimal.Zero
		s.w.wallets[managerID] = wallet
		s.w.transactions = append(s.w.transactions, entity.Transaction{
			ManagerID:   managerID,
			Amount:      amount.Neg(),
			Description: description,
		})
	}

	return &billing.PayoutOutcome{ManagerID: managerID, Amount: amount}, nil
}

type fixedRates struct {
	rates map[string]decimal.Decimal
}

func (r fixedRates) Rate(_ context.Context, code string) (decimal.Decimal, error) {
	if code == "USD" {
		return decimal.NewFromInt(1), nil
	}
	rate, ok := r.rates[code]
	if !ok {
		return decimal.Zero, domain.NewError(errcodes.CurrencyNotFound, "currency not found")
	}
	return rate, nil
}

func (r fixedRates) SettlementCode() string { return "USD" }

type countingNotifier struct {
	mu    sync.Mutex
	calls int
}

func (n *countingNotifier) PaymentConfirmed(_ context.Context, _ entity.Payment, _ decimal.Decimal) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
}

func newService(w *world, rates fixedRates, notifier billing.Notifier) *billing.Service {
	return billing.NewService(
		paymentStore{w},
		settlementStore{w},
		dealStore{w},
		managerStore{w},
		walletStore{w},
		transactionStore{w},
		rates,
		notifier,
	)
}

func TestSavePaymentCapturesRateOnce(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	w := newWorld()
	rates := fixedRates{rates: map[string]decimal.Decimal{"EUR": decimal.RequireFromString("0.9050")}}
	svc := newService(w, rates, nil)

	p := &entity.Payment{
		DealID:       100,
		ManagerID:    2,
		Amount:       decimal.RequireFromString("90.50"),
		CurrencyCode: "EUR",
		Method:       entity.PaymentMethodBank,
		PaymentDate:  time.Now(),
	}
	rq.NoError(svc.SavePayment(ctx, p))
	rq.True(p.ExchangeRate.Equal(decimal.RequireFromString("0.9050")))
	rq.True(p.AmountUSD.Equal(decimal.NewFromInt(100)), "got %s", p.AmountUSD)

	// Курс в справочнике изменился, но правка платежа идёт по старому курсу.
	rates.rates["EUR"] = decimal.RequireFromString("0.5000")

	p.Amount = decimal.RequireFromString("181.00")
	rq.NoError(svc.SavePayment(ctx, p))
	rq.True(p.ExchangeRate.Equal(decimal.RequireFromString("0.9050")))
	rq.True(p.AmountUSD.Equal(decimal.NewFromInt(200)), "got %s", p.AmountUSD)
}

func TestSavePaymentProRataNetIncome(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	w := newWorld()
	svc := newService(w, fixedRates{}, nil)

	p := &entity.Payment{
		DealID:       100,
		ManagerID:    2,
		Amount:       decimal.NewFromInt(250),
		CurrencyCode: "USD",
		Method:       entity.PaymentMethodCash,
		PaymentDate:  time.Now(),
	}
	rq.NoError(svc.SavePayment(ctx, p))

	// 250 из 1000 при ожидаемом доходе 200: доля платежа 50.
	rq.True(p.AmountUSD.Equal(decimal.NewFromInt(250)))
	rq.True(p.NetIncomeUSD.Equal(decimal.NewFromInt(50)), "got %s", p.NetIncomeUSD)
}

func TestSavePaymentZeroTotalDeal(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	w := newWorld()
	d := w.deals[100]
	d.TotalToPayUSD = decimal.Zero
	w.deals[100] = d

	svc := newService(w, fixedRates{}, nil)

	p := &entity.Payment{
		DealID:       100,
		ManagerID:    2,
		Amount:       decimal.NewFromInt(100),
		CurrencyCode: "USD",
		Method:       entity.PaymentMethodCard,
		PaymentDate:  time.Now(),
	}
	rq.NoError(svc.SavePayment(ctx, p))
	rq.True(p.NetIncomeUSD.IsZero())
}

func TestSavePaymentValidation(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc := newService(newWorld(), fixedRates{}, nil)

	err := svc.SavePayment(ctx, &entity.Payment{
		DealID: 100, Amount: decimal.Zero, CurrencyCode: "USD", Method: entity.PaymentMethodCash,
	})
	rq.True(domain.HasCode(err, errcodes.InvalidPaymentAmount))

	err = svc.SavePayment(ctx, &entity.Payment{
		DealID: 100, Amount: decimal.NewFromInt(10), CurrencyCode: "USD", Method: "crypto",
	})
	rq.True(domain.HasCode(err, errcodes.InvalidPaymentMethod))

	err = svc.SavePayment(ctx, &entity.Payment{
		DealID: 404, Amount: decimal.NewFromInt(10), CurrencyCode: "USD", Method: entity.PaymentMethodCash,
	})
	rq.True(domain.HasCode(err, errcodes.DealNotFound))
}

func TestConfirmPayment(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	w := newWorld()
	notifier := &countingNotifier{}
	svc := newService(w, fixedRates{}, notifier)

	p := &entity.Payment{
		DealID:       100,
		ManagerID:    2,
		Amount:       decimal.NewFromInt(1000),
		CurrencyCode: "USD",
		Method:       entity.PaymentMethodBank,
		PaymentDate:  time.Now(),
	}
	rq.NoError(svc.SavePayment(ctx, p))
	rq.True(p.NetIncomeUSD.Equal(decimal.NewFromInt(200)))

	outcome, err := svc.ConfirmPayment(ctx, p.ID, 1)
	rq.NoError(err)
	rq.False(outcome.AlreadyConfirmed)
	// Бонус: 10% от чистого дохода 200.
	rq.True(outcome.Bonus.Equal(decimal.NewFromInt(20)), "got %s", outcome.Bonus)

	wallet, err := svc.Wallet(ctx, 2)
	rq.NoError(err)
	rq.True(wallet.CurrentBalance.Equal(decimal.NewFromInt(20)))
	rq.True(wallet.CurrentMonthRevenue.Equal(decimal.NewFromInt(1000)))

	transactions, err := svc.Transactions(ctx, 2, 10, 0)
	rq.NoError(err)
	rq.Len(transactions, 1)
	rq.True(transactions[0].Amount.Equal(decimal.NewFromInt(20)))
	rq.NotNil(transactions[0].PaymentID)

	rq.Equal(entity.DealStatusPaidFull, w.deals[100].PaymentStatus)
	rq.Equal(1, notifier.calls)

	// Повторное подтверждение ничего не доначисляет.
	outcome, err = svc.ConfirmPayment(ctx, p.ID, 1)
	rq.NoError(err)
	rq.True(outcome.AlreadyConfirmed)

	wallet, err = svc.Wallet(ctx, 2)
	rq.NoError(err)
	rq.True(wallet.CurrentBalance.Equal(decimal.NewFromInt(20)))
	rq.Equal(1, notifier.calls)
}

func TestConfirmPaymentBonusFallsBackToAmount(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	w := newWorld()
	d := w.deals[100]
	d.ExpectedRevenueUSD = decimal.Zero
	w.deals[100] = d

	svc := newService(w, fixedRates{}, nil)

	p := &entity.Payment{
		DealID:       100,
		ManagerID:    2,
		Amount:       decimal.NewFromInt(300),
		CurrencyCode: "USD",
		Method:       entity.PaymentMethodCash,
		PaymentDate:  time.Now(),
	}
	rq.NoError(svc.SavePayment(ctx, p))
	rq.True(p.NetIncomeUSD.IsZero())

	outcome, err := svc.ConfirmPayment(ctx, p.ID, 1)
	rq.NoError(err)
	// Чистый доход нулевой, база для бонуса - вся сумма платежа.
	rq.True(outcome.Bonus.Equal(decimal.NewFromInt(30)), "got %s", outcome.Bonus)
}

func TestConfirmPaymentForbidden(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	w := newWorld()
	svc := newService(w, fixedRates{}, nil)

	p := &entity.Payment{
		DealID:       100,
		ManagerID:    2,
		Amount:       decimal.NewFromInt(10),
		CurrencyCode: "USD",
		Method:       entity.PaymentMethodCash,
		PaymentDate:  time.Now(),
	}
	rq.NoError(svc.SavePayment(ctx, p))

	_, err := svc.ConfirmPayment(ctx, p.ID, 2)
	rq.True(domain.HasCode(err, errcodes.Forbidden))

	_, err = svc.ConfirmPayment(ctx, p.ID, 404)
	rq.True(domain.HasCode(err, errcodes.ManagerNotFound))
}

func TestConfirmPaymentConcurrent(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	w := newWorld()
	svc := newService(w, fixedRates{}, nil)

	p := &entity.Payment{
		DealID:       100,
		ManagerID:    2,
		Amount:       decimal.NewFromInt(1000),
		CurrencyCode: "USD",
		Method:       entity.PaymentMethodBank,
		PaymentDate:  time.Now(),
	}
	rq.NoError(svc.SavePayment(ctx, p))

	const workers = 16

	var wg sync.WaitGroup
	var confirmed int64
	var mu sync.Mutex

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcome, err := svc.ConfirmPayment(ctx, p.ID, 1)
			if err != nil {
				return
			}
			if !outcome.AlreadyConfirmed {
				mu.Lock()
				confirmed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	rq.EqualValues(1, confirmed)

	wallet, err := svc.Wallet(ctx, 2)
	rq.NoError(err)
	rq.True(wallet.CurrentBalance.Equal(decimal.NewFromInt(20)), "got %s", wallet.CurrentBalance)

	transactions, err := svc.Transactions(ctx, 2, 100, 0)
	rq.NoError(err)
	rq.Len(transactions, 1)
}

func TestEditConfirmedPaymentRejected(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	w := newWorld()
	svc := newService(w, fixedRates{}, nil)

	p := &entity.Payment{
		DealID:       100,
		ManagerID:    2,
		Amount:       decimal.NewFromInt(100),
		CurrencyCode: "USD",
		Method:       entity.PaymentMethodCard,
		PaymentDate:  time.Now(),
	}
	rq.NoError(svc.SavePayment(ctx, p))

	_, err := svc.ConfirmPayment(ctx, p.ID, 1)
	rq.NoError(err)

	p.Amount = decimal.NewFromInt(500)
	err = svc.SavePayment(ctx, p)
	rq.True(domain.HasCode(err, errcodes.Conflict))
}

func TestPayout(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	w := newWorld()
	wallet := w.wallets[2]
	wallet.CurrentBalance = decimal.RequireFromString("150.00")
	w.wallets[2] = wallet

	svc := newService(w, fixedRates{}, nil)

	_, err := svc.Payout(ctx, 2, 2)
	rq.True(domain.HasCode(err, errcodes.Forbidden))

	outcome, err := svc.Payout(ctx, 2, 1)
	rq.NoError(err)
	rq.True(outcome.Amount.Equal(decimal.RequireFromString("150.00")))

	got, err := svc.Wallet(ctx, 2)
	rq.NoError(err)
	rq.True(got.CurrentBalance.IsZero())

	transactions, err := svc.Transactions(ctx, 2, 10, 0)
	rq.NoError(err)
	rq.Len(transactions, 1)
	rq.True(transactions[0].Amount.Equal(decimal.RequireFromString("-150.00")))
}

func TestConfirmPaymentsBulk(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	w := newWorld()
	notifier := &countingNotifier{}
	svc := newService(w, fixedRates{}, notifier)

	first := &entity.Payment{
		DealID:       100,
		ManagerID:    2,
		Amount:       decimal.NewFromInt(400),
		CurrencyCode: "USD",
		Method:       entity.PaymentMethodCard,
		PaymentDate:  time.Now(),
	}
	second := &entity.Payment{
		DealID:       100,
		ManagerID:    2,
		Amount:       decimal.NewFromInt(600),
		CurrencyCode: "USD",
		Method:       entity.PaymentMethodBank,
		PaymentDate:  time.Now(),
	}
	rq.NoError(svc.SavePayment(ctx, first))
	rq.NoError(svc.SavePayment(ctx, second))

	// Первый платёж уже подтверждён до пакетного запуска.
	_, err := svc.ConfirmPayment(ctx, first.ID, 1)
	rq.NoError(err)

	result, err := svc.ConfirmPayments(ctx, []int64{first.ID, second.ID}, 1)
	rq.NoError(err)
	rq.Equal(1, result.Confirmed)
	rq.Equal(1, result.AlreadyConfirmed)
	rq.Equal(2, notifier.calls)

	wallet, err := svc.Wallet(ctx, 2)
	rq.NoError(err)
	// 10% от чистого дохода: 80 за первый и 120 за второй.
	rq.True(wallet.CurrentBalance.Equal(decimal.NewFromInt(20)), "got %s", wallet.CurrentBalance)
	rq.Equal(entity.DealStatusPaidFull, w.deals[100].PaymentStatus)
}

func TestConfirmPaymentsBulkForbidden(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	w := newWorld()
	svc := newService(w, fixedRates{}, nil)

	_, err := svc.ConfirmPayments(ctx, []int64{1, 2}, 2)
	rq.Error(err)
	rq.True(domain.HasCode(err, errcodes.Forbidden))
}

func TestSavePaymentEditCarriesOnlyIDAmountMethod(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	w := newWorld()
	rates := fixedRates{rates: map[string]decimal.Decimal{"EUR": decimal.RequireFromString("0.9050")}}
	svc := newService(w, rates, nil)

	p := &entity.Payment{
		DealID:       100,
		ManagerID:    2,
		Amount:       decimal.RequireFromString("90.50"),
		CurrencyCode: "EUR",
		Method:       entity.PaymentMethodBank,
		PaymentDate:  time.Now(),
	}
	rq.NoError(svc.SavePayment(ctx, p))

	// HTTP-правка несёт только id, сумму и способ оплаты. Сделка,
	// менеджер и валюта должны подтянуться из сохранённого платежа.
	edit := &entity.Payment{
		ID:          p.ID,
		Amount:      decimal.RequireFromString("181.00"),
		Method:      entity.PaymentMethodCard,
		PaymentDate: time.Now(),
	}
	rq.NoError(svc.SavePayment(ctx, edit))

	rq.EqualValues(100, edit.DealID)
	rq.EqualValues(2, edit.ManagerID)
	rq.Equal("EUR", edit.CurrencyCode)
	rq.True(edit.ExchangeRate.Equal(decimal.RequireFromString("0.9050")))
	rq.True(edit.AmountUSD.Equal(decimal.NewFromInt(200)), "got %s", edit.AmountUSD)
	// Доля дохода считается по сделке платежа: 200 из 1000 при ожидаемых 200.
	rq.True(edit.NetIncomeUSD.Equal(decimal.NewFromInt(40)), "got %s", edit.NetIncomeUSD)
}
