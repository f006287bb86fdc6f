package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"students-erp/internal/domain"
	"students-erp/internal/domain/service/billing"
	"students-erp/pkg/errcodes"
)

// lockNotAvailable - код Postgres при срабатывании lock_timeout.
const lockNotAvailable = "55P03"

// SettlementRepository выполняет денежные операции: подтверждение платежа
// с начислением бонуса и выплату. Каждая операция - одна транзакция
// с блокировкой кошелька FOR UPDATE, баланс меняется только инкрементами
// на стороне БД.
type SettlementRepository struct {
	db          *sqlx.DB
	lockTimeout time.Duration
}

func NewSettlementRepository(db *sqlx.DB, lockTimeout time.Duration) *SettlementRepository {
	return &SettlementRepository{db: db, lockTimeout: lockTimeout}
}

func (r *SettlementRepository) ConfirmPayment(ctx context.Context, paymentID, adminID int64, bonus billing.BonusFunc) (*billing.ConfirmOutcome, error) {
	var outcome *billing.ConfirmOutcome

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := r.setLockTimeoutTx(ctx, tx); err != nil {
			return err
		}

		query := fmt.Sprintf(`SELECT %s FROM payments WHERE id = $1 FOR UPDATE`, paymentColumns)

		var schema paymentSchema
		if err := tx.GetContext(ctx, &schema, query, paymentID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.NewError(errcodes.PaymentNotFound, "payment not found")
			}
			return domain.WrapError(err, errcodes.InternalServerError, "failed to lock payment")
		}

		payment := schema.toDomain()

		// Конкурирующее подтверждение уже всё начислило.
		if payment.IsConfirmed {
			outcome = &billing.ConfirmOutcome{Payment: *payment, AlreadyConfirmed: true}
			return nil
		}

		walletQuery := `
			SELECT manager_id, current_balance, fixed_salary, commission_percent,
			       monthly_plan, current_month_revenue, motivation_target, motivation_reward, updated_at
			FROM wallets
			WHERE manager_id = $1
			FOR UPDATE`

		var wallet walletSchema
		if err := tx.GetContext(ctx, &wallet, walletQuery, payment.ManagerID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.NewError(errcodes.WalletNotFound, "wallet not found")
			}
			return domain.WrapError(err, errcodes.InternalServerError, "failed to lock wallet")
		}

		bonusAmount, description := bonus(*payment, *wallet.toDomain())
		now := time.Now()

		confirmQuery := `
			UPDATE payments
			SET is_confirmed = TRUE, confirmed_by = $1, confirmed_at = $2, updated_at = $2
			WHERE id = $3`

		if _, err := tx.ExecContext(ctx, confirmQuery, adminID, now, paymentID); err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to confirm payment")
		}

		creditQuery := `
			UPDATE wallets
			SET current_balance = current_balance + $1,
			    current_month_revenue = current_month_revenue + $2,
			    updated_at = $3
			WHERE manager_id = $4`

		if _, err := tx.ExecContext(ctx, creditQuery, bonusAmount, payment.AmountUSD, now, payment.ManagerID); err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to credit wallet")
		}

		auditQuery := `
			INSERT INTO transactions (manager_id, amount, payment_id, description, created_at)
			VALUES ($1, $2, $3, $4, $5)`

		if _, err := tx.ExecContext(ctx, auditQuery, payment.ManagerID, bonusAmount, paymentID, description, now); err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to write audit record")
		}

		if _, err := syncDealTx(ctx, tx, payment.DealID); err != nil {
			return err
		}

		payment.IsConfirmed = true
		payment.ConfirmedBy = &adminID
		payment.ConfirmedAt = &now

		outcome = &billing.ConfirmOutcome{Payment: *payment, Bonus: bonusAmount}
		return nil
	})
	if err != nil {
		return nil, mapLockError(err)
	}

	return outcome, nil
}

// Payout списывает весь баланс кошелька и оставляет расходную запись аудита.
// При нулевом балансе ничего не пишет.
func (r *SettlementRepository) Payout(ctx context.Context, managerID int64, description string) (*billing.PayoutOutcome, error) {
	var outcome *billing.PayoutOutcome

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := r.setLockTimeoutTx(ctx, tx); err != nil {
			return err
		}

		query := `
			SELECT manager_id, current_balance, fixed_salary, commission_percent,
			       monthly_plan, current_month_revenue, motivation_target, motivation_reward, updated_at
			FROM wallets
			WHERE manager_id = $1
			FOR UPDATE`

		var wallet walletSchema
		if err := tx.GetContext(ctx, &wallet, query, managerID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.NewError(errcodes.WalletNotFound, "wallet not found")
			}
			return domain.WrapError(err, errcodes.InternalServerError, "failed to lock wallet")
		}

		amount := wallet.CurrentBalance
		outcome = &billing.PayoutOutcome{ManagerID: managerID, Amount: amount}

		if amount.Sign() == 0 {
			return nil
		}

		now := time.Now()

		resetQuery := `
			UPDATE wallets
			SET current_balance = 0, updated_at = $1
			WHERE manager_id = $2`

		if _, err := tx.ExecContext(ctx, resetQuery, now, managerID); err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to reset wallet balance")
		}

		auditQuery := `
			INSERT INTO transactions (manager_id, amount, description, created_at)
			VALUES ($1, $2, $3, $4)`

		if _, err := tx.ExecContext(ctx, auditQuery, managerID, amount.Neg(), description, now); err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to write audit record")
		}

		return nil
	})
	if err != nil {
		return nil, mapLockError(err)
	}

	return outcome, nil
}

// setLockTimeoutTx ограничивает ожидание блокировок в рамках транзакции,
// чтобы зависший конкурент не держал запрос бесконечно.
func (r *SettlementRepository) setLockTimeoutTx(ctx context.Context, tx *sqlx.Tx) error {
	query := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())

	if _, err := tx.ExecContext(ctx, query); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to set lock timeout")
	}

	return nil
}

func mapLockError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == lockNotAvailable {
		return domain.WrapError(err, errcodes.WalletLockTimeout, "wallet is locked by another operation")
	}

	return err
}
