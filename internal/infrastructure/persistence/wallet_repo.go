package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"students-erp/internal/domain"
	"students-erp/internal/domain/entity"
	"students-erp/pkg/errcodes"
)

type WalletRepository struct {
	db *sqlx.DB
}

func NewWalletRepository(db *sqlx.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

func (r *WalletRepository) GetByManager(ctx context.Context, managerID int64) (*entity.Wallet, error) {
	query := `
		SELECT manager_id, current_balance, fixed_salary, commission_percent,
		       monthly_plan, current_month_revenue, motivation_target, motivation_reward, updated_at
		FROM wallets
		WHERE manager_id = $1`

	var schema walletSchema
	if err := r.db.GetContext(ctx, &schema, query, managerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(errcodes.WalletNotFound, "wallet not found")
		}
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get wallet")
	}

	return schema.toDomain(), nil
}

// UpdateSettings меняет оклад, комиссию и KPI. Баланс и выручку месяца
// этот запрос намеренно не трогает: их меняют только расчётные операции.
func (r *WalletRepository) UpdateSettings(ctx context.Context, wallet *entity.Wallet) error {
	query := `
		UPDATE wallets
		SET fixed_salary = $1,
		    commission_percent = $2,
		    monthly_plan = $3,
		    motivation_target = $4,
		    motivation_reward = $5,
		    updated_at = $6
		WHERE manager_id = $7`

	res, err := r.db.ExecContext(ctx, query,
		wallet.FixedSalary, wallet.CommissionPercent, wallet.MonthlyPlan,
		wallet.MotivationTarget, wallet.MotivationReward, time.Now(), wallet.ManagerID)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to update wallet settings")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
	}

	if rows == 0 {
		return domain.NewError(errcodes.WalletNotFound, "wallet not found")
	}

	return nil
}
