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

type ManagerRepository struct {
	db *sqlx.DB
}

func NewManagerRepository(db *sqlx.DB) *ManagerRepository {
	return &ManagerRepository{db: db}
}

// Create заводит менеджера и его кошелёк одной транзакцией.
// Менеджер без кошелька в системе существовать не должен.
func (r *ManagerRepository) Create(ctx context.Context, manager *entity.Manager, wallet *entity.Wallet) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		manager.CreatedAt = time.Now()

		query := `
			INSERT INTO managers (email, first_name, last_name, is_admin, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`

		err := tx.GetContext(ctx, &manager.ID, query,
			manager.Email, manager.FirstName, manager.LastName, manager.IsAdmin, manager.CreatedAt)
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to insert manager")
		}

		wallet.ManagerID = manager.ID
		wallet.UpdatedAt = manager.CreatedAt

		walletQuery := `
			INSERT INTO wallets (
				manager_id, current_balance, fixed_salary, commission_percent,
				monthly_plan, current_month_revenue, motivation_target, motivation_reward, updated_at
			)
			VALUES (:manager_id, :current_balance, :fixed_salary, :commission_percent,
				:monthly_plan, :current_month_revenue, :motivation_target, :motivation_reward, :updated_at)`

		if _, err := tx.NamedExecContext(ctx, walletQuery, fromWallet(wallet)); err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to insert wallet")
		}

		return nil
	})
}

func (r *ManagerRepository) GetByID(ctx context.Context, id int64) (*entity.Manager, error) {
	query := `
		SELECT id, email, first_name, last_name, is_admin, created_at
		FROM managers
		WHERE id = $1`

	var schema managerSchema
	if err := r.db.GetContext(ctx, &schema, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(errcodes.ManagerNotFound, "manager not found")
		}
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get manager")
	}

	return schema.toDomain(), nil
}

func (r *ManagerRepository) List(ctx context.Context) ([]entity.Manager, error) {
	query := `
		SELECT id, email, first_name, last_name, is_admin, created_at
		FROM managers
		ORDER BY id`

	var schemas []managerSchema
	if err := r.db.SelectContext(ctx, &schemas, query); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list managers")
	}

	managers := make([]entity.Manager, 0, len(schemas))
	for _, s := range schemas {
		managers = append(managers, *s.toDomain())
	}

	return managers, nil
}

func fromWallet(w *entity.Wallet) map[string]any {
	return map[string]any{
		"manager_id":            w.ManagerID,
		"current_balance":       w.CurrentBalance,
		"fixed_salary":          w.FixedSalary,
		"commission_percent":    w.CommissionPercent,
		"monthly_plan":          w.MonthlyPlan,
		"current_month_revenue": w.CurrentMonthRevenue,
		"motivation_target":     w.MotivationTarget,
		"motivation_reward":     w.MotivationReward,
		"updated_at":            w.UpdatedAt,
	}
}
