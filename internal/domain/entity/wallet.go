package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet - кошелёк менеджера: накопленные бонусы, оклад и KPI.
// CurrentBalance меняется только атомарными инкрементами на уровне БД.
type Wallet struct {
	ManagerID           int64           `json:"manager_id"`
	CurrentBalance      decimal.Decimal `json:"current_balance"`
	FixedSalary         decimal.Decimal `json:"fixed_salary"`
	CommissionPercent   decimal.Decimal `json:"commission_percent"`
	MonthlyPlan         decimal.Decimal `json:"monthly_plan"`
	CurrentMonthRevenue decimal.Decimal `json:"current_month_revenue"`
	MotivationTarget    decimal.Decimal `json:"motivation_target"`
	MotivationReward    decimal.Decimal `json:"motivation_reward"`
	UpdatedAt           time.Time       `json:"updated_at"`
}
