package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction - запись аудита начислений. Только добавление, без правок:
// каждое изменение баланса кошелька обязано оставить такую запись.
type Transaction struct {
	ID          int64           `json:"id"`
	ManagerID   int64           `json:"manager_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentID   *int64          `json:"payment_id,omitempty"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}
