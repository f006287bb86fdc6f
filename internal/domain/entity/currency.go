package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency - курс валюты к расчётной валюте.
// Rate хранит, сколько единиц этой валюты стоит 1 единица расчётной (USD).
type Currency struct {
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Symbol    string          `json:"symbol"`
	Rate      decimal.Decimal `json:"rate"`
	UpdatedAt time.Time       `json:"updated_at"`
}
