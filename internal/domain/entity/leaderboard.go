package entity

import "github.com/shopspring/decimal"

// LeaderboardRow - строка рейтинга менеджеров за период.
// Проекция для чтения, в базе не хранится.
type LeaderboardRow struct {
	ManagerID      int64           `json:"manager_id"`
	Name           string          `json:"name"`
	DealsCount     int             `json:"deals_count"`
	TotalRaisedUSD decimal.Decimal `json:"total_raised_usd"`
	NetIncomeUSD   decimal.Decimal `json:"net_income_usd"`
}
