package entity

import "github.com/shopspring/decimal"

// Program - программа обучения из каталога. Для расчётов сделки
// нужна только её сервисная комиссия в расчётной валюте.
type Program struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	ServiceFeeUSD decimal.Decimal `json:"service_fee_usd"`
}

// CatalogService - допуслуга из каталога (виза, билеты, трансфер).
// RealCostUSD - себестоимость, менеджерам не показывается.
type CatalogService struct {
	ID             int64           `json:"id"`
	Title          string          `json:"title"`
	PriceClientUSD decimal.Decimal `json:"price_client_usd"`
	RealCostUSD    decimal.Decimal `json:"-"`
	IsActive       bool            `json:"is_active"`
}
