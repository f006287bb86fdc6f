package config

import "time"

type Billing struct {
	// SettlementCurrency - расчётная валюта всех производных сумм.
	// Меняется только вместе с пересчётом всей базы.
	SettlementCurrency string        `env:"BILLING_SETTLEMENT_CURRENCY" envDefault:"USD"`
	WalletLockTimeout  time.Duration `env:"BILLING_WALLET_LOCK_TIMEOUT" envDefault:"3s"`
}
