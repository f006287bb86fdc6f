package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	Forbidden           failure.ErrorCode = "Forbidden"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"
	Conflict            failure.ErrorCode = "Conflict"
	InvalidUserID       failure.ErrorCode = "InvalidUserID"
	InvalidPaging       failure.ErrorCode = "InvalidPaging"

	ManagerNotFound failure.ErrorCode = "ManagerNotFound"
	WalletNotFound  failure.ErrorCode = "WalletNotFound"

	CurrencyNotFound    failure.ErrorCode = "CurrencyNotFound"
	InvalidCurrencyCode failure.ErrorCode = "InvalidCurrencyCode"
	InvalidExchangeRate failure.ErrorCode = "InvalidExchangeRate"

	DealNotFound     failure.ErrorCode = "DealNotFound"
	InvalidDealID    failure.ErrorCode = "InvalidDealID"
	InvalidDealKind  failure.ErrorCode = "InvalidDealKind"
	InvalidDealPrice failure.ErrorCode = "InvalidDealPrice"
	ProgramNotFound  failure.ErrorCode = "ProgramNotFound"
	ServiceNotFound  failure.ErrorCode = "ServiceNotFound"

	PaymentNotFound      failure.ErrorCode = "PaymentNotFound"
	InvalidPaymentID     failure.ErrorCode = "InvalidPaymentID"
	InvalidPaymentAmount failure.ErrorCode = "InvalidPaymentAmount"
	InvalidPaymentMethod failure.ErrorCode = "InvalidPaymentMethod"

	ExpenseNotFound failure.ErrorCode = "ExpenseNotFound"

	PeriodNotFound  failure.ErrorCode = "PeriodNotFound"
	InvalidPeriodID failure.ErrorCode = "InvalidPeriodID"
	PeriodClosed    failure.ErrorCode = "PeriodClosed"

	// Кошелёк менеджера блокируется на время подтверждения платежа.
	WalletLockTimeout failure.ErrorCode = "WalletLockTimeout"
)
