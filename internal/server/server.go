package server

// Сервер объединяет специфичные HTTP сервера, отвечающие за обработку
// конкретных сущностей.
type Server struct {
	CurrencyServer
	DealServer
	PaymentServer
	ExpenseServer
	ReportServer
	StaffServer
}

func NewServer(
	currencyServer CurrencyServer,
	dealServer DealServer,
	paymentServer PaymentServer,
	expenseServer ExpenseServer,
	reportServer ReportServer,
	staffServer StaffServer,
) Server {
	return Server{
		CurrencyServer: currencyServer,
		DealServer:     dealServer,
		PaymentServer:  paymentServer,
		ExpenseServer:  expenseServer,
		ReportServer:   reportServer,
		StaffServer:    staffServer,
	}
}
