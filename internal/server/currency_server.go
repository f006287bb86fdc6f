package server

import (
	"context"
	"fmt"
	"net/http"

	"students-erp/internal/domain/entity"
	"students-erp/pkg/httpx/reply"
	"students-erp/pkg/httpx/req"
	"students-erp/pkg/lox"
	"students-erp/pkg/rest"
)

type currencyService interface {
	List(ctx context.Context) ([]entity.Currency, error)
	Save(ctx context.Context, currency *entity.Currency) error
}

type CurrencyServer struct {
	currencyService currencyService
}

func NewCurrencyServer(currencyService currencyService) CurrencyServer {
	return CurrencyServer{currencyService: currencyService}
}

func (s CurrencyServer) getV1Currencies(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	currencies, err := s.currencyService.List(ctx)
	if err != nil {
		return fmt.Errorf("currencyService.List: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, lox.Map(currencies, newRESTCurrency))

	return nil
}

func (s CurrencyServer) putV1Currency(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.SaveCurrencyRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	currency := entity.Currency{
		Code:   request.Code,
		Name:   request.Name,
		Symbol: request.Symbol,
		Rate:   request.Rate,
	}

	if err := s.currencyService.Save(ctx, &currency); err != nil {
		return fmt.Errorf("currencyService.Save: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTCurrency(currency))

	return nil
}
