package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"students-erp/internal/domain"
	"students-erp/internal/domain/entity"
	"students-erp/internal/domain/service/billing"
	"students-erp/pkg/errcodes"
	"students-erp/pkg/httpx/reply"
	"students-erp/pkg/httpx/req"
	"students-erp/pkg/rest"
)

type billingService interface {
	SavePayment(ctx context.Context, payment *entity.Payment) error
	GetByID(ctx context.Context, id int64) (*entity.Payment, error)
	List(ctx context.Context, filter billing.Filter) ([]entity.Payment, error)
	ConfirmPayment(ctx context.Context, paymentID, adminID int64) (*billing.ConfirmOutcome, error)
	ConfirmPayments(ctx context.Context, paymentIDs []int64, adminID int64) (*billing.BulkResult, error)
}

type PaymentServer struct {
	billingService billingService
}

func NewPaymentServer(billingService billingService) PaymentServer {
	return PaymentServer{billingService: billingService}
}

func (s PaymentServer) postV1Payment(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.CreatePaymentRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	payment := entity.Payment{
		DealID:       request.DealID,
		ManagerID:    request.ManagerID,
		Amount:       request.Amount,
		CurrencyCode: request.CurrencyCode,
		Method:       entity.PaymentMethod(request.Method),
	}
	if request.PaymentDate != nil {
		payment.PaymentDate = *request.PaymentDate
	}

	if err := s.billingService.SavePayment(ctx, &payment); err != nil {
		return fmt.Errorf("billingService.SavePayment: %w", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, newRESTPayment(payment))

	return nil
}

func (s PaymentServer) putV1Payment(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := pathID(r, errcodes.InvalidPaymentID)
	if err != nil {
		return err
	}

	var request rest.UpdatePaymentRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	payment := entity.Payment{
		ID:     id,
		Amount: request.Amount,
		Method: entity.PaymentMethod(request.Method),
	}
	if request.PaymentDate != nil {
		payment.PaymentDate = *request.PaymentDate
	}

	if err := s.billingService.SavePayment(ctx, &payment); err != nil {
		return fmt.Errorf("billingService.SavePayment: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTPayment(payment))

	return nil
}

func (s PaymentServer) getV1Payment(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := pathID(r, errcodes.InvalidPaymentID)
	if err != nil {
		return err
	}

	payment, err := s.billingService.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("billingService.GetByID: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTPayment(*payment))

	return nil
}

func (s PaymentServer) getV1Payments(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	filter, err := newPaymentFilter(r)
	if err != nil {
		return err
	}

	payments, err := s.billingService.List(ctx, filter)
	if err != nil {
		return fmt.Errorf("billingService.List: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTPayments(payments))

	return nil
}

func (s PaymentServer) postV1PaymentConfirm(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := pathID(r, errcodes.InvalidPaymentID)
	if err != nil {
		return err
	}

	adminID, err := actorID(ctx)
	if err != nil {
		return err
	}

	outcome, err := s.billingService.ConfirmPayment(ctx, id, adminID)
	if err != nil {
		return fmt.Errorf("billingService.ConfirmPayment: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTConfirmOutcome(*outcome))

	return nil
}

func (s PaymentServer) postV1PaymentsConfirm(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	adminID, err := actorID(ctx)
	if err != nil {
		return err
	}

	var request rest.BulkConfirmRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	result, err := s.billingService.ConfirmPayments(ctx, request.PaymentIDs, adminID)
	if err != nil {
		return fmt.Errorf("billingService.ConfirmPayments: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.BulkConfirmResponse{
		Confirmed:        result.Confirmed,
		AlreadyConfirmed: result.AlreadyConfirmed,
	})

	return nil
}

func newPaymentFilter(r *http.Request) (billing.Filter, error) {
	filter := billing.Filter{}
	query := r.URL.Query()

	if v := query.Get("deal_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, domain.NewError(errcodes.ValidationError, "invalid deal_id")
		}
		filter.DealID = &id
	}

	if v := query.Get("manager_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, domain.NewError(errcodes.ValidationError, "invalid manager_id")
		}
		filter.ManagerID = &id
	}

	if v := query.Get("confirmed"); v != "" {
		confirmed, err := strconv.ParseBool(v)
		if err != nil {
			return filter, domain.NewError(errcodes.ValidationError, "invalid confirmed flag")
		}
		filter.Confirmed = &confirmed
	}

	limit, offset, err := paging(r)
	if err != nil {
		return filter, err
	}
	filter.Limit = limit
	filter.Offset = offset

	return filter, nil
}
