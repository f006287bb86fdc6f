package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"students-erp/internal/domain"
	"students-erp/internal/domain/entity"
	"students-erp/internal/domain/service/deal"
	"students-erp/pkg/errcodes"
	"students-erp/pkg/httpx/reply"
	"students-erp/pkg/httpx/req"
	"students-erp/pkg/rest"
)

type dealService interface {
	Save(ctx context.Context, deal *entity.Deal) error
	GetByID(ctx context.Context, id int64) (*entity.Deal, error)
	List(ctx context.Context, filter deal.Filter) ([]entity.Deal, error)
	RecomputeStatus(ctx context.Context, dealID int64) (*entity.Deal, error)
}

type DealServer struct {
	dealService dealService
}

func NewDealServer(dealService dealService) DealServer {
	return DealServer{dealService: dealService}
}

func (s DealServer) postV1Deal(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.SaveDealRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	d := newDomainDeal(request)

	if err := s.dealService.Save(ctx, &d); err != nil {
		return fmt.Errorf("dealService.Save: %w", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, newRESTDeal(d))

	return nil
}

func (s DealServer) putV1Deal(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := pathID(r, errcodes.InvalidDealID)
	if err != nil {
		return err
	}

	var request rest.SaveDealRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	d := newDomainDeal(request)
	d.ID = id

	if err := s.dealService.Save(ctx, &d); err != nil {
		return fmt.Errorf("dealService.Save: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTDeal(d))

	return nil
}

func (s DealServer) getV1Deal(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := pathID(r, errcodes.InvalidDealID)
	if err != nil {
		return err
	}

	d, err := s.dealService.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("dealService.GetByID: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTDeal(*d))

	return nil
}

func (s DealServer) getV1Deals(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	filter, err := newDealFilter(r)
	if err != nil {
		return err
	}

	deals, err := s.dealService.List(ctx, filter)
	if err != nil {
		return fmt.Errorf("dealService.List: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTDeals(deals))

	return nil
}

func (s DealServer) postV1DealRecalculate(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := pathID(r, errcodes.InvalidDealID)
	if err != nil {
		return err
	}

	d, err := s.dealService.RecomputeStatus(ctx, id)
	if err != nil {
		return fmt.Errorf("dealService.RecomputeStatus: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTDeal(*d))

	return nil
}

func newDomainDeal(request rest.SaveDealRequest) entity.Deal {
	return entity.Deal{
		ClientID:          request.ClientID,
		ManagerID:         request.ManagerID,
		Kind:              entity.DealKind(request.Kind),
		ProgramID:         request.ProgramID,
		ServiceID:         request.ServiceID,
		CustomServiceName: request.CustomServiceName,
		CurrencyCode:      request.CurrencyCode,
		PriceClient:       request.PriceClient,
	}
}

func newDealFilter(r *http.Request) (deal.Filter, error) {
	filter := deal.Filter{}
	query := r.URL.Query()

	if v := query.Get("manager_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, domain.NewError(errcodes.ValidationError, "invalid manager_id")
		}
		filter.ManagerID = &id
	}

	if v := query.Get("status"); v != "" {
		status := entity.DealStatus(v)
		filter.Status = &status
	}

	if v := query.Get("updated_after"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, domain.NewError(errcodes.ValidationError, "updated_after must be RFC3339")
		}
		filter.UpdatedAfter = &t
	}

	limit, offset, err := paging(r)
	if err != nil {
		return filter, err
	}
	filter.Limit = limit
	filter.Offset = offset

	return filter, nil
}

func paging(r *http.Request) (limit, offset int, err error) {
	query := r.URL.Query()

	if v := query.Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 0 {
			return 0, 0, domain.NewError(errcodes.InvalidPaging, "invalid limit")
		}
	}

	if v := query.Get("offset"); v != "" {
		offset, err = strconv.Atoi(v)
		if err != nil || offset < 0 {
			return 0, 0, domain.NewError(errcodes.InvalidPaging, "invalid offset")
		}
	}

	return limit, offset, nil
}
