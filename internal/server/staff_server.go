package server

import (
	"context"
	"fmt"
	"net/http"

	"students-erp/internal/domain/entity"
	"students-erp/internal/domain/service/billing"
	"students-erp/pkg/errcodes"
	"students-erp/pkg/httpx/reply"
	"students-erp/pkg/httpx/req"
	"students-erp/pkg/lox"
	"students-erp/pkg/rest"
)

type staffService interface {
	Create(ctx context.Context, manager *entity.Manager) error
	GetByID(ctx context.Context, id int64) (*entity.Manager, error)
	List(ctx context.Context) ([]entity.Manager, error)
	UpdateWalletSettings(ctx context.Context, wallet *entity.Wallet) error
}

type walletService interface {
	Wallet(ctx context.Context, managerID int64) (*entity.Wallet, error)
	Transactions(ctx context.Context, managerID int64, limit, offset int) ([]entity.Transaction, error)
	Payout(ctx context.Context, managerID, adminID int64) (*billing.PayoutOutcome, error)
}

type StaffServer struct {
	staffService  staffService
	walletService walletService
}

func NewStaffServer(staffService staffService, walletService walletService) StaffServer {
	return StaffServer{
		staffService:  staffService,
		walletService: walletService,
	}
}

func (s StaffServer) postV1Manager(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.CreateManagerRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	manager := entity.Manager{
		Email:     request.Email,
		FirstName: request.FirstName,
		LastName:  request.LastName,
		IsAdmin:   request.IsAdmin,
	}

	if err := s.staffService.Create(ctx, &manager); err != nil {
		return fmt.Errorf("staffService.Create: %w", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, newRESTManager(manager))

	return nil
}

func (s StaffServer) getV1Managers(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	managers, err := s.staffService.List(ctx)
	if err != nil {
		return fmt.Errorf("staffService.List: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, lox.Map(managers, newRESTManager))

	return nil
}

func (s StaffServer) getV1Manager(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := pathID(r, errcodes.InvalidUserID)
	if err != nil {
		return err
	}

	manager, err := s.staffService.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("staffService.GetByID: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTManager(*manager))

	return nil
}

func (s StaffServer) getV1ManagerWallet(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := pathID(r, errcodes.InvalidUserID)
	if err != nil {
		return err
	}

	wallet, err := s.walletService.Wallet(ctx, id)
	if err != nil {
		return fmt.Errorf("walletService.Wallet: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTWallet(*wallet))

	return nil
}

func (s StaffServer) putV1ManagerWallet(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := pathID(r, errcodes.InvalidUserID)
	if err != nil {
		return err
	}

	var request rest.UpdateWalletRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	wallet := entity.Wallet{
		ManagerID:         id,
		FixedSalary:       request.FixedSalary,
		CommissionPercent: request.CommissionPercent,
		MonthlyPlan:       request.MonthlyPlan,
		MotivationTarget:  request.MotivationTarget,
		MotivationReward:  request.MotivationReward,
	}

	if err := s.staffService.UpdateWalletSettings(ctx, &wallet); err != nil {
		return fmt.Errorf("staffService.UpdateWalletSettings: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTWallet(wallet))

	return nil
}

func (s StaffServer) getV1ManagerTransactions(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := pathID(r, errcodes.InvalidUserID)
	if err != nil {
		return err
	}

	limit, offset, err := paging(r)
	if err != nil {
		return err
	}

	transactions, err := s.walletService.Transactions(ctx, id, limit, offset)
	if err != nil {
		return fmt.Errorf("walletService.Transactions: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, lox.Map(transactions, newRESTTransaction))

	return nil
}

func (s StaffServer) postV1ManagerPayout(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := pathID(r, errcodes.InvalidUserID)
	if err != nil {
		return err
	}

	adminID, err := actorID(ctx)
	if err != nil {
		return err
	}

	outcome, err := s.walletService.Payout(ctx, id, adminID)
	if err != nil {
		return fmt.Errorf("walletService.Payout: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.PayoutResponse{
		ManagerID: outcome.ManagerID,
		Amount:    outcome.Amount,
	})

	return nil
}
