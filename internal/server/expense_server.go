package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"students-erp/internal/domain"
	"students-erp/internal/domain/entity"
	"students-erp/pkg/errcodes"
	"students-erp/pkg/httpx/reply"
	"students-erp/pkg/httpx/req"
	"students-erp/pkg/lox"
	"students-erp/pkg/rest"
)

type expenseService interface {
	SaveExpense(ctx context.Context, expense *entity.Expense) error
	Expenses(ctx context.Context, from, to *time.Time) ([]entity.Expense, error)
}

type ExpenseServer struct {
	expenseService expenseService
}

func NewExpenseServer(expenseService expenseService) ExpenseServer {
	return ExpenseServer{expenseService: expenseService}
}

func (s ExpenseServer) postV1Expense(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.CreateExpenseRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	expense := entity.Expense{
		Title:        request.Title,
		Amount:       request.Amount,
		CurrencyCode: request.CurrencyCode,
		ManagerID:    request.ManagerID,
	}
	if request.Date != nil {
		expense.Date = *request.Date
	}

	if err := s.expenseService.SaveExpense(ctx, &expense); err != nil {
		return fmt.Errorf("expenseService.SaveExpense: %w", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, newRESTExpense(expense))

	return nil
}

func (s ExpenseServer) getV1Expenses(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var from, to *time.Time

	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return domain.NewError(errcodes.ValidationError, "from must be RFC3339")
		}
		from = &t
	}

	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return domain.NewError(errcodes.ValidationError, "to must be RFC3339")
		}
		to = &t
	}

	expenses, err := s.expenseService.Expenses(ctx, from, to)
	if err != nil {
		return fmt.Errorf("expenseService.Expenses: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, lox.Map(expenses, newRESTExpense))

	return nil
}
