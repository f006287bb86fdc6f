package server

import (
	"context"
	"net/http"
	"strconv"

	"git.appkode.ru/pub/go/failure"
	"github.com/go-chi/chi/v5"

	"students-erp/internal/domain"
	"students-erp/pkg/contextx"
	"students-erp/pkg/errcodes"
	"students-erp/pkg/httpx/reply"
)

func (s Server) RegisterRoutes(r chi.Router) { //nolint:funlen
	r.Route("/", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			r.Route("/currencies", func(r chi.Router) {
				r.Get("/", handler(s.getV1Currencies))
				r.Put("/", handler(s.putV1Currency))
			})

			r.Route("/deals", func(r chi.Router) {
				r.Post("/", handler(s.postV1Deal))
				r.Get("/", handler(s.getV1Deals))
				r.Get("/{id}", handler(s.getV1Deal))
				r.Put("/{id}", handler(s.putV1Deal))
				r.Post("/{id}/recalculate", handler(s.postV1DealRecalculate))
			})

			r.Route("/payments", func(r chi.Router) {
				r.Post("/", handler(s.postV1Payment))
				r.Get("/", handler(s.getV1Payments))
				r.Get("/{id}", handler(s.getV1Payment))
				r.Put("/{id}", handler(s.putV1Payment))
				r.Post("/{id}/confirm", handler(s.postV1PaymentConfirm))
				r.Post("/confirm", handler(s.postV1PaymentsConfirm))
			})

			r.Route("/expenses", func(r chi.Router) {
				r.Post("/", handler(s.postV1Expense))
				r.Get("/", handler(s.getV1Expenses))
			})

			r.Route("/periods", func(r chi.Router) {
				r.Post("/current", handler(s.postV1PeriodCurrent))
				r.Get("/", handler(s.getV1Periods))
				r.Get("/{id}", handler(s.getV1Period))
				r.Post("/{id}/recalculate", handler(s.postV1PeriodRecalculate))
				r.Post("/{id}/close", handler(s.postV1PeriodClose))
				r.Get("/{id}/leaderboard", handler(s.getV1PeriodLeaderboard))
			})

			r.Route("/managers", func(r chi.Router) {
				r.Post("/", handler(s.postV1Manager))
				r.Get("/", handler(s.getV1Managers))
				r.Get("/{id}", handler(s.getV1Manager))
				r.Get("/{id}/wallet", handler(s.getV1ManagerWallet))
				r.Put("/{id}/wallet", handler(s.putV1ManagerWallet))
				r.Get("/{id}/transactions", handler(s.getV1ManagerTransactions))
				r.Post("/{id}/payout", handler(s.postV1ManagerPayout))
			})
		})
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}

// actorID достаёт идентификатор действующего пользователя из контекста.
func actorID(ctx context.Context) (int64, error) {
	userID, err := contextx.UserIDFromContext(ctx)
	if err != nil {
		return 0, domain.NewError(errcodes.InvalidUserID, "missing X-User-Id header")
	}

	id, err := strconv.ParseInt(userID.String(), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewError(errcodes.InvalidUserID, "invalid X-User-Id header")
	}

	return id, nil
}

func pathID(r *http.Request, code failure.ErrorCode) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewError(code, "invalid id in path")
	}

	return id, nil
}
