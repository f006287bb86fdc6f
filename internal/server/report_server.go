package server

import (
	"context"
	"fmt"
	"net/http"

	"students-erp/internal/domain/entity"
	"students-erp/pkg/errcodes"
	"students-erp/pkg/httpx/reply"
	"students-erp/pkg/lox"
	"students-erp/pkg/rest"
)

type reportService interface {
	EnsureCurrentPeriod(ctx context.Context) (*entity.Period, error)
	GetByID(ctx context.Context, id int64) (*entity.Period, error)
	List(ctx context.Context) ([]entity.Period, error)
	RecalculateStats(ctx context.Context, periodID int64) (*entity.Period, error)
	ClosePeriod(ctx context.Context, periodID int64) (*entity.Period, error)
	Leaderboard(ctx context.Context, periodID int64) ([]entity.LeaderboardRow, error)
}

// RecalcEnqueuer ставит пересчёт периода в фоновую очередь.
type RecalcEnqueuer func(ctx context.Context, periodID int64) error

type ReportServer struct {
	reportService reportService

	// enqueueRecalc == nil значит пересчитываем синхронно в запросе.
	enqueueRecalc RecalcEnqueuer
}

func NewReportServer(reportService reportService, enqueueRecalc RecalcEnqueuer) ReportServer {
	return ReportServer{
		reportService: reportService,
		enqueueRecalc: enqueueRecalc,
	}
}

func (s ReportServer) postV1PeriodCurrent(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	period, err := s.reportService.EnsureCurrentPeriod(ctx)
	if err != nil {
		return fmt.Errorf("reportService.EnsureCurrentPeriod: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTPeriod(*period))

	return nil
}

func (s ReportServer) getV1Periods(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	periods, err := s.reportService.List(ctx)
	if err != nil {
		return fmt.Errorf("reportService.List: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, lox.Map(periods, newRESTPeriod))

	return nil
}

func (s ReportServer) getV1Period(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := pathID(r, errcodes.InvalidPeriodID)
	if err != nil {
		return err
	}

	period, err := s.reportService.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("reportService.GetByID: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTPeriod(*period))

	return nil
}

func (s ReportServer) postV1PeriodRecalculate(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := pathID(r, errcodes.InvalidPeriodID)
	if err != nil {
		return err
	}

	if s.enqueueRecalc != nil {
		if err := s.enqueueRecalc(ctx, id); err != nil {
			return fmt.Errorf("enqueueRecalc: %w", err)
		}

		reply.JSON(ctx, w, http.StatusAccepted, rest.RecalculateResponse{Status: "scheduled"})

		return nil
	}

	period, err := s.reportService.RecalculateStats(ctx, id)
	if err != nil {
		return fmt.Errorf("reportService.RecalculateStats: %w", err)
	}

	restPeriod := newRESTPeriod(*period)
	reply.JSON(ctx, w, http.StatusOK, rest.RecalculateResponse{Status: "done", Period: &restPeriod})

	return nil
}

func (s ReportServer) postV1PeriodClose(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := pathID(r, errcodes.InvalidPeriodID)
	if err != nil {
		return err
	}

	period, err := s.reportService.ClosePeriod(ctx, id)
	if err != nil {
		return fmt.Errorf("reportService.ClosePeriod: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTPeriod(*period))

	return nil
}

func (s ReportServer) getV1PeriodLeaderboard(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := pathID(r, errcodes.InvalidPeriodID)
	if err != nil {
		return err
	}

	rows, err := s.reportService.Leaderboard(ctx, id)
	if err != nil {
		return fmt.Errorf("reportService.Leaderboard: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, lox.Map(rows, newRESTLeaderboardRow))

	return nil
}
