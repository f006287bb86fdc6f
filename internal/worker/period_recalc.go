package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"

	"students-erp/internal/domain"
	"students-erp/internal/domain/entity"
	"students-erp/pkg/contextx"
	"students-erp/pkg/errcodes"
)

// TypePeriodRecalculate - тип фоновой задачи пересчёта периода.
const TypePeriodRecalculate = "period:recalculate"

var (
	json   = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip
	logger = contextx.LoggerFromContextOrDefault          //nolint:gochecknoglobals
)

type periodRecalcPayload struct {
	PeriodID int64 `json:"period_id"`
}

// NewPeriodRecalculateTask собирает задачу пересчёта снапшота периода.
func NewPeriodRecalculateTask(periodID int64) (*asynq.Task, error) {
	payload, err := json.Marshal(periodRecalcPayload{PeriodID: periodID})
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return asynq.NewTask(TypePeriodRecalculate, payload), nil
}

type reportService interface {
	RecalculateStats(ctx context.Context, periodID int64) (*entity.Period, error)
}

// PeriodRecalculator - обработчик фонового пересчёта периодов.
// Агрегация тяжёлая, поэтому живёт в очереди, а не в HTTP-запросе.
type PeriodRecalculator struct {
	reports reportService
}

func NewPeriodRecalculator(reports reportService) *PeriodRecalculator {
	return &PeriodRecalculator{reports: reports}
}

func (p *PeriodRecalculator) Handle(ctx context.Context, task *asynq.Task) error {
	var payload periodRecalcPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("json.Unmarshal: %w", err)
	}

	period, err := p.reports.RecalculateStats(ctx, payload.PeriodID)
	if err != nil {
		// Закрытый или удалённый период ретраить бессмысленно.
		if domain.HasCode(err, errcodes.PeriodClosed) || domain.HasCode(err, errcodes.PeriodNotFound) {
			logger(ctx).Warn("period recalc skipped",
				slog.Int64("period_id", payload.PeriodID), slog.String("reason", err.Error()))
			return nil
		}

		return fmt.Errorf("reports.RecalculateStats: %w", err)
	}

	logger(ctx).Info("period stats recalculated",
		slog.Int64("period_id", period.ID),
		slog.String("net_profit", period.NetProfit.String()))

	return nil
}
