package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/wagebook-hr/wagebook/internal/payroll"
	"github.com/wagebook-hr/wagebook/internal/shared"
)

// MonthlyRunCron fires the scheduled whole-population run on the first day of
// each month at 02:00 UTC.
const MonthlyRunCron = "0 2 1 * *"

// NewMonthlyRunTask builds the cron task that settles the previous calendar
// month when it fires.
func NewMonthlyRunTask() (*asynq.Task, error) {
	return NewPayrollRunTask(PayrollRunPayload{})
}

// NewPayrollRunHandler adapts the run orchestrator to an Asynq handler. A
// payload without a year settles the month that just ended.
func NewPayrollRunHandler(svc *payroll.Service, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload PayrollRunPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			logger.Error("payroll run payload", slog.Any("error", err))
			return asynq.SkipRetry
		}

		var period shared.Period
		if payload.Year == 0 {
			period = shared.PeriodFromDate(time.Now().UTC().AddDate(0, -1, 0))
		} else {
			var err error
			period, err = shared.PeriodOf(payload.Year, payload.Month)
			if err != nil {
				logger.Error("payroll run period", slog.Any("error", err))
				return asynq.SkipRetry
			}
		}

		result, err := svc.Run(ctx, period, payload.TargetEmployeeID)
		if err != nil {
			if errors.Is(err, shared.ErrRunInProgress) {
				logger.Warn("payroll run already in progress", slog.String("period", period.String()))
				return asynq.SkipRetry
			}
			return err
		}
		logger.Info("scheduled payroll run finished",
			slog.String("run_id", result.RunID),
			slog.String("period", period.String()),
			slog.String("summary", result.Summary()))
		return nil
	}
}
