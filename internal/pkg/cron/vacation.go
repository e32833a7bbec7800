package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/leave"
)

const vacationRecalcJob = "vacation_recalculate_all"

// VacationJobs keeps cached vacation balances current as months of service accrue.
type VacationJobs struct {
	balances leave.BalanceService
}

func NewVacationJobs(balances leave.BalanceService) *VacationJobs {
	return &VacationJobs{balances: balances}
}

func (j *VacationJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.Add(&Job{
		Name:     vacationRecalcJob,
		Interval: interval,
		Timeout:  interval,
		Fn:       j.RecalculateAll,
	})
}

// RecalculateAll recomputes every active user's balance. Per-user failures are
// logged by the balance service and do not fail the run.
func (j *VacationJobs) RecalculateAll(ctx context.Context) error {
	start := time.Now()
	result, err := j.balances.RecalculateAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to recalculate vacation balances: %w", err)
	}

	slog.Info("cron: vacation balances recalculated",
		"processed", result.Processed,
		"failed", result.Failed,
		"duration", time.Since(start).String(),
	)
	return nil
}
