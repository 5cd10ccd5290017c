package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/clocksync/internal/config"
	"github.com/cmlabs-hris/clocksync/internal/domain/clocking"
	"github.com/cmlabs-hris/clocksync/internal/domain/employee"
)

const (
	JobReconcileToday = "reconcile_today"
	JobBackfill       = "reconcile_backfill"
	JobSyncEmployees  = "sync_employees"
)

type SyncJobs struct {
	reconciler   clocking.ReconciliationService
	employees    employee.SyncService
	cfg          config.SyncConfig
	backfillFrom time.Time
	now          func() time.Time
}

func NewSyncJobs(
	reconciler clocking.ReconciliationService,
	employees employee.SyncService,
	cfg config.SyncConfig,
) (*SyncJobs, error) {
	j := &SyncJobs{
		reconciler: reconciler,
		employees:  employees,
		cfg:        cfg,
		now:        time.Now,
	}
	if cfg.BackfillFrom != "" {
		from, err := time.Parse(clocking.DateLayout, cfg.BackfillFrom)
		if err != nil {
			return nil, fmt.Errorf("invalid backfill date %q: %w", cfg.BackfillFrom, err)
		}
		j.backfillFrom = from
	}
	return j, nil
}

// RegisterJobs wires the sync jobs into scheduler. The employee sync is
// registered first so a fresh roster reaches Synel before clockings are read.
func (j *SyncJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(JobSyncEmployees, j.cfg.EmployeeInterval, j.SyncEmployees)
	if !j.backfillFrom.IsZero() {
		scheduler.AddJob(JobBackfill, j.cfg.ClockInterval, j.Backfill)
		return
	}
	scheduler.AddJob(JobReconcileToday, j.cfg.ClockInterval, j.ReconcileToday)
}

// ReconcileToday reconciles the current calendar day
func (j *SyncJobs) ReconcileToday(ctx context.Context) error {
	return j.reconcile(ctx, clocking.Today(j.now()))
}

// Backfill reconciles every day from the configured start date through today
func (j *SyncJobs) Backfill(ctx context.Context) error {
	if j.backfillFrom.IsZero() {
		return fmt.Errorf("backfill requested without SYNC_BACKFILL_FROM")
	}
	return j.reconcile(ctx, clocking.Since(j.backfillFrom, j.now()))
}

func (j *SyncJobs) reconcile(ctx context.Context, r clocking.DateRange) error {
	res, err := j.reconciler.Run(ctx, r)
	if err != nil {
		return err
	}
	if res.DeltaCount > 0 {
		slog.Info("Cron: reconciliation wrote missing scans",
			"range", res.Range,
			"written", len(res.Outcomes)-res.FailedWrites(),
			"failed", res.FailedWrites(),
		)
	}
	return res.Err()
}

// SyncEmployees pushes every pending roster change to Synel
func (j *SyncJobs) SyncEmployees(ctx context.Context) error {
	res, err := j.employees.SyncAllPending(ctx)
	if err != nil {
		return err
	}
	return res.Err()
}
