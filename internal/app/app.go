package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/clocksync/internal/config"
	"github.com/cmlabs-hris/clocksync/internal/domain/clocking"
	"github.com/cmlabs-hris/clocksync/internal/domain/employee"
	"github.com/cmlabs-hris/clocksync/internal/domain/syncrun"
	"github.com/cmlabs-hris/clocksync/internal/pkg/cron"
	"github.com/cmlabs-hris/clocksync/internal/pkg/database"
	"github.com/cmlabs-hris/clocksync/internal/pkg/email"
	"github.com/cmlabs-hris/clocksync/internal/pkg/priority"
	"github.com/cmlabs-hris/clocksync/internal/pkg/synel"
	"github.com/cmlabs-hris/clocksync/internal/repository/memory"
	"github.com/cmlabs-hris/clocksync/internal/repository/postgresql"
	employeeService "github.com/cmlabs-hris/clocksync/internal/service/employee"
	reconcileService "github.com/cmlabs-hris/clocksync/internal/service/reconcile"
)

// App holds the wired services shared by the HTTP server and the CLI.
type App struct {
	Config     *config.Config
	Journal    syncrun.Journal
	Reconciler clocking.ReconciliationService
	Employees  employee.SyncService
	Jobs       *cron.SyncJobs

	db *database.DB
}

// New connects the adapters, the journal and the alerting to both services.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	if cfg.HasDatabase() {
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return nil, fmt.Errorf("connect journal database: %w", err)
		}
		if err := postgresql.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("prepare journal schema: %w", err)
		}
		a.db = db
		a.Journal = postgresql.NewSyncRunRepository(db)
		slog.Info("Run journal backed by PostgreSQL", "host", cfg.Database.Host, "database", cfg.Database.Name)
	} else {
		a.Journal = memory.NewSyncRunRepository(memory.DefaultCapacity)
		slog.Info("No database configured, keeping recent runs in memory", "capacity", memory.DefaultCapacity)
	}

	notifier, err := email.NewRunNotifier(cfg.SMTP, cfg.Sync.AlertEmail)
	if err != nil {
		a.Close()
		return nil, err
	}

	priorityClient := priority.NewClient(cfg.Priority, cfg.Sync.HTTPTimeout)
	synelClient := synel.NewClient(cfg.Synel, cfg.Sync.HTTPTimeout)

	a.Reconciler = reconcileService.NewReconciliationService(synelClient, priorityClient, a.Journal, notifier)
	a.Employees = employeeService.NewEmployeeSyncService(priorityClient, synelClient, a.Journal, notifier, cfg.Synel.DepartmentCode)

	a.Jobs, err = cron.NewSyncJobs(a.Reconciler, a.Employees, cfg.Sync)
	if err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

// Close releases the journal database, if any.
func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
}
