package employee

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/clocksync/internal/domain/employee"
	"github.com/cmlabs-hris/clocksync/internal/domain/syncrun"
	"github.com/google/uuid"
)

type EmployeeSyncServiceImpl struct {
	source         employee.RosterSource
	sink           employee.RosterSink
	journal        syncrun.Journal
	notifier       syncrun.Notifier
	departmentCode string
	now            func() time.Time
}

func NewEmployeeSyncService(
	source employee.RosterSource,
	sink employee.RosterSink,
	journal syncrun.Journal,
	notifier syncrun.Notifier,
	departmentCode string,
) employee.SyncService {
	return &EmployeeSyncServiceImpl{
		source:         source,
		sink:           sink,
		journal:        journal,
		notifier:       notifier,
		departmentCode: departmentCode,
		now:            time.Now,
	}
}

// SyncAllPending implements employee.SyncService.
func (s *EmployeeSyncServiceImpl) SyncAllPending(ctx context.Context) (employee.SyncResult, error) {
	run := s.startRun(syncrun.KindEmployeeBatch)
	log := slog.With("run_id", run.ID, "kind", run.Kind)
	result := employee.SyncResult{}

	pending, err := s.source.FetchEmployees(ctx, employee.RosterFilter{PendingOnly: true})
	if err != nil {
		err = fmt.Errorf("fetch pending employees: %w", err)
		log.Error("Employee sync: failed to fetch pending employees", "error", err)
		s.finish(ctx, log, &run, syncrun.StatusFailed, err)
		return result, err
	}

	run.Fetched = len(pending)
	if len(pending) == 0 {
		log.Debug("Employee sync: nothing pending")
		s.finish(ctx, log, &run, syncrun.StatusNothingToDo, nil)
		return result, nil
	}

	employees := s.mapAll(log, pending)
	result.Employees = len(employees)
	result.Dropped = len(pending) - len(employees)
	run.Dropped = result.Dropped

	if len(employees) == 0 {
		log.Warn("Employee sync: every pending employee was dropped", "dropped", result.Dropped)
		s.finish(ctx, log, &run, syncrun.StatusNothingToDo, nil)
		return result, nil
	}

	batch := make([]employee.SourceEmployee, 0, len(employees))
	for _, e := range employees {
		batch = append(batch, employee.ToSource(e, s.departmentCode))
	}

	upsert := s.sink.UpsertEmployees(ctx, batch)
	result.Upsert = &upsert
	run.Outcomes = append(run.Outcomes, upsert)

	if !upsert.Success {
		log.Warn("Employee sync: upsert rejected, flags left pending",
			"employees", len(batch),
			"status_code", upsert.StatusCode,
			"error", upsert.Error,
		)
		run.Failed = len(batch)
		var err error
		if upsert.AuthRejected() {
			err = fmt.Errorf("upsert employees: %w", syncrun.ErrAuth)
		}
		s.finish(ctx, log, &run, result.Status(), err)
		return result, err
	}
	run.Written = len(batch)

	// Flags are only cleared after the whole batch was accepted.
	for _, e := range employees {
		if err := ctx.Err(); err != nil {
			err = fmt.Errorf("flag clearing interrupted: %w", err)
			s.finish(ctx, log, &run, syncrun.StatusPartial, err)
			return result, err
		}

		cleared := s.source.ClearSyncFlag(ctx, e.ID)
		run.Outcomes = append(run.Outcomes, cleared)
		if cleared.Success {
			result.FlagsCleared++
			continue
		}

		log.Warn("Employee sync: failed to clear sync flag",
			"employee_id", e.ID,
			"status_code", cleared.StatusCode,
			"error", cleared.Error,
		)
		result.FlagFailures = append(result.FlagFailures, cleared)
		run.Failed++

		if cleared.AuthRejected() {
			err := fmt.Errorf("clear sync flag: %w", syncrun.ErrAuth)
			s.finish(ctx, log, &run, result.Status(), err)
			return result, err
		}
	}

	log.Info("Employee sync: batch finished",
		"employees", result.Employees,
		"dropped", result.Dropped,
		"flags_cleared", result.FlagsCleared,
		"flag_failures", len(result.FlagFailures),
	)
	s.finish(ctx, log, &run, result.Status(), nil)
	return result, nil
}

// SyncOne implements employee.SyncService.
func (s *EmployeeSyncServiceImpl) SyncOne(ctx context.Context, payload employee.WebhookPayload) (syncrun.WriteOutcome, error) {
	if err := payload.Validate(); err != nil {
		return syncrun.WriteOutcome{}, err
	}

	run := s.startRun(syncrun.KindEmployeeOne)
	log := slog.With("run_id", run.ID, "kind", run.Kind)
	run.Fetched = 1

	e, err := employee.FromTarget(*payload.USERSB, s.now())
	if err != nil {
		s.finish(ctx, log, &run, syncrun.StatusFailed, err)
		return syncrun.WriteOutcome{}, err
	}

	outcome := s.sink.UpsertEmployees(ctx, []employee.SourceEmployee{employee.ToSource(e, s.departmentCode)})
	outcome.Key = e.ID
	run.Outcomes = []syncrun.WriteOutcome{outcome}

	if !outcome.Success {
		run.Failed = 1
		log.Warn("Employee sync: single upsert rejected",
			"employee_id", e.ID,
			"status_code", outcome.StatusCode,
			"error", outcome.Error,
		)
		var err error
		if outcome.AuthRejected() {
			err = fmt.Errorf("upsert employee %s: %w", e.ID, syncrun.ErrAuth)
		}
		s.finish(ctx, log, &run, syncrun.StatusFailed, err)
		return outcome, err
	}

	run.Written = 1
	log.Info("Employee sync: employee upserted", "employee_id", e.ID, "active", e.Active)
	s.finish(ctx, log, &run, syncrun.StatusSucceeded, nil)
	return outcome, nil
}

func (s *EmployeeSyncServiceImpl) mapAll(log *slog.Logger, raws []employee.TargetEmployee) []employee.Employee {
	today := s.now()
	employees := make([]employee.Employee, 0, len(raws))
	for _, raw := range raws {
		e, err := employee.FromTarget(raw, today)
		if err != nil {
			log.Warn("Employee sync: dropped employee", "error", err)
			continue
		}
		employees = append(employees, e)
	}
	return employees
}

func (s *EmployeeSyncServiceImpl) startRun(kind syncrun.Kind) syncrun.Run {
	return syncrun.Run{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Kind:      kind,
		StartedAt: s.now().UTC(),
		Outcomes:  []syncrun.WriteOutcome{},
	}
}

func (s *EmployeeSyncServiceImpl) finish(ctx context.Context, log *slog.Logger, run *syncrun.Run, status syncrun.Status, err error) {
	run.Status = status
	run.FinishedAt = s.now().UTC()
	if err != nil {
		msg := err.Error()
		run.Error = &msg
	}

	ctx = context.WithoutCancel(ctx)
	if s.journal != nil {
		if jerr := s.journal.Record(ctx, *run); jerr != nil {
			log.Warn("Employee sync: failed to record run", "error", jerr)
		}
	}

	if s.notifier == nil || (status != syncrun.StatusFailed && status != syncrun.StatusPartial) {
		return
	}
	if nerr := s.notifier.NotifyRunFailure(ctx, *run); nerr != nil {
		log.Warn("Employee sync: failed to send alert", "error", nerr)
	}
}
