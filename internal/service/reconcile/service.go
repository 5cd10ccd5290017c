package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/clocksync/internal/domain/clocking"
	"github.com/cmlabs-hris/clocksync/internal/domain/syncrun"
	"github.com/google/uuid"
)

type ReconciliationServiceImpl struct {
	source   clocking.ClockingSource
	target   clocking.WorkHourStore
	journal  syncrun.Journal
	notifier syncrun.Notifier
}

func NewReconciliationService(
	source clocking.ClockingSource,
	target clocking.WorkHourStore,
	journal syncrun.Journal,
	notifier syncrun.Notifier,
) clocking.ReconciliationService {
	return &ReconciliationServiceImpl{
		source:   source,
		target:   target,
		journal:  journal,
		notifier: notifier,
	}
}

// pass carries the bookkeeping of one Run call.
type pass struct {
	result clocking.RunResult
	log    *slog.Logger
}

func (p *pass) enter(state clocking.State) {
	p.log.Debug("Reconcile: state change", "from", p.result.State, "to", state)
	p.result.State = state
}

// Run implements clocking.ReconciliationService.
func (s *ReconciliationServiceImpl) Run(ctx context.Context, r clocking.DateRange) (clocking.RunResult, error) {
	if err := r.Validate(); err != nil {
		return clocking.RunResult{}, err
	}

	p := &pass{
		result: clocking.RunResult{
			RunID:     uuid.Must(uuid.NewV7()).String(),
			Range:     r.String(),
			State:     clocking.StateIdle,
			StartedAt: time.Now().UTC(),
			Outcomes:  []syncrun.WriteOutcome{},
		},
	}
	p.log = slog.With("run_id", p.result.RunID, "range", p.result.Range)

	p.enter(clocking.StateFetchingSource)
	rawSource, err := s.source.FetchClockings(ctx, r)
	if err != nil {
		return s.fail(ctx, p, r, fmt.Errorf("fetch source clockings: %w", err))
	}

	p.enter(clocking.StateFetchingTarget)
	rawTarget, err := s.target.FetchWorkHours(ctx, r)
	if err != nil {
		return s.fail(ctx, p, r, fmt.Errorf("fetch target work hours: %w", err))
	}

	p.enter(clocking.StateFiltering)
	sourceEvents, sourceDropped := clocking.NormalizeSource(rawSource)
	targetEvents, targetDropped := clocking.NormalizeTarget(rawTarget)
	logDropped(p.log, sourceDropped)
	logDropped(p.log, targetDropped)

	p.result.SourceCount = len(rawSource)
	p.result.TargetCount = len(rawTarget)
	p.result.SourceDropped = len(sourceDropped)
	p.result.TargetDropped = len(targetDropped)

	delta := clocking.Delta(targetEvents, sourceEvents)
	p.result.DeltaCount = len(delta)

	p.enter(clocking.StateWritingDeltas)
	writeErr := s.writeDeltas(ctx, p, delta)

	p.enter(clocking.StateIdle)
	p.result.Status = syncrun.StatusOf(p.result.Outcomes)
	p.result.FinishedAt = time.Now().UTC()

	run := toRun(p.result, r, writeErr)
	s.record(ctx, p.log, run)
	if writeErr != nil || p.result.FailedWrites() > 0 {
		s.notify(ctx, p.log, run)
	}

	p.log.Info("Reconcile: run finished",
		"status", p.result.Status,
		"source", p.result.SourceCount,
		"target", p.result.TargetCount,
		"dropped", p.result.Dropped(),
		"delta", p.result.DeltaCount,
		"failed_writes", p.result.FailedWrites(),
		"duration", p.result.FinishedAt.Sub(p.result.StartedAt),
	)

	return p.result, writeErr
}

// writeDeltas writes rows one at a time. A failed row does not stop the
// loop; rejected credentials or a cancelled context do.
func (s *ReconciliationServiceImpl) writeDeltas(ctx context.Context, p *pass, delta []clocking.ClockEvent) error {
	for i, ev := range delta {
		if err := ctx.Err(); err != nil {
			p.log.Warn("Reconcile: write loop interrupted", "written", i, "remaining", len(delta)-i, "error", err)
			return fmt.Errorf("write loop interrupted after %d of %d rows: %w", i, len(delta), err)
		}

		key := clocking.BuildKey(ev).String()
		outcome := s.target.WriteWorkHour(ctx, clocking.ToWorkHourRow(ev))
		outcome.Key = key
		p.result.Outcomes = append(p.result.Outcomes, outcome)

		if outcome.Success {
			continue
		}

		p.log.Warn("Reconcile: failed to write work hour row",
			"key", key,
			"status_code", outcome.StatusCode,
			"error", outcome.Error,
		)

		if outcome.AuthRejected() {
			return fmt.Errorf("write rejected after %d of %d rows: %w", i, len(delta), syncrun.ErrAuth)
		}
	}
	return nil
}

func (s *ReconciliationServiceImpl) fail(ctx context.Context, p *pass, r clocking.DateRange, err error) (clocking.RunResult, error) {
	p.log.Error("Reconcile: run failed", "state", p.result.State, "error", err)

	p.enter(clocking.StateFailed)
	p.result.Status = syncrun.StatusFailed
	p.result.FinishedAt = time.Now().UTC()

	run := toRun(p.result, r, err)
	s.record(ctx, p.log, run)
	s.notify(ctx, p.log, run)

	return p.result, err
}

func (s *ReconciliationServiceImpl) record(ctx context.Context, log *slog.Logger, run syncrun.Run) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Record(context.WithoutCancel(ctx), run); err != nil {
		log.Warn("Reconcile: failed to record run", "error", err)
	}
}

func (s *ReconciliationServiceImpl) notify(ctx context.Context, log *slog.Logger, run syncrun.Run) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyRunFailure(context.WithoutCancel(ctx), run); err != nil {
		log.Warn("Reconcile: failed to send alert", "error", err)
	}
}

func logDropped(log *slog.Logger, dropped []error) {
	for _, err := range dropped {
		var mappingErr *syncrun.MappingError
		if errors.As(err, &mappingErr) {
			log.Warn("Reconcile: dropped record", "system", mappingErr.System, "record", mappingErr.Record, "error", mappingErr.Err)
			continue
		}
		log.Warn("Reconcile: dropped record", "error", err)
	}
}

func toRun(res clocking.RunResult, r clocking.DateRange, err error) syncrun.Run {
	from, to := r.From, r.To
	run := syncrun.Run{
		ID:         res.RunID,
		Kind:       syncrun.KindReconcile,
		Status:     res.Status,
		RangeFrom:  &from,
		RangeTo:    &to,
		Fetched:    res.SourceCount,
		Dropped:    res.Dropped(),
		Written:    len(res.Outcomes) - res.FailedWrites(),
		Failed:     res.FailedWrites(),
		Outcomes:   res.Outcomes,
		StartedAt:  res.StartedAt,
		FinishedAt: res.FinishedAt,
	}
	if err != nil {
		msg := err.Error()
		run.Error = &msg
	}
	return run
}
