package clocking

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/clocksync/internal/domain/syncrun"
)

// State is a step of a single reconciliation pass.
type State string

const (
	StateIdle           State = "idle"
	StateFetchingSource State = "fetching_source"
	StateFetchingTarget State = "fetching_target"
	StateFiltering      State = "filtering"
	StateWritingDeltas  State = "writing_deltas"
	StateFailed         State = "failed"
)

// RunResult reports one reconciliation pass.
type RunResult struct {
	RunID         string                 `json:"run_id"`
	Range         string                 `json:"range"`
	State         State                  `json:"state"`
	Status        syncrun.Status         `json:"status"`
	SourceCount   int                    `json:"source_count"`
	TargetCount   int                    `json:"target_count"`
	SourceDropped int                    `json:"source_dropped"`
	TargetDropped int                    `json:"target_dropped"`
	DeltaCount    int                    `json:"delta_count"`
	Outcomes      []syncrun.WriteOutcome `json:"outcomes"`
	StartedAt     time.Time              `json:"started_at"`
	FinishedAt    time.Time              `json:"finished_at"`
}

// Dropped is the number of records lost to mapping errors on both sides.
func (r RunResult) Dropped() int {
	return r.SourceDropped + r.TargetDropped
}

// FailedWrites counts unsuccessful outcomes.
func (r RunResult) FailedWrites() int {
	n := 0
	for _, o := range r.Outcomes {
		if !o.Success {
			n++
		}
	}
	return n
}

// Err returns ErrPartialWrite when any row failed to write.
func (r RunResult) Err() error {
	if failed := r.FailedWrites(); failed > 0 {
		return fmt.Errorf("%d of %d rows: %w", failed, len(r.Outcomes), syncrun.ErrPartialWrite)
	}
	return nil
}

// ReconciliationService copies scans missing from the ERP into it.
type ReconciliationService interface {
	// Run performs one pass over r. Individual write failures are reported in
	// the result only; an error is returned when a fetch failed, when a remote
	// system rejected the credentials or when ctx ended mid-loop.
	Run(ctx context.Context, r DateRange) (RunResult, error)
}
