package employee

import (
	"context"

	"github.com/cmlabs-hris/clocksync/internal/domain/syncrun"
)

// RosterSource is the Priority side of the roster.
type RosterSource interface {
	FetchEmployees(ctx context.Context, filter RosterFilter) ([]TargetEmployee, error)
	ClearSyncFlag(ctx context.Context, employeeID string) syncrun.WriteOutcome
}

// RosterSink is the Synel side of the roster.
type RosterSink interface {
	UpsertEmployees(ctx context.Context, batch []SourceEmployee) syncrun.WriteOutcome
}
