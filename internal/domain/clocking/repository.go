package clocking

import (
	"context"

	"github.com/cmlabs-hris/clocksync/internal/domain/syncrun"
)

// ClockingSource reads raw scans from the clocking provider.
type ClockingSource interface {
	FetchClockings(ctx context.Context, r DateRange) ([]SourceClocking, error)
}

// WorkHourStore reads and appends rows of the ERP interim work-hours table.
type WorkHourStore interface {
	FetchWorkHours(ctx context.Context, r DateRange) ([]WorkHourRow, error)
	WriteWorkHour(ctx context.Context, row WorkHourRow) syncrun.WriteOutcome
}
