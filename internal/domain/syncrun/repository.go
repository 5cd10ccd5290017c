package syncrun

import "context"

// Journal records finished runs for operators. It is never read by the sync logic.
type Journal interface {
	Record(ctx context.Context, run Run) error
	ListRecent(ctx context.Context, limit int) ([]Run, error)
	GetByID(ctx context.Context, id string) (Run, error)
}

// Notifier alerts operators about failed or partially failed runs.
type Notifier interface {
	NotifyRunFailure(ctx context.Context, run Run) error
}
