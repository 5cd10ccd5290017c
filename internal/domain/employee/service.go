package employee

import (
	"context"

	"github.com/cmlabs-hris/clocksync/internal/domain/syncrun"
)

// SyncService defines the roster propagation from Priority to Synel
type SyncService interface {
	// SyncAllPending upserts every employee flagged for sync and clears the
	// flags once Synel accepted the batch.
	SyncAllPending(ctx context.Context) (SyncResult, error)

	// SyncOne upserts a single employee immediately, ignoring flags.
	SyncOne(ctx context.Context, payload WebhookPayload) (syncrun.WriteOutcome, error)
}
