package employee

import (
	"fmt"

	"github.com/cmlabs-hris/clocksync/internal/domain/syncrun"
	"github.com/cmlabs-hris/clocksync/internal/pkg/validator"
)

// WebhookPayload is what Priority's business rule posts when a USERSB record
// is created or updated.
type WebhookPayload struct {
	USERSB *TargetEmployee `json:"USERSB"`
}

func (p *WebhookPayload) Validate() error {
	if p.USERSB == nil {
		return ErrEmptyPayload
	}

	var errs validator.ValidationErrors

	id := p.USERSB.USERID.String()
	if validator.IsEmpty(id) {
		errs = append(errs, validator.ValidationError{
			Field:   "USERSB.USERID",
			Message: "USERID is required",
		})
	} else if !validator.IsValidExternalID(id) {
		errs = append(errs, validator.ValidationError{
			Field:   "USERSB.USERID",
			Message: "USERID must be alphanumeric",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// RosterFilter selects USERSB rows. Only employees enabled for clocking are
// ever returned.
type RosterFilter struct {
	PendingOnly bool
	ID          string
}

// SyncResult reports a batch roster sync. Upsert is nil when nothing was pending.
type SyncResult struct {
	Upsert       *syncrun.WriteOutcome  `json:"upsert,omitempty"`
	Employees    int                    `json:"employees"`
	Dropped      int                    `json:"dropped"`
	FlagsCleared int                    `json:"flags_cleared"`
	FlagFailures []syncrun.WriteOutcome `json:"flag_failures,omitempty"`
}

// Status maps the result onto the shared run statuses.
func (r SyncResult) Status() syncrun.Status {
	switch {
	case r.Upsert == nil:
		return syncrun.StatusNothingToDo
	case !r.Upsert.Success:
		return syncrun.StatusFailed
	case len(r.FlagFailures) > 0:
		return syncrun.StatusPartial
	default:
		return syncrun.StatusSucceeded
	}
}

// Err reports a rejected upsert or flags left set as an error, for callers
// that only signal success or failure.
func (r SyncResult) Err() error {
	if r.Upsert != nil && !r.Upsert.Success {
		return fmt.Errorf("employee upsert [%d]: %w", r.Upsert.StatusCode, syncrun.ErrWriteRejected)
	}
	if n := len(r.FlagFailures); n > 0 {
		return fmt.Errorf("%d of %d sync flags left set: %w", n, r.Employees, syncrun.ErrPartialWrite)
	}
	return nil
}
