package response

import (
	"context"
	"errors"
	"net/http"

	"github.com/cmlabs-hris/clocksync/internal/domain/clocking"
	"github.com/cmlabs-hris/clocksync/internal/domain/employee"
	"github.com/cmlabs-hris/clocksync/internal/domain/syncrun"
	"github.com/cmlabs-hris/clocksync/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var mappingErr *syncrun.MappingError
	if errors.As(err, &mappingErr) {
		ValidationError(w, map[string]string{mappingErr.System: mappingErr.Err.Error()})
		return
	}

	switch {
	// Request errors
	case errors.Is(err, employee.ErrEmptyPayload):
		BadRequest(w, "Payload must contain a USERSB record", nil)
	case errors.Is(err, clocking.ErrInvalidDateRange):
		BadRequest(w, "Invalid date range", nil)
	case errors.Is(err, syncrun.ErrRunNotFound):
		NotFound(w, "Sync run not found")

	// Remote system errors
	case errors.Is(err, syncrun.ErrAuth):
		BadGateway(w, "Remote system rejected the integration credentials")
	case errors.Is(err, syncrun.ErrTransport):
		BadGateway(w, "Remote system unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		GatewayTimeout(w, "Remote system did not answer in time")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
