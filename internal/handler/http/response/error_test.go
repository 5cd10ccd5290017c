package response

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/clocksync/internal/domain/clocking"
	"github.com/cmlabs-hris/clocksync/internal/domain/employee"
	"github.com/cmlabs-hris/clocksync/internal/domain/syncrun"
	"github.com/cmlabs-hris/clocksync/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
)

func TestHandleError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", validator.ValidationErrors{{Field: "from", Message: "bad"}}, http.StatusUnprocessableEntity},
		{"mapping", &syncrun.MappingError{System: "priority", Record: "7", Err: employee.ErrMissingEmployeeID}, http.StatusUnprocessableEntity},
		{"empty payload", employee.ErrEmptyPayload, http.StatusBadRequest},
		{"date range", clocking.ErrInvalidDateRange, http.StatusBadRequest},
		{"run not found", syncrun.ErrRunNotFound, http.StatusNotFound},
		{"wrapped auth", fmt.Errorf("fetch source clockings: %w", syncrun.ErrAuth), http.StatusBadGateway},
		{"transport", syncrun.ErrTransport, http.StatusBadGateway},
		{"timeout", fmt.Errorf("run: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"unknown", assert.AnError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tc.err)
			assert.Equal(t, tc.want, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}
