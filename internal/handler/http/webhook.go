package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/clocksync/internal/domain/employee"
	"github.com/cmlabs-hris/clocksync/internal/domain/syncrun"
	"github.com/cmlabs-hris/clocksync/internal/handler/http/response"
)

const (
	homeBanner      = "Priority - Synel integration"
	maxWebhookBytes = 1 << 20
)

type WebhookHandler interface {
	Home(w http.ResponseWriter, r *http.Request)
	ManageEmployee(w http.ResponseWriter, r *http.Request)
}

type WebhookHandlerImpl struct {
	employeeService employee.SyncService
}

func NewWebhookHandler(employeeService employee.SyncService) WebhookHandler {
	return &WebhookHandlerImpl{employeeService: employeeService}
}

// Home implements WebhookHandler.
func (h *WebhookHandlerImpl) Home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(homeBanner))
}

// ManageEmployee implements WebhookHandler. Priority posts a single USERSB
// record here whenever an employee is created or edited; the Synel answer is
// passed back to the caller.
func (h *WebhookHandlerImpl) ManageEmployee(w http.ResponseWriter, r *http.Request) {
	var payload employee.WebhookPayload
	if err := json.NewDecoder(io.LimitReader(r.Body, maxWebhookBytes)).Decode(&payload); err != nil {
		slog.Warn("Failed to decode employee webhook", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	slog.Info("Employee webhook received", "payload", payload.USERSB)

	outcome, err := h.employeeService.SyncOne(r.Context(), payload)
	if err != nil && !errors.Is(err, syncrun.ErrAuth) {
		response.HandleError(w, err)
		return
	}

	if outcome.Success {
		body := []byte(outcome.Payload)
		if len(body) == 0 {
			body = []byte(`{}`)
		}
		response.Raw(w, http.StatusOK, body)
		return
	}

	slog.Error("Employee webhook upsert failed",
		"employee_id", outcome.Key,
		"status_code", outcome.StatusCode,
		"error", outcome.Error,
	)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.BadGateway(w, outcome.Error)
}
