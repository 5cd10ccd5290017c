package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/clocksync/internal/domain/clocking"
	"github.com/cmlabs-hris/clocksync/internal/domain/employee"
	"github.com/cmlabs-hris/clocksync/internal/domain/syncrun"
	"github.com/cmlabs-hris/clocksync/internal/handler/http/response"
	"github.com/cmlabs-hris/clocksync/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 200
)

type SyncHandler interface {
	SyncClockings(w http.ResponseWriter, r *http.Request)
	SyncEmployees(w http.ResponseWriter, r *http.Request)
	ListRuns(w http.ResponseWriter, r *http.Request)
	GetRun(w http.ResponseWriter, r *http.Request)
}

type SyncHandlerImpl struct {
	reconciler clocking.ReconciliationService
	employees  employee.SyncService
	journal    syncrun.Journal
}

func NewSyncHandler(reconciler clocking.ReconciliationService, employees employee.SyncService, journal syncrun.Journal) SyncHandler {
	return &SyncHandlerImpl{
		reconciler: reconciler,
		employees:  employees,
		journal:    journal,
	}
}

// SyncClockings implements SyncHandler. Without a from parameter today is
// reconciled.
func (h *SyncHandlerImpl) SyncClockings(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	var dateRange clocking.DateRange
	if validator.IsEmpty(from) && validator.IsEmpty(to) {
		dateRange = clocking.Today(nowFunc())
	} else {
		var err error
		dateRange, err = clocking.ParseDateRange(from, to)
		if err != nil {
			response.HandleError(w, err)
			return
		}
	}

	result, err := h.reconciler.Run(r.Context(), dateRange)
	if err != nil {
		slog.Error("Manual reconciliation failed", "range", dateRange.String(), "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Reconciliation "+string(result.Status), result)
}

// SyncEmployees implements SyncHandler.
func (h *SyncHandlerImpl) SyncEmployees(w http.ResponseWriter, r *http.Request) {
	result, err := h.employees.SyncAllPending(r.Context())
	if err != nil {
		slog.Error("Manual employee sync failed", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee sync "+string(result.Status()), result)
}

// ListRuns implements SyncHandler.
func (h *SyncHandlerImpl) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxRunsLimit {
			response.HandleError(w, validator.ValidationErrors{{
				Field:   "limit",
				Message: "limit must be between 1 and " + strconv.Itoa(maxRunsLimit),
			}})
			return
		}
		limit = n
	}

	runs, err := h.journal.ListRecent(r.Context(), limit)
	if err != nil {
		slog.Error("Failed to list sync runs", "error", err)
		response.HandleError(w, err)
		return
	}

	views := make([]runView, 0, len(runs))
	for _, run := range runs {
		views = append(views, toRunView(run))
	}
	response.SuccessWithMeta(w, views, &response.Meta{Limit: limit, TotalItems: int64(len(views))})
}

// GetRun implements SyncHandler.
func (h *SyncHandlerImpl) GetRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.journal.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, toRunView(run))
}
