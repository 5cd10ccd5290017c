package http

import (
	"time"

	"github.com/cmlabs-hris/clocksync/internal/domain/clocking"
	"github.com/cmlabs-hris/clocksync/internal/domain/syncrun"
)

var nowFunc = time.Now

type runView struct {
	ID         string                 `json:"id"`
	Kind       syncrun.Kind           `json:"kind"`
	Status     syncrun.Status         `json:"status"`
	RangeFrom  *string                `json:"range_from,omitempty"`
	RangeTo    *string                `json:"range_to,omitempty"`
	Fetched    int                    `json:"fetched"`
	Dropped    int                    `json:"dropped"`
	Written    int                    `json:"written"`
	Failed     int                    `json:"failed"`
	Error      *string                `json:"error,omitempty"`
	Outcomes   []syncrun.WriteOutcome `json:"outcomes,omitempty"`
	StartedAt  time.Time              `json:"started_at"`
	FinishedAt time.Time              `json:"finished_at"`
}

func toRunView(run syncrun.Run) runView {
	return runView{
		ID:         run.ID,
		Kind:       run.Kind,
		Status:     run.Status,
		RangeFrom:  formatDate(run.RangeFrom),
		RangeTo:    formatDate(run.RangeTo),
		Fetched:    run.Fetched,
		Dropped:    run.Dropped,
		Written:    run.Written,
		Failed:     run.Failed,
		Error:      run.Error,
		Outcomes:   run.Outcomes,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(clocking.DateLayout)
	return &s
}
