package syncrun

import (
	"encoding/json"
	"net/http"
	"time"
)

// WriteOutcome is the result of a single write call against a remote system.
type WriteOutcome struct {
	Key        string          `json:"key,omitempty"`
	Success    bool            `json:"success"`
	StatusCode int             `json:"status_code,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// Succeeded builds a successful outcome from the remote response.
func Succeeded(statusCode int, body []byte) WriteOutcome {
	return WriteOutcome{
		Success:    true,
		StatusCode: statusCode,
		Payload:    asJSON(body),
	}
}

// Failed builds a failed outcome. statusCode is 0 when no response arrived.
func Failed(statusCode int, body []byte, err error) WriteOutcome {
	out := WriteOutcome{
		StatusCode: statusCode,
		Payload:    asJSON(body),
	}
	if err != nil {
		out.Error = err.Error()
	}
	return out
}

// AuthRejected reports whether the remote system refused the credentials.
func (o WriteOutcome) AuthRejected() bool {
	return o.StatusCode == http.StatusUnauthorized || o.StatusCode == http.StatusForbidden
}

// asJSON keeps a response body as raw JSON, quoting it when it is not valid JSON.
func asJSON(body []byte) json.RawMessage {
	if len(body) == 0 {
		return nil
	}
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	quoted, _ := json.Marshal(string(body))
	return json.RawMessage(quoted)
}

type Kind string

const (
	KindReconcile     Kind = "reconcile"
	KindEmployeeBatch Kind = "employee_batch"
	KindEmployeeOne   Kind = "employee_single"
)

type Status string

const (
	StatusNothingToDo Status = "nothing_to_do"
	StatusSucceeded   Status = "succeeded"
	StatusPartial     Status = "partial"
	StatusFailed      Status = "failed"
)

// StatusOf derives a run status from its write outcomes.
func StatusOf(outcomes []WriteOutcome) Status {
	if len(outcomes) == 0 {
		return StatusNothingToDo
	}
	failed := 0
	for _, o := range outcomes {
		if !o.Success {
			failed++
		}
	}
	switch {
	case failed == 0:
		return StatusSucceeded
	case failed == len(outcomes):
		return StatusFailed
	default:
		return StatusPartial
	}
}

// Run is the journal record of one job invocation.
type Run struct {
	ID         string
	Kind       Kind
	Status     Status
	RangeFrom  *time.Time
	RangeTo    *time.Time
	Fetched    int
	Dropped    int
	Written    int
	Failed     int
	Error      *string
	Outcomes   []WriteOutcome
	StartedAt  time.Time
	FinishedAt time.Time
}
