package synel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cmlabs-hris/clocksync/internal/config"
	"github.com/cmlabs-hris/clocksync/internal/domain/clocking"
	"github.com/cmlabs-hris/clocksync/internal/domain/employee"
	"github.com/cmlabs-hris/clocksync/internal/domain/syncrun"
	"github.com/cmlabs-hris/clocksync/internal/pkg/remote"
)

// Client talks to the Synel SaaS ExternalAccess API
type Client struct {
	api *remote.Client
}

var (
	_ clocking.ClockingSource = (*Client)(nil)
	_ employee.RosterSink     = (*Client)(nil)
)

// NewClient builds a client that passes login and password in the query
// string, as ExternalAccess expects.
func NewClient(cfg config.SynelConfig, timeout time.Duration, opts ...remote.Option) *Client {
	creds := url.Values{
		"login":    {cfg.Login},
		"password": {cfg.Password},
	}
	opts = append([]remote.Option{remote.WithQueryCredentials(creds)}, opts...)

	return &Client{
		api: remote.NewClient("synel", cfg.APIURL, timeout, opts...),
	}
}

// FetchClockings implements clocking.ClockingSource.
func (c *Client) FetchClockings(ctx context.Context, r clocking.DateRange) ([]clocking.SourceClocking, error) {
	params := url.Values{
		"fromDate": {r.From.Format(clocking.DateLayout)},
		"toDate":   {r.To.Format(clocking.DateLayout)},
	}

	var clockings []clocking.SourceClocking
	if err := c.api.GetJSON(ctx, "/GetClockings", params, &clockings); err != nil {
		return nil, fmt.Errorf("failed to fetch clockings for %s: %w", r, err)
	}
	return clockings, nil
}

// UpsertEmployees implements employee.RosterSink. The whole batch travels
// serialized in the employees query parameter.
func (c *Client) UpsertEmployees(ctx context.Context, batch []employee.SourceEmployee) syncrun.WriteOutcome {
	encoded, err := json.Marshal(batch)
	if err != nil {
		return syncrun.Failed(0, nil, fmt.Errorf("encode employees: %w", err))
	}

	params := url.Values{"employees": {string(encoded)}}
	outcome, err := c.api.Send(ctx, http.MethodPost, "/InsertUpdateEmployees", params, nil)
	if err != nil {
		return outcome
	}

	if rejected, msg := rejectedBody(outcome.Payload); rejected {
		outcome.Success = false
		outcome.Error = msg
	}
	return outcome
}

// rejectedBody detects a 2xx answer whose body still reports failure, e.g.
// {"Success":false,"ErrorMessage":"..."}.
func rejectedBody(payload []byte) (bool, string) {
	if len(payload) == 0 || !bytes.HasPrefix(bytes.TrimSpace(payload), []byte("{")) {
		return false, ""
	}

	var body struct {
		Success      *bool  `json:"Success"`
		ErrorMessage string `json:"ErrorMessage"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return false, ""
	}
	if body.Success != nil && !*body.Success {
		if body.ErrorMessage == "" {
			return true, "synel reported Success=false"
		}
		return true, body.ErrorMessage
	}
	return false, ""
}
