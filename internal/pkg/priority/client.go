package priority

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cmlabs-hris/clocksync/internal/config"
	"github.com/cmlabs-hris/clocksync/internal/domain/clocking"
	"github.com/cmlabs-hris/clocksync/internal/domain/employee"
	"github.com/cmlabs-hris/clocksync/internal/domain/syncrun"
	"github.com/cmlabs-hris/clocksync/internal/pkg/remote"
	"github.com/cmlabs-hris/clocksync/internal/pkg/validator"
)

const (
	workHoursEntity = "LOADUSERSBWORKHOURS"
	employeesEntity = "USERSB"

	workHoursSelect = "DNAME,USERBCODE,CURDATE,FROMTIME,DETAILS"
	employeesSelect = "USERID,FIRSTNAME,FAMILYNAME,EMPINACTIVE"

	// clockingEnabledFilter limits USERSB to employees that use the badge clocks.
	clockingEnabledFilter = "ZSYN_CLOCKIN eq 'Y'"
)

// Client talks to the Priority OData REST API of one company
type Client struct {
	api         *remote.Client
	dateOffset  string
	pendingFlag string
}

var (
	_ clocking.WorkHourStore = (*Client)(nil)
	_ employee.RosterSource  = (*Client)(nil)
)

// NewClient builds a client for {APIURL}{Company}.
func NewClient(cfg config.PriorityConfig, timeout time.Duration, opts ...remote.Option) *Client {
	base := strings.TrimRight(cfg.APIURL, "/") + "/" + cfg.Company
	opts = append([]remote.Option{remote.WithBasicAuth(cfg.Username, cfg.Password)}, opts...)

	return &Client{
		api:         remote.NewClient("priority", base, timeout, opts...),
		dateOffset:  cfg.DateOffset,
		pendingFlag: cfg.PendingFlagField,
	}
}

type listResponse[T any] struct {
	Value []T `json:"value"`
}

// FetchWorkHours implements clocking.WorkHourStore.
func (c *Client) FetchWorkHours(ctx context.Context, r clocking.DateRange) ([]clocking.WorkHourRow, error) {
	params := url.Values{
		"$filter": {c.dateFilter("CURDATE", r)},
		"$select": {workHoursSelect},
	}

	var resp listResponse[clocking.WorkHourRow]
	if err := c.api.GetJSON(ctx, "/"+workHoursEntity, params, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch work hours for %s: %w", r, err)
	}
	return resp.Value, nil
}

// WriteWorkHour implements clocking.WorkHourStore.
func (c *Client) WriteWorkHour(ctx context.Context, row clocking.WorkHourRow) syncrun.WriteOutcome {
	outcome, _ := c.api.Send(ctx, http.MethodPost, "/"+workHoursEntity, nil, row)
	return outcome
}

// FetchEmployees implements employee.RosterSource.
func (c *Client) FetchEmployees(ctx context.Context, filter employee.RosterFilter) ([]employee.TargetEmployee, error) {
	clauses := []string{clockingEnabledFilter}
	if filter.PendingOnly {
		clauses = append(clauses, fmt.Sprintf("%s eq 'Y'", c.pendingFlag))
	}
	if filter.ID != "" {
		clauses = append(clauses, "USERID eq "+keyLiteral(filter.ID))
	}

	params := url.Values{
		"$filter": {strings.Join(clauses, " and ")},
		"$select": {employeesSelect},
	}

	var resp listResponse[employee.TargetEmployee]
	if err := c.api.GetJSON(ctx, "/"+employeesEntity, params, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch employees: %w", err)
	}
	return resp.Value, nil
}

// ClearSyncFlag implements employee.RosterSource.
func (c *Client) ClearSyncFlag(ctx context.Context, employeeID string) syncrun.WriteOutcome {
	path := fmt.Sprintf("/%s(%s)", employeesEntity, url.PathEscape(keyLiteral(employeeID)))
	outcome, _ := c.api.Send(ctx, http.MethodPatch, path, nil, map[string]any{c.pendingFlag: nil})
	outcome.Key = employeeID
	return outcome
}

// dateFilter renders an OData date condition, e.g.
// CURDATE eq 2024-05-01T00:00:00+01:00.
func (c *Client) dateFilter(field string, r clocking.DateRange) string {
	if r.SingleDay() {
		return fmt.Sprintf("%s eq %s", field, c.dateLiteral(r.From))
	}
	return fmt.Sprintf("%s ge %s and %s le %s", field, c.dateLiteral(r.From), field, c.dateLiteral(r.To))
}

func (c *Client) dateLiteral(d time.Time) string {
	return d.Format(clocking.DateLayout) + "T00:00:00" + c.dateOffset
}

// keyLiteral quotes non-numeric keys.
func keyLiteral(id string) string {
	if validator.IsNumeric(id) {
		return id
	}
	return "'" + strings.ReplaceAll(id, "'", "''") + "'"
}
