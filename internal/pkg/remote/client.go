package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cmlabs-hris/clocksync/internal/domain/syncrun"
)

const maxBodyBytes = 8 << 20

// Client performs single round-trip JSON calls against one remote system.
// It never retries.
type Client struct {
	system  string
	baseURL string
	http    *http.Client
	auth    func(req *http.Request)
}

type Option func(*Client)

// WithBasicAuth sends HTTP basic credentials on every request.
func WithBasicAuth(username, password string) Option {
	return func(c *Client) {
		c.auth = func(req *http.Request) {
			req.SetBasicAuth(username, password)
		}
	}
}

// WithQueryCredentials appends fixed credential parameters to every request.
func WithQueryCredentials(params url.Values) Option {
	return func(c *Client) {
		c.auth = func(req *http.Request) {
			q := req.URL.Query()
			for k, vs := range params {
				for _, v := range vs {
					q.Set(k, v)
				}
			}
			req.URL.RawQuery = EncodeQuery(q)
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func NewClient(system, baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		system:  system,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError represents a non-2xx answer from a remote system
type APIError struct {
	System     string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error [%d]: %s", e.System, e.StatusCode, e.Body)
}

// Unwrap classifies the failure so callers can use errors.Is with
// syncrun.ErrAuth or syncrun.ErrTransport.
func (e *APIError) Unwrap() error {
	if IsAuthStatus(e.StatusCode) {
		return syncrun.ErrAuth
	}
	return syncrun.ErrTransport
}

func IsAuthStatus(code int) bool {
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

// GetJSON performs a GET and decodes a 2xx body into out.
func (c *Client) GetJSON(ctx context.Context, path string, params url.Values, out any) error {
	status, body, err := c.do(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return &APIError{System: c.system, StatusCode: status, Body: strings.TrimSpace(string(body))}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w: %w", c.system, syncrun.ErrTransport, err)
	}
	return nil
}

// Send performs a write call and reports it as a WriteOutcome. The error is
// non-nil whenever the outcome is a failure and is classified like GetJSON's.
func (c *Client) Send(ctx context.Context, method, path string, params url.Values, payload any) (syncrun.WriteOutcome, error) {
	var reqBody []byte
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return syncrun.Failed(0, nil, err), fmt.Errorf("%s: encode request: %w", c.system, err)
		}
		reqBody = b
	}

	status, body, err := c.do(ctx, method, path, params, reqBody)
	if err != nil {
		return syncrun.Failed(0, nil, err), err
	}
	if status < 200 || status >= 300 {
		apiErr := &APIError{System: c.system, StatusCode: status, Body: strings.TrimSpace(string(body))}
		return syncrun.Failed(status, body, apiErr), apiErr
	}
	return syncrun.Succeeded(status, body), nil
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, reqBody []byte) (int, []byte, error) {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint = endpoint + "?" + EncodeQuery(params)
	}

	var bodyReader io.Reader
	if reqBody != nil {
		bodyReader = bytes.NewReader(reqBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: build request: %w", c.system, err)
	}
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.auth != nil {
		c.auth(req)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// The URL may carry query credentials, keep it out of the error.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return 0, nil, fmt.Errorf("%s %s %s: %w: %w", c.system, method, path, syncrun.ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%s: read response: %w: %w", c.system, syncrun.ErrTransport, err)
	}
	return resp.StatusCode, body, nil
}

// EncodeQuery encodes params with %20 for spaces; OData filters do not
// accept '+' as a space.
func EncodeQuery(params url.Values) string {
	return strings.ReplaceAll(params.Encode(), "+", "%20")
}
