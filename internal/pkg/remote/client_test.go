package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/cmlabs-hris/clocksync/internal/domain/syncrun"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetJSON_BasicAuthAndQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "api", user)
		assert.Equal(t, "secret", pass)
		assert.Equal(t, "/rows", r.URL.Path)
		assert.Contains(t, r.URL.RawQuery, "%24filter=CURDATE%20eq%202024-05-01T00%3A00%3A00%2B01%3A00")
		assert.Equal(t, "CURDATE eq 2024-05-01T00:00:00+01:00", r.URL.Query().Get("$filter"))
		w.Write([]byte(`{"value":[{"a":1}]}`))
	}))
	defer srv.Close()

	c := NewClient("priority", srv.URL+"/", time.Second, WithBasicAuth("api", "secret"))

	var out struct {
		Value []map[string]int `json:"value"`
	}
	params := url.Values{"$filter": {"CURDATE eq 2024-05-01T00:00:00+01:00"}}
	require.NoError(t, c.GetJSON(context.Background(), "/rows", params, &out))
	assert.Equal(t, 1, out.Value[0]["a"])
}

func TestGetJSON_ClassifiesFailures(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, syncrun.ErrAuth},
		{http.StatusForbidden, syncrun.ErrAuth},
		{http.StatusInternalServerError, syncrun.ErrTransport},
		{http.StatusNotFound, syncrun.ErrTransport},
	}
	for _, c := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(c.status)
			w.Write([]byte("nope"))
		}))

		client := NewClient("synel", srv.URL, time.Second)
		err := client.GetJSON(context.Background(), "/x", nil, &struct{}{})
		srv.Close()

		require.Error(t, err)
		assert.ErrorIs(t, err, c.want, "status %d", c.status)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, c.status, apiErr.StatusCode)
		assert.Equal(t, "nope", apiErr.Body)
	}
}

func TestGetJSON_TransportErrorHidesCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient("synel", srv.URL, time.Second, WithQueryCredentials(url.Values{"password": {"hunter2"}}))
	err := c.GetJSON(context.Background(), "/GetClockings", nil, &struct{}{})

	require.Error(t, err)
	assert.ErrorIs(t, err, syncrun.ErrTransport)
	assert.NotContains(t, err.Error(), "hunter2")
}

func TestSend_Outcomes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "l", r.URL.Query().Get("login"))

		var in map[string]string
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &in))
		if in["fail"] == "yes" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("bad row"))
			return
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewClient("priority", srv.URL, time.Second, WithQueryCredentials(url.Values{"login": {"l"}}))

	ok, err := c.Send(context.Background(), http.MethodPost, "/rows", nil, map[string]string{"fail": "no"})
	require.NoError(t, err)
	assert.True(t, ok.Success)
	assert.Equal(t, http.StatusCreated, ok.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, string(ok.Payload))

	bad, err := c.Send(context.Background(), http.MethodPost, "/rows", nil, map[string]string{"fail": "yes"})
	require.Error(t, err)
	assert.False(t, bad.Success)
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
	assert.Equal(t, `"bad row"`, string(bad.Payload))
	assert.NotEmpty(t, bad.Error)
}

func TestGetJSON_CustomHTTPClient(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"value":[]}`))
	}))
	defer srv.Close()

	var out struct {
		Value []any `json:"value"`
	}

	// The default client does not trust the test certificate.
	plain := NewClient("priority", srv.URL, time.Second)
	assert.ErrorIs(t, plain.GetJSON(context.Background(), "/rows", nil, &out), syncrun.ErrTransport)

	c := NewClient("priority", srv.URL, time.Second, WithHTTPClient(srv.Client()))
	require.NoError(t, c.GetJSON(context.Background(), "/rows", nil, &out))
	assert.NotNil(t, out.Value)
}

func TestEncodeQuery(t *testing.T) {
	got := EncodeQuery(url.Values{"$select": {"DNAME, USERBCODE"}})
	assert.Equal(t, "%24select=DNAME%2C%20USERBCODE", got)
}
