package email

import (
	"context"
	"errors"
	"net/smtp"
	"testing"
	"time"

	"github.com/cmlabs-hris/clocksync/internal/config"
	"github.com/cmlabs-hris/clocksync/internal/domain/syncrun"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedMail struct {
	addr string
	from string
	to   []string
	msg  string
}

func newTestNotifier(t *testing.T, cfg config.SMTPConfig, to string, fail int) (*runNotifier, *[]capturedMail) {
	t.Helper()
	n, err := NewRunNotifier(cfg, to)
	require.NoError(t, err)

	impl := n.(*runNotifier)
	impl.backoff = time.Millisecond
	sent := &[]capturedMail{}
	calls := 0
	impl.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		calls++
		if calls <= fail {
			return errors.New("connection refused")
		}
		*sent = append(*sent, capturedMail{addr: addr, from: from, to: to, msg: string(msg)})
		return nil
	}
	return impl, sent
}

func failedRun() syncrun.Run {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	msg := "1 of 2 rows: partial write"
	return syncrun.Run{
		ID:        "run-1",
		Kind:      syncrun.KindReconcile,
		Status:    syncrun.StatusPartial,
		RangeFrom: &day,
		RangeTo:   &day,
		Fetched:   2,
		Written:   1,
		Failed:    1,
		Error:     &msg,
		Outcomes: []syncrun.WriteOutcome{
			{Key: "7|IN|2024-05-01|08:01", Success: true, StatusCode: 201},
			{Key: "8|IN|2024-05-01|08:05", StatusCode: 400, Error: "bad request"},
		},
		StartedAt: day.Add(8 * time.Hour),
	}
}

var smtpCfg = config.SMTPConfig{
	Host:     "smtp.example.com",
	Port:     587,
	From:     "sync@example.com",
	FromName: "Clock Sync",
}

func TestNotifyRunFailure_SendsAlert(t *testing.T) {
	n, sent := newTestNotifier(t, smtpCfg, "ops@example.com", 0)

	require.NoError(t, n.NotifyRunFailure(context.Background(), failedRun()))

	require.Len(t, *sent, 1)
	mail := (*sent)[0]
	assert.Equal(t, "smtp.example.com:587", mail.addr)
	assert.Equal(t, []string{"ops@example.com"}, mail.to)
	assert.Contains(t, mail.msg, "Subject: [clocksync] reconcile run partial")
	assert.Contains(t, mail.msg, "8|IN|2024-05-01|08:05")
	assert.Contains(t, mail.msg, "bad request")
	assert.NotContains(t, mail.msg, "7|IN|2024-05-01|08:01")
	assert.Contains(t, mail.msg, "2024-05-01 .. 2024-05-01")
}

func TestNotifyRunFailure_Retries(t *testing.T) {
	n, sent := newTestNotifier(t, smtpCfg, "ops@example.com", 2)

	require.NoError(t, n.NotifyRunFailure(context.Background(), failedRun()))
	assert.Len(t, *sent, 1)
}

func TestNotifyRunFailure_GivesUp(t *testing.T) {
	n, sent := newTestNotifier(t, smtpCfg, "ops@example.com", maxRetries)

	err := n.NotifyRunFailure(context.Background(), failedRun())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Empty(t, *sent)
}

func TestNotifyRunFailure_SkipsWithoutConfig(t *testing.T) {
	n, sent := newTestNotifier(t, config.SMTPConfig{}, "ops@example.com", 0)
	require.NoError(t, n.NotifyRunFailure(context.Background(), failedRun()))
	assert.Empty(t, *sent)

	n, sent = newTestNotifier(t, smtpCfg, "", 0)
	require.NoError(t, n.NotifyRunFailure(context.Background(), failedRun()))
	assert.Empty(t, *sent)
}
