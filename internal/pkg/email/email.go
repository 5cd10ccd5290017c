package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/cmlabs-hris/clocksync/internal/config"
	"github.com/cmlabs-hris/clocksync/internal/domain/syncrun"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	maxRetries = 3
	// maxListedFailures caps the failed writes listed in one alert.
	maxListedFailures = 20
)

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type runNotifier struct {
	cfg       config.SMTPConfig
	to        string
	templates *template.Template
	send      sendFunc
	backoff   time.Duration
}

// NewRunNotifier creates a notifier mailing run alerts to a single operator
// address. Alerts are skipped when SMTP or the recipient is not configured.
func NewRunNotifier(cfg config.SMTPConfig, to string) (syncrun.Notifier, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &runNotifier{
		cfg:       cfg,
		to:        to,
		templates: tmpl,
		send:      smtp.SendMail,
		backoff:   time.Second,
	}, nil
}

type runAlertData struct {
	ID        string
	Kind      syncrun.Kind
	Status    syncrun.Status
	Range     string
	StartedAt string
	Fetched   int
	Dropped   int
	Written   int
	Failed    int
	Error     string
	Failures  []syncrun.WriteOutcome
	More      int
}

// NotifyRunFailure implements syncrun.Notifier
func (n *runNotifier) NotifyRunFailure(ctx context.Context, run syncrun.Run) error {
	data := runAlertData{
		ID:        run.ID,
		Kind:      run.Kind,
		Status:    run.Status,
		StartedAt: run.StartedAt.Format(time.RFC3339),
		Fetched:   run.Fetched,
		Dropped:   run.Dropped,
		Written:   run.Written,
		Failed:    run.Failed,
	}
	if run.RangeFrom != nil && run.RangeTo != nil {
		data.Range = run.RangeFrom.Format("2006-01-02") + " .. " + run.RangeTo.Format("2006-01-02")
	}
	if run.Error != nil {
		data.Error = *run.Error
	}
	for _, o := range run.Outcomes {
		if o.Success {
			continue
		}
		if len(data.Failures) == maxListedFailures {
			data.More++
			continue
		}
		data.Failures = append(data.Failures, o)
	}

	var body bytes.Buffer
	if err := n.templates.ExecuteTemplate(&body, "run_alert.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	subject := fmt.Sprintf("[clocksync] %s run %s", run.Kind, run.Status)
	return n.sendHTML(ctx, subject, body.String())
}

func (n *runNotifier) sendHTML(ctx context.Context, subject, htmlBody string) error {
	if n.cfg.Host == "" || n.to == "" {
		slog.Warn("SMTP or ALERT_EMAIL not configured, skipping alert", "subject", subject)
		return nil
	}

	from := n.cfg.From

	headers := fmt.Sprintf("From: %s <%s>\r\n", n.cfg.FromName, from)
	headers += fmt.Sprintf("To: %s\r\n", n.to)
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := n.send(addr, auth, from, []string{n.to}, message)
		if err == nil {
			slog.Info("Alert email sent", "to", n.to, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.Error("Failed to send alert email",
			"to", n.to,
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		// Exponential backoff: 1s, 2s, 4s
		if attempt < maxRetries {
			select {
			case <-ctx.Done():
				return fmt.Errorf("alert email aborted: %w", ctx.Err())
			case <-time.After(n.backoff << (attempt - 1)):
			}
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
