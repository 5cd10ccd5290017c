package middleware

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/clocksync/internal/handler/http/response"
	"github.com/cmlabs-hris/clocksync/internal/pkg/webhook"
)

// WebhookToken rejects inbound webhooks without the shared token
func WebhookToken(v *webhook.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !v.Verify(r.Header.Get(webhook.HeaderToken)) {
				slog.Warn("Rejected webhook with invalid token", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
				response.Unauthorized(w, "Invalid webhook token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
