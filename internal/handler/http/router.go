package http

import (
	"log/slog"

	"github.com/cmlabs-hris/clocksync/internal/config"
	"github.com/cmlabs-hris/clocksync/internal/handler/http/middleware"
	"github.com/cmlabs-hris/clocksync/internal/pkg/jwt"
	"github.com/cmlabs-hris/clocksync/internal/pkg/webhook"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	cfg config.CORSConfig,
	logger *slog.Logger,
	JWTService jwt.Service,
	verifier *webhook.Verifier,
	webhookHandler WebhookHandler,
	syncHandler SyncHandler,
) *chi.Mux {
	r := chi.NewRouter()

	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowCredentials: true,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", webhook.HeaderToken},
			MaxAge:           300,
		}))
	}

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	r.Route("/synel", func(r chi.Router) {
		r.Get("/", webhookHandler.Home)

		r.With(middleware.WebhookToken(verifier)).Post("/manageEmployee", webhookHandler.ManageEmployee)
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Requires an operator token
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/sync", func(r chi.Router) {
				r.Post("/clockings", syncHandler.SyncClockings)
				r.Post("/employees", syncHandler.SyncEmployees)
				r.Get("/runs", syncHandler.ListRuns)
				r.Get("/runs/{id}", syncHandler.GetRun)
			})
		})
	})
	return r
}
