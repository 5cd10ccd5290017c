package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/clocksync/internal/app"
	"github.com/cmlabs-hris/clocksync/internal/config"
	appHTTP "github.com/cmlabs-hris/clocksync/internal/handler/http"
	"github.com/cmlabs-hris/clocksync/internal/pkg/cron"
	"github.com/cmlabs-hris/clocksync/internal/pkg/jwt"
	"github.com/cmlabs-hris/clocksync/internal/pkg/logger"
	"github.com/cmlabs-hris/clocksync/internal/pkg/webhook"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	log := logger.New(os.Stdout, cfg.App)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	if cfg.JWT.Secret == "" {
		slog.Warn("JWT_SECRET_KEY not set, operator endpoints will reject every request")
	}
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	verifier := webhook.NewVerifier(cfg.Webhook.Token)
	if !verifier.Enabled() {
		slog.Warn("WEBHOOK_TOKEN not set, employee webhook accepts unauthenticated requests")
	}

	webhookHandler := appHTTP.NewWebhookHandler(application.Employees)
	syncHandler := appHTTP.NewSyncHandler(application.Reconciler, application.Employees, application.Journal)
	router := appHTTP.NewRouter(cfg.CORS, log, JWTService, verifier, webhookHandler, syncHandler)

	scheduler := cron.NewScheduler(cfg.Sync.RunTimeout)
	application.Jobs.RegisterJobs(scheduler)
	scheduler.Start()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.App.Port, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
	scheduler.Stop()
}
