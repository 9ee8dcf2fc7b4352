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

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "github.com/ghuser/workcosts/docs/swagger"
	"github.com/ghuser/workcosts/pkg/app"
	"github.com/ghuser/workcosts/pkg/auth"
	"github.com/ghuser/workcosts/pkg/cache"
	"github.com/ghuser/workcosts/pkg/config"
	"github.com/ghuser/workcosts/pkg/database"
	"github.com/ghuser/workcosts/pkg/events"
	"github.com/ghuser/workcosts/pkg/httpx"
	"github.com/ghuser/workcosts/pkg/logger"
	"github.com/ghuser/workcosts/pkg/telemetry"
	"github.com/ghuser/workcosts/pkg/workflows"
	costsApi "github.com/ghuser/workcosts/services/costs/application/api"
	costsSvcs "github.com/ghuser/workcosts/services/costs/application/services"
	settingsApi "github.com/ghuser/workcosts/services/settings/application/api"
	settingsSvcs "github.com/ghuser/workcosts/services/settings/application/services"
)

const shutdownTimeout = 30 * time.Second

// @title					WorkCosts API
// @version				1.0
// @description			Cost visibility and aggregation for work packages.
// @contact.name			API Support
// @license.name			MIT
// @license.url			https://opensource.org/licenses/MIT
// @host					localhost:8080
// @BasePath				/api
// @schemes				http https
func main() {
	if err := run(); err != nil {
		slog.Error("api stopped with error", "error", err)
		os.Exit(1)
	}
}

// run wires the API process and serves until SIGINT or SIGTERM. Deferred
// cleanups run in reverse order of acquisition.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := config.ValidateForProduction(cfg); err != nil {
		return fmt.Errorf("production config: %w", err)
	}

	log := logger.New(cfg)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelShutdown, metricsHandler, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		return fmt.Errorf("setup otel: %w", err)
	}
	defer otelShutdown(context.Background()) //nolint:errcheck

	// Crash reporting is best-effort.
	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	eventBus, err := events.NewEventBusWithForwarder(cfg, log)
	if err != nil {
		return fmt.Errorf("setup event bus: %w", err)
	}
	defer eventBus.Close() //nolint:errcheck
	if err := eventBus.StartForwarder(ctx); err != nil {
		return fmt.Errorf("start event forwarder: %w", err)
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer redisClient.Close() //nolint:errcheck

	// Without Temporal, background cost reports answer 503.
	var temporalClient *workflows.TemporalClient
	if cfg.TemporalEnabled {
		temporalClient, err = workflows.NewTemporalClient(ctx, cfg, log)
		if err != nil {
			return fmt.Errorf("connect temporal: %w", err)
		}
		defer temporalClient.Close()
	}

	a := &app.Application{
		Config:         cfg,
		Db:             pool,
		Logger:         log,
		EventBus:       eventBus,
		Redis:          redisClient,
		TemporalClient: temporalClient,
		SessionStore: auth.NewSessionStore(redisClient, auth.SessionConfig{
			AuthKey:       []byte(cfg.SessionAuthKey),
			EncryptionKey: []byte(cfg.SessionEncryptionKey),
			Secure:        cfg.Environment == config.EnvProduction,
			MaxAge:        cfg.SessionMaxAge,
		}),
	}

	r := httpx.NewRouter(
		httpx.ServerConfig{
			ServiceName:        cfg.ServiceName,
			IsDevelopment:      cfg.Environment == config.EnvDevelopment,
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
			RateLimit:          cfg.HTTPRateLimit,
			RequestTimeout:     cfg.HTTPRequestTimeout,
		},
		httpx.Middlewares{
			Recovery: logger.Recovery(log),
			Sentry:   telemetry.SentryMiddleware(),
			Tracing:  otelhttp.NewMiddleware(cfg.ServiceName),
			Logger:   logger.Middleware(log),
		},
	)

	checks := httpx.HealthChecks{
		"database":  pool,
		"redis":     redisClient,
		"event_bus": eventBus,
	}
	if temporalClient != nil {
		checks["temporal"] = temporalClient
	}
	r.Get("/health", httpx.HealthHandler(checks))
	r.Get("/metrics", metricsHandler.ServeHTTP)
	r.With(httpx.DocsCSP).Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	api := chi.NewRouter()
	if err := registerRoutes(api, a); err != nil {
		return fmt.Errorf("register routes: %w", err)
	}
	r.Mount("/api", api)

	srv := httpx.NewServer(cfg.HTTPAddr, r, cfg.HTTPRequestTimeout)
	serveErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}

// registerRoutes mounts all service routes under /api. Settings are built
// first: costs reads its currency and summable columns from them, and
// settings updates ask costs whether the session user is an administrator.
func registerRoutes(r chi.Router, a *app.Application) error {
	settings, err := settingsSvcs.New(a)
	if err != nil {
		return err
	}
	costs := costsSvcs.New(a, settings.Settings, settings.Settings)

	settingsApi.SettingsRoutes(r, a, settings.Settings, costs.Costs)
	costsApi.CostsRoutes(r, a, costs.Costs)
	return nil
}
