package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ghuser/workcosts/pkg/app"
	"github.com/ghuser/workcosts/pkg/cache"
	"github.com/ghuser/workcosts/pkg/config"
	"github.com/ghuser/workcosts/pkg/database"
	"github.com/ghuser/workcosts/pkg/events"
	"github.com/ghuser/workcosts/pkg/logger"
	"github.com/ghuser/workcosts/pkg/telemetry"
	"github.com/ghuser/workcosts/pkg/workflows"
	costsSvcs "github.com/ghuser/workcosts/services/costs/application/services"
	costsWorkflows "github.com/ghuser/workcosts/services/costs/application/workflows"
	settingsSvcs "github.com/ghuser/workcosts/services/settings/application/services"
)

func main() {
	if err := run(); err != nil {
		slog.Error("worker stopped with error", "error", err)
		os.Exit(1)
	}
}

// run consumes domain events and, when Temporal is enabled, executes cost
// report workflows until SIGINT or SIGTERM.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := config.ValidateForProduction(cfg); err != nil {
		return fmt.Errorf("production config: %w", err)
	}

	log := logger.New(cfg).With("process", "worker")
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelShutdown, _, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		return fmt.Errorf("setup otel: %w", err)
	}
	defer otelShutdown(context.Background()) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	// Close waits up to 30s for in-flight handlers.
	eventBus, err := events.NewEventBus(cfg, log)
	if err != nil {
		return fmt.Errorf("setup event bus: %w", err)
	}
	defer eventBus.Close() //nolint:errcheck

	redisClient, err := cache.NewRedisClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer redisClient.Close() //nolint:errcheck

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
	}

	settings, err := settingsSvcs.New(a)
	if err != nil {
		return fmt.Errorf("build settings services: %w", err)
	}
	if err := registerSubscribers(ctx, a, settings.Settings); err != nil {
		return fmt.Errorf("register subscribers: %w", err)
	}

	if temporalClient != nil {
		costs := costsSvcs.New(a, settings.Settings, settings.Settings)
		w := temporalClient.NewWorker(cfg.CostsTaskQueue)
		costsWorkflows.Register(w, costs.Costs)
		if err := w.Start(); err != nil {
			return fmt.Errorf("start temporal worker: %w", err)
		}
		defer w.Stop()
		log.Info("temporal worker started", "task_queue", cfg.CostsTaskQueue)
	}

	<-ctx.Done()
	log.Info("shutting down worker...")
	return nil
}
