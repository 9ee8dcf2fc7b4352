package app

import (
	"github.com/gorilla/sessions"

	"github.com/ghuser/workcosts/pkg/cache"
	"github.com/ghuser/workcosts/pkg/config"
	"github.com/ghuser/workcosts/pkg/database"
	"github.com/ghuser/workcosts/pkg/events"
	"github.com/ghuser/workcosts/pkg/logger"
	"github.com/ghuser/workcosts/pkg/workflows"
)

// Application holds shared infrastructure dependencies for all bounded contexts.
// Pass it to every XRoutes call during server initialization.
//
// Logging: app.Logger is backed by a trace-aware handler. Use slog's context
// methods and trace_id, span_id, and request_id are injected automatically:
//
//	app.Logger.InfoContext(ctx, "costs evaluated", "work_item_id", id)
//	app.Logger.ErrorContext(ctx, "failed to load entries", "error", err)
//
// Use app.Logger.Info/Error (no context) only for startup and shutdown messages.
type Application struct {
	Config         *config.Config
	Db             *database.Database
	Logger         logger.Logger
	EventBus       *events.EventBus
	Redis          *cache.RedisClient
	TemporalClient *workflows.TemporalClient // nil unless TEMPORAL_ENABLED
	SessionStore   sessions.Store            // Redis-backed session store; nil in worker process
}
