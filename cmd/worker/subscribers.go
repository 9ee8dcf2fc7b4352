package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/workcosts/pkg/app"
	"github.com/ghuser/workcosts/pkg/events"
	"github.com/ghuser/workcosts/pkg/logger"
	"github.com/ghuser/workcosts/pkg/telemetry"
	settingsEvents "github.com/ghuser/workcosts/services/settings/domain/events"
)

// settingsRefresher reloads one cached setting from the store.
type settingsRefresher interface {
	Refresh(ctx context.Context, name string) error
}

// registerSubscribers wires all domain event handlers.
// Add new topics here as more services publish events.
func registerSubscribers(ctx context.Context, a *app.Application, settings settingsRefresher) error {
	errCh, err := a.EventBus.Subscribe(ctx, settingsEvents.TopicSettingsUpdated, handleSettingsUpdated(settings, a.Logger))
	if err != nil {
		return err
	}

	// Drain subscriber errors in background so the channel never blocks.
	go func() {
		for err := range errCh {
			a.Logger.ErrorContext(ctx, "subscriber error",
				"topic", settingsEvents.TopicSettingsUpdated,
				"permanent", events.IsPermanent(err),
				"error", err,
			)
			telemetry.CaptureError(ctx, err)
		}
	}()

	a.Logger.Info("event subscribers registered", "topics", []string{settingsEvents.TopicSettingsUpdated})
	return nil
}

// handleSettingsUpdated returns a handler for settings.updated events.
// Handlers must be idempotent; EventBus retries up to 3× on failure.
// An undecodable payload is permanent: it is Acked and reported, not redelivered.
// The API already evicted its cache entry on write; reloading here replaces
// any stale value another instance cached in between.
func handleSettingsUpdated(settings settingsRefresher, log logger.Logger) func(context.Context, *message.Message) error {
	return func(ctx context.Context, msg *message.Message) error {
		var evt settingsEvents.SettingsUpdatedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return events.Permanent(fmt.Errorf("decode settings.updated: %w", err))
		}
		if evt.Name == "" {
			log.WarnContext(ctx, "settings.updated without a name", "event_id", evt.EventID)
			return nil
		}
		if err := settings.Refresh(ctx, evt.Name); err != nil {
			return fmt.Errorf("refresh setting %s: %w", evt.Name, err)
		}
		log.InfoContext(ctx, "setting cache refreshed", "setting", evt.Name, "event_id", evt.EventID)
		return nil
	}
}
