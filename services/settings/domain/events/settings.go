package events

import (
	"time"

	"github.com/google/uuid"
)

// TopicSettingsUpdated is the Watermill topic published when a setting is written.
const TopicSettingsUpdated = "settings.updated"

// SettingsUpdatedEvent is published in the same transaction as the write.
// Consumers use it to invalidate cached setting values.
type SettingsUpdatedEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	Version    int       `json:"version"`
	Name       string    `json:"name"`
	OccurredAt time.Time `json:"occurred_at"`
}
