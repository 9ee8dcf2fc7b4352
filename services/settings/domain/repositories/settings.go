package repositories

import (
	"context"
	"encoding/json"
)

// SettingsRepository stores settings as JSON documents keyed by name.
type SettingsRepository interface {
	// Get returns the stored value, or ErrSettingNotFound.
	Get(ctx context.Context, name string) (json.RawMessage, error)

	// Put replaces the stored value and publishes SettingsUpdatedEvent atomically.
	Put(ctx context.Context, name string, value json.RawMessage) error
}
