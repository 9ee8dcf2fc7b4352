package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/workcosts/pkg/database"
	"github.com/ghuser/workcosts/pkg/events"
	settingsdomain "github.com/ghuser/workcosts/services/settings/domain"
	domainevents "github.com/ghuser/workcosts/services/settings/domain/events"
	"github.com/ghuser/workcosts/services/settings/domain/repositories"
	"github.com/ghuser/workcosts/services/settings/infrastructure/persistence/postgres/db"
)

var _ repositories.SettingsRepository = (*SettingsRepository)(nil)

// SettingsRepository implements repositories.SettingsRepository against PostgreSQL.
type SettingsRepository struct {
	db  *database.Database
	bus *events.EventBus
	now func() time.Time
}

// NewSettingsRepository returns a SettingsRepository backed by the given pool
// and event bus. The bus may be nil, in which case no event is published.
func NewSettingsRepository(database *database.Database, bus *events.EventBus) *SettingsRepository {
	return &SettingsRepository{db: database, bus: bus, now: time.Now}
}

// Get returns ErrSettingNotFound if the setting was never stored.
func (r *SettingsRepository) Get(ctx context.Context, name string) (json.RawMessage, error) {
	row, err := db.New(r.db.DB()).GetSetting(ctx, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, settingsdomain.ErrSettingNotFound
		}
		return nil, fmt.Errorf("query setting %s: %w", name, err)
	}
	return row.Value, nil
}

// Put upserts the setting and publishes SettingsUpdatedEvent in the same transaction.
func (r *SettingsRepository) Put(ctx context.Context, name string, value json.RawMessage) error {
	at := r.now().UTC()
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := db.New(tx).UpsertSetting(ctx, db.UpsertSettingParams{
			Name:      name,
			Value:     value,
			UpdatedAt: at,
		}); err != nil {
			return fmt.Errorf("upsert setting %s: %w", name, err)
		}
		if r.bus != nil {
			if err := r.publishUpdated(ctx, tx, name, at); err != nil {
				return fmt.Errorf("publish settings updated: %w", err)
			}
		}
		return nil
	})
}

func (r *SettingsRepository) publishUpdated(ctx context.Context, tx *sql.Tx, name string, at time.Time) error {
	event := domainevents.SettingsUpdatedEvent{
		EventID:    uuid.New(),
		Version:    1,
		Name:       name,
		OccurredAt: at,
	}
	msg, err := events.NewEvent(ctx, event.EventID.String(), event.Version, event)
	if err != nil {
		return err
	}
	return r.bus.PublishTx(ctx, tx, domainevents.TopicSettingsUpdated, msg)
}
