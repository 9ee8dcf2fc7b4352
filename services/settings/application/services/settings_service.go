package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/ghuser/workcosts/pkg/logger"
	costsmodels "github.com/ghuser/workcosts/services/costs/domain/models"
	costsvcs "github.com/ghuser/workcosts/services/costs/application/services"
	settingsdomain "github.com/ghuser/workcosts/services/settings/domain"
	"github.com/ghuser/workcosts/services/settings/domain/models"
	"github.com/ghuser/workcosts/services/settings/domain/repositories"
)

var (
	_ costsvcs.CurrencySource        = (*SettingsService)(nil)
	_ costsvcs.SummableColumnsSource = (*SettingsService)(nil)
)

// Cache is the read-through cache in front of the settings table.
// Get returns redis.Nil on a miss.
type Cache interface {
	Get(ctx context.Context, name string) (json.RawMessage, error)
	Set(ctx context.Context, name string, value json.RawMessage) error
	Delete(ctx context.Context, name string) error
}

// PluginView is a plugin together with its effective settings.
type PluginView struct {
	Plugin   models.Plugin
	Settings models.PluginSettings
}

// SettingsService reads and writes plugin and general settings.
// Writes go to Postgres; the repository publishes settings.updated.
type SettingsService struct {
	repo     repositories.SettingsRepository
	cache    Cache
	registry *models.Registry
	log      logger.Logger
}

// NewSettingsService returns a SettingsService. cache may be nil.
func NewSettingsService(repo repositories.SettingsRepository, cache Cache, registry *models.Registry, log logger.Logger) *SettingsService {
	return &SettingsService{repo: repo, cache: cache, registry: registry, log: log}
}

// Plugin returns the plugin and its stored settings merged over its defaults.
func (s *SettingsService) Plugin(ctx context.Context, id string) (*PluginView, error) {
	p, err := s.registry.Find(id)
	if err != nil {
		return nil, err
	}
	stored, err := s.pluginSettings(ctx, p)
	if err != nil {
		return nil, err
	}
	return &PluginView{Plugin: p, Settings: models.Merge(p.Defaults, stored)}, nil
}

// UpdatePlugin replaces the stored settings of a plugin. The effective settings
// are validated before anything is written.
func (s *SettingsService) UpdatePlugin(ctx context.Context, id string, values models.PluginSettings) (*PluginView, error) {
	p, err := s.registry.Find(id)
	if err != nil {
		return nil, err
	}
	effective := models.Merge(p.Defaults, values)
	if p.Validate != nil {
		if err := p.Validate(effective); err != nil {
			return nil, err
		}
	}

	raw, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("marshal plugin settings: %w", err)
	}
	if err := s.repo.Put(ctx, p.SettingName(), raw); err != nil {
		return nil, fmt.Errorf("store plugin settings: %w", err)
	}
	s.evict(ctx, p.SettingName())

	s.log.InfoContext(ctx, "plugin settings updated", "plugin", p.ID, "keys", len(values))
	return &PluginView{Plugin: p, Settings: effective}, nil
}

// Plugins lists the registered plugins ordered by ID.
func (s *SettingsService) Plugins() []models.Plugin {
	return s.registry.All()
}

// General returns the installation-wide settings.
func (s *SettingsService) General(ctx context.Context) (models.GeneralSettings, error) {
	cols, err := s.SummableColumns(ctx)
	if err != nil {
		return models.GeneralSettings{}, err
	}
	return models.GeneralSettings{SummableColumns: cols}, nil
}

// SummableColumns returns the work package list columns that may be summed.
// An unset setting yields no columns.
func (s *SettingsService) SummableColumns(ctx context.Context) ([]string, error) {
	raw, err := s.read(ctx, models.SummableColumnsSetting)
	if err != nil || raw == nil {
		return nil, err
	}
	var cols []string
	if err := json.Unmarshal(raw, &cols); err != nil {
		return nil, fmt.Errorf("decode %s: %w", models.SummableColumnsSetting, err)
	}
	return cols, nil
}

// Currency returns the costs plugin currency settings.
func (s *SettingsService) Currency(ctx context.Context) (costsmodels.CurrencyConfig, error) {
	view, err := s.Plugin(ctx, models.CostsPluginID)
	if err != nil {
		return costsmodels.CurrencyConfig{}, err
	}
	return costsmodels.CurrencyConfig{
		Code:   view.Settings[models.CostsCurrencyKey],
		Format: view.Settings[models.CostsCurrencyFormatKey],
	}, nil
}

// Refresh replaces the cached value of name with the stored one. The worker
// calls it for every settings.updated event.
func (s *SettingsService) Refresh(ctx context.Context, name string) error {
	if s.cache == nil {
		return nil
	}
	raw, err := s.repo.Get(ctx, name)
	if errors.Is(err, settingsdomain.ErrSettingNotFound) {
		return s.cache.Delete(ctx, name)
	}
	if err != nil {
		return fmt.Errorf("reload setting %s: %w", name, err)
	}
	return s.cache.Set(ctx, name, raw)
}

func (s *SettingsService) pluginSettings(ctx context.Context, p models.Plugin) (models.PluginSettings, error) {
	raw, err := s.read(ctx, p.SettingName())
	if err != nil || raw == nil {
		return nil, err
	}
	var stored models.PluginSettings
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("decode %s: %w", p.SettingName(), err)
	}
	return stored, nil
}

// read is a read-through lookup. A setting that was never stored reads as nil.
// Cache failures are logged and fall through to Postgres.
func (s *SettingsService) read(ctx context.Context, name string) (json.RawMessage, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, name)
		if err == nil {
			return raw, nil
		}
		if !errors.Is(err, redis.Nil) {
			s.log.WarnContext(ctx, "settings cache read failed", "setting", name, "error", err)
		}
	}

	raw, err := s.repo.Get(ctx, name)
	if errors.Is(err, settingsdomain.ErrSettingNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get setting %s: %w", name, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, name, raw); err != nil {
			s.log.WarnContext(ctx, "settings cache write failed", "setting", name, "error", err)
		}
	}
	return raw, nil
}

func (s *SettingsService) evict(ctx context.Context, name string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, name); err != nil {
		s.log.WarnContext(ctx, "settings cache evict failed", "setting", name, "error", err)
	}
}
