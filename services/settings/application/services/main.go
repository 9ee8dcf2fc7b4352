package services

import (
	"fmt"

	"github.com/ghuser/workcosts/pkg/app"
	"github.com/ghuser/workcosts/pkg/cache"
	"github.com/ghuser/workcosts/services/settings/domain/models"
	"github.com/ghuser/workcosts/services/settings/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
type Services struct {
	Settings *SettingsService
}

// New wires the settings services with infrastructure from the Application container.
// The costs plugin is registered with the configured currency defaults.
func New(a *app.Application) (*Services, error) {
	registry, err := models.NewRegistry(
		models.CostsPlugin(a.Config.CostsDefaultCurrency, a.Config.CostsDefaultCurrencyFormat),
	)
	if err != nil {
		return nil, fmt.Errorf("build plugin registry: %w", err)
	}

	repo := postgres.NewSettingsRepository(a.Db, a.EventBus)
	var c Cache
	if a.Redis != nil {
		c = cache.NewSettingsCache(a.Redis, a.Config.SettingsCacheTTL)
	}
	return &Services{
		Settings: NewSettingsService(repo, c, registry, a.Logger),
	}, nil
}
