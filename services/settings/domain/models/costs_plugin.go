package models

import (
	"fmt"
	"strings"

	settingsdomain "github.com/ghuser/workcosts/services/settings/domain"
)

const (
	CostsPluginID = "costs"

	CostsCurrencyKey       = "costs_currency"
	CostsCurrencyFormatKey = "costs_currency_format"
)

// CostsPlugin declares the costs plugin with its currency defaults.
func CostsPlugin(defaultCurrency, defaultFormat string) Plugin {
	return Plugin{
		ID:   CostsPluginID,
		Name: "Costs",
		Defaults: PluginSettings{
			CostsCurrencyKey:       defaultCurrency,
			CostsCurrencyFormatKey: defaultFormat,
		},
		MenuItem: "costs_settings",
		Validate: validateCostsSettings,
	}
}

func validateCostsSettings(s PluginSettings) error {
	if strings.TrimSpace(s[CostsCurrencyKey]) == "" {
		return fmt.Errorf("%w: %s must not be blank", settingsdomain.ErrInvalidSettings, CostsCurrencyKey)
	}
	if !strings.Contains(s[CostsCurrencyFormatKey], "%n") {
		return fmt.Errorf("%w: %s must contain %%n", settingsdomain.ErrInvalidSettings, CostsCurrencyFormatKey)
	}
	return nil
}
