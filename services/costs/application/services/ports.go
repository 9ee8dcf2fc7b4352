package services

import (
	"context"

	"github.com/ghuser/workcosts/services/costs/domain/models"
)

// CurrencySource supplies the installation-wide currency configuration.
// The settings bounded context implements it.
type CurrencySource interface {
	Currency(ctx context.Context) (models.CurrencyConfig, error)
}

// SummableColumnsSource supplies the work item list columns that may be summed.
type SummableColumnsSource interface {
	SummableColumns(ctx context.Context) ([]string, error)
}
