package models

import (
	"fmt"
	"strings"
)

const (
	// DefaultCurrencyCode is used when neither the project nor the plugin settings name a currency.
	DefaultCurrencyCode = "EUR"
	// DefaultCurrencyFormat places the amount before the unit: "1234.50 EUR".
	DefaultCurrencyFormat = "%n %u"

	amountPlaceholder = "%n"
	unitPlaceholder   = "%u"
)

// CurrencyConfig describes how monetary values of a project are rendered.
// Format is a template where %n is replaced by the amount and %u by Code.
type CurrencyConfig struct {
	Code   string
	Format string
}

// DefaultCurrency returns the built-in currency configuration.
func DefaultCurrency() CurrencyConfig {
	return CurrencyConfig{Code: DefaultCurrencyCode, Format: DefaultCurrencyFormat}
}

// Or fills blank fields of c from fallback.
func (c CurrencyConfig) Or(fallback CurrencyConfig) CurrencyConfig {
	if strings.TrimSpace(c.Code) == "" {
		c.Code = fallback.Code
	}
	if strings.TrimSpace(c.Format) == "" {
		c.Format = fallback.Format
	}
	return c
}

// Validate checks that the template can render an amount.
func (c CurrencyConfig) Validate() error {
	if !strings.Contains(c.Format, amountPlaceholder) {
		return fmt.Errorf("currency format %q must contain %s", c.Format, amountPlaceholder)
	}
	return nil
}

// FormatCurrency renders amount with the given configuration. It is a pure
// function: the same inputs always produce the same string.
func FormatCurrency(amount Money, cfg CurrencyConfig) string {
	cfg = cfg.Or(DefaultCurrency())
	r := strings.NewReplacer(amountPlaceholder, amount.String(), unitPlaceholder, cfg.Code)
	return r.Replace(cfg.Format)
}
