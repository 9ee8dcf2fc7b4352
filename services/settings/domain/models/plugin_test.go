package models

import (
	"errors"
	"testing"

	settingsdomain "github.com/ghuser/workcosts/services/settings/domain"
)

func TestRegistry(t *testing.T) {
	costs := CostsPlugin("EUR", "%n %u")
	reg, err := NewRegistry(costs, Plugin{ID: "backlogs", Name: "Backlogs"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("find registered plugin", func(t *testing.T) {
		p, err := reg.Find("costs")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.SettingName() != "plugin_costs" {
			t.Fatalf("expected plugin_costs, got %q", p.SettingName())
		}
		if p.ActiveMenuItem() != "costs_settings" {
			t.Fatalf("expected costs_settings, got %q", p.ActiveMenuItem())
		}
	})

	t.Run("unknown plugin", func(t *testing.T) {
		_, err := reg.Find("nope")
		if !errors.Is(err, settingsdomain.ErrPluginNotFound) {
			t.Fatalf("expected ErrPluginNotFound, got %v", err)
		}
	})

	t.Run("menu item falls back to settings", func(t *testing.T) {
		p, _ := reg.Find("backlogs")
		if p.ActiveMenuItem() != "settings" {
			t.Fatalf("expected settings, got %q", p.ActiveMenuItem())
		}
	})

	t.Run("all sorted by id", func(t *testing.T) {
		all := reg.All()
		if len(all) != 2 || all[0].ID != "backlogs" || all[1].ID != "costs" {
			t.Fatalf("unexpected order: %+v", all)
		}
	})
}

func TestNewRegistry_Rejects(t *testing.T) {
	if _, err := NewRegistry(Plugin{ID: "a"}, Plugin{ID: "a"}); err == nil {
		t.Fatal("expected duplicate id error")
	}
	if _, err := NewRegistry(Plugin{Name: "anonymous"}); err == nil {
		t.Fatal("expected blank id error")
	}
}

func TestMerge(t *testing.T) {
	defaults := PluginSettings{"costs_currency": "EUR", "costs_currency_format": "%n %u"}
	stored := PluginSettings{"costs_currency": "USD"}

	got := Merge(defaults, stored)
	if got["costs_currency"] != "USD" {
		t.Fatalf("stored value must win, got %q", got["costs_currency"])
	}
	if got["costs_currency_format"] != "%n %u" {
		t.Fatalf("default must fill missing key, got %q", got["costs_currency_format"])
	}
	if defaults["costs_currency"] != "EUR" {
		t.Fatal("defaults were modified")
	}
}

func TestCostsPluginValidate(t *testing.T) {
	p := CostsPlugin("EUR", "%n %u")
	tests := []struct {
		name    string
		in      PluginSettings
		wantErr bool
	}{
		{"defaults", p.Defaults, false},
		{"unit first", PluginSettings{CostsCurrencyKey: "USD", CostsCurrencyFormatKey: "%u%n"}, false},
		{"missing amount placeholder", PluginSettings{CostsCurrencyKey: "USD", CostsCurrencyFormatKey: "%u"}, true},
		{"blank currency", PluginSettings{CostsCurrencyKey: " ", CostsCurrencyFormatKey: "%n"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.Validate(tt.in)
			if tt.wantErr {
				if !errors.Is(err, settingsdomain.ErrInvalidSettings) {
					t.Fatalf("expected ErrInvalidSettings, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
