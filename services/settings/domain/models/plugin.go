package models

import (
	"fmt"
	"sort"
	"strings"

	settingsdomain "github.com/ghuser/workcosts/services/settings/domain"
)

// Plugin is an installed extension with its own settings page.
type Plugin struct {
	ID   string
	Name string
	// Defaults are served for keys that were never stored.
	Defaults map[string]string
	// MenuItem selects the admin menu entry highlighted on the settings page.
	MenuItem string
	// Validate checks a merged settings map before it is stored. Optional.
	Validate func(PluginSettings) error
}

// SettingName is the key the plugin's settings are stored under.
func (p Plugin) SettingName() string {
	return "plugin_" + p.ID
}

// ActiveMenuItem falls back to the general settings entry.
func (p Plugin) ActiveMenuItem() string {
	if p.MenuItem == "" {
		return "settings"
	}
	return p.MenuItem
}

// PluginSettings are a plugin's key/value settings.
type PluginSettings map[string]string

// Merge returns defaults overlaid with stored values. Neither input is modified.
func Merge(defaults, stored PluginSettings) PluginSettings {
	out := make(PluginSettings, len(defaults)+len(stored))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range stored {
		out[k] = v
	}
	return out
}

// Registry is the set of installed plugins. It is built explicitly at startup.
type Registry struct {
	plugins map[string]Plugin
}

// NewRegistry returns a registry of the given plugins. Duplicate IDs are rejected.
func NewRegistry(plugins ...Plugin) (*Registry, error) {
	r := &Registry{plugins: make(map[string]Plugin, len(plugins))}
	for _, p := range plugins {
		if strings.TrimSpace(p.ID) == "" {
			return nil, fmt.Errorf("plugin %q has no id", p.Name)
		}
		if _, dup := r.plugins[p.ID]; dup {
			return nil, fmt.Errorf("plugin %q registered twice", p.ID)
		}
		r.plugins[p.ID] = p
	}
	return r, nil
}

// Find returns the plugin with the given ID, or ErrPluginNotFound.
func (r *Registry) Find(id string) (Plugin, error) {
	p, ok := r.plugins[id]
	if !ok {
		return Plugin{}, fmt.Errorf("%w: %s", settingsdomain.ErrPluginNotFound, id)
	}
	return p, nil
}

// All returns the plugins ordered by ID.
func (r *Registry) All() []Plugin {
	out := make([]Plugin, 0, len(r.plugins))
	for _, p := range r.plugins {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
