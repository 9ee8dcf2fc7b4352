package domain

import "errors"

// Sentinel errors for the settings domain. Use errors.Is() to check these.
var (
	// ErrPluginNotFound indicates no registered plugin has the requested ID.
	ErrPluginNotFound = errors.New("plugin not found")

	// ErrSettingNotFound indicates the setting has never been stored.
	ErrSettingNotFound = errors.New("setting not found")

	// ErrInvalidSettings indicates submitted values fail the plugin's validation.
	ErrInvalidSettings = errors.New("invalid settings")
)
