package recorder

import (
	"context"
	"database/sql"

	"github.com/hazyhaar/domtrail/recorder/internal/config"
)

// Config is the top-level configuration. Re-exported from internal.
type Config = config.Config

// LocatorConfig holds the locator preferences.
type LocatorConfig = config.LocatorConfig

// AttributeEntry is one attributes_to_store entry.
type AttributeEntry = config.AttributeEntry

// PageConfig defines a page to record on.
type PageConfig = config.PageConfig

// SinkConfig defines an output backend.
type SinkConfig = config.SinkConfig

// Settings is a persisted locator settings profile.
type Settings = config.Settings

// SettingsSchema creates the locator_settings table.
const SettingsSchema = config.Schema

// DefaultSettingsID names the profile used when none is given.
const DefaultSettingsID = config.DefaultSettingsID

// ErrSettingsNotFound is returned by LoadSettings for unknown profiles.
var ErrSettingsNotFound = config.ErrSettingsNotFound

// LoadConfigFile reads a YAML configuration file.
func LoadConfigFile(path string) (*Config, error) {
	return config.LoadFile(path)
}

// DefaultConfig returns the configuration an empty file yields.
func DefaultConfig() *Config {
	return config.Default()
}

// LoadSettings reads a settings profile.
func LoadSettings(ctx context.Context, db *sql.DB, id string) (*Settings, error) {
	return config.LoadSettings(ctx, db, id)
}

// SaveSettings inserts or replaces a settings profile.
func SaveSettings(ctx context.Context, db *sql.DB, s *Settings) error {
	return config.SaveSettings(ctx, db, s)
}

// SettingsFromConfig converts the locator section into a settings profile.
func SettingsFromConfig(id string, lc LocatorConfig) *Settings {
	return config.FromConfig(id, lc)
}

// ListSettings returns every stored profile.
func ListSettings(ctx context.Context, db *sql.DB) ([]*Settings, error) {
	return config.ListSettings(ctx, db)
}

// DeleteSettings removes a settings profile.
func DeleteSettings(ctx context.Context, db *sql.DB, id string) error {
	return config.DeleteSettings(ctx, db, id)
}
