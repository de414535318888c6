package config

import (
	"fmt"
	"strings"
)

// migrate upgrades a config from its current version to CurrentVersion.
// Each migration function transforms the config one version forward.
// Returns an error if the config version is newer than what this binary supports.
func migrate(cfg *Config) error {
	if cfg.Version == CurrentVersion {
		return nil
	}
	if cfg.Version > CurrentVersion {
		return fmt.Errorf(
			"%w: config version %d is newer than supported version %d (upgrade dayplan)",
			ErrInvalid, cfg.Version, CurrentVersion,
		)
	}
	if cfg.Version < 1 {
		return fmt.Errorf("%w: config version %d is invalid", ErrInvalid, cfg.Version)
	}

	for cfg.Version < CurrentVersion {
		fn, ok := migrations[cfg.Version]
		if !ok {
			return fmt.Errorf("%w: no migration path from version %d", ErrInvalid, cfg.Version)
		}
		if err := fn(cfg); err != nil {
			return fmt.Errorf("migrating config from v%d: %w", cfg.Version, err)
		}
	}
	return nil
}

// migrations maps each version to the function that migrates it to the next version.
// The migration function must increment cfg.Version after a successful migration.
var migrations = map[int]func(*Config) error{
	1: migrateV1ToV2,
	2: migrateV2ToV3,
}

// migrateV1ToV2 adds refresh_interval and the collection name, which v1
// kept inside base_url.
func migrateV1ToV2(cfg *Config) error { //nolint:unparam // signature must match migrations map type
	if cfg.RefreshInterval == "" {
		cfg.RefreshInterval = DefaultRefreshInterval
	}
	if cfg.API.Collection == "" {
		cfg.API.Collection = DefaultCollection
		cfg.API.BaseURL = strings.TrimSuffix(strings.TrimRight(cfg.API.BaseURL, "/"), "/"+DefaultCollection)
	}
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = DefaultBaseURL
	}
	cfg.Version = 2
	return nil
}

// migrateV2ToV3 adds api.timeout and form defaults.
func migrateV2ToV3(cfg *Config) error { //nolint:unparam // signature must match migrations map type
	if cfg.API.Timeout == "" {
		cfg.API.Timeout = DefaultTimeout
	}
	if cfg.Defaults.Reminder == "" {
		cfg.Defaults.Reminder = DefaultReminder
	}
	if cfg.Defaults.Repeat == "" {
		cfg.Defaults.Repeat = DefaultRepeat
	}
	cfg.Version = 3
	return nil
}
