package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"go.yaml.in/yaml/v3"

	"github.com/twiced-technology-gmbh/dayplan/internal/date"
	"github.com/twiced-technology-gmbh/dayplan/internal/form"
	"github.com/twiced-technology-gmbh/dayplan/internal/task"
)

const (
	fileMode = 0o600
	dirMode  = 0o750
)

// Sentinel errors.
var (
	ErrNotFound = errors.New("no dayplan config found (run 'dayplan init' to create one)")
	ErrInvalid  = errors.New("invalid config")
)

// Config represents the client configuration.
type Config struct {
	Version         int            `yaml:"version"`
	API             APIConfig      `yaml:"api"`
	RefreshInterval string         `yaml:"refresh_interval"`
	Defaults        DefaultsConfig `yaml:"defaults"`
	TUI             TUIConfig      `yaml:"tui,omitempty"`

	// dir is the absolute path to the app directory (not serialized).
	dir string `yaml:"-"`
	// env holds environment overrides; never written back to disk.
	env APIConfig `yaml:"-"`
}

// APIConfig locates the remote task collection.
type APIConfig struct {
	BaseURL    string `yaml:"base_url"`
	Collection string `yaml:"collection"`
	Timeout    string `yaml:"timeout"`
}

// DefaultsConfig holds values preselected in new task forms.
type DefaultsConfig struct {
	Reminder   string `yaml:"reminder"`
	Repeat     string `yaml:"repeat"`
	Time       string `yaml:"time,omitempty"` // HH:MM; empty picks the next half-hour slot
	AssignSelf bool   `yaml:"assign_self"`
}

// TUIConfig holds TUI-specific display settings.
type TUIConfig struct {
	UpcomingDays int `yaml:"upcoming_days,omitempty"`
}

// NewDefault creates a Config with default values.
func NewDefault() *Config {
	return &Config{
		Version: CurrentVersion,
		API: APIConfig{
			BaseURL:    DefaultBaseURL,
			Collection: DefaultCollection,
			Timeout:    DefaultTimeout,
		},
		RefreshInterval: DefaultRefreshInterval,
		Defaults: DefaultsConfig{
			Reminder: DefaultReminder,
			Repeat:   DefaultRepeat,
		},
		TUI: TUIConfig{UpcomingDays: DefaultUpcomingDays},
	}
}

// DefaultDir returns the app directory: $DAYPLAN_DIR, else the user config
// dir joined with "dayplan".
func DefaultDir() (string, error) {
	if d := os.Getenv(EnvDir); d != "" {
		return d, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config dir: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// Dir returns the absolute path to the app directory.
func (c *Config) Dir() string { return c.dir }

// SetDir sets the app directory path on the config.
func (c *Config) SetDir(dir string) { c.dir = dir }

// ConfigPath returns the absolute path to the config file.
func (c *Config) ConfigPath() string { return filepath.Join(c.dir, ConfigFileName) }

// BaseURL returns the effective store URL, honoring overrides.
func (c *Config) BaseURL() string {
	if c.env.BaseURL != "" {
		return c.env.BaseURL
	}
	return c.API.BaseURL
}

// Collection returns the effective collection name, honoring overrides.
func (c *Config) Collection() string {
	if c.env.Collection != "" {
		return c.env.Collection
	}
	return c.API.Collection
}

// OverrideBaseURL sets a session-only base URL (e.g. from --api-url).
func (c *Config) OverrideBaseURL(u string) { c.env.BaseURL = u }

// Timeout parses api.timeout. Returns 0 (no timeout) if unset.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// Refresh parses refresh_interval. Returns 0 (disabled) if unset or "0".
func (c *Config) Refresh() time.Duration {
	d, err := time.ParseDuration(c.RefreshInterval)
	if err != nil {
		return 0
	}
	return d
}

// DefaultTime returns the configured preselected time slot, if any.
func (c *Config) DefaultTime() (date.TimeOfDay, bool) {
	if c.Defaults.Time == "" {
		return date.TimeOfDay{}, false
	}
	tod, err := date.ParseTimeOfDay(c.Defaults.Time)
	if err != nil {
		return date.TimeOfDay{}, false
	}
	return tod, true
}

// FormDefaults returns the values preselected in new task forms.
func (c *Config) FormDefaults() form.Defaults {
	defs := form.Defaults{
		Reminder: task.Reminder(c.Defaults.Reminder),
		Repeat:   task.Repeat(c.Defaults.Repeat),
	}
	if tod, ok := c.DefaultTime(); ok {
		defs.Time = &tod
	}
	return defs
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	if err := validateURL(c.API.BaseURL); err != nil {
		return err
	}
	if c.API.Collection == "" {
		return fmt.Errorf("%w: api.collection is required", ErrInvalid)
	}
	if c.API.Timeout != "" {
		if d, err := time.ParseDuration(c.API.Timeout); err != nil || d < 0 {
			return fmt.Errorf("%w: api.timeout %q is not a valid duration", ErrInvalid, c.API.Timeout)
		}
	}
	if err := c.validateRefresh(); err != nil {
		return err
	}
	if !task.Reminder(c.Defaults.Reminder).Valid() {
		return fmt.Errorf("%w: defaults.reminder %q is not a known reminder", ErrInvalid, c.Defaults.Reminder)
	}
	if !task.Repeat(c.Defaults.Repeat).Valid() {
		return fmt.Errorf("%w: defaults.repeat %q is not a known repeat", ErrInvalid, c.Defaults.Repeat)
	}
	if c.Defaults.Time != "" {
		if _, err := date.ParseTimeOfDay(c.Defaults.Time); err != nil {
			return fmt.Errorf("%w: defaults.time: %v", ErrInvalid, err)
		}
	}
	if c.TUI.UpcomingDays < 0 {
		return fmt.Errorf("%w: tui.upcoming_days must be >= 0", ErrInvalid)
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: api.base_url %q must be an http(s) URL", ErrInvalid, raw)
	}
	return nil
}

func (c *Config) validateRefresh() error {
	if c.RefreshInterval == "" {
		return nil
	}
	d, err := time.ParseDuration(c.RefreshInterval)
	if err != nil {
		return fmt.Errorf("%w: refresh_interval %q is not a valid duration", ErrInvalid, c.RefreshInterval)
	}
	if d != 0 && d < minRefresh {
		return fmt.Errorf("%w: refresh_interval must be 0 or at least %s", ErrInvalid, minRefresh)
	}
	return nil
}

// Init writes a default config into dir, creating the directory.
func Init(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	if err := os.MkdirAll(absDir, dirMode); err != nil {
		return nil, fmt.Errorf("creating app directory: %w", err)
	}

	cfg := NewDefault()
	cfg.SetDir(absDir)
	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}
	return cfg, nil
}

// Save writes the config to its config file.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(c.ConfigPath(), data, fileMode)
}

// Load reads, migrates, and validates the config in dir, then applies
// dotenv and environment overrides.
func Load(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	path := filepath.Join(absDir, ConfigFileName)
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.dir = absDir

	oldVersion := cfg.Version
	if err := migrate(&cfg); err != nil {
		return nil, err
	}
	if cfg.Version != oldVersion {
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("saving migrated config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrInit loads the config in dir, creating a default one on first use.
func LoadOrInit(dir string) (*Config, error) {
	cfg, err := Load(dir)
	if errors.Is(err, ErrNotFound) {
		if _, err := Init(dir); err != nil {
			return nil, err
		}
		return Load(dir)
	}
	return cfg, err
}

// applyEnv loads <dir>/.env without clobbering variables already set, then
// reads the DAYPLAN_* overrides.
func (c *Config) applyEnv() error {
	envPath := filepath.Join(c.dir, EnvFileName)
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return fmt.Errorf("loading %s: %w", envPath, err)
		}
	}
	if v := os.Getenv(EnvAPIURL); v != "" {
		if err := validateURL(v); err != nil {
			return fmt.Errorf("%s: %w", EnvAPIURL, err)
		}
		c.env.BaseURL = v
	}
	if v := os.Getenv(EnvCollection); v != "" {
		c.env.Collection = v
	}
	return nil
}
