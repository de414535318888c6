package cmd

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/dayplan/internal/clierr"
	"github.com/twiced-technology-gmbh/dayplan/internal/config"
	"github.com/twiced-technology-gmbh/dayplan/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify configuration",
	Long:  `View the full configuration, get a specific key, or set a writable value.`,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2), //nolint:mnd // key and value
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// configAccessor describes how to get and set a config key. Setters only
// assign; Config.Validate checks the result before saving.
type configAccessor struct {
	get func(*config.Config) any
	set func(*config.Config, string) error
}

func (a configAccessor) writable() bool { return a.set != nil }

func configAccessors() map[string]configAccessor {
	return map[string]configAccessor{
		"version": {
			get: func(c *config.Config) any { return c.Version },
		},
		"dir": {
			get: func(c *config.Config) any { return c.Dir() },
		},
		"api.base_url": {
			get: func(c *config.Config) any { return c.API.BaseURL },
			set: func(c *config.Config, v string) error { c.API.BaseURL = strings.TrimRight(v, "/"); return nil },
		},
		"api.collection": {
			get: func(c *config.Config) any { return c.API.Collection },
			set: func(c *config.Config, v string) error { c.API.Collection = strings.Trim(v, "/"); return nil },
		},
		"api.timeout": {
			get: func(c *config.Config) any { return c.API.Timeout },
			set: func(c *config.Config, v string) error { c.API.Timeout = v; return nil },
		},
		"refresh_interval": {
			get: func(c *config.Config) any { return c.RefreshInterval },
			set: func(c *config.Config, v string) error { c.RefreshInterval = v; return nil },
		},
		"defaults.reminder": {
			get: func(c *config.Config) any { return c.Defaults.Reminder },
			set: func(c *config.Config, v string) error { c.Defaults.Reminder = strings.ToLower(v); return nil },
		},
		"defaults.repeat": {
			get: func(c *config.Config) any { return c.Defaults.Repeat },
			set: func(c *config.Config, v string) error { c.Defaults.Repeat = strings.ToLower(v); return nil },
		},
		"defaults.time": {
			get: func(c *config.Config) any { return c.Defaults.Time },
			set: func(c *config.Config, v string) error { c.Defaults.Time = v; return nil },
		},
		"defaults.assign_self": {
			get: func(c *config.Config) any { return c.Defaults.AssignSelf },
			set: func(c *config.Config, v string) error {
				b, err := strconv.ParseBool(v)
				if err != nil {
					return clierr.Newf(clierr.InvalidInput, "invalid defaults.assign_self %q: must be true or false", v)
				}
				c.Defaults.AssignSelf = b
				return nil
			},
		},
		"tui.upcoming_days": {
			get: func(c *config.Config) any { return c.TUI.UpcomingDays },
			set: func(c *config.Config, v string) error {
				n, err := strconv.Atoi(v)
				if err != nil {
					return clierr.Newf(clierr.InvalidInput, "invalid tui.upcoming_days %q: must be an integer", v)
				}
				c.TUI.UpcomingDays = n
				return nil
			},
		},
	}
}

func allConfigKeys() []string {
	acc := configAccessors()
	keys := make([]string, 0, len(acc))
	for k := range acc {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	accessors := configAccessors()
	if outputFormat() == output.FormatJSON {
		m := make(map[string]any, len(accessors))
		for _, key := range allConfigKeys() {
			m[key] = accessors[key].get(cfg)
		}
		return output.JSON(os.Stdout, m)
	}

	for _, key := range allConfigKeys() {
		fmt.Fprintf(os.Stdout, "%-22s %v\n", key, formatConfigValue(accessors[key].get(cfg)))
	}
	if cfg.BaseURL() != cfg.API.BaseURL || cfg.Collection() != cfg.API.Collection {
		fmt.Fprintf(os.Stdout, "\n(overridden for this run: %s/%s)\n", cfg.BaseURL(), cfg.Collection())
	}
	return nil
}

func runConfigGet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	key := args[0]
	acc, ok := configAccessors()[key]
	if !ok {
		return unknownConfigKey(key)
	}

	val := acc.get(cfg)
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, val)
	}
	fmt.Fprintln(os.Stdout, formatConfigValue(val))
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	acc, ok := configAccessors()[key]
	if !ok {
		return unknownConfigKey(key)
	}
	if !acc.writable() {
		return clierr.Newf(clierr.InvalidInput, "config key %q is read-only", key)
	}

	if err := acc.set(cfg, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return clierr.Wrap(clierr.InvalidInput, err.Error(), err).
			WithDetails(map[string]any{"key": key, "value": value})
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"key": key, "value": acc.get(cfg)})
	}
	output.Messagef(os.Stdout, "Set %s = %v", key, formatConfigValue(acc.get(cfg)))
	return nil
}

func unknownConfigKey(key string) error {
	return clierr.Newf(clierr.InvalidInput, "unknown config key %q", key).
		WithDetails(map[string]any{"allowed": allConfigKeys()})
}

func formatConfigValue(val any) string {
	switch v := val.(type) {
	case string:
		if v == "" {
			return "--"
		}
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
