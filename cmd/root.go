// Package cmd implements the dayplan CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/dayplan/internal/activity"
	"github.com/twiced-technology-gmbh/dayplan/internal/clierr"
	"github.com/twiced-technology-gmbh/dayplan/internal/config"
	"github.com/twiced-technology-gmbh/dayplan/internal/form"
	"github.com/twiced-technology-gmbh/dayplan/internal/logging"
	"github.com/twiced-technology-gmbh/dayplan/internal/output"
	"github.com/twiced-technology-gmbh/dayplan/internal/session"
	"github.com/twiced-technology-gmbh/dayplan/internal/store"
	"github.com/twiced-technology-gmbh/dayplan/internal/task"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags.
var (
	flagJSON     bool
	flagTable    bool
	flagCompact  bool
	flagDir      string
	flagNoColor  bool
	flagAPIURL   string
	flagLogLevel string
)

// closeLog flushes the diagnostic log file opened by loadConfig.
var closeLog = func() error { return nil }

var rootCmd = &cobra.Command{
	Use:   "dayplan",
	Short: "Plan your day from the terminal",
	Long: `dayplan keeps a personal to-do list in a remote collection and shows it as
Overdue, Today and Upcoming. Run dayplan without arguments to open the TUI.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runTUI,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if flagNoColor || !output.ColorSupported(os.Stdout) {
			output.DisableColor()
		}
		_, err := logging.ParseLevel(flagLogLevel)
		return err
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		_ = closeLog()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagTable, "table", false, "output as table")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "compact", false, "compact one-line-per-record output")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "oneline", false, "alias for --compact")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "path to the dayplan directory (default $"+config.EnvDir+" or the user config dir)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color output")
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "override the store base URL for this run")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "diagnostic log level (debug, info, warn, error)")
}

// Execute runs the root command.
func Execute() {
	_, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}
	_ = closeLog()

	var silent *clierr.SilentError
	if errors.As(err, &silent) {
		os.Exit(silent.Code)
	}

	// Store failures that reached here unconverted still get a stable code.
	err = store.AsCLI(err)

	jsonMode := flagJSON
	if !jsonMode {
		jsonMode = os.Getenv(output.EnvOutput) == "json"
	}

	var cliErr *clierr.Error
	if jsonMode {
		if errors.As(err, &cliErr) {
			output.JSONError(os.Stdout, cliErr.Code, cliErr.Message, cliErr.Details)
			os.Exit(cliErr.ExitCode())
		}
		output.JSONError(os.Stdout, clierr.InternalError, err.Error(), nil)
		os.Exit(2) //nolint:mnd // exit code 2 for internal errors
	}

	fmt.Fprintln(os.Stderr, "Error:", err)
	if errors.As(err, &cliErr) {
		for k, v := range cliErr.Details {
			fmt.Fprintf(os.Stderr, "  %s: %v\n", k, v)
		}
		os.Exit(cliErr.ExitCode())
	}
	os.Exit(1)
}

// resolveDir returns the app directory from --dir, $DAYPLAN_DIR or the user
// config dir.
func resolveDir() (string, error) {
	if flagDir != "" {
		return flagDir, nil
	}
	return config.DefaultDir()
}

// loadConfig loads (creating on first use) the config, applies --api-url and
// starts the diagnostic log.
func loadConfig() (*config.Config, error) {
	dir, err := resolveDir()
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadOrInit(dir)
	if err != nil {
		return nil, err
	}
	if flagAPIURL != "" {
		cfg.OverrideBaseURL(flagAPIURL)
	}

	_, closeFn, err := logging.Init(cfg.Dir(), flagLogLevel)
	if err != nil {
		// The log is diagnostics only; keep going without it.
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		slog.SetDefault(logging.Discard())
	} else {
		closeLog = closeFn
	}
	return cfg, nil
}

// outputFormat returns the detected output format from flags/env.
func outputFormat() output.Format {
	return output.Detect(flagJSON, flagTable, flagCompact)
}

func newSessionStore(cfg *config.Config) *session.Store {
	return session.New(cfg.Dir(), session.WithLogger(slog.Default()))
}

func newStoreClient(cfg *config.Config) (*store.Client, error) {
	c, err := store.NewClient(cfg.BaseURL(),
		store.WithCollection(cfg.Collection()),
		store.WithTimeout(cfg.Timeout()),
		store.WithLogger(slog.Default()),
	)
	if err != nil {
		return nil, clierr.Wrap(clierr.InvalidInput, err.Error(), err)
	}
	return c, nil
}

// env bundles what every task command needs once the user is known.
type env struct {
	cfg   *config.Config
	user  *session.User
	store *store.Client
	log   *activity.Log
}

// loadEnv loads the config, requires a signed-in user and builds the store
// client.
func loadEnv() (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	u, err := newSessionStore(cfg).Current()
	if err != nil {
		return nil, err
	}
	c, err := newStoreClient(cfg)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, user: u, store: c, log: activity.New(cfg.Dir(), u.DisplayName())}, nil
}

// reconciler wires the form reconciler to the store and activity log.
func (e *env) reconciler() *form.Reconciler {
	opts := []form.Option{
		form.WithRecorder(e.log),
		form.WithLogger(slog.Default()),
	}
	if e.cfg.Defaults.AssignSelf {
		opts = append(opts, form.WithAssignee(e.user.DisplayName()))
	}
	return form.New(e.store, opts...)
}

// now is the clock used by commands.
var now = time.Now

// runBatch executes fn for each ID and collects results. Returns a SilentError
// with exit code 1 if any operation failed (after outputting results).
func runBatch(ids []task.ID, fn func(task.ID) error) error {
	results := make([]output.BatchResult, 0, len(ids))
	anyFailed := false

	for _, id := range ids {
		err := fn(id)
		if err == nil {
			results = append(results, output.BatchResult{ID: id.String(), OK: true})
			continue
		}
		anyFailed = true
		err = store.AsCLI(err)
		var cliErr *clierr.Error
		if errors.As(err, &cliErr) {
			results = append(results, output.BatchResult{ID: id.String(), Error: cliErr.Message, Code: cliErr.Code})
		} else {
			results = append(results, output.BatchResult{ID: id.String(), Error: err.Error()})
		}
	}

	if outputFormat() == output.FormatJSON {
		if err := output.JSON(os.Stdout, results); err != nil {
			return err
		}
	} else {
		var succeeded int
		for _, r := range results {
			if r.OK {
				succeeded++
			} else {
				fmt.Fprintf(os.Stderr, "Error: to-do #%s: %s\n", r.ID, r.Error)
			}
		}
		output.Messagef(os.Stdout, "Completed %d/%d operations", succeeded, len(ids))
	}

	if anyFailed {
		return &clierr.SilentError{Code: 1}
	}
	return nil
}
