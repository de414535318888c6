package cmd

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/dayplan/internal/tui"
	"github.com/twiced-technology-gmbh/dayplan/internal/watcher"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive shell (default)",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// runTUI starts the shell without requiring a session: a signed-out user
// can browse, and signing in from another terminal is picked up live.
func runTUI(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := newStoreClient(cfg)
	if err != nil {
		return err
	}

	app := tui.New(cfg, st, newSessionStore(cfg))
	p := tea.NewProgram(app, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go startTUIWatcher(ctx, app, p)

	_, err = p.Run()
	return err
}

// startTUIWatcher reloads the signed-in identity when the session file
// changes, e.g. after `dayplan logout` in another terminal.
func startTUIWatcher(ctx context.Context, app *tui.App, p *tea.Program) {
	w, err := watcher.New(app.WatchDir(), app.WatchNames(), func() {
		p.Send(tui.ReloadSessionMsg{})
	})
	if err != nil {
		slog.Warn("session watcher unavailable", "error", err)
		return // non-fatal
	}
	defer w.Close()
	w.Run(ctx, func(err error) {
		slog.Warn("session watcher", "error", err)
	})
}
