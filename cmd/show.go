package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/twiced-technology-gmbh/dayplan/internal/output"
	"github.com/twiced-technology-gmbh/dayplan/internal/store"
	"github.com/twiced-technology-gmbh/dayplan/internal/task"
)

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show to-do details",
	Long:  `Displays full details of a single to-do including its markdown description.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(_ *cobra.Command, args []string) error {
	ids, err := task.ParseIDs(args[0])
	if err != nil {
		return err
	}
	if len(ids) != 1 {
		return task.ValidateTaskID(args[0])
	}

	e, err := loadEnv()
	if err != nil {
		return err
	}

	tasks, err := e.store.List(context.Background())
	if err != nil {
		return store.AsCLI(err)
	}
	t, err := task.FindByID(tasks, ids[0])
	if err != nil {
		return err
	}

	n := now()
	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, t)
	case output.FormatCompact:
		output.TaskDetailCompact(os.Stdout, t, n.Location())
		return nil
	}

	color := !flagNoColor && output.ColorSupported(os.Stdout)
	output.TaskDetail(os.Stdout, t, n.Location(), n, output.Markdown(t.Description, color, terminalWidth()))
	return nil
}

// terminalWidth returns the stdout width, or 0 when it is not a terminal.
func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd())) //nolint:gosec // fd fits in int
	if err != nil {
		return 0
	}
	return w
}
