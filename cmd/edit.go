package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/dayplan/internal/clierr"
	"github.com/twiced-technology-gmbh/dayplan/internal/form"
	"github.com/twiced-technology-gmbh/dayplan/internal/store"
	"github.com/twiced-technology-gmbh/dayplan/internal/task"
)

var editCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Edit a to-do",
	Long: `Updates the given fields of an existing to-do. Fields not passed keep their
current value. Editing never rejects a due time in the past. A due time off the
half-hour grid is kept as is unless --date or --time is given, in which case
it snaps to the half-hour slot.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().String("title", "", "new title")
	addTaskFlags(editCmd)
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
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

	ctx := context.Background()
	tasks, err := e.store.List(ctx)
	if err != nil {
		return store.AsCLI(err)
	}
	current, err := task.FindByID(tasks, ids[0])
	if err != nil {
		return err
	}

	t := now()
	d := form.FromTask(current, t.Location())
	changed, err := applyTaskFlags(cmd, &d, t)
	if err != nil {
		return err
	}
	if !changed {
		return clierr.New(clierr.NoChanges,
			"no changes specified; use --title, --description, --date, --time, --reminder or --repeat")
	}

	saved, err := e.reconciler().Save(ctx, d, t)
	if err != nil {
		return err
	}
	return outputSaveResult("Updated", saved)
}
