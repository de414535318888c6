package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/twiced-technology-gmbh/dayplan/internal/activity"
	"github.com/twiced-technology-gmbh/dayplan/internal/clierr"
	"github.com/twiced-technology-gmbh/dayplan/internal/output"
	"github.com/twiced-technology-gmbh/dayplan/internal/store"
	"github.com/twiced-technology-gmbh/dayplan/internal/task"
)

var deleteCmd = &cobra.Command{
	Use:     "done ID[,ID,...]",
	Aliases: []string{"complete", "rm", "delete"},
	Short:   "Complete (remove) a to-do",
	Long: `Completing a to-do removes it from the collection. Prompts for confirmation in
interactive mode. Multiple IDs can be provided as a comma-separated list (requires --yes).`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	ids, err := task.ParseIDs(args[0])
	if err != nil {
		return err
	}

	yes, _ := cmd.Flags().GetBool("yes")
	if len(ids) > 1 && !yes {
		return clierr.New(clierr.ConfirmationReq, "batch complete requires --yes")
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

	if len(ids) == 1 {
		return completeSingleTask(ctx, e, tasks, ids[0], yes)
	}

	// Batch mode (yes is guaranteed true here).
	return runBatch(ids, func(id task.ID) error {
		_, err := executeComplete(ctx, e, tasks, id)
		return err
	})
}

// completeSingleTask handles a single completion with confirmation and output.
func completeSingleTask(ctx context.Context, e *env, tasks []*task.Task, id task.ID, yes bool) error {
	t, err := task.FindByID(tasks, id)
	if err != nil {
		return err
	}

	if !yes {
		if !term.IsTerminal(int(os.Stdin.Fd())) { //nolint:gosec // fd fits in int
			return clierr.New(clierr.ConfirmationReq,
				"cannot prompt for confirmation (not a terminal); use --yes")
		}
		fmt.Fprintf(os.Stderr, "Complete to-do #%s %q? [y/N] ", t.ID, t.Title)
		answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(os.Stderr, "Canceled.")
			return nil
		}
	}

	if _, err := executeComplete(ctx, e, tasks, id); err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"status": "completed",
			"id":     t.ID,
			"title":  t.Title,
		})
	}
	output.Messagef(os.Stdout, "Completed to-do #%s: %s", t.ID, t.Title)
	return nil
}

// executeComplete deletes the to-do remotely and logs the completion.
func executeComplete(ctx context.Context, e *env, tasks []*task.Task, id task.ID) (*task.Task, error) {
	t, err := task.FindByID(tasks, id)
	if err != nil {
		return nil, err
	}
	if err := e.store.Delete(ctx, id); err != nil {
		return nil, store.AsCLI(err)
	}
	e.log.Record(activity.ActionComplete, t)
	return t, nil
}
