package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/dayplan/internal/clierr"
	"github.com/twiced-technology-gmbh/dayplan/internal/date"
	"github.com/twiced-technology-gmbh/dayplan/internal/form"
	"github.com/twiced-technology-gmbh/dayplan/internal/output"
	"github.com/twiced-technology-gmbh/dayplan/internal/store"
	"github.com/twiced-technology-gmbh/dayplan/internal/task"
)

var moveCmd = &cobra.Command{
	Use:     "move ID[,ID,...] [DATE]",
	Aliases: []string{"postpone"},
	Short:   "Move a to-do to another day",
	Long: `Reschedules a to-do to a different day, keeping its half-hour time slot. Provide the
new date directly (YYYY-MM-DD, today, tomorrow or yesterday), or use
--next/--prev to shift by one day. Multiple IDs can be provided as a
comma-separated list.`,
	Args: cobra.RangeArgs(1, 2), //nolint:mnd // 1 or 2 positional args
	RunE: runMove,
}

func init() {
	moveCmd.Flags().Bool("next", false, "move to the following day")
	moveCmd.Flags().Bool("prev", false, "move to the previous day")
	rootCmd.AddCommand(moveCmd)
}

func runMove(cmd *cobra.Command, args []string) error {
	ids, err := task.ParseIDs(args[0])
	if err != nil {
		return err
	}

	target, err := resolveMoveTarget(cmd, args)
	if err != nil {
		return err
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
		return moveSingleTask(ctx, e, tasks, ids[0], target)
	}

	return runBatch(ids, func(id task.ID) error {
		_, _, err := executeMove(ctx, e, tasks, id, target)
		return err
	})
}

// moveResult wraps a task with a changed flag for JSON output.
type moveResult struct {
	*task.Task
	Changed bool `json:"changed"`
}

// moveTarget computes the new day from the current one.
type moveTarget func(current date.Date) date.Date

func resolveMoveTarget(cmd *cobra.Command, args []string) (moveTarget, error) {
	next, _ := cmd.Flags().GetBool("next")
	prev, _ := cmd.Flags().GetBool("prev")

	set := 0
	for _, b := range []bool{next, prev, len(args) == 2} { //nolint:mnd // ID and DATE
		if b {
			set++
		}
	}
	if set != 1 {
		return nil, clierr.New(clierr.InvalidInput, "provide exactly one of DATE, --next or --prev")
	}

	switch {
	case next:
		return func(d date.Date) date.Date { return d.AddDays(1) }, nil
	case prev:
		return func(d date.Date) date.Date { return d.AddDays(-1) }, nil
	}

	day, err := date.ParseRelative(args[1], now())
	if err != nil {
		return nil, task.ValidateDate("date", args[1], err)
	}
	return func(date.Date) date.Date { return day }, nil
}

func moveSingleTask(ctx context.Context, e *env, tasks []*task.Task, id task.ID, target moveTarget) error {
	t, from, err := executeMove(ctx, e, tasks, id, target)
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, moveResult{Task: t, Changed: !from.IsZero()})
	}
	loc := now().Location()
	if from.IsZero() {
		output.Messagef(os.Stdout, "To-do #%s is already on %s", t.ID, t.DueIn(loc).Format("Mon 02 Jan"))
		return nil
	}

	output.Messagef(os.Stdout, "Moved to-do #%s: %s -> %s", t.ID,
		from.Format("Mon 02 Jan"), t.DueIn(loc).Format("Mon 02 Jan"))
	return nil
}

// executeMove reschedules one to-do. When the to-do already sits on the
// target day nothing is written and the returned old date is the zero Date.
func executeMove(ctx context.Context, e *env, tasks []*task.Task, id task.ID, target moveTarget) (*task.Task, date.Date, error) {
	current, err := task.FindByID(tasks, id)
	if err != nil {
		return nil, date.Date{}, err
	}

	t := now()
	d := form.FromTask(current, t.Location())
	from := d.Date
	d.Date = target(from)
	if d.Date.Equal(from) {
		return current, date.Date{}, nil
	}

	saved, err := e.reconciler().Save(ctx, d, t)
	if err != nil {
		return nil, date.Date{}, err
	}
	return saved, from, nil
}
