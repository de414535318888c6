package cmd

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/twiced-technology-gmbh/dayplan/internal/clierr"
	"github.com/twiced-technology-gmbh/dayplan/internal/date"
	"github.com/twiced-technology-gmbh/dayplan/internal/form"
	"github.com/twiced-technology-gmbh/dayplan/internal/output"
	"github.com/twiced-technology-gmbh/dayplan/internal/task"
)

var createCmd = &cobra.Command{
	Use:     "add [TITLE]",
	Aliases: []string{"create"},
	Short:   "Create a new to-do",
	Long: `Creates a to-do in the remote collection.

Title can be provided as a positional argument or via --title flag.
Without --date/--time the to-do is due at the next half-hour slot.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().String("title", "", "to-do title (alternative to positional argument)")
	addTaskFlags(createCmd)
	rootCmd.AddCommand(createCmd)
}

// addTaskFlags registers the form fields shared by add and edit.
func addTaskFlags(c *cobra.Command) {
	c.Flags().String("description", "", "description (markdown)")
	c.Flags().String("date", "", "due date (YYYY-MM-DD, today, tomorrow)")
	c.Flags().String("time", "", "due time on the half-hour grid (HH:MM)")
	c.Flags().String("reminder", "", "reminder ("+joinValues(task.Reminders)+")")
	c.Flags().String("repeat", "", "repeat ("+joinValues(task.Repeats)+")")
	c.Flags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		switch name {
		case "body", "desc":
			name = "description"
		case "due":
			name = "date"
		}
		return pflag.NormalizedName(name)
	})
}

func runCreate(cmd *cobra.Command, args []string) error {
	title, err := resolveCreateTitle(cmd, args)
	if err != nil {
		return err
	}

	e, err := loadEnv()
	if err != nil {
		return err
	}

	t := now()
	d := form.NewDraftWith(t, e.cfg.FormDefaults())
	d.Title = title
	if _, err := applyTaskFlags(cmd, &d, t); err != nil {
		return err
	}

	saved, err := e.reconciler().Save(context.Background(), d, t)
	if err != nil {
		return err
	}
	return outputSaveResult("Created", saved)
}

// resolveCreateTitle returns the to-do title from either the positional arg or --title flag.
func resolveCreateTitle(cmd *cobra.Command, args []string) (string, error) {
	flagTitle, _ := cmd.Flags().GetString("title")
	hasPositional := len(args) > 0
	hasFlag := flagTitle != ""

	switch {
	case hasPositional && hasFlag:
		return "", clierr.New(clierr.InvalidInput,
			"title provided both as argument and --title flag; use one or the other")
	case hasPositional:
		return args[0], nil
	default:
		// An empty title is rejected by the form with its own message.
		return flagTitle, nil
	}
}

// applyTaskFlags copies every explicitly set form flag onto d and reports
// whether anything was set.
func applyTaskFlags(cmd *cobra.Command, d *form.Draft, t time.Time) (bool, error) {
	flags := cmd.Flags()
	changed := false

	if flags.Changed("title") {
		d.Title, _ = flags.GetString("title")
		changed = true
	}
	if flags.Changed("description") {
		d.Description, _ = flags.GetString("description")
		changed = true
	}
	if flags.Changed("date") {
		v, _ := flags.GetString("date")
		dd, err := date.ParseRelative(v, t)
		if err != nil {
			return false, task.ValidateDate("due", v, err)
		}
		d.Date = dd
		changed = true
	}
	if flags.Changed("time") {
		v, _ := flags.GetString("time")
		tod, err := date.ParseTimeOfDay(v)
		if err != nil {
			return false, task.ValidateTime(v, err)
		}
		d.Time = tod
		changed = true
	}
	if flags.Changed("reminder") {
		v, _ := flags.GetString("reminder")
		r, err := task.ParseReminder(v)
		if err != nil {
			return false, err
		}
		d.Reminder = r
		changed = true
	}
	if flags.Changed("repeat") {
		v, _ := flags.GetString("repeat")
		r, err := task.ParseRepeat(v)
		if err != nil {
			return false, err
		}
		d.Repeat = r
		changed = true
	}
	return changed, nil
}

func outputSaveResult(verb string, t *task.Task) error {
	loc := now().Location()
	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, t)
	case output.FormatCompact:
		output.TaskDetailCompact(os.Stdout, t, loc)
		return nil
	}

	output.Messagef(os.Stdout, "%s to-do #%s: %s", verb, t.ID, t.Title)
	output.Messagef(os.Stdout, "  Due: %s", t.DueIn(loc).Format("Mon 02 Jan 2006 15:04"))
	if t.Reminder != "" && t.Reminder != task.ReminderNone {
		output.Messagef(os.Stdout, "  Reminder: %s", t.Reminder.Label())
	}
	if t.Repeat != "" && t.Repeat != task.RepeatNever {
		output.Messagef(os.Stdout, "  Repeat: %s", t.Repeat.Label())
	}
	return nil
}

func joinValues[T ~string](vals []T) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
