package cmd

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/dayplan/internal/bucket"
	"github.com/twiced-technology-gmbh/dayplan/internal/output"
	"github.com/twiced-technology-gmbh/dayplan/internal/store"
	"github.com/twiced-technology-gmbh/dayplan/internal/task"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List to-dos by section",
	Long: `Lists to-dos split into Overdue, Today and Upcoming (grouped by day).
Use --view to pick one section.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show overdue and today's to-dos",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runView(cmd, bucket.ViewToday)
	},
}

var upcomingCmd = &cobra.Command{
	Use:   "upcoming",
	Short: "Show upcoming to-dos grouped by day",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runView(cmd, bucket.ViewUpcoming)
	},
}

func init() {
	listCmd.Flags().String("view", "all", "section to show ("+strings.Join(bucket.ValidViews(), ", ")+")")
	for _, c := range []*cobra.Command{listCmd, todayCmd, upcomingCmd} {
		c.Flags().StringP("search", "s", "", "search title and description (case-insensitive)")
		c.Flags().String("assignee", "", "filter by assignee")
		c.Flags().String("reminder", "", "filter by reminder")
		c.Flags().String("repeat", "", "filter by repeat")
		rootCmd.AddCommand(c)
	}
	upcomingCmd.Flags().Int("days", 0, "only show the next N days (0 = all)")
}

func runList(cmd *cobra.Command, _ []string) error {
	v, _ := cmd.Flags().GetString("view")
	view, err := bucket.ParseView(v)
	if err != nil {
		return err
	}
	return runView(cmd, view)
}

func runView(cmd *cobra.Command, view bucket.View) error {
	opts, err := filterOptions(cmd)
	if err != nil {
		return err
	}

	e, err := loadEnv()
	if err != nil {
		return err
	}

	tasks, err := e.store.List(context.Background())
	if err != nil {
		return store.AsCLI(err)
	}

	t := now()
	b := bucket.Bucketize(bucket.Filter(tasks, opts), t).Select(view)
	days := e.cfg.TUI.UpcomingDays
	if cmd.Flags().Lookup("days") != nil && cmd.Flags().Changed("days") {
		days, _ = cmd.Flags().GetInt("days")
	}
	if days > 0 {
		b = b.LimitUpcoming(t, days)
	}

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, b)
	case output.FormatCompact:
		output.BucketsCompact(os.Stdout, b, t.Location())
	default:
		output.BucketsTable(os.Stdout, b, view, t.Location())
	}
	return nil
}

func filterOptions(cmd *cobra.Command) (bucket.FilterOptions, error) {
	var opts bucket.FilterOptions
	opts.Search, _ = cmd.Flags().GetString("search")
	opts.Assignee, _ = cmd.Flags().GetString("assignee")
	if v, _ := cmd.Flags().GetString("reminder"); v != "" {
		r, err := task.ParseReminder(v)
		if err != nil {
			return opts, err
		}
		opts.Reminder = r
	}
	if v, _ := cmd.Flags().GetString("repeat"); v != "" {
		r, err := task.ParseRepeat(v)
		if err != nil {
			return opts, err
		}
		opts.Repeat = r
	}
	return opts, nil
}
