package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/dayplan/internal/bucket"
	"github.com/twiced-technology-gmbh/dayplan/internal/task"
)

const (
	dateTimeLayout = "2006-01-02 15:04"
	timeLayout     = "15:04"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	titleStyle  = lipgloss.NewStyle().Bold(true)

	// Bucket colors aligned with the TUI section headers.
	bucketStyles = map[bucket.Bucket]lipgloss.Style{
		bucket.Overdue:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		bucket.Today:    lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
		bucket.Upcoming: lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
	}

	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
)

// DisableColor strips all styling from table output.
func DisableColor() {
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	titleStyle = lipgloss.NewStyle()
	bucketStyles = map[bucket.Bucket]lipgloss.Style{}
	labelStyle = lipgloss.NewStyle()
}

// TaskTable renders a list of tasks as a formatted table, due times in loc.
func TaskTable(w io.Writer, tasks []*task.Task, loc *time.Location) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No to-dos found.")
		return
	}

	const pad = 2
	idW, titleW, dueW, remW := 4, 7, 18, 10
	for _, t := range tasks {
		idW = max(idW, len(t.ID.String())+pad)
		titleW = max(titleW, min(len(t.Title)+pad, 50)) //nolint:mnd // max title column width
		remW = max(remW, len(string(t.Reminder))+pad)
	}

	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %s",
		idW, "ID", titleW, "TITLE", dueW, "DUE", remW, "REMINDER", "REPEAT")
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " ")))

	for _, t := range tasks {
		row := fmt.Sprintf("%-*s %s %s %s %s",
			idW, t.ID,
			padRight(truncate(t.Title, titleW-pad), titleW),
			padRight(dueDisplay(t, loc, dateTimeLayout), dueW),
			padRight(labelOrDash(string(t.Reminder), string(task.ReminderNone)), remW),
			labelOrDash(string(t.Repeat), string(task.RepeatNever)))
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// BucketsTable renders the Today/Overdue/Upcoming sections with their
// headline counts. Empty sections are omitted; an empty result prints a
// friendly line to stderr.
func BucketsTable(w io.Writer, b bucket.Buckets, v bucket.View, loc *time.Location) {
	if b.Count() == 0 {
		fmt.Fprintln(os.Stderr, "No to-dos. Enjoy your day!")
		return
	}

	if v == bucket.ViewToday || v == bucket.ViewOverdue || v == bucket.ViewAll {
		fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Today — %d To-Dos", b.TodayCount())))
	}
	sections := 0
	section := func(name string, bk bucket.Bucket, tasks []*task.Task, layout string) {
		if len(tasks) == 0 {
			return
		}
		if sections > 0 {
			fmt.Fprintln(w)
		}
		sections++
		fmt.Fprintln(w, styledBucket(bk, fmt.Sprintf("%s (%d)", name, len(tasks))))
		for _, t := range tasks {
			fmt.Fprintln(w, taskRow(t, loc, layout))
		}
	}

	section("Overdue", bucket.Overdue, b.Overdue, dateTimeLayout)
	section("Today", bucket.Today, b.Today, timeLayout)

	if len(b.Upcoming) > 0 {
		if sections > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Upcoming — %d To-Dos", b.UpcomingCount())))
		for _, g := range b.Upcoming {
			section(g.Key, bucket.Upcoming, g.Tasks, timeLayout)
		}
	}
}

// TaskDetail renders a single task with full detail. The description is
// passed in already rendered so callers can choose markdown or plain text.
func TaskDetail(w io.Writer, t *task.Task, loc *time.Location, now time.Time, description string) {
	titleLine := fmt.Sprintf("To-Do #%s: %s", t.ID, t.Title)
	fmt.Fprintln(w, titleStyle.Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", lipgloss.Width(titleLine)))

	printField(w, "Due", dueDisplay(t, loc, "Mon 02 Jan 2006 15:04"))
	bk := bucket.Classify(t, now)
	printField(w, "Section", styledBucket(bk, bk.String()))
	printField(w, "Reminder", t.Reminder.Label())
	printField(w, "Repeat", t.Repeat.Label())
	printField(w, "Status", stringOrDash(t.Status))
	printField(w, "Assignee", stringOrDash(t.AssigneeName()))

	if strings.TrimSpace(description) != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, strings.TrimRight(description, "\n"))
	}
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format+"\n", args...)
}

func taskRow(t *task.Task, loc *time.Location, layout string) string {
	row := "  " + padRight(dueDisplay(t, loc, layout), len(layout)+1) + " " +
		dimStyle.Render("#"+t.ID.String()) + " " + t.Title
	var labels []string
	if t.Reminder != "" && t.Reminder != task.ReminderNone {
		labels = append(labels, "⏰ "+t.Reminder.Label())
	}
	if t.Repeat != "" && t.Repeat != task.RepeatNever {
		labels = append(labels, "↻ "+t.Repeat.Label())
	}
	if len(labels) > 0 {
		row += "  " + labelStyle.Render(strings.Join(labels, "  "))
	}
	return row
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
}

func dueDisplay(t *task.Task, loc *time.Location, layout string) string {
	if !t.HasDue() {
		return dimStyle.Render("--")
	}
	return t.DueIn(loc).Format(layout)
}

// padRight pads s with spaces to the given visible width, accounting for ANSI
// escape codes that are invisible but consume bytes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n || n < 4 { //nolint:mnd // room for the ellipsis
		return s
	}
	return string(r[:n-3]) + "..."
}

func stringOrDash(s string) string {
	if s == "" {
		return dimStyle.Render("--")
	}
	return s
}

func labelOrDash(s, none string) string {
	if s == "" || s == none {
		return dimStyle.Render("--")
	}
	return s
}

func styledBucket(b bucket.Bucket, s string) string {
	if st, ok := bucketStyles[b]; ok {
		return st.Render(s)
	}
	return s
}
