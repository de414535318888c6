package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/dayplan/internal/bucket"
	"github.com/twiced-technology-gmbh/dayplan/internal/task"
)

// TaskCompact renders a list of tasks in one-line-per-record compact format.
func TaskCompact(w io.Writer, tasks []*task.Task, loc *time.Location) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No to-dos found.")
		return
	}
	for _, t := range tasks {
		fmt.Fprintln(w, formatTaskLine(t, loc))
	}
}

// BucketsCompact renders buckets as "section: line" records.
func BucketsCompact(w io.Writer, b bucket.Buckets, loc *time.Location) {
	if b.Count() == 0 {
		fmt.Fprintln(os.Stderr, "No to-dos found.")
		return
	}
	for _, t := range b.Overdue {
		fmt.Fprintln(w, "overdue "+formatTaskLine(t, loc))
	}
	for _, t := range b.Today {
		fmt.Fprintln(w, "today "+formatTaskLine(t, loc))
	}
	for _, g := range b.Upcoming {
		for _, t := range g.Tasks {
			fmt.Fprintln(w, "upcoming "+formatTaskLine(t, loc))
		}
	}
}

// TaskDetailCompact renders a single task with detail in compact format.
func TaskDetailCompact(w io.Writer, t *task.Task, loc *time.Location) {
	fmt.Fprintln(w, formatTaskLine(t, loc))
	meta := "  status:" + t.Status
	if a := t.AssigneeName(); a != "" {
		meta += " assignee:" + a
	}
	fmt.Fprintln(w, meta)
	if t.Description != "" {
		for _, line := range strings.Split(t.Description, "\n") {
			fmt.Fprintln(w, "  "+line)
		}
	}
}

// formatTaskLine builds the one-line representation of a task.
func formatTaskLine(t *task.Task, loc *time.Location) string {
	due := "--"
	if t.HasDue() {
		due = t.DueIn(loc).Format(dateTimeLayout)
	}
	line := "#" + t.ID.String() + " " + due + " " + t.Title

	var tags []string
	if t.Reminder != "" && t.Reminder != task.ReminderNone {
		tags = append(tags, "reminder:"+string(t.Reminder))
	}
	if t.Repeat != "" && t.Repeat != task.RepeatNever {
		tags = append(tags, "repeat:"+string(t.Repeat))
	}
	if len(tags) > 0 {
		line += " (" + strings.Join(tags, ", ") + ")"
	}
	return line
}
