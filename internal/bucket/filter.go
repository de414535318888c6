package bucket

import (
	"strings"

	"github.com/twiced-technology-gmbh/dayplan/internal/task"
)

// FilterOptions defines which tasks to include before bucketing.
type FilterOptions struct {
	Search   string // case-insensitive substring match across title and description
	Assignee string
	Reminder task.Reminder
	Repeat   task.Repeat
}

// Filter returns tasks matching all specified criteria (AND logic).
func Filter(tasks []*task.Task, opts FilterOptions) []*task.Task {
	if opts == (FilterOptions{}) {
		return tasks
	}
	var result []*task.Task
	for _, t := range tasks {
		if matchesFilter(t, opts) {
			result = append(result, t)
		}
	}
	return result
}

func matchesFilter(t *task.Task, opts FilterOptions) bool {
	if opts.Assignee != "" && t.AssigneeName() != opts.Assignee {
		return false
	}
	if opts.Reminder != "" && t.Reminder != opts.Reminder {
		return false
	}
	if opts.Repeat != "" && t.Repeat != opts.Repeat {
		return false
	}
	if opts.Search != "" {
		q := strings.ToLower(opts.Search)
		if !strings.Contains(strings.ToLower(t.Title), q) &&
			!strings.Contains(strings.ToLower(t.Description), q) {
			return false
		}
	}
	return true
}
