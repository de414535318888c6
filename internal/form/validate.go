package form

import (
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/dayplan/internal/clierr"
	"github.com/twiced-technology-gmbh/dayplan/internal/task"
)

// Validate runs every check against an already-fetched task list and
// returns the effective due instant. The first failing check wins.
func Validate(d Draft, existing []*task.Task, now time.Time) (time.Time, error) {
	due, err := validateLocal(d, now)
	if err != nil {
		return time.Time{}, err
	}
	if !d.IsEdit() {
		if err := checkDuplicate(d.Title, existing); err != nil {
			return time.Time{}, err
		}
	}
	return due, nil
}

// validateLocal holds the checks that need no store access.
func validateLocal(d Draft, now time.Time) (time.Time, error) {
	if strings.TrimSpace(d.Title) == "" {
		return time.Time{}, clierr.New(clierr.EmptyTitle, "Please enter a title for the todo")
	}

	if !d.Time.Valid() {
		return time.Time{}, clierr.Newf(clierr.InvalidTime,
			"invalid time %s: pick a half-hour slot", d.Time).
			WithDetails(map[string]any{"hour": d.Time.Hour, "minute": d.Time.Minute})
	}
	if !d.Reminder.Valid() {
		return time.Time{}, task.ValidateReminder(d.Reminder)
	}
	if !d.Repeat.Valid() {
		return time.Time{}, task.ValidateRepeat(d.Repeat)
	}

	due := d.Due(now.Location())
	if !d.IsEdit() && due.Before(now) {
		return time.Time{}, clierr.New(clierr.PastDueDate, "Cannot create todos in the past").
			WithDetails(map[string]any{
				"due": due.Format(time.RFC3339),
				"now": now.Format(time.RFC3339),
			})
	}
	return due, nil
}

func checkDuplicate(title string, existing []*task.Task) error {
	want := task.NormalizeTitle(title)
	for _, t := range existing {
		if task.NormalizeTitle(t.Title) == want {
			return clierr.Newf(clierr.DuplicateTitle,
				"A todo titled %q already exists", strings.TrimSpace(t.Title)).
				WithDetails(map[string]any{"id": t.ID.String(), "title": t.Title})
		}
	}
	return nil
}
