package task

import (
	"strings"

	"github.com/twiced-technology-gmbh/dayplan/internal/clierr"
)

// ParseReminder checks that s is a known reminder value.
func ParseReminder(s string) (Reminder, error) {
	r := Reminder(strings.ToLower(strings.TrimSpace(s)))
	if r == "" {
		return ReminderNone, nil
	}
	if !r.Valid() {
		return "", ValidateReminder(r)
	}
	return r, nil
}

// ParseRepeat checks that s is a known repeat value.
func ParseRepeat(s string) (Repeat, error) {
	r := Repeat(strings.ToLower(strings.TrimSpace(s)))
	if r == "" {
		return RepeatNever, nil
	}
	if !r.Valid() {
		return "", ValidateRepeat(r)
	}
	return r, nil
}

// ValidateReminder returns a CLIError for an unknown reminder value.
func ValidateReminder(r Reminder) *clierr.Error {
	return clierr.Newf(clierr.InvalidReminder, "invalid reminder %q", string(r)).
		WithDetails(map[string]any{
			"reminder": string(r),
			"allowed":  Reminders,
		})
}

// ValidateRepeat returns a CLIError for an unknown repeat value.
func ValidateRepeat(r Repeat) *clierr.Error {
	return clierr.Newf(clierr.InvalidRepeat, "invalid repeat %q", string(r)).
		WithDetails(map[string]any{
			"repeat":  string(r),
			"allowed": Repeats,
		})
}

// ValidateDate returns a CLIError for invalid date input.
func ValidateDate(field, input string, err error) *clierr.Error {
	return clierr.Newf(clierr.InvalidDate, "invalid %s date: %v", field, err).
		WithDetails(map[string]any{
			"field": field,
			"input": input,
		})
}

// ValidateTime returns a CLIError for a time outside the half-hour grid.
func ValidateTime(input string, err error) *clierr.Error {
	return clierr.Newf(clierr.InvalidTime, "%v", err).
		WithDetails(map[string]any{"input": input})
}

// ValidateTaskID returns a CLIError for invalid task ID input.
func ValidateTaskID(input string) *clierr.Error {
	return clierr.Newf(clierr.InvalidTaskID, "invalid task ID %q", input).
		WithDetails(map[string]any{"input": input})
}

// NotFound returns a CLIError for an id missing from the store.
func NotFound(id ID) *clierr.Error {
	return clierr.Newf(clierr.TaskNotFound, "task %s not found", id).
		WithDetails(map[string]any{"id": string(id)})
}

// FindByID returns the task with the given id from a listed set.
func FindByID(tasks []*Task, id ID) (*Task, error) {
	for _, t := range tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, NotFound(id)
}

// ParseIDs splits a comma-separated id argument, dropping blanks.
func ParseIDs(arg string) ([]ID, error) {
	var ids []ID
	for _, part := range strings.Split(arg, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.ContainsAny(part, "/?# ") {
			return nil, ValidateTaskID(part)
		}
		ids = append(ids, ID(part))
	}
	if len(ids) == 0 {
		return nil, ValidateTaskID(arg)
	}
	return ids, nil
}
