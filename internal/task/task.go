// Package task defines the remote to-do record and its enums.
package task

import (
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/dayplan/internal/date"
)

// Defaults applied to newly created tasks.
const (
	DefaultStatus = "new"
	DefaultActive = 1
)

// Task is a to-do record as stored by the remote collection.
type Task struct {
	ID          ID             `json:"id,omitempty"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Due         date.Timestamp `json:"dueDateTimestamp"`
	Reminder    Reminder       `json:"reminder"`
	Repeat      Repeat         `json:"repeat"`
	Status      string         `json:"status"`
	Active      int            `json:"active"`
	Assignee    *string        `json:"assignee"`
}

// HasTitle reports whether the title has any non-whitespace content.
func (t *Task) HasTitle() bool {
	return strings.TrimSpace(t.Title) != ""
}

// HasDue reports whether the due timestamp is defined.
func (t *Task) HasDue() bool {
	return !t.Due.IsZero()
}

// Valid reports whether the record can be shown in a view.
func (t *Task) Valid() bool {
	return t.HasTitle() && t.HasDue()
}

// DueIn returns the due instant in loc.
func (t *Task) DueIn(loc *time.Location) time.Time {
	return t.Due.In(loc)
}

// AssigneeName returns the assignee or "" when unset.
func (t *Task) AssigneeName() string {
	if t.Assignee == nil {
		return ""
	}
	return *t.Assignee
}

// NormalizeTitle folds a title for duplicate comparison.
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
