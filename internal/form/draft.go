// Package form reconciles task drafts against the store: it validates the
// draft, decides between create and update, and performs the single
// mutating call.
package form

import (
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/dayplan/internal/date"
	"github.com/twiced-technology-gmbh/dayplan/internal/task"
)

// Draft is the editable form state. A zero ID means create.
type Draft struct {
	ID          task.ID
	Title       string
	Description string
	Date        date.Date
	Time        date.TimeOfDay
	Reminder    task.Reminder
	Repeat      task.Repeat

	// Carried through unchanged on edit.
	Status   string
	Active   int
	Assignee *string

	// stored due instant of an edited task; kept while Date and Time still
	// show its slot
	orig time.Time
}

// NewDraft seeds a create form: today, the next half-hour slot, no reminder,
// no repeat.
func NewDraft(now time.Time) Draft {
	d, tod := date.NextSlot(now)
	return Draft{
		Date:     d,
		Time:     tod,
		Reminder: task.ReminderNone,
		Repeat:   task.RepeatNever,
		Status:   task.DefaultStatus,
		Active:   task.DefaultActive,
	}
}

// FromTask prefills an edit form. Due times off the half-hour grid show as
// the containing slot; the exact instant is saved back unless the date or
// time selection changes.
func FromTask(t *task.Task, loc *time.Location) Draft {
	due := t.DueIn(loc)
	return Draft{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Date:        date.Of(due),
		Time:        date.SlotOf(due),
		Reminder:    t.Reminder,
		Repeat:      t.Repeat,
		Status:      t.Status,
		Active:      t.Active,
		Assignee:    t.Assignee,
		orig:        due,
	}
}

// IsEdit reports whether the draft targets an existing task.
func (d Draft) IsEdit() bool { return !d.ID.IsZero() }

// Due combines the date and time selection in loc.
func (d Draft) Due(loc *time.Location) time.Time {
	if !d.orig.IsZero() {
		o := d.orig.In(loc)
		if d.Date.Equal(date.Of(o)) && d.Time == date.SlotOf(o) {
			return o
		}
	}
	return date.Combine(d.Date, d.Time, loc)
}

// task builds the record sent to the store.
func (d Draft) task(due time.Time) *task.Task {
	t := &task.Task{
		ID:          d.ID,
		Title:       strings.TrimSpace(d.Title),
		Description: d.Description,
		Due:         date.FromTime(due),
		Reminder:    d.Reminder,
		Repeat:      d.Repeat,
		Status:      d.Status,
		Active:      d.Active,
		Assignee:    d.Assignee,
	}
	if t.Reminder == "" {
		t.Reminder = task.ReminderNone
	}
	if t.Repeat == "" {
		t.Repeat = task.RepeatNever
	}
	if t.Status == "" {
		t.Status = task.DefaultStatus
	}
	if !d.IsEdit() && t.Active == 0 {
		t.Active = task.DefaultActive
	}
	return t
}

// Defaults preselects values in new drafts.
type Defaults struct {
	Reminder task.Reminder
	Repeat   task.Repeat
	Time     *date.TimeOfDay // nil picks the next half-hour slot
}

// NewDraftWith seeds a create form like NewDraft and applies defs. A default
// time that has already passed today moves the draft to tomorrow.
func NewDraftWith(now time.Time, defs Defaults) Draft {
	d := NewDraft(now)
	if defs.Time != nil {
		d.Date, d.Time = date.Of(now), *defs.Time
		if d.Due(now.Location()).Before(now) {
			d.Date = d.Date.AddDays(1)
		}
	}
	if defs.Reminder != "" {
		d.Reminder = defs.Reminder
	}
	if defs.Repeat != "" {
		d.Repeat = defs.Repeat
	}
	return d
}
