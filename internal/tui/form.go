package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/twiced-technology-gmbh/dayplan/internal/clierr"
	"github.com/twiced-technology-gmbh/dayplan/internal/date"
	"github.com/twiced-technology-gmbh/dayplan/internal/form"
	"github.com/twiced-technology-gmbh/dayplan/internal/task"
)

type field int

const (
	fieldTitle field = iota
	fieldDescription
	fieldDate
	fieldTime
	fieldReminder
	fieldRepeat
	fieldCount
)

var fieldLabels = [fieldCount]string{"Title", "Description", "Date", "Time", "Reminder", "Repeat"}

func (f field) isText() bool { return f == fieldTitle || f == fieldDescription }

type formAction int

const (
	formNone formAction = iota
	formSubmit
	formCancel
)

const (
	minInputWidth = 20
	maxInputWidth = 60
	formChrome    = 20 // dialog border, padding and label column
)

// taskForm edits one draft. Date, time, reminder and repeat are pickers
// stepped with the arrow keys; the time picker walks the half-hour grid.
type taskForm struct {
	base     form.Draft // id and pass-through fields
	title    textinput.Model
	desc     textinput.Model
	date     date.Date
	time     date.TimeOfDay
	reminder task.Reminder
	repeat   task.Repeat
	focus    field
	message  string // inline validation or save error
}

func newTaskForm(d form.Draft, width int) *taskForm {
	title := textinput.New()
	title.Placeholder = "What needs doing?"
	title.CharLimit = 200
	title.SetValue(d.Title)

	desc := textinput.New()
	desc.Placeholder = "Details (optional, markdown)"
	desc.CharLimit = 2000
	desc.SetValue(d.Description)

	f := &taskForm{
		base:     d,
		title:    title,
		desc:     desc,
		date:     d.Date,
		time:     d.Time,
		reminder: d.Reminder,
		repeat:   d.Repeat,
	}
	f.resize(width)
	f.setFocus(fieldTitle)
	return f
}

func (f *taskForm) resize(width int) {
	w := min(max(width-formChrome, minInputWidth), maxInputWidth)
	f.title.Width = w
	f.desc.Width = w
}

// draft returns the form contents as a reconciler draft.
func (f *taskForm) draft() form.Draft {
	d := f.base
	d.Title = f.title.Value()
	d.Description = f.desc.Value()
	d.Date = f.date
	d.Time = f.time
	d.Reminder = f.reminder
	d.Repeat = f.repeat
	return d
}

func (f *taskForm) update(msg tea.KeyMsg) (formAction, tea.Cmd) {
	switch msg.String() {
	case keyEsc:
		return formCancel, nil
	case "enter", "ctrl+s":
		return formSubmit, nil
	case "tab", "down":
		f.setFocus(f.focus + 1)
		return formNone, nil
	case "shift+tab", "up":
		f.setFocus(f.focus - 1)
		return formNone, nil
	}

	if !f.focus.isText() {
		switch msg.String() {
		case "left", "h", "-":
			f.step(-1)
		case "right", "l", "+", " ":
			f.step(1)
		}
		return formNone, nil
	}

	var cmd tea.Cmd
	if f.focus == fieldTitle {
		f.title, cmd = f.title.Update(msg)
	} else {
		f.desc, cmd = f.desc.Update(msg)
	}
	return formNone, cmd
}

// step moves the focused picker by n positions.
func (f *taskForm) step(n int) {
	switch f.focus {
	case fieldDate:
		f.date = f.date.AddDays(n)
	case fieldTime:
		for ; n > 0; n-- {
			f.time = f.time.Next()
		}
		for ; n < 0; n++ {
			f.time = f.time.Prev()
		}
	case fieldReminder:
		f.reminder = task.CycleReminder(f.reminder, n)
	case fieldRepeat:
		f.repeat = task.CycleRepeat(f.repeat, n)
	}
}

func (f *taskForm) setFocus(i field) {
	f.focus = (i%fieldCount + fieldCount) % fieldCount
	f.title.Blur()
	f.desc.Blur()
	switch f.focus {
	case fieldTitle:
		f.title.Focus()
	case fieldDescription:
		f.desc.Focus()
	}
}

// setError shows err inline and focuses the field it concerns.
func (f *taskForm) setError(err error) {
	f.message = err.Error()
	switch clierr.CodeOf(err) {
	case clierr.EmptyTitle, clierr.DuplicateTitle:
		f.setFocus(fieldTitle)
	case clierr.PastDueDate:
		f.setFocus(fieldDate)
	case clierr.InvalidTime:
		f.setFocus(fieldTime)
	case clierr.InvalidReminder:
		f.setFocus(fieldReminder)
	case clierr.InvalidRepeat:
		f.setFocus(fieldRepeat)
	}
}

func (f *taskForm) view(saving bool, spin string) string {
	heading := "New To-Do"
	if f.base.IsEdit() {
		heading = fmt.Sprintf("Edit To-Do #%s", f.base.ID)
	}

	var b strings.Builder
	b.WriteString(headlineStyle.Render(heading))
	b.WriteString("\n\n")

	for i := range fieldCount {
		label := fmt.Sprintf("%-12s", fieldLabels[i])
		if i == f.focus {
			label = focusedFieldStyle.Render("› " + label)
		} else {
			label = "  " + label
		}
		b.WriteString(label + " " + f.value(i) + "\n")
	}

	if f.message != "" {
		b.WriteString("\n" + errorStyle.Render(f.message) + "\n")
	}
	b.WriteString("\n")
	if saving {
		b.WriteString(spin + " Saving...")
	} else {
		b.WriteString(dimStyle.Render("tab:next  ←/→:change  enter:save  esc:cancel"))
	}
	return dialogStyle.Render(b.String())
}

func (f *taskForm) value(i field) string {
	picker := func(s string) string {
		if i == f.focus {
			return "‹ " + s + " ›"
		}
		return s
	}
	switch i {
	case fieldTitle:
		return f.title.View()
	case fieldDescription:
		return f.desc.View()
	case fieldDate:
		return picker(f.date.Format("Mon 02 Jan 2006"))
	case fieldTime:
		return picker(f.time.String())
	case fieldReminder:
		return picker(f.reminder.Label())
	case fieldRepeat:
		return picker(f.repeat.Label())
	}
	return ""
}
