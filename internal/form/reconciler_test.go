package form

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/dayplan/internal/clierr"
	"github.com/twiced-technology-gmbh/dayplan/internal/date"
	"github.com/twiced-technology-gmbh/dayplan/internal/store"
	"github.com/twiced-technology-gmbh/dayplan/internal/task"
)

var now = time.Date(2026, 2, 7, 12, 0, 0, 0, time.Local)

type fakeStore struct {
	tasks   []*task.Task
	listErr error
	saveErr error

	lists, creates, updates int
	created                 *task.Task
	updatedID               task.ID
	updated                 *task.Task
}

func (f *fakeStore) List(context.Context) ([]*task.Task, error) {
	f.lists++
	return f.tasks, f.listErr
}

func (f *fakeStore) Create(_ context.Context, t *task.Task) (*task.Task, error) {
	f.creates++
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.created = t
	cp := *t
	cp.ID = "100"
	return &cp, nil
}

func (f *fakeStore) Update(_ context.Context, id task.ID, t *task.Task) (*task.Task, error) {
	f.updates++
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.updatedID, f.updated = id, t
	return t, nil
}

func (f *fakeStore) mutations() int { return f.creates + f.updates }

type recorder struct{ actions []string }

func (r *recorder) Record(action string, t *task.Task) {
	r.actions = append(r.actions, action+":"+t.ID.String())
}

func draftAt(title string, d date.Date, hh, mm int) Draft {
	return Draft{
		Title: title,
		Date:  d,
		Time:  date.TimeOfDay{Hour: hh, Minute: mm},
	}
}

var (
	today     = date.New(2026, 2, 7)
	yesterday = today.AddDays(-1)
	tomorrow  = today.AddDays(1)
)

func TestSaveCreate(t *testing.T) {
	fs := &fakeStore{}
	rec := &recorder{}
	r := New(fs, WithRecorder(rec), WithAssignee("Ana"))

	saved, err := r.Save(context.Background(), draftAt("  Gym ", tomorrow, 7, 30), now)
	require.NoError(t, err)
	assert.Equal(t, task.ID("100"), saved.ID)

	assert.Equal(t, 1, fs.lists)
	assert.Equal(t, 1, fs.creates)
	assert.Equal(t, 0, fs.updates)

	sent := fs.created
	assert.Equal(t, "Gym", sent.Title)
	assert.True(t, sent.ID.IsZero())
	assert.Equal(t, time.Date(2026, 2, 8, 7, 30, 0, 0, time.Local).UnixMilli(), sent.Due.Millis())
	assert.Equal(t, task.ReminderNone, sent.Reminder)
	assert.Equal(t, task.RepeatNever, sent.Repeat)
	assert.Equal(t, "new", sent.Status)
	assert.Equal(t, 1, sent.Active)
	assert.Equal(t, "Ana", sent.AssigneeName())

	assert.Equal(t, []string{"create:100"}, rec.actions)
}

func TestSaveEmptyTitle(t *testing.T) {
	for _, title := range []string{"", "  ", "\t\n"} {
		fs := &fakeStore{}
		d := draftAt(title, tomorrow, 9, 0)
		d.Time = date.TimeOfDay{Hour: 9, Minute: 15} // other fields invalid too
		d.Date = yesterday

		_, err := New(fs).Save(context.Background(), d, now)
		assert.True(t, clierr.HasCode(err, clierr.EmptyTitle), "title %q: %v", title, err)
		assert.Equal(t, 0, fs.lists+fs.mutations())

		d.ID = "5"
		_, err = New(fs).Save(context.Background(), d, now)
		assert.True(t, clierr.HasCode(err, clierr.EmptyTitle))
	}
}

func TestSavePastDueDate(t *testing.T) {
	fs := &fakeStore{tasks: []*task.Task{{ID: "5", Title: "Gym"}}}
	r := New(fs)

	d := draftAt("Gym", yesterday, 9, 0)
	_, err := r.Save(context.Background(), d, now)
	assert.True(t, clierr.HasCode(err, clierr.PastDueDate))
	assert.Equal(t, 0, fs.mutations())

	// earlier today is also in the past
	_, err = r.Save(context.Background(), draftAt("Run", today, 11, 30), now)
	assert.True(t, clierr.HasCode(err, clierr.PastDueDate))

	// same draft as an edit succeeds
	d.ID = "5"
	_, err = r.Save(context.Background(), d, now)
	require.NoError(t, err)
	assert.Equal(t, 1, fs.updates)
	assert.Equal(t, task.ID("5"), fs.updatedID)
	assert.Equal(t, 0, fs.lists, "edits do not list")
}

func TestSaveExactlyNowIsAllowed(t *testing.T) {
	fs := &fakeStore{}
	_, err := New(fs).Save(context.Background(), draftAt("Now", today, 12, 0), now)
	require.NoError(t, err)
	assert.Equal(t, 1, fs.creates)
}

func TestSaveDuplicateTitle(t *testing.T) {
	fs := &fakeStore{tasks: []*task.Task{{ID: "1", Title: "Gym"}, {ID: "2", Title: "Read"}}}
	r := New(fs)

	for _, title := range []string{"gym", "  GYM  ", "Gym"} {
		_, err := r.Save(context.Background(), draftAt(title, tomorrow, 9, 0), now)
		assert.True(t, clierr.HasCode(err, clierr.DuplicateTitle), title)
	}
	assert.Equal(t, 0, fs.mutations())

	// an update may take another task's title
	d := draftAt("Gym", tomorrow, 9, 0)
	d.ID = "2"
	_, err := r.Save(context.Background(), d, now)
	require.NoError(t, err)
	assert.Equal(t, 1, fs.updates)
}

func TestSaveInvalidSelections(t *testing.T) {
	fs := &fakeStore{}
	r := New(fs)

	_, err := r.Save(context.Background(), draftAt("x", tomorrow, 9, 15), now)
	assert.True(t, clierr.HasCode(err, clierr.InvalidTime))

	_, err = r.Save(context.Background(), draftAt("x", tomorrow, 24, 0), now)
	assert.True(t, clierr.HasCode(err, clierr.InvalidTime))

	d := draftAt("x", tomorrow, 9, 0)
	d.Reminder = "2min"
	_, err = r.Save(context.Background(), d, now)
	assert.True(t, clierr.HasCode(err, clierr.InvalidReminder))

	d = draftAt("x", tomorrow, 9, 0)
	d.Repeat = "yearly"
	_, err = r.Save(context.Background(), d, now)
	assert.True(t, clierr.HasCode(err, clierr.InvalidRepeat))

	assert.Equal(t, 0, fs.lists+fs.mutations())
}

func TestSaveStoreFailure(t *testing.T) {
	cause := &store.Error{Op: store.OpCreate, Status: 500}
	fs := &fakeStore{saveErr: cause}
	rec := &recorder{}

	_, err := New(fs, WithRecorder(rec)).Save(context.Background(), draftAt("x", tomorrow, 9, 0), now)
	require.Error(t, err)
	assert.True(t, clierr.HasCode(err, clierr.SaveFailed))
	assert.Equal(t, "Failed to create todo. Please try again.", err.Error())

	var se *store.Error
	assert.True(t, errors.As(err, &se))
	assert.Equal(t, 1, fs.creates, "no retry")
	assert.Empty(t, rec.actions)

	fs = &fakeStore{listErr: errors.New("offline")}
	_, err = New(fs).Save(context.Background(), draftAt("x", tomorrow, 9, 0), now)
	assert.True(t, clierr.HasCode(err, clierr.SaveFailed))
	assert.Equal(t, 0, fs.mutations())
}

func TestSaveEditKeepsStoredFields(t *testing.T) {
	owner := "Bo"
	stored := &task.Task{
		ID:       "9",
		Title:    "Dentist",
		Due:      date.FromTime(time.Date(2026, 2, 3, 10, 30, 0, 0, time.Local)),
		Reminder: task.Reminder1Day,
		Repeat:   task.RepeatMonthly,
		Status:   "doing",
		Active:   0,
		Assignee: &owner,
	}
	fs := &fakeStore{}
	d := FromTask(stored, time.Local)
	d.Description = "bring card"

	_, err := New(fs, WithAssignee("Ana")).Save(context.Background(), d, now)
	require.NoError(t, err)

	got := fs.updated
	assert.Equal(t, task.ID("9"), got.ID)
	assert.Equal(t, "bring card", got.Description)
	assert.Equal(t, stored.Due.Millis(), got.Due.Millis())
	assert.Equal(t, "doing", got.Status)
	assert.Equal(t, 0, got.Active)
	assert.Equal(t, "Bo", got.AssigneeName())
	assert.Equal(t, task.Reminder1Day, got.Reminder)
}

func TestSaveEditOffGridDue(t *testing.T) {
	stored := &task.Task{
		ID:    "9",
		Title: "Standup",
		Due:   date.FromTime(time.Date(2026, 2, 9, 10, 15, 0, 0, time.Local)),
	}

	fs := &fakeStore{}
	d := FromTask(stored, time.Local)
	assert.Equal(t, "10:00", d.Time.String())
	d.Description = "agenda"
	_, err := New(fs).Save(context.Background(), d, now)
	require.NoError(t, err)
	assert.Equal(t, stored.Due.Millis(), fs.updated.Due.Millis(), "untouched schedule keeps 10:15")

	d = FromTask(stored, time.Local)
	d.Date = d.Date.AddDays(1)
	_, err = New(fs).Save(context.Background(), d, now)
	require.NoError(t, err)
	want := time.Date(2026, 2, 10, 10, 0, 0, 0, time.Local)
	assert.Equal(t, want.UnixMilli(), fs.updated.Due.Millis(), "a new date snaps to the slot")
}

func TestValidatePure(t *testing.T) {
	existing := []*task.Task{{ID: "1", Title: "Gym"}}

	due, err := Validate(draftAt("Swim", tomorrow, 18, 30), existing, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 8, 18, 30, 0, 0, time.Local), due)

	_, err = Validate(draftAt("gym", tomorrow, 18, 30), existing, now)
	assert.True(t, clierr.HasCode(err, clierr.DuplicateTitle))

	// past check precedes duplicate check
	_, err = Validate(draftAt("gym", yesterday, 18, 30), existing, now)
	assert.True(t, clierr.HasCode(err, clierr.PastDueDate))
}

func TestNewDraft(t *testing.T) {
	d := NewDraft(time.Date(2026, 2, 7, 12, 10, 0, 0, time.Local))
	assert.True(t, today.Equal(d.Date))
	assert.Equal(t, "12:30", d.Time.String())
	assert.Equal(t, task.ReminderNone, d.Reminder)
	assert.Equal(t, task.RepeatNever, d.Repeat)
	assert.False(t, d.IsEdit())

	late := NewDraft(time.Date(2026, 2, 7, 23, 50, 0, 0, time.Local))
	assert.True(t, tomorrow.Equal(late.Date))
	assert.Equal(t, "00:00", late.Time.String())
}

func TestNewDraftWith(t *testing.T) {
	nine := date.TimeOfDay{Hour: 9}
	defs := Defaults{Reminder: task.Reminder1Hour, Repeat: task.RepeatDaily, Time: &nine}

	early := NewDraftWith(time.Date(2026, 2, 7, 8, 0, 0, 0, time.Local), defs)
	assert.True(t, today.Equal(early.Date))
	assert.Equal(t, "09:00", early.Time.String())
	assert.Equal(t, task.Reminder1Hour, early.Reminder)
	assert.Equal(t, task.RepeatDaily, early.Repeat)

	passed := NewDraftWith(now, defs)
	assert.True(t, tomorrow.Equal(passed.Date), "09:00 already passed at noon")

	plain := NewDraftWith(now, Defaults{})
	assert.Equal(t, NewDraft(now), plain)
}
