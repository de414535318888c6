package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/dayplan/internal/clierr"
	"github.com/twiced-technology-gmbh/dayplan/internal/config"
	"github.com/twiced-technology-gmbh/dayplan/internal/date"
	"github.com/twiced-technology-gmbh/dayplan/internal/session"
	"github.com/twiced-technology-gmbh/dayplan/internal/task"
)

var now = time.Date(2026, 2, 7, 12, 0, 0, 0, time.Local)

type fakeStore struct {
	lists   [][]*task.Task // successive List results; the last one repeats
	listErr error
	calls   int

	created []*task.Task
	deleted []task.ID
	delErr  error
}

func (f *fakeStore) List(context.Context) ([]*task.Task, error) {
	f.calls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	if len(f.lists) == 0 {
		return nil, nil
	}
	i := min(f.calls, len(f.lists)) - 1
	return f.lists[i], nil
}

func (f *fakeStore) Create(_ context.Context, t *task.Task) (*task.Task, error) {
	f.created = append(f.created, t)
	cp := *t
	cp.ID = "42"
	return &cp, nil
}

func (f *fakeStore) Update(_ context.Context, _ task.ID, t *task.Task) (*task.Task, error) {
	return t, nil
}

func (f *fakeStore) Delete(_ context.Context, id task.ID) error {
	if f.delErr != nil {
		return f.delErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeAccessor struct{ user *session.User }

func (f *fakeAccessor) Current() (*session.User, error) {
	if f.user == nil {
		return nil, clierr.New(clierr.NotLoggedIn, "not logged in")
	}
	return f.user, nil
}

func at(id, title string, d time.Duration) *task.Task {
	return &task.Task{ID: task.ID(id), Title: title, Due: date.FromTime(now.Add(d))}
}

func newTestApp(t *testing.T, st *fakeStore) (*App, *fakeAccessor) {
	t.Helper()
	cfg := config.NewDefault()
	cfg.SetDir(t.TempDir())
	cfg.RefreshInterval = "0"
	acc := &fakeAccessor{user: &session.User{ID: "u1", Name: "Ada"}}
	a := New(cfg, st, acc)
	a.SetNow(func() time.Time { return now })
	a.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return a, acc
}

// run executes cmd and feeds its message back into the app, returning the
// follow-up command.
func run(t *testing.T, a *App, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	require.NotNil(t, cmd)
	_, next := a.Update(cmd())
	return next
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(a *App, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = a.Update(keyMsg(k))
	}
	return cmd
}

func TestLoadBucketsTasks(t *testing.T) {
	st := &fakeStore{lists: [][]*task.Task{{
		at("1", "Pay rent", -30*time.Hour),
		at("2", "Lunch", 2*time.Hour),
		at("3", "Dentist", 26*time.Hour),
	}}}
	a, _ := newTestApp(t, st)
	run(t, a, a.load())

	require.True(t, a.loaded)
	assert.Len(t, a.buckets.Overdue, 1)
	assert.Len(t, a.buckets.Today, 1)
	assert.Equal(t, 1, a.buckets.UpcomingCount())

	v := a.View()
	assert.Contains(t, v, "Today — 2 To-Dos")
	assert.Contains(t, v, "Overdue (1)")
	assert.Contains(t, v, "Pay rent")
	assert.Contains(t, v, "Ada")

	press(a, "tab")
	v = a.View()
	assert.Contains(t, v, "Upcoming — 1 To-Dos")
	assert.Contains(t, v, "Dentist")
	assert.NotContains(t, v, "Lunch")
}

func TestStaleLoadIsDiscarded(t *testing.T) {
	older := []*task.Task{at("1", "Old snapshot", time.Hour)}
	newer := []*task.Task{at("1", "Old snapshot", time.Hour), at("2", "Fresh", 2*time.Hour)}
	st := &fakeStore{lists: [][]*task.Task{older, newer}}
	a, _ := newTestApp(t, st)

	first, second := a.load(), a.load()
	firstMsg, secondMsg := first(), second()

	// Responses arrive out of order.
	a.Update(secondMsg)
	a.Update(firstMsg)

	assert.Len(t, a.buckets.Today, 2, "older response must not overwrite the newer one")
	assert.False(t, a.loading())
}

func TestLoadErrorKeepsList(t *testing.T) {
	st := &fakeStore{lists: [][]*task.Task{{at("1", "Lunch", time.Hour)}}}
	a, _ := newTestApp(t, st)
	run(t, a, a.load())

	st.listErr = errors.New("connection refused")
	run(t, a, a.load())

	require.Error(t, a.err)
	assert.Equal(t, "Failed to load todos. Please try again.", a.err.Error())
	assert.Len(t, a.buckets.Today, 1)
	assert.Contains(t, a.View(), "Failed to load todos")
}

func TestAddRejectsEmptyTitleInline(t *testing.T) {
	st := &fakeStore{}
	a, _ := newTestApp(t, st)
	run(t, a, a.load())
	calls := st.calls

	press(a, "a")
	require.Equal(t, modeForm, a.mode)

	cmd := press(a, "enter")
	run(t, a, cmd)

	assert.Equal(t, modeForm, a.mode)
	assert.Equal(t, "Please enter a title for the todo", a.form.message)
	assert.Equal(t, fieldTitle, a.form.focus)
	assert.Empty(t, st.created)
	assert.Equal(t, calls, st.calls, "validation happens before any store call")
	assert.Contains(t, a.View(), "Please enter a title for the todo")
}

func TestAddCreatesAndRefetches(t *testing.T) {
	st := &fakeStore{}
	a, _ := newTestApp(t, st)
	run(t, a, a.load())

	press(a, "a", "Gym")
	cmd := press(a, "enter")
	require.True(t, a.saving)

	reload := run(t, a, cmd)
	require.Len(t, st.created, 1)
	assert.Equal(t, "Gym", st.created[0].Title)
	assert.Equal(t, now.UnixMilli(), st.created[0].Due.Millis(), "next half-hour slot at exactly 12:00")
	assert.Equal(t, modeList, a.mode)
	assert.Contains(t, a.notice, "Gym")

	before := st.calls
	run(t, a, reload)
	assert.Equal(t, before+1, st.calls, "list is refetched after a save")
}

func TestFormPickers(t *testing.T) {
	a, _ := newTestApp(t, &fakeStore{})
	press(a, "a")

	// title -> description -> date
	press(a, "tab", "tab", "right")
	assert.True(t, date.New(2026, 2, 8).Equal(a.form.date))

	press(a, "tab", "left", "left")
	assert.Equal(t, "11:00", a.form.time.String())

	press(a, "tab", "right")
	assert.Equal(t, task.Reminder5Min, a.form.reminder)

	press(a, "tab", "left")
	assert.Equal(t, task.RepeatMonthly, a.form.repeat)

	press(a, "esc")
	assert.Equal(t, modeList, a.mode)
	assert.Nil(t, a.form)
}

func TestCompleteWithConfirmation(t *testing.T) {
	st := &fakeStore{lists: [][]*task.Task{{at("7", "Lunch", time.Hour)}}}
	a, _ := newTestApp(t, st)
	run(t, a, a.load())

	// Row 0 is the Today header.
	press(a, "j", "d")
	require.Equal(t, modeConfirm, a.mode)
	assert.Contains(t, a.View(), "#7: Lunch")

	press(a, "n")
	assert.Equal(t, modeList, a.mode)
	assert.Empty(t, st.deleted)

	press(a, "d")
	cmd := press(a, "y")
	reload := run(t, a, cmd)
	assert.Equal(t, []task.ID{"7"}, st.deleted)
	assert.Contains(t, a.notice, "Completed")
	assert.NotNil(t, reload)
}

func TestCompleteFailureShowsMessage(t *testing.T) {
	st := &fakeStore{lists: [][]*task.Task{{at("7", "Lunch", time.Hour)}}, delErr: errors.New("boom")}
	a, _ := newTestApp(t, st)
	run(t, a, a.load())

	press(a, "j", "d")
	next := run(t, a, press(a, "y"))
	assert.Nil(t, next, "no refetch after a failed completion")
	require.Error(t, a.err)
	assert.Equal(t, "Failed to complete todo. Please try again.", a.err.Error())
}

func TestUpcomingAccordion(t *testing.T) {
	st := &fakeStore{lists: [][]*task.Task{{
		at("1", "Dentist", 26*time.Hour),
		at("2", "Review", 27*time.Hour),
		at("3", "Flight", 50*time.Hour),
	}}}
	a, _ := newTestApp(t, st)
	run(t, a, a.load())
	press(a, "2")

	require.Len(t, a.rows(), 5)
	press(a, " ")
	assert.Len(t, a.rows(), 3, "first date group folded")
	assert.Contains(t, a.View(), "▸")

	press(a, " ")
	assert.Len(t, a.rows(), 5)
}

func TestSessionReload(t *testing.T) {
	a, acc := newTestApp(t, &fakeStore{})
	run(t, a, a.load())
	assert.Contains(t, a.View(), "Ada")

	acc.user = nil
	a.Update(ReloadSessionMsg{})
	assert.Contains(t, a.View(), "not signed in")

	press(a, "a")
	assert.Equal(t, modeList, a.mode, "signed-out users cannot open the form")
	assert.ErrorIs(t, a.err, errNotSignedIn)

	acc.user = &session.User{ID: "u2", Email: "grace@example.com"}
	a.Update(ReloadSessionMsg{})
	assert.Contains(t, a.View(), "grace@example.com")
}

func TestWatchNames(t *testing.T) {
	a, _ := newTestApp(t, &fakeStore{})
	assert.Equal(t, []string{session.CurrentFile}, a.WatchNames())
	assert.Equal(t, a.cfg.Dir(), a.WatchDir())
}
