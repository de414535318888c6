// Package tui implements the interactive dayplan shell.
package tui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/dayplan/internal/activity"
	"github.com/twiced-technology-gmbh/dayplan/internal/bucket"
	"github.com/twiced-technology-gmbh/dayplan/internal/config"
	"github.com/twiced-technology-gmbh/dayplan/internal/form"
	"github.com/twiced-technology-gmbh/dayplan/internal/session"
	"github.com/twiced-technology-gmbh/dayplan/internal/store"
	"github.com/twiced-technology-gmbh/dayplan/internal/task"
)

type tab int

const (
	tabToday tab = iota
	tabUpcoming
)

// mode represents the current screen state.
type mode int

const (
	modeList mode = iota
	modeForm
	modeConfirm
)

const keyEsc = "esc"

var errNotSignedIn = errors.New("not signed in: run 'dayplan login' in another terminal")

// Store is the remote collection as the shell uses it.
type Store interface {
	form.Store
	Delete(ctx context.Context, id task.ID) error
}

// App is the top-level bubbletea model.
type App struct {
	cfg   *config.Config
	store Store
	acc   session.Accessor
	user  *session.User
	now   func() time.Time
	log   *slog.Logger

	keys keyMap
	help help.Model
	spin spinner.Model

	tasks   []*task.Task
	buckets bucket.Buckets
	loaded  bool
	seq     uint64 // last load issued
	applied uint64 // last load whose result was applied
	saving  bool

	tab       tab
	cursor    int
	collapsed map[string]bool // upcoming date groups folded by key
	mode      mode
	form      *taskForm
	pending   *task.Task // awaiting completion confirmation

	err    error
	notice string
	width  int
	height int
}

// New creates the shell. The signed-in user is read from acc immediately
// and again on every ReloadSessionMsg.
func New(cfg *config.Config, st Store, acc session.Accessor) *App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	a := &App{
		cfg:       cfg,
		store:     st,
		acc:       acc,
		now:       time.Now,
		log:       slog.Default(),
		keys:      defaultKeyMap(),
		help:      help.New(),
		spin:      sp,
		collapsed: map[string]bool{},
	}
	a.reloadUser()
	return a
}

// SetNow overrides the clock (for testing).
func (a *App) SetNow(fn func() time.Time) { a.now = fn }

// WatchDir returns the directory holding the session file.
func (a *App) WatchDir() string { return a.cfg.Dir() }

// WatchNames returns the files whose changes should trigger a ReloadSessionMsg.
func (a *App) WatchNames() []string { return []string{session.CurrentFile} }

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.load(), a.spin.Tick, a.tick())
}

// --- Messages ---

// ReloadSessionMsg is sent by the file watcher when the session changes.
type ReloadSessionMsg struct{}

// loadedMsg carries the result of the load numbered seq.
type loadedMsg struct {
	seq   uint64
	tasks []*task.Task
	err   error
}

type savedMsg struct {
	task *task.Task
	edit bool
}

type saveErrMsg struct{ err error }

type completedMsg struct {
	task *task.Task
	err  error
}

type refreshMsg struct{}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		if a.form != nil {
			a.form.resize(msg.Width)
		}
		return a, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd
	case loadedMsg:
		a.applyLoad(msg)
		return a, nil
	case refreshMsg:
		return a, tea.Batch(a.load(), a.tick())
	case ReloadSessionMsg:
		a.reloadUser()
		return a, nil
	case savedMsg:
		return a.handleSaved(msg)
	case saveErrMsg:
		a.saving = false
		if a.form != nil {
			a.form.setError(msg.err)
		}
		return a, nil
	case completedMsg:
		return a.handleCompleted(msg)
	}
	return a, nil
}

// load issues a List with the next sequence number.
func (a *App) load() tea.Cmd {
	a.seq++
	seq := a.seq
	st := a.store
	return func() tea.Msg {
		tasks, err := st.List(context.Background())
		return loadedMsg{seq: seq, tasks: tasks, err: err}
	}
}

func (a *App) loading() bool { return a.applied < a.seq }

// applyLoad shows a load result unless a newer one is already shown.
func (a *App) applyLoad(msg loadedMsg) {
	if msg.seq <= a.applied {
		a.log.Debug("discarding stale load", "seq", msg.seq, "applied", a.applied)
		return
	}
	a.applied = msg.seq
	if msg.err != nil {
		a.log.Error("loading tasks", "error", msg.err)
		a.err = errors.New(store.UserMessage(store.OpList))
		return
	}
	a.err = nil
	a.tasks = msg.tasks
	a.loaded = true
	a.rebucket()
}

func (a *App) rebucket() {
	now := a.now()
	b := bucket.Bucketize(a.tasks, now)
	if days := a.cfg.TUI.UpcomingDays; days > 0 {
		b = b.LimitUpcoming(now, days)
	}
	a.buckets = b
	a.clampCursor()
}

func (a *App) tick() tea.Cmd {
	d := a.cfg.Refresh()
	if d <= 0 {
		return nil
	}
	return tea.Tick(d, func(time.Time) tea.Msg { return refreshMsg{} })
}

func (a *App) reloadUser() {
	u, err := a.acc.Current()
	if err != nil {
		if a.user != nil {
			a.log.Info("session ended", "error", err)
		}
		a.user = nil
		return
	}
	a.user = u
}

// --- Key handling ---

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.mode {
	case modeForm:
		return a.handleFormKey(msg)
	case modeConfirm:
		return a.handleConfirmKey(msg)
	default:
		return a.handleListKey(msg)
	}
}

func (a *App) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit), msg.String() == keyEsc:
		return a, tea.Quit
	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
	case key.Matches(msg, a.keys.Down):
		if a.cursor < len(a.rows())-1 {
			a.cursor++
		}
	case key.Matches(msg, a.keys.NextTab), key.Matches(msg, a.keys.PrevTab):
		a.switchTab(msg.String())
	case key.Matches(msg, a.keys.Toggle):
		r, ok := a.selectedRow()
		switch {
		case ok && r.key != "":
			a.collapsed[r.key] = !a.collapsed[r.key]
			a.clampCursor()
		case ok && r.task != nil:
			return a, a.openForm(r.task)
		}
	case key.Matches(msg, a.keys.Add):
		return a, a.openForm(nil)
	case key.Matches(msg, a.keys.Edit):
		if t := a.selectedTask(); t != nil {
			return a, a.openForm(t)
		}
	case key.Matches(msg, a.keys.Complete):
		if t := a.selectedTask(); t != nil {
			if a.user == nil {
				a.err = errNotSignedIn
				break
			}
			a.pending = t
			a.mode = modeConfirm
		}
	case key.Matches(msg, a.keys.Refresh):
		a.notice = ""
		return a, a.load()
	}
	return a, nil
}

func (a *App) switchTab(k string) {
	switch k {
	case "1":
		a.tab = tabToday
	case "2":
		a.tab = tabUpcoming
	default:
		a.tab = 1 - a.tab
	}
	a.cursor = 0
}

func (a *App) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		t := a.pending
		a.pending = nil
		a.mode = modeList
		return a, a.complete(t)
	case "n", "N", keyEsc, "q":
		a.pending = nil
		a.mode = modeList
	}
	return a, nil
}

func (a *App) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.saving {
		return a, nil
	}
	action, cmd := a.form.update(msg)
	switch action {
	case formCancel:
		a.form = nil
		a.mode = modeList
		return a, nil
	case formSubmit:
		a.saving = true
		a.form.message = ""
		return a, a.save(a.form.draft())
	}
	return a, cmd
}

// --- Mutations ---

func (a *App) openForm(t *task.Task) tea.Cmd {
	if a.user == nil {
		a.err = errNotSignedIn
		return nil
	}
	now := a.now()
	var d form.Draft
	if t != nil {
		d = form.FromTask(t, now.Location())
	} else {
		d = form.NewDraftWith(now, a.cfg.FormDefaults())
	}
	a.form = newTaskForm(d, a.width)
	a.mode = modeForm
	a.err = nil
	a.notice = ""
	return textinput.Blink
}

func (a *App) recorder() *activity.Log {
	return activity.New(a.cfg.Dir(), a.user.DisplayName())
}

func (a *App) reconciler() *form.Reconciler {
	opts := []form.Option{form.WithRecorder(a.recorder()), form.WithLogger(a.log)}
	if a.cfg.Defaults.AssignSelf && a.user != nil {
		opts = append(opts, form.WithAssignee(a.user.DisplayName()))
	}
	return form.New(a.store, opts...)
}

// save runs the reconciler off the UI goroutine. The list is refetched on
// success rather than patched locally.
func (a *App) save(d form.Draft) tea.Cmd {
	rec := a.reconciler()
	now := a.now()
	return func() tea.Msg {
		saved, err := rec.Save(context.Background(), d, now)
		if err != nil {
			return saveErrMsg{err: err}
		}
		return savedMsg{task: saved, edit: d.IsEdit()}
	}
}

func (a *App) handleSaved(msg savedMsg) (tea.Model, tea.Cmd) {
	a.saving = false
	a.form = nil
	a.mode = modeList
	verb := "Created"
	if msg.edit {
		verb = "Updated"
	}
	a.notice = verb + " “" + msg.task.Title + "”"
	return a, a.load()
}

func (a *App) complete(t *task.Task) tea.Cmd {
	st := a.store
	return func() tea.Msg {
		err := st.Delete(context.Background(), t.ID)
		return completedMsg{task: t, err: err}
	}
}

func (a *App) handleCompleted(msg completedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		a.log.Error("completing task", "id", msg.task.ID, "error", msg.err)
		a.err = errors.New(store.UserMessage(store.OpDelete))
		return a, nil
	}
	if a.user != nil {
		a.recorder().Record(activity.ActionComplete, msg.task)
	}
	a.err = nil
	a.notice = "Completed “" + msg.task.Title + "”"
	return a, a.load()
}

// --- Rows ---

// row is one line of the list: a section header or a task.
type row struct {
	header string
	key    string // date group key; set for foldable headers
	count  int
	style  lipgloss.Style
	task   *task.Task
}

func (a *App) rows() []row {
	var rows []row
	taskRows := func(tasks []*task.Task) {
		for _, t := range tasks {
			rows = append(rows, row{task: t})
		}
	}

	switch a.tab {
	case tabToday:
		if n := len(a.buckets.Overdue); n > 0 {
			rows = append(rows, row{header: "Overdue", count: n, style: overdueHeaderStyle})
			taskRows(a.buckets.Overdue)
		}
		rows = append(rows, row{header: "Today", count: len(a.buckets.Today), style: todayHeaderStyle})
		taskRows(a.buckets.Today)
	case tabUpcoming:
		for _, g := range a.buckets.Upcoming {
			rows = append(rows, row{header: g.Key, key: g.Key, count: len(g.Tasks), style: upcomingHeaderStyle})
			if !a.collapsed[g.Key] {
				taskRows(g.Tasks)
			}
		}
	}
	return rows
}

func (a *App) selectedRow() (row, bool) {
	rows := a.rows()
	if a.cursor < 0 || a.cursor >= len(rows) {
		return row{}, false
	}
	return rows[a.cursor], true
}

func (a *App) selectedTask() *task.Task {
	r, ok := a.selectedRow()
	if !ok {
		return nil
	}
	return r.task
}

func (a *App) clampCursor() {
	n := len(a.rows())
	if a.cursor >= n {
		a.cursor = n - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}
