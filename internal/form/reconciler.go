package form

import (
	"context"
	"log/slog"
	"time"

	"github.com/twiced-technology-gmbh/dayplan/internal/clierr"
	"github.com/twiced-technology-gmbh/dayplan/internal/store"
	"github.com/twiced-technology-gmbh/dayplan/internal/task"
)

// Store is the subset of the remote client the reconciler needs.
type Store interface {
	List(ctx context.Context) ([]*task.Task, error)
	Create(ctx context.Context, t *task.Task) (*task.Task, error)
	Update(ctx context.Context, id task.ID, t *task.Task) (*task.Task, error)
}

// Recorder receives successful mutations.
type Recorder interface {
	Record(action string, t *task.Task)
}

// Actions passed to the Recorder.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
)

// Reconciler saves drafts through a Store.
type Reconciler struct {
	store    Store
	assignee *string
	recorder Recorder
	log      *slog.Logger
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithAssignee tags newly created tasks with name. Updates never change the
// stored assignee.
func WithAssignee(name string) Option {
	return func(r *Reconciler) {
		if name != "" {
			r.assignee = &name
		}
	}
}

// WithRecorder sets the activity sink.
func WithRecorder(rec Recorder) Option {
	return func(r *Reconciler) { r.recorder = rec }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reconciler) {
		if l != nil {
			r.log = l
		}
	}
}

// New returns a Reconciler backed by s.
func New(s Store, opts ...Option) *Reconciler {
	r := &Reconciler{store: s, log: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Save validates d and performs exactly one Create or Update. The create
// path first lists the store for the duplicate-title check. Callers should
// refetch afterwards rather than patch local state with the result.
func (r *Reconciler) Save(ctx context.Context, d Draft, now time.Time) (*task.Task, error) {
	due, err := validateLocal(d, now)
	if err != nil {
		return nil, err
	}

	if d.IsEdit() {
		out := d.task(due)
		saved, err := r.store.Update(ctx, d.ID, out)
		if err != nil {
			return nil, r.saveFailed(store.OpUpdate, err)
		}
		r.record(ActionUpdate, saved, out)
		return saved, nil
	}

	existing, err := r.store.List(ctx)
	if err != nil {
		return nil, r.saveFailed(store.OpCreate, err)
	}
	if err := checkDuplicate(d.Title, existing); err != nil {
		return nil, err
	}

	out := d.task(due)
	if r.assignee != nil && out.Assignee == nil {
		out.Assignee = r.assignee
	}
	saved, err := r.store.Create(ctx, out)
	if err != nil {
		return nil, r.saveFailed(store.OpCreate, err)
	}
	r.record(ActionCreate, saved, out)
	return saved, nil
}

func (r *Reconciler) saveFailed(op store.Op, err error) error {
	r.log.Error("save failed", "op", op, "error", err)
	return clierr.Wrap(clierr.SaveFailed, store.UserMessage(op), err)
}

func (r *Reconciler) record(action string, saved, sent *task.Task) {
	if r.recorder == nil {
		return
	}
	t := saved
	if t == nil || t.ID.IsZero() {
		t = sent
	}
	r.recorder.Record(action, t)
}
