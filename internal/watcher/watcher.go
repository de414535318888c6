// Package watcher provides debounced watching of selected files in the app
// directory.
package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces the write+rename pair of an atomic replace into
// one notification.
const debounceDelay = 100 * time.Millisecond

// Watcher watches a directory and invokes a callback, debounced, when one of
// the named files changes. Other files in the directory (logs) are ignored.
type Watcher struct {
	fsw      *fsnotify.Watcher
	names    map[string]bool
	mu       sync.Mutex
	timer    *time.Timer
	callback func()
}

// New watches dir for changes to the given base names.
func New(dir string, names []string, callback func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return &Watcher{fsw: fsw, names: set, callback: callback}, nil
}

// Run dispatches filesystem events until ctx is done or the watcher is
// closed. Watch errors go to errFn when it is non-nil.
func (w *Watcher) Run(ctx context.Context, errFn func(error)) {
	defer w.stopTimer()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if w.relevant(ev) {
				w.debounce()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if errFn != nil {
				errFn(err)
			}
		}
	}
}

const changeOps = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	return ev.Op&changeOps != 0 && w.names[filepath.Base(ev.Name)]
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// debounce restarts the quiet period; the callback fires once it elapses.
func (w *Watcher) debounce() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer == nil {
		w.timer = time.AfterFunc(debounceDelay, w.callback)
		return
	}
	w.timer.Reset(debounceDelay)
}
