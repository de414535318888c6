// Package activity appends task mutations to a JSONL log in the app
// directory.
package activity

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/dayplan/internal/task"
)

const (
	// FileName is the log file inside the app directory.
	FileName      = "activity.jsonl"
	logFileMode   = 0o600
	maxLogEntries = 10000 // truncate oldest entries when log exceeds this size
)

// Actions recorded outside the form reconciler.
const (
	ActionComplete = "complete"
)

// Entry is one line of the activity log.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	TaskID    string    `json:"task_id"`
	Title     string    `json:"title,omitempty"`
	User      string    `json:"user,omitempty"`
}

// Log writes entries for one user into one directory.
type Log struct {
	dir        string
	user       string
	maxEntries int
	now        func() time.Time
	log        *slog.Logger
}

// New returns a Log writing to <dir>/activity.jsonl on behalf of user.
func New(dir, user string) *Log {
	return &Log{dir: dir, user: user, maxEntries: maxLogEntries, now: time.Now, log: slog.Default()}
}

// Path returns the log file path.
func (l *Log) Path() string { return filepath.Join(l.dir, FileName) }

// Record appends an entry for t. Failures are logged and swallowed so that
// bookkeeping never fails a mutation that already succeeded remotely.
func (l *Log) Record(action string, t *task.Task) {
	e := Entry{
		Timestamp: l.now(),
		Action:    action,
		User:      l.user,
	}
	if t != nil {
		e.TaskID = t.ID.String()
		e.Title = t.Title
	}
	if err := l.Append(e); err != nil {
		l.log.Warn("activity log write failed", "path", l.Path(), "error", err)
	}
}

// Append writes e and trims the file to the newest entries.
func (l *Log) Append(e Entry) error {
	path := l.Path()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, logFileMode) //nolint:gosec // log path from trusted app dir
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close() //nolint:errcheck // append-only

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshaling log entry: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing log entry: %w", err)
	}

	_ = truncate(path, l.maxEntries)
	return nil
}

// truncate rewrites the file keeping only the newest max lines.
func truncate(path string, max int) error {
	f, err := os.Open(path) //nolint:gosec // trusted path
	if err != nil {
		return err
	}
	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	_ = f.Close()
	if err := scanner.Err(); err != nil {
		return err
	}
	if len(lines) <= max {
		return nil
	}

	var buf strings.Builder
	for _, line := range lines[len(lines)-max:] {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(buf.String()), logFileMode)
}
