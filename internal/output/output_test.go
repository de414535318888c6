package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/dayplan/internal/bucket"
	"github.com/twiced-technology-gmbh/dayplan/internal/date"
	"github.com/twiced-technology-gmbh/dayplan/internal/task"
)

var now = time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

func fixture() []*task.Task {
	return []*task.Task{
		{ID: "1", Title: "Pay rent", Due: date.FromTime(now.Add(-30 * time.Hour))},
		{ID: "2", Title: "Gym", Due: date.FromTime(now.Add(2 * time.Hour)), Reminder: task.Reminder5Min, Repeat: task.RepeatWeekly},
		{ID: "3", Title: "Dentist", Due: date.FromTime(now.Add(26 * time.Hour))},
	}
}

func TestDetect(t *testing.T) {
	t.Setenv(EnvOutput, "")
	assert.Equal(t, FormatJSON, Detect(true, true, true))
	assert.Equal(t, FormatCompact, Detect(false, true, true))
	assert.Equal(t, FormatTable, Detect(false, false, false))

	t.Setenv(EnvOutput, "json")
	assert.Equal(t, FormatJSON, Detect(false, false, false))
	t.Setenv(EnvOutput, "oneline")
	assert.Equal(t, FormatCompact, Detect(false, false, false))
}

func TestBucketsTable(t *testing.T) {
	DisableColor()
	var buf bytes.Buffer
	BucketsTable(&buf, bucket.Bucketize(fixture(), now), bucket.ViewAll, time.UTC)
	out := buf.String()

	assert.Contains(t, out, "Today — 2 To-Dos")
	assert.Contains(t, out, "Overdue (1)")
	assert.Contains(t, out, "Upcoming — 1 To-Dos")
	assert.Contains(t, out, "08 Feb • Sun (1)")
	assert.Contains(t, out, "⏰ 5 minutes before")
	assert.Less(t, strings.Index(out, "Pay rent"), strings.Index(out, "Gym"))
	assert.Less(t, strings.Index(out, "Gym"), strings.Index(out, "Dentist"))
}

func TestTaskTableAndCompact(t *testing.T) {
	DisableColor()
	var buf bytes.Buffer
	TaskTable(&buf, fixture(), time.UTC)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[2], "5min")
	assert.Contains(t, lines[2], "weekly")

	buf.Reset()
	BucketsCompact(&buf, bucket.Bucketize(fixture(), now), time.UTC)
	assert.Equal(t,
		"overdue #1 2026-02-06 06:00 Pay rent\n"+
			"today #2 2026-02-07 14:00 Gym (reminder:5min, repeat:weekly)\n"+
			"upcoming #3 2026-02-08 14:00 Dentist\n",
		buf.String())
}

func TestTaskDetail(t *testing.T) {
	DisableColor()
	var buf bytes.Buffer
	tk := fixture()[1]
	TaskDetail(&buf, tk, time.UTC, now, "Leg day")
	out := buf.String()
	assert.Contains(t, out, "To-Do #2: Gym")
	assert.Contains(t, out, "Sat 07 Feb 2026 14:00")
	assert.Contains(t, out, "today")
	assert.Contains(t, out, "Weekly")
	assert.Contains(t, out, "Leg day")
}

func TestMarkdownPlain(t *testing.T) {
	out := Markdown("# Plan\n\n- buy **milk**", false, 40)
	assert.Contains(t, out, "Plan")
	assert.Contains(t, out, "milk")
	assert.Empty(t, Markdown("   ", false, 40))
}

func TestJSONError(t *testing.T) {
	var buf bytes.Buffer
	JSONError(&buf, "EMPTY_TITLE", "Please enter a title for the todo", nil)
	assert.JSONEq(t, `{"error":"Please enter a title for the todo","code":"EMPTY_TITLE"}`, buf.String())
}

func TestJSONKeepsUserText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, map[string]string{"title": "Salt & <pepper>"}))
	assert.Contains(t, buf.String(), `"Salt & <pepper>"`)
}
