package bucket

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/dayplan/internal/clierr"
	"github.com/twiced-technology-gmbh/dayplan/internal/date"
	"github.com/twiced-technology-gmbh/dayplan/internal/task"
)

var now = time.Date(2026, 2, 7, 12, 0, 0, 0, time.Local)

func at(day, hour, minute int) time.Time {
	return time.Date(2026, 2, day, hour, minute, 0, 0, time.Local)
}

func mk(id, title string, due time.Time) *task.Task {
	return &task.Task{ID: task.ID(id), Title: title, Due: date.FromTime(due)}
}

func titles(tasks []*task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func TestBucketizeScenario(t *testing.T) {
	tasks := []*task.Task{
		mk("1", "A", at(6, 10, 0)),
		mk("2", "B", at(7, 9, 0)),
		mk("3", "C", at(7, 23, 0)),
		mk("4", "D", at(8, 8, 0)),
	}

	b := Bucketize(tasks, now)

	assert.Equal(t, []string{"A"}, titles(b.Overdue))
	assert.Equal(t, []string{"B", "C"}, titles(b.Today))
	require.Len(t, b.Upcoming, 1)
	assert.Equal(t, "08 Feb • Sun", b.Upcoming[0].Key)
	assert.Equal(t, []string{"D"}, titles(b.Upcoming[0].Tasks))

	g, ok := b.Group("08 Feb • Sun")
	require.True(t, ok)
	assert.Equal(t, []string{"D"}, titles(g.Tasks))

	assert.Equal(t, 3, b.TodayCount())
	assert.Equal(t, 1, b.UpcomingCount())
	assert.Equal(t, 4, b.Count())
}

func TestBucketizeEmpty(t *testing.T) {
	b := Bucketize(nil, now)
	assert.Empty(t, b.Overdue)
	assert.Empty(t, b.Today)
	assert.Empty(t, b.Upcoming)
	assert.NotNil(t, b.Overdue)
	assert.NotNil(t, b.Upcoming)
}

func TestBucketizeDiscardsInvalid(t *testing.T) {
	tasks := []*task.Task{
		mk("1", "  ", at(7, 13, 0)),
		mk("2", "", at(7, 13, 0)),
		{ID: "3", Title: "no due"},
		mk("4", "ok", at(7, 13, 0)),
	}
	b := Bucketize(tasks, now)
	assert.Equal(t, []string{"ok"}, titles(b.Flatten()))
	assert.Equal(t, None, Classify(tasks[0], now))
	assert.Equal(t, None, Classify(tasks[2], now))
}

func TestBucketizeDayEdges(t *testing.T) {
	tests := []struct {
		name string
		due  time.Time
		want Bucket
	}{
		{"last ms of yesterday", at(7, 0, 0).Add(-time.Millisecond), Overdue},
		{"midnight today", at(7, 0, 0), Today},
		{"earlier today", at(7, 1, 0), Today},
		{"last ms of today", at(8, 0, 0).Add(-time.Millisecond), Today},
		{"midnight tomorrow", at(8, 0, 0), Upcoming},
		// calendar day, not a rolling window: 23 hours ahead is still upcoming
		{"within 24h but tomorrow", now.Add(23 * time.Hour), Upcoming},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(mk("1", "x", tt.due), now))
		})
	}
}

func TestBucketizeOrdering(t *testing.T) {
	tasks := []*task.Task{
		mk("1", "old", at(1, 9, 0)),
		mk("2", "older", at(1, 8, 0)),
		mk("3", "recent-a", at(5, 9, 0)),
		mk("4", "recent-b", at(5, 9, 0)),
		mk("5", "late", at(7, 20, 0)),
		mk("6", "early", at(7, 6, 0)),
		mk("7", "tie-a", at(7, 12, 30)),
		mk("8", "tie-b", at(7, 12, 30)),
		mk("9", "day10-late", at(10, 18, 0)),
		mk("10", "day9", at(9, 8, 0)),
		mk("11", "day10-early", at(10, 7, 30)),
	}

	b := Bucketize(tasks, now)

	assert.Equal(t, []string{"recent-a", "recent-b", "old", "older"}, titles(b.Overdue))
	assert.Equal(t, []string{"early", "tie-a", "tie-b", "late"}, titles(b.Today))

	keys := make([]string, len(b.Upcoming))
	for i, g := range b.Upcoming {
		keys[i] = g.Key
	}
	assert.Equal(t, []string{"09 Feb • Mon", "10 Feb • Tue"}, keys)
	assert.Equal(t, []string{"day10-early", "day10-late"}, titles(b.Upcoming[1].Tasks))
}

func TestBucketizeExactlyOnce(t *testing.T) {
	var tasks []*task.Task
	for h := -72; h <= 72; h += 5 {
		tasks = append(tasks, mk("x", "t", now.Add(time.Duration(h)*time.Hour)))
	}
	b := Bucketize(tasks, now)
	assert.Equal(t, len(tasks), b.Count())

	seen := make(map[*task.Task]int)
	for _, tk := range b.Flatten() {
		seen[tk]++
	}
	for _, tk := range tasks {
		assert.Equal(t, 1, seen[tk])
	}
}

func TestBucketizeUsesNowLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	// 2026-02-07 20:00 UTC is already Feb 8 in Tokyo.
	due := time.Date(2026, 2, 7, 20, 0, 0, 0, time.UTC)
	nowUTC := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, Today, Classify(mk("1", "x", due), nowUTC))
	assert.Equal(t, Upcoming, Classify(mk("1", "x", due), nowUTC.In(tokyo)))
}

func TestGroupByDayKeys(t *testing.T) {
	tasks := []*task.Task{
		mk("1", "a", at(9, 8, 0)),
		mk("2", "b", at(9, 21, 30)),
	}
	groups := GroupByDay(tasks, time.Local)
	want := []DateGroup{{Key: "09 Feb • Mon", Date: date.New(2026, 2, 9), Tasks: tasks}}
	if diff := cmp.Diff(want, groups); diff != "" {
		t.Errorf("GroupByDay mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectAndLimit(t *testing.T) {
	tasks := []*task.Task{
		mk("1", "A", at(6, 10, 0)),
		mk("2", "B", at(7, 13, 0)),
		mk("3", "C", at(8, 8, 0)),
		mk("4", "D", at(20, 8, 0)),
	}
	b := Bucketize(tasks, now)

	today := b.Select(ViewToday)
	assert.Equal(t, []string{"A", "B"}, titles(today.Flatten()))

	up := b.Select(ViewUpcoming)
	assert.Equal(t, []string{"C", "D"}, titles(up.Flatten()))

	od := b.Select(ViewOverdue)
	assert.Equal(t, []string{"A"}, titles(od.Flatten()))

	assert.Equal(t, 4, b.Select(ViewAll).Count())

	limited := b.LimitUpcoming(now, 7)
	assert.Equal(t, []string{"A", "B", "C"}, titles(limited.Flatten()))
	assert.Equal(t, 4, b.LimitUpcoming(now, 0).Count())
}

func TestParseView(t *testing.T) {
	v, err := ParseView("Upcoming")
	require.NoError(t, err)
	assert.Equal(t, ViewUpcoming, v)

	v, err = ParseView("")
	require.NoError(t, err)
	assert.Equal(t, ViewAll, v)

	_, err = ParseView("week")
	assert.True(t, clierr.HasCode(err, clierr.InvalidView))
}

func TestFilter(t *testing.T) {
	me := "ana"
	tasks := []*task.Task{
		{Title: "Gym", Description: "legs day", Repeat: task.RepeatWeekly},
		{Title: "Groceries", Assignee: &me},
		{Title: "Call mom", Reminder: task.Reminder1Hour},
	}

	assert.Len(t, Filter(tasks, FilterOptions{}), 3)
	assert.Equal(t, []string{"Gym"}, titles(Filter(tasks, FilterOptions{Search: "LEGS"})))
	assert.Equal(t, []string{"Groceries"}, titles(Filter(tasks, FilterOptions{Assignee: "ana"})))
	assert.Equal(t, []string{"Call mom"}, titles(Filter(tasks, FilterOptions{Reminder: task.Reminder1Hour})))
	assert.Equal(t, []string{"Gym"}, titles(Filter(tasks, FilterOptions{Repeat: task.RepeatWeekly})))
}
