package task

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/dayplan/internal/clierr"
	"github.com/twiced-technology-gmbh/dayplan/internal/date"
)

func TestTaskDecode(t *testing.T) {
	raw := `[
		{"id":"7","title":"Gym","description":"legs","dueDateTimestamp":1770454800000,
		 "reminder":"5min","repeat":"weekly","status":"new","active":1,"assignee":null},
		{"id":12,"title":"Call","dueDateTimestamp":"1770454800000"},
		{"id":"3","title":"Iso","dueDateTimestamp":"2026-02-07T09:00:00Z"},
		{"id":"4","title":"Nodue"}
	]`

	var tasks []*Task
	require.NoError(t, json.Unmarshal([]byte(raw), &tasks))
	require.Len(t, tasks, 4)

	assert.Equal(t, ID("7"), tasks[0].ID)
	assert.Equal(t, Reminder5Min, tasks[0].Reminder)
	assert.Equal(t, RepeatWeekly, tasks[0].Repeat)
	assert.Nil(t, tasks[0].Assignee)

	assert.Equal(t, ID("12"), tasks[1].ID)
	for _, tk := range tasks[:3] {
		assert.Equal(t, int64(1770454800000), tk.Due.Millis(), tk.Title)
		assert.True(t, tk.Valid())
	}
	assert.False(t, tasks[3].HasDue())
	assert.False(t, tasks[3].Valid())
}

func TestTaskEncode(t *testing.T) {
	tk := Task{
		Title:    "Gym",
		Due:      date.FromTime(time.UnixMilli(1770454800000)),
		Reminder: ReminderNone,
		Repeat:   RepeatNever,
		Status:   DefaultStatus,
		Active:   DefaultActive,
	}
	out, err := json.Marshal(tk)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"title":"Gym","description":"","dueDateTimestamp":1770454800000,
		"reminder":"none","repeat":"never","status":"new","active":1,"assignee":null
	}`, string(out))
}

func TestHasTitle(t *testing.T) {
	assert.False(t, (&Task{Title: "   "}).HasTitle())
	assert.False(t, (&Task{}).HasTitle())
	assert.True(t, (&Task{Title: " a "}).HasTitle())
}

func TestNormalizeTitle(t *testing.T) {
	assert.Equal(t, NormalizeTitle("  Gym "), NormalizeTitle("gym"))
	assert.NotEqual(t, NormalizeTitle("Gym"), NormalizeTitle("Gym class"))
}

func TestParseEnums(t *testing.T) {
	r, err := ParseReminder("1HOUR")
	require.NoError(t, err)
	assert.Equal(t, Reminder1Hour, r)

	r, err = ParseReminder("")
	require.NoError(t, err)
	assert.Equal(t, ReminderNone, r)

	_, err = ParseReminder("2min")
	assert.True(t, clierr.HasCode(err, clierr.InvalidReminder))

	p, err := ParseRepeat("monthly")
	require.NoError(t, err)
	assert.Equal(t, RepeatMonthly, p)

	_, err = ParseRepeat("yearly")
	assert.True(t, clierr.HasCode(err, clierr.InvalidRepeat))
}

func TestCycle(t *testing.T) {
	assert.Equal(t, Reminder5Min, CycleReminder(ReminderNone, 1))
	assert.Equal(t, ReminderNone, CycleReminder(Reminder1Week, 1))
	assert.Equal(t, Reminder1Week, CycleReminder(ReminderNone, -1))
	assert.Equal(t, RepeatDaily, CycleRepeat("", 1))
	assert.Equal(t, RepeatNever, CycleRepeat(RepeatMonthly, 1))
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "None", Reminder("").Label())
	assert.Equal(t, "1 day before", Reminder1Day.Label())
	assert.Equal(t, "Never", Repeat("").Label())
	assert.Equal(t, "custom", Repeat("custom").Label())
}

func TestParseIDs(t *testing.T) {
	ids, err := ParseIDs("1, 2,,3")
	require.NoError(t, err)
	assert.Equal(t, []ID{"1", "2", "3"}, ids)

	_, err = ParseIDs(" , ")
	assert.True(t, clierr.HasCode(err, clierr.InvalidTaskID))

	_, err = ParseIDs("1/2")
	assert.True(t, clierr.HasCode(err, clierr.InvalidTaskID))
}

func TestFindByID(t *testing.T) {
	tasks := []*Task{{ID: "1", Title: "a"}, {ID: "2", Title: "b"}}
	got, err := FindByID(tasks, "2")
	require.NoError(t, err)
	assert.Equal(t, "b", got.Title)

	_, err = FindByID(tasks, "9")
	assert.True(t, clierr.HasCode(err, clierr.TaskNotFound))
}
