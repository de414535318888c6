// Package bucket partitions tasks into Overdue, Today, and Upcoming views
// relative to a given instant.
package bucket

import (
	"time"

	"github.com/twiced-technology-gmbh/dayplan/internal/date"
	"github.com/twiced-technology-gmbh/dayplan/internal/task"
)

// Bucket identifies which view claims a task.
type Bucket int

// Buckets in display order. None marks records that no view shows.
const (
	None Bucket = iota
	Overdue
	Today
	Upcoming
)

func (b Bucket) String() string {
	switch b {
	case Overdue:
		return "overdue"
	case Today:
		return "today"
	case Upcoming:
		return "upcoming"
	default:
		return "none"
	}
}

// DateGroup holds the upcoming tasks of one calendar day.
type DateGroup struct {
	Key   string       `json:"key"`
	Date  date.Date    `json:"date"`
	Tasks []*task.Task `json:"tasks"`
}

// Buckets is the result of classifying a task set against one instant.
type Buckets struct {
	Overdue  []*task.Task `json:"overdue"`
	Today    []*task.Task `json:"today"`
	Upcoming []DateGroup  `json:"upcoming"`
}

// Classify returns the bucket for a single task. Records without a title
// or due timestamp are None.
func Classify(t *task.Task, now time.Time) Bucket {
	if t == nil || !t.Valid() {
		return None
	}
	due := t.DueIn(now.Location())
	switch {
	case due.Before(date.StartOfDay(now)):
		return Overdue
	case due.After(date.EndOfDay(now)):
		return Upcoming
	default:
		return Today
	}
}

// Bucketize classifies tasks by calendar day in now's location. Overdue is
// sorted newest first; Today and each upcoming group oldest first. Ties keep
// input order. Groups are chronological.
func Bucketize(tasks []*task.Task, now time.Time) Buckets {
	b := Buckets{
		Overdue:  []*task.Task{},
		Today:    []*task.Task{},
		Upcoming: []DateGroup{},
	}

	var upcoming []*task.Task
	for _, t := range tasks {
		switch Classify(t, now) {
		case Overdue:
			b.Overdue = append(b.Overdue, t)
		case Today:
			b.Today = append(b.Today, t)
		case Upcoming:
			upcoming = append(upcoming, t)
		}
	}

	SortByDue(b.Overdue, true)
	SortByDue(b.Today, false)
	SortByDue(upcoming, false)
	b.Upcoming = GroupByDay(upcoming, now.Location())
	return b
}

// Group returns the upcoming group with the given key.
func (b Buckets) Group(key string) (DateGroup, bool) {
	for _, g := range b.Upcoming {
		if g.Key == key {
			return g, true
		}
	}
	return DateGroup{}, false
}

// TodayCount is the headline count of the Today view (overdue + today).
func (b Buckets) TodayCount() int {
	return len(b.Overdue) + len(b.Today)
}

// UpcomingCount is the headline count of the Upcoming view.
func (b Buckets) UpcomingCount() int {
	n := 0
	for _, g := range b.Upcoming {
		n += len(g.Tasks)
	}
	return n
}

// Count returns the number of classified tasks.
func (b Buckets) Count() int {
	return b.TodayCount() + b.UpcomingCount()
}

// Flatten returns every task in display order.
func (b Buckets) Flatten() []*task.Task {
	out := make([]*task.Task, 0, b.Count())
	out = append(out, b.Overdue...)
	out = append(out, b.Today...)
	for _, g := range b.Upcoming {
		out = append(out, g.Tasks...)
	}
	return out
}

// LimitUpcoming drops upcoming groups more than days calendar days after
// now. Zero or negative days keeps everything.
func (b Buckets) LimitUpcoming(now time.Time, days int) Buckets {
	if days <= 0 {
		return b
	}
	last := date.Of(now).AddDays(days)
	kept := make([]DateGroup, 0, len(b.Upcoming))
	for _, g := range b.Upcoming {
		if g.Date.After(last.Time) {
			break
		}
		kept = append(kept, g)
	}
	b.Upcoming = kept
	return b
}
