package bucket

import (
	"sort"
	"time"

	"github.com/twiced-technology-gmbh/dayplan/internal/date"
	"github.com/twiced-technology-gmbh/dayplan/internal/task"
)

// SortByDue sorts tasks by due timestamp in place. The sort is stable, so
// equal timestamps keep their input order in both directions.
func SortByDue(tasks []*task.Task, descending bool) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i].Due.Millis(), tasks[j].Due.Millis()
		if descending {
			return a > b
		}
		return a < b
	})
}

// GroupByDay splits tasks, already sorted ascending, into per-day groups in
// loc. Group order follows first appearance, which is chronological for
// sorted input.
func GroupByDay(tasks []*task.Task, loc *time.Location) []DateGroup {
	groups := []DateGroup{}
	index := make(map[string]int)

	for _, t := range tasks {
		d := date.Of(t.DueIn(loc))
		key := d.Key()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, DateGroup{Key: key, Date: d})
		}
		groups[i].Tasks = append(groups[i].Tasks, t)
	}
	return groups
}
