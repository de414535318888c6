package bucket

import (
	"strings"

	"github.com/twiced-technology-gmbh/dayplan/internal/clierr"
	"github.com/twiced-technology-gmbh/dayplan/internal/task"
)

// View selects which buckets a shell renders.
type View string

// Views.
const (
	ViewToday    View = "today"
	ViewUpcoming View = "upcoming"
	ViewOverdue  View = "overdue"
	ViewAll      View = "all"
)

// ValidViews returns the accepted --view values.
func ValidViews() []string {
	return []string{string(ViewToday), string(ViewUpcoming), string(ViewOverdue), string(ViewAll)}
}

// ParseView validates a view name.
func ParseView(s string) (View, error) {
	v := View(strings.ToLower(strings.TrimSpace(s)))
	if v == "" {
		return ViewAll, nil
	}
	for _, ok := range ValidViews() {
		if string(v) == ok {
			return v, nil
		}
	}
	return "", clierr.Newf(clierr.InvalidView, "invalid view %q", s).
		WithDetails(map[string]any{
			"view":    s,
			"allowed": ValidViews(),
		})
}

// Select empties the buckets the view does not show. The Today view
// includes overdue tasks.
func (b Buckets) Select(v View) Buckets {
	switch v {
	case ViewToday:
		b.Upcoming = []DateGroup{}
	case ViewUpcoming:
		b.Overdue = []*task.Task{}
		b.Today = []*task.Task{}
	case ViewOverdue:
		b.Today = []*task.Task{}
		b.Upcoming = []DateGroup{}
	}
	return b
}
