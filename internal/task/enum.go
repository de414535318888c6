package task

// Reminder is an advisory label; nothing is ever scheduled from it.
type Reminder string

// Reminder values.
const (
	ReminderNone  Reminder = "none"
	Reminder5Min  Reminder = "5min"
	Reminder10Min Reminder = "10min"
	Reminder1Hour Reminder = "1hour"
	Reminder1Day  Reminder = "1day"
	Reminder1Week Reminder = "1week"
)

// Reminders lists the reminder values in picker order.
var Reminders = []Reminder{ReminderNone, Reminder5Min, Reminder10Min, Reminder1Hour, Reminder1Day, Reminder1Week}

var reminderLabels = map[Reminder]string{
	ReminderNone:  "None",
	Reminder5Min:  "5 minutes before",
	Reminder10Min: "10 minutes before",
	Reminder1Hour: "1 hour before",
	Reminder1Day:  "1 day before",
	Reminder1Week: "1 week before",
}

// Valid reports whether r is a known value. The empty value is treated as none.
func (r Reminder) Valid() bool {
	if r == "" {
		return true
	}
	_, ok := reminderLabels[r]
	return ok
}

// Label returns the display text.
func (r Reminder) Label() string {
	if r == "" {
		r = ReminderNone
	}
	if l, ok := reminderLabels[r]; ok {
		return l
	}
	return string(r)
}

// Repeat is an advisory recurrence label.
type Repeat string

// Repeat values.
const (
	RepeatNever   Repeat = "never"
	RepeatDaily   Repeat = "daily"
	RepeatWeekly  Repeat = "weekly"
	RepeatMonthly Repeat = "monthly"
)

// Repeats lists the repeat values in picker order.
var Repeats = []Repeat{RepeatNever, RepeatDaily, RepeatWeekly, RepeatMonthly}

var repeatLabels = map[Repeat]string{
	RepeatNever:   "Never",
	RepeatDaily:   "Daily",
	RepeatWeekly:  "Weekly",
	RepeatMonthly: "Monthly",
}

// Valid reports whether r is a known value. The empty value is treated as never.
func (r Repeat) Valid() bool {
	if r == "" {
		return true
	}
	_, ok := repeatLabels[r]
	return ok
}

// Label returns the display text.
func (r Repeat) Label() string {
	if r == "" {
		r = RepeatNever
	}
	if l, ok := repeatLabels[r]; ok {
		return l
	}
	return string(r)
}

// CycleReminder returns the value after r in picker order, wrapping.
func CycleReminder(r Reminder, step int) Reminder {
	return cycle(Reminders, r, ReminderNone, step)
}

// CycleRepeat returns the value after r in picker order, wrapping.
func CycleRepeat(r Repeat, step int) Repeat {
	return cycle(Repeats, r, RepeatNever, step)
}

func cycle[T comparable](values []T, cur, fallback T, step int) T {
	idx := 0
	for i, v := range values {
		if v == cur {
			idx = i
			break
		}
		if v == fallback {
			idx = i
		}
	}
	n := len(values)
	return values[((idx+step)%n+n)%n]
}
