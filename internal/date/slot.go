package date

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	slotMinutes = 30
	slotsPerDay = 24 * 60 / slotMinutes
)

// TimeOfDay is a half-hour aligned time selection (00:00, 00:30, ... 23:30).
type TimeOfDay struct {
	Hour   int
	Minute int
}

// Valid reports whether the time is on a half-hour boundary within a day.
func (t TimeOfDay) Valid() bool {
	return t.Hour >= 0 && t.Hour < 24 && (t.Minute == 0 || t.Minute == slotMinutes)
}

// String returns the time as HH:MM.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// index returns the slot number 0..47.
func (t TimeOfDay) index() int {
	return t.Hour*2 + t.Minute/slotMinutes
}

func slotAt(i int) TimeOfDay {
	i = ((i % slotsPerDay) + slotsPerDay) % slotsPerDay
	return TimeOfDay{Hour: i / 2, Minute: (i % 2) * slotMinutes}
}

// Next returns the following slot, wrapping from 23:30 to 00:00.
func (t TimeOfDay) Next() TimeOfDay { return slotAt(t.index() + 1) }

// Prev returns the preceding slot, wrapping from 00:00 to 23:30.
func (t TimeOfDay) Prev() TimeOfDay { return slotAt(t.index() - 1) }

// ParseTimeOfDay parses HH:MM and requires a half-hour aligned value.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return TimeOfDay{}, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	t := TimeOfDay{Hour: h, Minute: m}
	if !t.Valid() {
		return TimeOfDay{}, fmt.Errorf("invalid time %q: hours 00-23, minutes 00 or 30", s)
	}
	return t, nil
}

// Slots returns all 48 selectable times of a day in order.
func Slots() []TimeOfDay {
	out := make([]TimeOfDay, slotsPerDay)
	for i := range out {
		out[i] = slotAt(i)
	}
	return out
}

// NextSlot returns the first slot at or after now, rolling into the next
// day after 23:30.
func NextSlot(now time.Time) (Date, TimeOfDay) {
	d := Of(now)
	mins := now.Hour()*60 + now.Minute()
	if now.Second() > 0 || now.Nanosecond() > 0 {
		mins++
	}
	i := (mins + slotMinutes - 1) / slotMinutes
	if i >= slotsPerDay {
		return d.AddDays(1), slotAt(0)
	}
	return d, slotAt(i)
}

// Combine joins a calendar date and a time slot into an instant in loc.
func Combine(d Date, t TimeOfDay, loc *time.Location) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour, t.Minute, 0, 0, loc)
}

// SlotOf returns the time slot of t, truncating to the half hour.
func SlotOf(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute() / slotMinutes * slotMinutes}
}
