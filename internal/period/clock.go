package period

import (
	"fmt"
	"strings"
	"time"
)

// ClockLayout is the stored format of window bounds.
const ClockLayout = "15:04"

// Clock is a time of day as the offset from midnight.
type Clock time.Duration

// ParseClock parses an "HH:MM" time of day.
func ParseClock(value string) (Clock, error) {
	t, err := time.Parse(ClockLayout, strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("parse time of day %q: %w", value, err)
	}
	return Clock(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute), nil
}

// ClockOf returns the time of day of t in t's location, down to the
// nanosecond, so 15:00:30 is after a 15:00 bound.
func ClockOf(t time.Time) Clock {
	h, m, s := t.Clock()
	return Clock(time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(t.Nanosecond()))
}

func (c Clock) String() string {
	d := time.Duration(c)
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}

// Bounds parses both ends of a window.
func Bounds(start, end string) (Clock, Clock, error) {
	st, err := ParseClock(start)
	if err != nil {
		return 0, 0, err
	}
	en, err := ParseClock(end)
	if err != nil {
		return 0, 0, err
	}
	return st, en, nil
}

// ValidRange reports whether start and end parse and start is strictly
// before end.
func ValidRange(start, end string) bool {
	st, en, err := Bounds(start, end)
	return err == nil && st < en
}
