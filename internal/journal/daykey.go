package journal

import (
	"fmt"
	"time"
)

// dayKeyLayout is the canonical day key format. Fixed-width and zero-padded,
// so lexicographic comparison of day keys is date comparison.
const dayKeyLayout = "2006-01-02"

// DayKeyOf returns the day key for the calendar date of t (local time).
func DayKeyOf(t time.Time) string {
	return t.Format(dayKeyLayout)
}

// ParseDayKey validates a day key. It must match YYYY-MM-DD and name a real
// calendar date.
func ParseDayKey(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dayKeyLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day key %q", s)
	}
	// time.Parse accepts some non-canonical forms; require exact round-trip
	// so keys stay fixed-width.
	if t.Format(dayKeyLayout) != s {
		return time.Time{}, fmt.Errorf("invalid day key %q", s)
	}
	return t, nil
}

// PrevDayKey returns the day key for the calendar day before k.
// k must be a valid day key.
func PrevDayKey(k string) string {
	t, err := ParseDayKey(k)
	if err != nil {
		return ""
	}
	return DayKeyOf(t.AddDate(0, 0, -1))
}

// FormatCountdown renders a duration as HH:MM:SS, rounding up to the next
// whole second so the display never shows 00:00:00 while the gate is closed.
func FormatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64((d + time.Second - 1) / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// PrettyDayKey renders a day key for display, e.g. "Jan 2, 2024".
func PrettyDayKey(k string) string {
	t, err := ParseDayKey(k)
	if err != nil {
		return k
	}
	return t.Format("Jan 2, 2006")
}

// MonthLabel renders the month header for a day key, e.g. "January 2024".
func MonthLabel(k string) string {
	t, err := ParseDayKey(k)
	if err != nil {
		return k
	}
	return t.Format("January 2006")
}
