package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout defines the canonical date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// EasternZone is the league's reference timezone for start times.
const EasternZone = "America/New_York"

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// FormatDate formats a time as YYYY-MM-DD in its current location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// CompareDates returns -1, 0 or 1 as a is before, equal to or after b.
func CompareDates(a, b string) (int, error) {
	ta, err := ParseDate(a)
	if err != nil {
		return 0, fmt.Errorf("parse date %q: %w", a, err)
	}
	tb, err := ParseDate(b)
	if err != nil {
		return 0, fmt.Errorf("parse date %q: %w", b, err)
	}
	switch {
	case ta.Before(tb):
		return -1, nil
	case ta.After(tb):
		return 1, nil
	default:
		return 0, nil
	}
}

// ParseClock converts an "MM:SS" clock reading into seconds.
func ParseClock(value string) (int, error) {
	mins, secs, ok := strings.Cut(strings.TrimSpace(value), ":")
	if !ok {
		return 0, fmt.Errorf("clock %q: missing separator", value)
	}
	m, err := strconv.Atoi(mins)
	if err != nil {
		return 0, fmt.Errorf("clock %q: %w", value, err)
	}
	s, err := strconv.Atoi(secs)
	if err != nil {
		return 0, fmt.Errorf("clock %q: %w", value, err)
	}
	if m < 0 || s < 0 || s > 59 {
		return 0, fmt.Errorf("clock %q: out of range", value)
	}
	return m*60 + s, nil
}

// Eastern loads the league timezone, falling back to a fixed -05:00 zone
// when tzdata is unavailable.
func Eastern() *time.Location {
	if loc, err := time.LoadLocation(EasternZone); err == nil {
		return loc
	}
	return time.FixedZone("ET", -5*60*60)
}

// FormatStartTime renders a start time like "7:30pm" in the given location.
func FormatStartTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = Eastern()
	}
	return t.In(loc).Format("3:04pm")
}
