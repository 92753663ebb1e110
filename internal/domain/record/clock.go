package record

import (
	"strings"
	"time"
)

// clockLayout is the short textual time-of-day format used on the wire.
const clockLayout = "15:04"

// ParseClock converts a "HH:MM" string into a timestamp. Empty input (after
// trimming) normalizes to nil, not an error; anything else that does not
// parse is a ValidationError. The date portion is the zero date, matching
// how the dashboards treat these values as pure times of day.
func ParseClock(field string, value string) (*time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}

	t, err := time.Parse(clockLayout, trimmed)
	if err != nil {
		return nil, &ValidationError{Field: field, Reason: "expected HH:MM clock time"}
	}
	return &t, nil
}

// FormatClock renders a timestamp back into the wire format. Nil stays nil
// so the round trip serialize(parse(x)) == x holds, including for null.
func FormatClock(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(clockLayout)
	return &s
}
