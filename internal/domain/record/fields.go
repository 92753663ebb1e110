package record

import "time"

// Per-kind field allowlists. Mutations may only touch these names; anything
// else is rejected with a ValidationError instead of being set blindly from
// untrusted input. Identity, display number and the delete flag are owned by
// the store and are deliberately absent.
var allowedFields = map[Kind]map[string]struct{}{
	KindEvent: setOf(
		"time_in", "bib", "reporter",
		"location_id", "agency_id",
		"agency_notified", "agency_arrival", "resolved",
		"notes",
	),
	KindObservation: setOf(
		"time", "bib", "location",
		"reporter_id", "category_id",
		"notes",
	),
	KindAgency:              setOf("name", "display_name", "description", "enabled"),
	KindAssignment:          setOf("name", "description", "enabled"),
	KindLocation:            setOf("name", "description", "enabled"),
	KindObservationCategory: setOf("name", "description", "enabled"),
}

// timeFields are the recognized time-of-day fields normalized from "HH:MM"
// text into timestamps on write.
var timeFields = setOf("time_in", "agency_notified", "agency_arrival", "resolved", "time")

func setOf(names ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// AllowedField reports whether field may be written on kind.
func AllowedField(k Kind, field string) bool {
	fields, ok := allowedFields[k]
	if !ok {
		return false
	}
	_, ok = fields[field]
	return ok
}

// TimeField reports whether field carries a time-of-day value.
func TimeField(field string) bool {
	_, ok := timeFields[field]
	return ok
}

// NormalizeFields validates an incoming field set against the kind's
// allowlist and converts recognized time-of-day fields from "HH:MM" text to
// timestamps. Every other field passes through unchanged. The input map is
// not modified.
func NormalizeFields(k Kind, fields map[string]any) (map[string]any, error) {
	normalized := make(map[string]any, len(fields))
	for name, value := range fields {
		if !AllowedField(k, name) {
			return nil, &ValidationError{Field: name, Reason: "unknown field"}
		}

		if !TimeField(name) {
			normalized[name] = value
			continue
		}

		switch v := value.(type) {
		case nil:
			normalized[name] = (*time.Time)(nil)
		case string:
			t, err := ParseClock(name, v)
			if err != nil {
				return nil, err
			}
			normalized[name] = t
		default:
			return nil, &ValidationError{Field: name, Reason: "expected HH:MM clock time"}
		}
	}
	return normalized, nil
}
