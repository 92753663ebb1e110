package record

import (
	"testing"
	"time"
)

func TestNormalizeFieldsConvertsClockValues(t *testing.T) {
	fields, err := NormalizeFields(KindEvent, map[string]any{
		"time_in": "06:00",
		"bib":     "4521",
		"notes":   "runner down",
	})
	if err != nil {
		t.Fatalf("NormalizeFields() error = %v", err)
	}

	parsed, ok := fields["time_in"].(*time.Time)
	if !ok || parsed == nil {
		t.Fatalf("time_in = %T(%v), want *time.Time", fields["time_in"], fields["time_in"])
	}
	if got := FormatClock(parsed); got == nil || *got != "06:00" {
		t.Fatalf("time_in round trip = %v", got)
	}
	if fields["bib"] != "4521" {
		t.Fatalf("bib = %v, want passthrough", fields["bib"])
	}
}

func TestNormalizeFieldsRejectsUnknownField(t *testing.T) {
	_, err := NormalizeFields(KindEvent, map[string]any{"severity": "high"})
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
	if !IsValidation(err) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
}

func TestNormalizeFieldsNullClockValue(t *testing.T) {
	fields, err := NormalizeFields(KindObservation, map[string]any{"time": nil})
	if err != nil {
		t.Fatalf("NormalizeFields() error = %v", err)
	}
	if v, ok := fields["time"].(*time.Time); !ok || v != nil {
		t.Fatalf("time = %T(%v), want typed nil", fields["time"], fields["time"])
	}
}

func TestEventTypeNames(t *testing.T) {
	cases := []struct {
		kind   Kind
		action Action
		want   string
	}{
		{KindEvent, ActionNew, "new_event"},
		{KindEvent, ActionEdit, "edit_event"},
		{KindEvent, ActionRemove, "remove_event"},
		{KindObservation, ActionNew, "new_observation"},
		{KindAgency, ActionEdit, "agency_update"},
		{KindAssignment, ActionRemove, "assignment_update"},
		{KindObservationCategory, ActionNew, "observation_category_update"},
	}
	for _, tc := range cases {
		if got := EventType(tc.kind, tc.action); got != tc.want {
			t.Fatalf("EventType(%s, %s) = %q, want %q", tc.kind, tc.action, got, tc.want)
		}
	}
}

func TestParseEventType(t *testing.T) {
	kind, action, ok := ParseEventType("edit_event")
	if !ok || kind != KindEvent || action != ActionEdit {
		t.Fatalf("ParseEventType(edit_event) = %v %v %v", kind, action, ok)
	}

	kind, action, ok = ParseEventType("observation_category_update")
	if !ok || kind != KindObservationCategory || action != "" {
		t.Fatalf("ParseEventType(observation_category_update) = %v %v %v", kind, action, ok)
	}

	if _, _, ok := ParseEventType("new_agency"); ok {
		t.Fatal("new_agency is not a valid channel, reference kinds use <kind>_update")
	}
}
