package record

import "testing"

func TestParseClockRoundTrip(t *testing.T) {
	for _, value := range []string{"00:00", "06:00", "08:30", "23:59"} {
		parsed, err := ParseClock("time_in", value)
		if err != nil {
			t.Fatalf("ParseClock(%q) error = %v", value, err)
		}
		if parsed == nil {
			t.Fatalf("ParseClock(%q) = nil", value)
		}
		formatted := FormatClock(parsed)
		if formatted == nil || *formatted != value {
			t.Fatalf("FormatClock(ParseClock(%q)) = %v", value, formatted)
		}
	}
}

func TestParseClockEmptyIsNull(t *testing.T) {
	for _, value := range []string{"", "   "} {
		parsed, err := ParseClock("resolved", value)
		if err != nil {
			t.Fatalf("ParseClock(%q) error = %v", value, err)
		}
		if parsed != nil {
			t.Fatalf("ParseClock(%q) = %v, want nil", value, parsed)
		}
	}
	if FormatClock(nil) != nil {
		t.Fatal("FormatClock(nil) should stay nil")
	}
}

func TestParseClockRejectsMalformedInput(t *testing.T) {
	for _, value := range []string{"8:3x", "25:00", "noon", "08-30"} {
		if _, err := ParseClock("time_in", value); err == nil {
			t.Fatalf("ParseClock(%q) expected error", value)
		} else if !IsValidation(err) {
			t.Fatalf("ParseClock(%q) error = %v, want ValidationError", value, err)
		}
	}
}
