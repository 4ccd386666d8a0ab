package organizations

import (
	"testing"
	"time"
)

func TestOpenMinutes(t *testing.T) {
	bh := BusinessHours{
		"mon": "08:00-18:00",
		"sat": "08:00-14:00",
		"sun": "closed",
	}

	tests := []struct {
		name    string
		day     time.Weekday
		minutes int
		open    bool
	}{
		{"weekday", time.Monday, 600, true},
		{"short saturday", time.Saturday, 360, true},
		{"closed sunday", time.Sunday, 0, false},
		{"missing day falls back to default", time.Tuesday, 600, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			minutes, open := bh.OpenMinutes(tt.day)
			if open != tt.open || minutes != tt.minutes {
				t.Errorf("OpenMinutes(%v) = (%d, %v), want (%d, %v)", tt.day, minutes, open, tt.minutes, tt.open)
			}
		})
	}
}

func TestOpenMinutesMalformedRange(t *testing.T) {
	bh := BusinessHours{"mon": "8h-18h"}
	if _, open := bh.OpenMinutes(time.Monday); open {
		t.Error("malformed range should read as closed")
	}

	bh = BusinessHours{"mon": "18:00-08:00"}
	if _, open := bh.OpenMinutes(time.Monday); open {
		t.Error("inverted range should read as closed")
	}
}

func TestDefaultBusinessHoursSundayClosed(t *testing.T) {
	if _, open := DefaultBusinessHours().OpenMinutes(time.Sunday); open {
		t.Error("default schedule should be closed on sunday")
	}
}

func TestBusinessHoursValidate(t *testing.T) {
	valid := BusinessHours{"mon": "09:00-17:30", "sun": "Closed"}
	if err := valid.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	for name, bh := range map[string]BusinessHours{
		"unknown day":    {"monday": "08:00-18:00"},
		"bad clock":      {"mon": "25:00-26:00"},
		"close not after": {"mon": "18:00-18:00"},
		"no dash":        {"mon": "08:00"},
	} {
		if err := bh.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}
