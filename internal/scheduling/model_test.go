package scheduling

import (
	"testing"
	"time"
)

func interval(startHour, startMin, endHour, endMin int) Interval {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	return Interval{
		Start: day.Add(time.Duration(startHour)*time.Hour + time.Duration(startMin)*time.Minute),
		End:   day.Add(time.Duration(endHour)*time.Hour + time.Duration(endMin)*time.Minute),
	}
}

func TestIntervalOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"identical", interval(10, 0, 11, 0), interval(10, 0, 11, 0), true},
		{"contained", interval(10, 0, 11, 0), interval(10, 15, 10, 45), true},
		{"partial overlap", interval(10, 0, 11, 0), interval(10, 30, 11, 30), true},
		{"one minute overlap", interval(10, 0, 11, 0), interval(10, 59, 12, 0), true},
		{"back to back after", interval(10, 0, 11, 0), interval(11, 0, 12, 0), false},
		{"back to back before", interval(10, 0, 11, 0), interval(9, 0, 10, 0), false},
		{"disjoint", interval(10, 0, 11, 0), interval(14, 0, 15, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
			// overlap is symmetric
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("reverse Overlaps = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatusBlocking(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusScheduled, true},
		{StatusConfirmed, true},
		{StatusInProgress, true},
		{StatusNoShow, true},
		{StatusCancelled, false},
		{StatusCompleted, false},
	}
	for _, tt := range tests {
		if got := tt.status.Blocking(); got != tt.want {
			t.Errorf("%s.Blocking() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusScheduled, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if Status("DELETED").Valid() {
		t.Error("DELETED should not be valid")
	}
}

func TestParsePaymentMethod(t *testing.T) {
	if got := ParsePaymentMethod("PIX"); got == nil || *got != PaymentPix {
		t.Errorf("ParsePaymentMethod(PIX) = %v", got)
	}
	if got := ParsePaymentMethod(""); got != nil {
		t.Errorf("empty method should parse to nil, got %v", *got)
	}
	if got := ParsePaymentMethod("BITCOIN"); got != nil {
		t.Errorf("unknown method should parse to nil, got %v", *got)
	}
}
