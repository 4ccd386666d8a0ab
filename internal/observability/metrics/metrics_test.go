package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewBookingMetricsRegisters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)

	m.ObserveWrite("create", "ok")
	m.ObserveConflict("create")
	m.ObserveLatency("create", 0.05)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(families) != 3 {
		t.Errorf("metric families = %d, want 3", len(families))
	}
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *BookingMetrics
	m.ObserveWrite("create", "ok")
	m.ObserveConflict("update")
	m.ObserveLatency("create", 1)
}
