package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for scheduling flows.
type BookingMetrics struct {
	createdTotal   *prometheus.CounterVec
	conflictsTotal *prometheus.CounterVec
	bookingLatency *prometheus.HistogramVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		createdTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "grooming",
			Subsystem: "scheduling",
			Name:      "appointments_total",
			Help:      "Total appointment write operations",
		}, []string{"operation", "status"}),
		conflictsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "grooming",
			Subsystem: "scheduling",
			Name:      "booking_conflicts_total",
			Help:      "Total bookings rejected for overlapping an active appointment",
		}, []string{"operation"}),
		bookingLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "grooming",
			Subsystem: "scheduling",
			Name:      "booking_latency_seconds",
			Help:      "Latency of appointment write operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.createdTotal, m.conflictsTotal, m.bookingLatency)
	return m
}

func (m *BookingMetrics) ObserveWrite(operation, status string) {
	if m == nil {
		return
	}
	m.createdTotal.WithLabelValues(operation, status).Inc()
}

func (m *BookingMetrics) ObserveConflict(operation string) {
	if m == nil {
		return
	}
	m.conflictsTotal.WithLabelValues(operation).Inc()
}

func (m *BookingMetrics) ObserveLatency(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.bookingLatency.WithLabelValues(operation).Observe(seconds)
}
