package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BookingMetrics records booking engine outcomes per operation.
type BookingMetrics struct {
	duration *prometheus.HistogramVec
	outcomes *prometheus.CounterVec
}

// NewBookingMetrics registers the booking metrics on the provided registerer.
func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	if reg == nil {
		return &BookingMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "booking_op_duration_seconds",
		Help:    "Duration of booking engine operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_op_outcomes",
		Help: "Booking engine operation outcomes.",
	}, []string{"op", "outcome"})
	reg.MustRegister(duration, outcomes)
	return &BookingMetrics{
		duration: duration,
		outcomes: outcomes,
	}
}

// ObserveDuration records how long the named operation took.
func (b *BookingMetrics) ObserveDuration(op string, duration time.Duration) {
	if b == nil || b.duration == nil {
		return
	}
	b.duration.WithLabelValues(normalizeLabel(op)).Observe(duration.Seconds())
}

// IncOutcome counts one terminal outcome for the named operation.
func (b *BookingMetrics) IncOutcome(op, outcome string) {
	if b == nil || b.outcomes == nil {
		return
	}
	b.outcomes.WithLabelValues(normalizeLabel(op), normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
