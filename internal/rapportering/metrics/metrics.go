package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for event handling.
type Metrics struct {
	// Events handled by kind and outcome
	EventsHandled *prometheus.CounterVec

	// Duplicate events skipped by the idempotency registry
	DuplicatesSkipped prometheus.Counter

	// End to end event handling latency
	HandleLatency prometheus.Histogram
}

// New creates a Metrics instance with all event handling metrics registered.
func New() *Metrics {
	return &Metrics{
		EventsHandled: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rapportering_events_handled_total",
			Help: "Total events handled by kind and outcome",
		}, []string{"kind", "outcome"}), // outcome: "applied", "rejected", "error"

		DuplicatesSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rapportering_events_duplicates_total",
			Help: "Total events skipped because they were already processed",
		}),

		HandleLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "rapportering_event_handle_duration_seconds",
			Help:    "Duration of event handling including store round trips",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

// IncrementHandled records one handled event.
func (m *Metrics) IncrementHandled(kind, outcome string) {
	if m != nil {
		m.EventsHandled.WithLabelValues(kind, outcome).Inc()
	}
}

// IncrementDuplicate records one skipped duplicate.
func (m *Metrics) IncrementDuplicate() {
	if m != nil {
		m.DuplicatesSkipped.Inc()
	}
}

// ObserveHandleLatency records the total handling duration.
func (m *Metrics) ObserveHandleLatency(d time.Duration) {
	if m != nil {
		m.HandleLatency.Observe(d.Seconds())
	}
}
