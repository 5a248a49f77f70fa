package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "guest_tracker"

// Metrics holds the tracker collectors. A nil *Metrics records nothing.
type Metrics struct {
	analyses           *prometheus.CounterVec
	stepDuration       *prometheus.HistogramVec
	cacheLookups       *prometheus.CounterVec
	narrationFallbacks prometheus.Counter
	batchGuests        *prometheus.CounterVec
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		analyses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "analyses_total",
				Help:      "Total number of single guest analyses by status",
			},
			[]string{"status"},
		),
		stepDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "step_duration_seconds",
				Help:      "Duration of analysis steps in seconds",
				Buckets:   []float64{0.01, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"step"},
		),
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "host_cache_lookups_total",
				Help:      "Host analysis cache lookups by result",
			},
			[]string{"result"},
		),
		narrationFallbacks: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "narration_fallbacks_total",
				Help:      "Number of times the templated rationale replaced a model answer",
			},
		),
		batchGuests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "batch_guests_total",
				Help:      "Guests processed in batches by outcome",
			},
			[]string{"outcome"},
		),
	}
}

func (m *Metrics) ObserveAnalysis(status string) {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveStep(step string, d time.Duration) {
	if m == nil {
		return
	}
	m.stepDuration.WithLabelValues(step).Observe(d.Seconds())
}

func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveNarrationFallback() {
	if m == nil {
		return
	}
	m.narrationFallbacks.Inc()
}

func (m *Metrics) ObserveBatchGuest(outcome string) {
	if m == nil {
		return
	}
	m.batchGuests.WithLabelValues(outcome).Inc()
}
