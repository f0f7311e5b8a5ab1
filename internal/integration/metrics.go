package integration

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result labels of the updates counter.
const (
	ResultHit       = "hit"
	ResultMiss      = "miss"
	ResultReference = "reference"
)

// Metrics counts cache behaviour of Integration.Update.
type Metrics struct {
	updates     *prometheus.CounterVec
	runDuration *prometheus.HistogramVec
	steps       prometheus.Counter
}

// NewMetrics registers the integration collectors with reg. Pass
// prometheus.NewRegistry() in tests to avoid global state.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		updates: f.NewCounterVec(prometheus.CounterOpts{
			Name: "euleretal_integration_updates_total",
			Help: "Integration updates by result",
		}, []string{"result"}),
		runDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "euleretal_integration_run_duration_seconds",
			Help:    "Time spent integrating one set of samples",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"integrator"}),
		steps: f.NewCounter(prometheus.CounterOpts{
			Name: "euleretal_integration_steps_total",
			Help: "Integration steps computed",
		}),
	}
}

func (m *Metrics) observeUpdate(result string) {
	if m == nil {
		return
	}
	m.updates.WithLabelValues(result).Inc()
}

func (m *Metrics) observeRun(integrator string, steps int, seconds float64) {
	if m == nil {
		return
	}
	m.steps.Add(float64(steps))
	m.runDuration.WithLabelValues(integrator).Observe(seconds)
}
