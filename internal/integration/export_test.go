package integration

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/san-kum/euleretal/internal/samples"
)

func MetricsUpdates(m *Metrics, result string) prometheus.Counter {
	return m.updates.WithLabelValues(result)
}

// SetSamples replaces the cached samples without integrating.
func SetSamples(in *Integration, computed, reference *samples.Samples) {
	in.samples = computed
	in.reference = reference
}
