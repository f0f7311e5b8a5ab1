// Package metrics measures how far computed samples drift from the
// reference solution.
package metrics

import (
	"github.com/san-kum/euleretal/internal/dynamo"
	"github.com/san-kum/euleretal/internal/samples"
	"github.com/san-kum/euleretal/internal/step"
)

// Metric accumulates an error measure over pairs of computed and reference
// steps.
type Metric interface {
	Name() string
	Observe(computed, reference *step.Step)
	Value() float64
	Reset()
}

// Default returns the metrics reported by the CLI.
func Default(field dynamo.AccelerationField) []Metric {
	ms := []Metric{
		NewPositionDeviation(),
		NewMeanPositionDeviation(),
		NewVelocityDeviation(),
		NewStability(1.0),
	}
	if drift := NewEnergyDrift(field); drift != nil {
		ms = append(ms, drift)
	}
	return ms
}

// Evaluate resets ms, feeds them every step pair and returns the values by
// name. Extra steps on either side are ignored.
func Evaluate(ms []Metric, computed, reference *samples.Samples) map[string]float64 {
	n := min(computed.Len(), reference.Len())
	for _, m := range ms {
		m.Reset()
		for i := 0; i < n; i++ {
			m.Observe(computed.At(i), reference.At(i))
		}
	}

	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}

// PositionErrors returns the per-step distance between computed and
// reference end positions.
func PositionErrors(computed, reference *samples.Samples) []float64 {
	n := min(computed.Len(), reference.Len())
	out := make([]float64, n)
	for i := range out {
		out[i] = computed.At(i).LastS().Distance(reference.At(i).LastS())
	}
	return out
}
