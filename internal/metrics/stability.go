package metrics

import (
	"github.com/san-kum/euleretal/internal/step"
)

// Stability is the fraction of steps whose position stays finite and within
// threshold of the reference.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(computed, reference *step.Step) {
	s.samples++
	pos := computed.LastS()
	if !pos.IsValid() || pos.Distance(reference.LastS()) > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
