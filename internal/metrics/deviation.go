package metrics

import (
	"math"

	"github.com/san-kum/euleretal/internal/step"
)

// PositionDeviation is the largest distance between computed and reference
// end positions.
type PositionDeviation struct {
	name string
	max  float64
}

func NewPositionDeviation() *PositionDeviation {
	return &PositionDeviation{name: "max_position_error"}
}

func (p *PositionDeviation) Name() string { return p.name }

func (p *PositionDeviation) Observe(computed, reference *step.Step) {
	p.max = math.Max(p.max, computed.LastS().Distance(reference.LastS()))
}

func (p *PositionDeviation) Value() float64 { return p.max }

func (p *PositionDeviation) Reset() { p.max = 0 }

type MeanPositionDeviation struct {
	name    string
	total   float64
	samples int
}

func NewMeanPositionDeviation() *MeanPositionDeviation {
	return &MeanPositionDeviation{name: "mean_position_error"}
}

func (m *MeanPositionDeviation) Name() string { return m.name }

func (m *MeanPositionDeviation) Observe(computed, reference *step.Step) {
	m.total += computed.LastS().Distance(reference.LastS())
	m.samples++
}

func (m *MeanPositionDeviation) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *MeanPositionDeviation) Reset() {
	m.total = 0
	m.samples = 0
}

type VelocityDeviation struct {
	name string
	max  float64
}

func NewVelocityDeviation() *VelocityDeviation {
	return &VelocityDeviation{name: "max_velocity_error"}
}

func (v *VelocityDeviation) Name() string { return v.name }

func (v *VelocityDeviation) Observe(computed, reference *step.Step) {
	v.max = math.Max(v.max, computed.LastV().Sub(reference.LastV()).Norm())
}

func (v *VelocityDeviation) Value() float64 { return v.max }

func (v *VelocityDeviation) Reset() { v.max = 0 }
