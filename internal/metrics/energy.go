package metrics

import (
	"math"

	"github.com/san-kum/euleretal/internal/dynamo"
	"github.com/san-kum/euleretal/internal/step"
)

// EnergyDrift is the largest relative change of the specific energy
// ½|v|² + U(s) of the computed samples. The reference is not consulted.
type EnergyDrift struct {
	name          string
	field         dynamo.Conservative
	initialEnergy float64
	maxDrift      float64
	samples       int
}

// NewEnergyDrift returns nil when field has no potential.
func NewEnergyDrift(field any) *EnergyDrift {
	c, ok := field.(dynamo.Conservative)
	if !ok {
		return nil
	}
	return &EnergyDrift{
		name:  "energy_drift",
		field: c,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) energy(s dynamo.Position, v dynamo.Velocity) float64 {
	n := v.Norm()
	return 0.5*n*n + e.field.Potential(s)
}

func (e *EnergyDrift) Observe(computed, _ *step.Step) {
	if e.samples == 0 {
		start := computed.StartCondition()
		e.initialEnergy = e.energy(start.Position, start.Velocity)
	}
	e.samples++

	energy := e.energy(computed.LastS(), computed.LastV())
	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
