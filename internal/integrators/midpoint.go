package integrators

import (
	"github.com/san-kum/euleretal/internal/dynamo"
	"github.com/san-kum/euleretal/internal/step"
)

// MidpointEuler samples the acceleration at a midpoint reached by a half
// Euler step.
type MidpointEuler struct{}

func NewMidpointEuler() *MidpointEuler {
	return &MidpointEuler{}
}

func (m *MidpointEuler) Label() string { return "Midpoint (explicit, Euler)" }

func (m *MidpointEuler) Description() string {
	return "v₁ = v + a ½dt\n" +
		"s₁ = s + v₁ ½dt\n" +
		"a₁ = a(s₁)\n" +
		"v' = v + a₁ dt\n" +
		"s' = s + v' dt\n" +
		"    = s + v dt + a₁ dt²"
}

func (m *MidpointEuler) IntegrateStep(s0 step.PositionRef, v0 step.VelocityRef, a0 step.AccelerationRef, dt dynamo.FractionOfDt, b *step.Builder) {
	half := dt.Half()
	vMid := b.ComputeVelocity(v0, a0.Dt(half))
	sMid := b.ComputePosition(s0, vMid.Dt(half))
	b.SetDisplayPosition(vMid, sMid)
	aMid := b.AccelerationAt(sMid)

	v1 := b.ComputeVelocity(v0, aMid.Dt(dt))
	b.ComputePosition(s0, v1.Dt(dt))
}

// MidpointSecondOrder reaches the midpoint with a second order expansion and
// integrates exactly for the acceleration found there.
type MidpointSecondOrder struct{}

func NewMidpointSecondOrder() *MidpointSecondOrder {
	return &MidpointSecondOrder{}
}

func (m *MidpointSecondOrder) Label() string { return "Midpoint (explicit, SecondOrder)" }

func (m *MidpointSecondOrder) Description() string {
	return "s₁ = s + v ½dt + ½ a (½dt)²\n" +
		"a₁ = a(s₁)\n" +
		"v' = v + a₁ dt\n" +
		"s' = s + v dt + ½ a₁ dt²"
}

func (m *MidpointSecondOrder) IntegrateStep(s0 step.PositionRef, v0 step.VelocityRef, a0 step.AccelerationRef, dt dynamo.FractionOfDt, b *step.Builder) {
	half := dt.Half()
	sMid := b.ComputePosition(s0, v0.Dt(half), a0.DtDt(half).Scaled(0.5))
	aMid := b.AccelerationAt(sMid)

	b.ComputePosition(s0, v0.Dt(dt), aMid.DtDt(dt).Scaled(0.5))
	b.ComputeVelocity(v0, aMid.Dt(dt))
}
