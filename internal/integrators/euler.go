package integrators

import (
	"github.com/san-kum/euleretal/internal/dynamo"
	"github.com/san-kum/euleretal/internal/step"
)

// BrokenEuler moves with the old velocity. It is the textbook mistake that
// lets orbits spiral outwards.
type BrokenEuler struct{}

func NewBrokenEuler() *BrokenEuler {
	return &BrokenEuler{}
}

func (e *BrokenEuler) Label() string { return "Broken Euler" }

func (e *BrokenEuler) Description() string {
	return "v' = v + a dt\n" +
		"s' = s + v dt"
}

func (e *BrokenEuler) IntegrateStep(s0 step.PositionRef, v0 step.VelocityRef, a0 step.AccelerationRef, dt dynamo.FractionOfDt, b *step.Builder) {
	b.ComputePosition(s0, v0.Dt(dt))
	b.ComputeVelocity(v0, a0.Dt(dt))
}

// Euler is the semi-implicit variant: the position uses the updated velocity.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Label() string { return "Euler" }

func (e *Euler) Description() string {
	return "v' = v + a dt\n" +
		"s' = s + v' dt\n" +
		"    = s + v dt + a dt²"
}

func (e *Euler) IntegrateStep(s0 step.PositionRef, v0 step.VelocityRef, a0 step.AccelerationRef, dt dynamo.FractionOfDt, b *step.Builder) {
	v1 := b.ComputeVelocity(v0, a0.Dt(dt))
	b.ComputePosition(s0, v1.Dt(dt))
}

// ExactForConst is exact whenever the acceleration does not change within dt.
type ExactForConst struct{}

func NewExactForConst() *ExactForConst {
	return &ExactForConst{}
}

func (e *ExactForConst) Label() string { return "Exact for const. acceleration" }

func (e *ExactForConst) Description() string {
	return "v' = v + a dt\n" +
		"s' = s + v dt + ½ a dt²"
}

func (e *ExactForConst) IntegrateStep(s0 step.PositionRef, v0 step.VelocityRef, a0 step.AccelerationRef, dt dynamo.FractionOfDt, b *step.Builder) {
	b.ComputeVelocity(v0, a0.Dt(dt))
	b.ComputePosition(s0, v0.Dt(dt), a0.DtDt(dt).Scaled(0.5))
}
