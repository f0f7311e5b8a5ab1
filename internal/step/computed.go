package step

import (
	"iter"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/euleretal/internal/dynamo"
)

// ComputedPosition is a read-only view of a position record.
type ComputedPosition struct {
	step *Step
	ref  PositionRef
}

func (p ComputedPosition) Ref() PositionRef { return p.ref }

func (p ComputedPosition) S() dynamo.Position { return p.step.positions[p.ref].s }

func (p ComputedPosition) Fraction() dynamo.FractionOfDt {
	return p.step.positions[p.ref].fraction
}

// IsBoundary reports whether the record is a start or end condition.
func (p ComputedPosition) IsBoundary() bool { return len(p.step.positions[p.ref].terms) == 0 }

func (p ComputedPosition) Contributions() iter.Seq[Contribution] {
	return contributionsOf(p.step, p.step.positions[p.ref].terms)
}

// Walk visits the contribution graph depth first. Returning false from fn
// stops the walk.
func (p ComputedPosition) Walk(fn func(depth int, c Contribution) bool) {
	walk(p.Contributions(), 0, fn)
}

// ComputedVelocity is a read-only view of a velocity record.
type ComputedVelocity struct {
	step *Step
	ref  VelocityRef
}

func (v ComputedVelocity) Ref() VelocityRef { return v.ref }

func (v ComputedVelocity) V() dynamo.Velocity { return v.step.velocities[v.ref].v }

// SamplingPosition is where the velocity is displayed.
func (v ComputedVelocity) SamplingPosition() dynamo.Position {
	return v.step.positions[v.step.velocities[v.ref].sampling].s
}

func (v ComputedVelocity) Fraction() dynamo.FractionOfDt {
	return v.step.velocities[v.ref].fraction
}

func (v ComputedVelocity) IsBoundary() bool { return len(v.step.velocities[v.ref].terms) == 0 }

func (v ComputedVelocity) Contributions() iter.Seq[Contribution] {
	return contributionsOf(v.step, v.step.velocities[v.ref].terms)
}

func (v ComputedVelocity) Walk(fn func(depth int, c Contribution) bool) {
	walk(v.Contributions(), 0, fn)
}

type ComputedAcceleration struct {
	step *Step
	ref  AccelerationRef
}

func (a ComputedAcceleration) Ref() AccelerationRef { return a.ref }

func (a ComputedAcceleration) A() dynamo.Acceleration { return a.step.accelerations[a.ref].a }

func (a ComputedAcceleration) SamplingPosition() dynamo.Position {
	return a.step.positions[a.step.accelerations[a.ref].sampling].s
}

// Contribution is a read-only view of one term of a computed quantity.
type Contribution struct {
	step *Step
	t    term
}

func (c Contribution) Kind() Kind                    { return c.t.kind.Kind() }
func (c Contribution) Term() Term                    { return c.t.kind }
func (c Contribution) Factor() float64               { return c.t.factor }
func (c Contribution) Fraction() dynamo.FractionOfDt { return c.t.fraction }

// SamplingPosition is the position the source quantity belongs to.
func (c Contribution) SamplingPosition() dynamo.Position {
	st := c.step
	switch c.t.kind {
	case StartPosition:
		return st.positions[c.t.s].s
	case VelocityDt, BaseVelocity:
		return st.positions[st.velocities[c.t.v].sampling].s
	default:
		return st.positions[st.accelerations[c.t.a].sampling].s
	}
}

// Vector returns the evaluated term. The base position of a sum has no
// vector representation.
func (c Contribution) Vector() (r3.Vec, bool) {
	switch c.t.kind {
	case StartPosition:
		return r3.Vec{}, false
	case VelocityDt, AccelerationDtDt:
		return c.t.evaluateMove(c.step).Vec(), true
	default:
		return c.t.evaluateVelocity(c.step).Vec(), true
	}
}

// ContributionsFactor is the weight applied to the source quantity when it
// is drawn as a velocity arrow.
func (c Contribution) ContributionsFactor() float64 {
	if c.t.kind == AccelerationDt {
		return c.t.factor * c.t.fraction.Float()
	}
	return 1
}

// Contributions yields the terms of the source record one level deeper.
// Accelerations have none.
func (c Contribution) Contributions() iter.Seq[Contribution] {
	st := c.step
	switch c.t.kind {
	case StartPosition:
		return contributionsOf(st, st.positions[c.t.s].terms)
	case VelocityDt, BaseVelocity:
		return contributionsOf(st, st.velocities[c.t.v].terms)
	default:
		return contributionsOf(st, nil)
	}
}

func contributionsOf(st *Step, terms []term) iter.Seq[Contribution] {
	return func(yield func(Contribution) bool) {
		for _, t := range terms {
			if !yield(Contribution{step: st, t: t}) {
				return
			}
		}
	}
}

func walk(seq iter.Seq[Contribution], depth int, fn func(int, Contribution) bool) bool {
	for c := range seq {
		if !fn(depth, c) {
			return false
		}
		if !walk(c.Contributions(), depth+1, fn) {
			return false
		}
	}
	return true
}
