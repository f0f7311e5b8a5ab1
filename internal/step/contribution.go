package step

import (
	"fmt"

	"github.com/san-kum/euleretal/internal/dynamo"
)

// Handles into a Step's arena. A handle is only meaningful for the Step that
// issued it.
type (
	PositionRef     int
	VelocityRef     int
	AccelerationRef int
)

// Kind is the physical quantity a contribution is sourced from.
type Kind int

const (
	KindPosition Kind = iota
	KindVelocity
	KindAcceleration
)

func (k Kind) String() string {
	switch k {
	case KindPosition:
		return "position"
	case KindVelocity:
		return "velocity"
	case KindAcceleration:
		return "acceleration"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Term identifies the shape of a contribution.
type Term int

const (
	// StartPosition is the base position of a position sum.
	StartPosition Term = iota
	// VelocityDt is factor·v·(f·dt).
	VelocityDt
	// AccelerationDtDt is factor·a·(f·dt)².
	AccelerationDtDt
	// BaseVelocity is the base velocity of a velocity sum.
	BaseVelocity
	// AccelerationDt is factor·a·(f·dt).
	AccelerationDt
)

func (t Term) Kind() Kind {
	switch t {
	case StartPosition:
		return KindPosition
	case VelocityDt, BaseVelocity:
		return KindVelocity
	default:
		return KindAcceleration
	}
}

func (t Term) String() string {
	switch t {
	case StartPosition:
		return "s"
	case VelocityDt:
		return "v·dt"
	case AccelerationDtDt:
		return "a·dt²"
	case BaseVelocity:
		return "v"
	case AccelerationDt:
		return "a·dt"
	default:
		return fmt.Sprintf("Term(%d)", int(t))
	}
}

type term struct {
	kind     Term
	factor   float64
	fraction dynamo.FractionOfDt
	s        PositionRef
	v        VelocityRef
	a        AccelerationRef
}

// PositionContribution is one weighted term of a computed position.
type PositionContribution term

// VelocityContribution is one weighted term of a computed velocity.
type VelocityContribution term

// Dt builds the position term v·(f·dt).
func (v VelocityRef) Dt(f dynamo.FractionOfDt) PositionContribution {
	return PositionContribution{kind: VelocityDt, factor: 1, fraction: f, v: v}
}

// Dt builds the velocity term a·(f·dt).
func (a AccelerationRef) Dt(f dynamo.FractionOfDt) VelocityContribution {
	return VelocityContribution{kind: AccelerationDt, factor: 1, fraction: f, a: a}
}

// DtDt builds the position term a·(f·dt)².
func (a AccelerationRef) DtDt(f dynamo.FractionOfDt) PositionContribution {
	return PositionContribution{kind: AccelerationDtDt, factor: 1, fraction: f, a: a}
}

// Scaled multiplies the contribution's factor by k.
func (c PositionContribution) Scaled(k float64) PositionContribution {
	c.factor *= k
	return c
}

// Scaled multiplies the contribution's factor by k.
func (c VelocityContribution) Scaled(k float64) VelocityContribution {
	c.factor *= k
	return c
}

func (c PositionContribution) Term() Term                    { return c.kind }
func (c PositionContribution) Factor() float64               { return c.factor }
func (c PositionContribution) Fraction() dynamo.FractionOfDt { return c.fraction }
func (c VelocityContribution) Term() Term                    { return c.kind }
func (c VelocityContribution) Factor() float64               { return c.factor }
func (c VelocityContribution) Fraction() dynamo.FractionOfDt { return c.fraction }

func basePosition(s PositionRef) term {
	return term{kind: StartPosition, factor: 1, fraction: dynamo.ZeroDt, s: s}
}

func baseVelocity(v VelocityRef) term {
	return term{kind: BaseVelocity, factor: 1, fraction: dynamo.ZeroDt, v: v}
}

// evaluateMove returns the displacement a position term adds to the sum.
func (t term) evaluateMove(st *Step) dynamo.Move {
	h := t.fraction.Of(st.dt)
	switch t.kind {
	case StartPosition:
		return dynamo.Move(st.positions[t.s].s)
	case VelocityDt:
		return st.velocities[t.v].v.Scale(t.factor).Mul(h)
	case AccelerationDtDt:
		return st.accelerations[t.a].a.Scale(t.factor).Mul(h).Mul(h)
	default:
		panic(fmt.Sprintf("step: %v is not a position term", t.kind))
	}
}

func (t term) evaluateVelocity(st *Step) dynamo.Velocity {
	switch t.kind {
	case BaseVelocity:
		return st.velocities[t.v].v
	case AccelerationDt:
		return st.accelerations[t.a].a.Scale(t.factor).Mul(t.fraction.Of(st.dt))
	default:
		panic(fmt.Sprintf("step: %v is not a velocity term", t.kind))
	}
}

// recordFraction is the largest term fraction, or 0/1 for a boundary record.
func recordFraction(terms []term) dynamo.FractionOfDt {
	f := dynamo.ZeroDt
	for _, t := range terms {
		if f.Less(t.fraction) {
			f = t.fraction
		}
	}
	return f
}
