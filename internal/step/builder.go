package step

import (
	"github.com/san-kum/euleretal/internal/dynamo"
)

// Builder is the only way an integrator writes into a Step. One Builder
// drives exactly one Step from StartValues to Finalize.
type Builder struct {
	field     dynamo.AccelerationField
	step      *Step
	started   bool
	finalized bool
}

func NewBuilder(field dynamo.AccelerationField, st *Step) *Builder {
	if st.sealed {
		panic("step: builder for a sealed step")
	}
	return &Builder{field: field, step: st}
}

// StartValues returns the handles of the step's start condition.
func (b *Builder) StartValues() (PositionRef, VelocityRef, AccelerationRef) {
	b.started = true
	return 0, 0, 0
}

// Dt is the full step as a fraction.
func (b *Builder) Dt() dynamo.FractionOfDt { return dynamo.FullDt }

func (b *Builder) mustCompute(op string) {
	if !b.started {
		panic("step: " + op + " before StartValues")
	}
	if b.finalized {
		panic("step: " + op + " after Finalize")
	}
}

// ComputePosition appends base + Σ terms and returns its handle.
func (b *Builder) ComputePosition(base PositionRef, terms ...PositionContribution) PositionRef {
	b.mustCompute("ComputePosition")
	all := make([]term, 0, len(terms)+1)
	all = append(all, basePosition(base))
	for _, t := range terms {
		all = append(all, term(t))
	}

	var sum dynamo.Move
	for _, t := range all {
		sum = sum.Add(t.evaluateMove(b.step))
	}
	return b.step.addPosition(dynamo.Position(sum), recordFraction(all), all)
}

// ComputeVelocity appends base + Σ terms and returns its handle. The new
// velocity is displayed at the last computed position.
func (b *Builder) ComputeVelocity(base VelocityRef, terms ...VelocityContribution) VelocityRef {
	b.mustCompute("ComputeVelocity")
	all := make([]term, 0, len(terms)+1)
	all = append(all, baseVelocity(base))
	for _, t := range terms {
		all = append(all, term(t))
	}

	var sum dynamo.Velocity
	for _, t := range all {
		sum = sum.Add(t.evaluateVelocity(b.step))
	}
	return b.step.addVelocity(sum, b.step.lastPosition, recordFraction(all), all)
}

// AccelerationAt evaluates the field at s.
func (b *Builder) AccelerationAt(s PositionRef) AccelerationRef {
	b.mustCompute("AccelerationAt")
	return b.step.addAcceleration(b.field.ValueAt(b.step.positions[s].s), s)
}

// SetDisplayPosition moves where velocity v is drawn.
func (b *Builder) SetDisplayPosition(v VelocityRef, s PositionRef) {
	b.mustCompute("SetDisplayPosition")
	_ = b.step.positions[s]
	b.step.velocities[v].sampling = s
}

// Finalize anchors the last velocity at the last position, stores the
// acceleration there and seals the step.
func (b *Builder) Finalize() {
	if b.finalized {
		panic("step: Finalize called twice")
	}
	b.mustCompute("Finalize")
	st := b.step
	st.velocities[st.lastVelocity].sampling = st.lastPosition
	st.accelerationAtLast = st.addAcceleration(b.field.ValueAt(st.positions[st.lastPosition].s), st.lastPosition)
	st.sealed = true
	b.finalized = true
}

func (b *Builder) Step() *Step { return b.step }
