package step

import (
	"fmt"
	"iter"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/euleretal/internal/dynamo"
)

type computedPosition struct {
	s        dynamo.Position
	fraction dynamo.FractionOfDt
	terms    []term
}

type computedVelocity struct {
	v        dynamo.Velocity
	sampling PositionRef
	fraction dynamo.FractionOfDt
	terms    []term
}

type computedAcceleration struct {
	a        dynamo.Acceleration
	sampling PositionRef
}

// Step is the arena of every quantity derived while integrating one dt.
// Record 0 of each kind holds the start condition. A Step is sealed by
// Builder.Finalize or RecordEndCondition and is read-only afterwards.
type Step struct {
	dt            dynamo.Duration
	positions     []computedPosition
	velocities    []computedVelocity
	accelerations []computedAcceleration

	lastPosition       PositionRef
	lastVelocity       VelocityRef
	accelerationAtLast AccelerationRef

	sealed bool
}

func New(sc dynamo.StartCondition, dt dynamo.Duration) *Step {
	if dt <= 0 {
		panic(fmt.Sprintf("step: dt must be positive, got %v", dt))
	}
	st := &Step{dt: dt}
	st.setStartCondition(sc)
	return st
}

// Next returns a fresh Step that starts at this Step's end condition.
func (st *Step) Next() *Step {
	if !st.sealed {
		panic("step: Next called on a step that is still being built")
	}
	next := &Step{
		dt:            st.dt,
		positions:     make([]computedPosition, 0, cap(st.positions)),
		velocities:    make([]computedVelocity, 0, cap(st.velocities)),
		accelerations: make([]computedAcceleration, 0, cap(st.accelerations)),
	}
	next.setStartCondition(st.NextCondition())
	return next
}

// RecordEndCondition stores an externally computed end state as a boundary
// record and seals the step. Reference samples are built this way.
func (st *Step) RecordEndCondition(s dynamo.Position, v dynamo.Velocity, a dynamo.Acceleration) {
	sRef := st.addPosition(s, dynamo.FullDt, nil)
	st.addVelocity(v, sRef, dynamo.FullDt, nil)
	st.accelerationAtLast = st.addAcceleration(a, sRef)
	st.sealed = true
}

func (st *Step) setStartCondition(sc dynamo.StartCondition) {
	sRef := st.addPosition(sc.Position, dynamo.ZeroDt, nil)
	st.addVelocity(sc.Velocity, sRef, dynamo.ZeroDt, nil)
	st.accelerationAtLast = st.addAcceleration(sc.Acceleration, sRef)
}

func (st *Step) mustBeOpen() {
	if st.sealed {
		panic("step: mutation of a sealed step")
	}
}

func (st *Step) addPosition(s dynamo.Position, f dynamo.FractionOfDt, terms []term) PositionRef {
	st.mustBeOpen()
	ref := PositionRef(len(st.positions))
	st.positions = append(st.positions, computedPosition{s: s, fraction: f, terms: terms})
	st.lastPosition = ref
	return ref
}

func (st *Step) addVelocity(v dynamo.Velocity, sampling PositionRef, f dynamo.FractionOfDt, terms []term) VelocityRef {
	st.mustBeOpen()
	ref := VelocityRef(len(st.velocities))
	st.velocities = append(st.velocities, computedVelocity{v: v, sampling: sampling, fraction: f, terms: terms})
	st.lastVelocity = ref
	return ref
}

func (st *Step) addAcceleration(a dynamo.Acceleration, sampling PositionRef) AccelerationRef {
	st.mustBeOpen()
	ref := AccelerationRef(len(st.accelerations))
	st.accelerations = append(st.accelerations, computedAcceleration{a: a, sampling: sampling})
	return ref
}

func (st *Step) Dt() dynamo.Duration { return st.dt }

func (st *Step) Sealed() bool { return st.sealed }

func (st *Step) StartCondition() dynamo.StartCondition {
	return dynamo.NewStartCondition(st.positions[0].s, st.velocities[0].v, st.accelerations[0].a)
}

// NextCondition is the state the following step starts from: the last
// computed position and velocity and the acceleration at that position.
func (st *Step) NextCondition() dynamo.StartCondition {
	return dynamo.NewStartCondition(
		st.positions[st.lastPosition].s,
		st.velocities[st.lastVelocity].v,
		st.accelerations[st.accelerationAtLast].a,
	)
}

func (st *Step) LastS() dynamo.Position { return st.positions[st.lastPosition].s }

func (st *Step) LastV() dynamo.Velocity { return st.velocities[st.lastVelocity].v }

func (st *Step) LastComputedPosition() ComputedPosition {
	return ComputedPosition{step: st, ref: st.lastPosition}
}

func (st *Step) LastComputedVelocity() ComputedVelocity {
	return ComputedVelocity{step: st, ref: st.lastVelocity}
}

func (st *Step) Position(ref PositionRef) ComputedPosition {
	_ = st.positions[ref]
	return ComputedPosition{step: st, ref: ref}
}

func (st *Step) Velocity(ref VelocityRef) ComputedVelocity {
	_ = st.velocities[ref]
	return ComputedVelocity{step: st, ref: ref}
}

func (st *Step) Acceleration(ref AccelerationRef) ComputedAcceleration {
	_ = st.accelerations[ref]
	return ComputedAcceleration{step: st, ref: ref}
}

func (st *Step) NumPositions() int     { return len(st.positions) }
func (st *Step) NumVelocities() int    { return len(st.velocities) }
func (st *Step) NumAccelerations() int { return len(st.accelerations) }

// Positions yields every position record in insertion order.
func (st *Step) Positions() iter.Seq[dynamo.Position] {
	return func(yield func(dynamo.Position) bool) {
		for _, p := range st.positions {
			if !yield(p.s) {
				return
			}
		}
	}
}

// DistanceTo returns the distance from pos to the segment between the first
// and the last position record.
func (st *Step) DistanceTo(pos dynamo.Position) float64 {
	a := st.positions[0].s.Vec()
	b := st.positions[len(st.positions)-1].s.Vec()
	p := pos.Vec()

	d := r3.Sub(b, a)
	l2 := r3.Norm2(d)
	if l2 == 0 {
		return r3.Norm(r3.Sub(p, a))
	}
	t := r3.Dot(r3.Sub(p, a), d) / l2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	nearest := r3.Add(a, r3.Scale(t, d))
	return r3.Norm(r3.Sub(p, nearest))
}

// ClosestComputedPosition returns the derived position nearest to pos.
// Boundary records are skipped; ok is false when nothing was derived.
func (st *Step) ClosestComputedPosition(pos dynamo.Position) (ComputedPosition, bool) {
	best, bestDist := -1, 0.0
	for i, p := range st.positions {
		if len(p.terms) == 0 {
			continue
		}
		d := p.s.DistanceSquared(pos)
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return ComputedPosition{}, false
	}
	return ComputedPosition{step: st, ref: PositionRef(best)}, true
}

// ClosestComputedVelocity returns the derived velocity whose sampling
// position is nearest to pos.
func (st *Step) ClosestComputedVelocity(pos dynamo.Position) (ComputedVelocity, bool) {
	best, bestDist := -1, 0.0
	for i, v := range st.velocities {
		if len(v.terms) == 0 {
			continue
		}
		d := st.positions[v.sampling].s.DistanceSquared(pos)
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return ComputedVelocity{}, false
	}
	return ComputedVelocity{step: st, ref: VelocityRef(best)}, true
}
