// Package scenario describes what is integrated: a field, a start state and
// a duration. It also produces the high resolution reference trajectory that
// computed samples are compared against.
package scenario

import (
	"fmt"
	"hash"

	"github.com/san-kum/euleretal/internal/dynamo"
	"github.com/san-kum/euleretal/internal/samples"
	"github.com/san-kum/euleretal/internal/step"
)

// StepsPerDt is the number of sub-steps used per dt for reference values.
const StepsPerDt = 40

type Scenario struct {
	Field         dynamo.AccelerationField
	StartPosition dynamo.Position
	StartVelocity dynamo.Velocity
	Duration      dynamo.Duration
}

func New(field dynamo.AccelerationField, s0 dynamo.Position, v0 dynamo.Velocity, duration dynamo.Duration) *Scenario {
	return &Scenario{Field: field, StartPosition: s0, StartVelocity: v0, Duration: duration}
}

func (sc *Scenario) Label() string { return sc.Field.Label() }

// Validate reports scenarios that cannot be integrated.
func (sc *Scenario) Validate() error {
	if sc.Field == nil {
		return fmt.Errorf("%w: nil field", dynamo.ErrUnknownField)
	}
	if sc.Duration <= 0 {
		return fmt.Errorf("%w: %v", dynamo.ErrInvalidDuration, sc.Duration)
	}
	if !sc.StartPosition.IsValid() {
		return fmt.Errorf("%w: start position %v", dynamo.ErrInvalidState, sc.StartPosition)
	}
	return nil
}

// Hash writes everything that influences the integration result.
func (sc *Scenario) Hash(h hash.Hash64) {
	if f, ok := sc.Field.(dynamo.Hashable); ok {
		f.Hash(h)
	} else {
		dynamo.HashString(h, fmt.Sprintf("%T:%s", sc.Field, sc.Field.Label()))
	}
	sc.StartPosition.Hash(h)
	sc.StartVelocity.Hash(h)
	sc.Duration.Hash(h)
}

func (sc *Scenario) StartCondition() dynamo.StartCondition {
	return dynamo.NewStartCondition(sc.StartPosition, sc.StartVelocity, sc.Field.ValueAt(sc.StartPosition))
}

// IntermediateSample advances from start by dt using StepsPerDt sub-steps of
// a second order predictor-corrector.
func (sc *Scenario) IntermediateSample(start dynamo.StartCondition, dt dynamo.Duration) dynamo.StartCondition {
	return sc.advance(start, dt/StepsPerDt, StepsPerDt, nil)
}

// Trajectory returns a dense path with StepsPerDt points per minDt,
// including the start position.
func (sc *Scenario) Trajectory(minDt dynamo.Duration) []dynamo.Position {
	n := dynamo.StepCount(sc.Duration, minDt) * StepsPerDt
	out := make([]dynamo.Position, 0, n+1)
	out = append(out, sc.StartPosition)
	sc.advance(sc.StartCondition(), minDt/StepsPerDt, n, func(s dynamo.Position) {
		out = append(out, s)
	})
	return out
}

// ReferenceSamples returns one boundary-only step per dt, each ending at the
// high resolution solution.
func (sc *Scenario) ReferenceSamples(dt dynamo.Duration) *samples.Samples {
	n := dynamo.StepCount(sc.Duration, dt)
	b := samples.New(n)
	if n == 0 {
		return b.Finalized()
	}

	st := step.New(sc.StartCondition(), dt)
	for i := 0; i < n; i++ {
		if i > 0 {
			st = st.Next()
		}
		end := sc.IntermediateSample(st.StartCondition(), dt)
		st.RecordEndCondition(end.Position, end.Velocity, end.Acceleration)
		b.Push(st)
	}
	return b.Finalized()
}

func (sc *Scenario) advance(start dynamo.StartCondition, h dynamo.Duration, n int, visit func(dynamo.Position)) dynamo.StartCondition {
	s, v, a := start.Position, start.Velocity, start.Acceleration
	for k := 0; k < n; k++ {
		predicted := s.Add(v.Mul(h)).Add(a.Scale(0.5).Mul(h).Mul(h))
		a1 := sc.Field.ValueAt(predicted)

		s = s.Add(v.Mul(h)).Add(a.Scale(2).Add(a1).Scale(1.0 / 6).Mul(h).Mul(h))
		v = v.Add(a.Add(a1).Scale(0.5).Mul(h))
		a = sc.Field.ValueAt(s)

		if visit != nil {
			visit(s)
		}
	}
	return dynamo.NewStartCondition(s, v, a)
}
