package step

import (
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/euleretal/internal/dynamo"
)

type constantField struct{ a dynamo.Acceleration }

func (f constantField) ValueAt(dynamo.Position) dynamo.Acceleration { return f.a }
func (f constantField) Label() string                               { return "constant" }

// pointField points from any position towards the origin.
type pointField struct{}

func (pointField) ValueAt(p dynamo.Position) dynamo.Acceleration {
	return dynamo.Acceleration(r3.Scale(-1, p.Vec()))
}
func (pointField) Label() string { return "point" }

var (
	s0 = dynamo.NewPosition(1, 2, 3)
	v0 = dynamo.NewVelocity(4, 5, 6)
)

func startCondition(f dynamo.AccelerationField) dynamo.StartCondition {
	return dynamo.NewStartCondition(s0, v0, f.ValueAt(s0))
}

func TestNewStepHoldsStartCondition(t *testing.T) {
	field := pointField{}
	st := New(startCondition(field), 0.5)

	assert.Equal(t, 1, st.NumPositions())
	assert.Equal(t, 1, st.NumVelocities())
	assert.Equal(t, 1, st.NumAccelerations())
	assert.Equal(t, startCondition(field), st.StartCondition())
	assert.Equal(t, startCondition(field), st.NextCondition())
	assert.Equal(t, s0, st.LastS())
	assert.Equal(t, v0, st.LastV())
	assert.False(t, st.Sealed())

	p := st.LastComputedPosition()
	assert.True(t, p.IsBoundary())
	assert.True(t, p.Fraction().Equal(dynamo.ZeroDt))
	assert.Empty(t, collect(p.Contributions()))

	_, ok := st.ClosestComputedPosition(s0)
	assert.False(t, ok)
	_, ok = st.ClosestComputedVelocity(s0)
	assert.False(t, ok)
}

func TestNewStepPanicsOnNonPositiveDt(t *testing.T) {
	assert.Panics(t, func() { New(startCondition(pointField{}), 0) })
}

func TestBuilderEulerStep(t *testing.T) {
	field := pointField{}
	dt := dynamo.Duration(0.3)
	st := New(startCondition(field), dt)
	b := NewBuilder(field, st)

	sRef, vRef, aRef := b.StartValues()
	v1 := b.ComputeVelocity(vRef, aRef.Dt(b.Dt()))
	s1 := b.ComputePosition(sRef, v1.Dt(b.Dt()))
	b.Finalize()

	a0 := field.ValueAt(s0)
	wantV := v0.Add(a0.Mul(dt))
	wantS := s0.Add(wantV.Mul(dt))

	require.True(t, st.Sealed())
	assert.Equal(t, wantV, st.LastV())
	assert.Equal(t, wantS, st.LastS())
	assert.Equal(t, s1, st.LastComputedPosition().Ref())
	assert.Equal(t, v1, st.LastComputedVelocity().Ref())
	assert.Equal(t, 2, st.NumPositions())
	assert.Equal(t, 2, st.NumVelocities())
	assert.Equal(t, 2, st.NumAccelerations())

	next := st.NextCondition()
	assert.Equal(t, wantS, next.Position)
	assert.Equal(t, wantV, next.Velocity)
	assert.Equal(t, field.ValueAt(wantS), next.Acceleration)

	// Finalize anchors v1 at s1 even though it was computed before s1.
	assert.Equal(t, wantS, st.Velocity(v1).SamplingPosition())
	assert.Equal(t, wantS, st.Acceleration(1).SamplingPosition())

	pos := st.Position(s1)
	assert.True(t, pos.Fraction().Equal(dynamo.FullDt))
	contribs := collect(pos.Contributions())
	require.Len(t, contribs, 2)

	assert.Equal(t, StartPosition, contribs[0].Term())
	assert.Equal(t, KindPosition, contribs[0].Kind())
	assert.Equal(t, s0, contribs[0].SamplingPosition())
	_, ok := contribs[0].Vector()
	assert.False(t, ok)
	assert.Empty(t, collect(contribs[0].Contributions()))

	assert.Equal(t, VelocityDt, contribs[1].Term())
	assert.Equal(t, KindVelocity, contribs[1].Kind())
	assert.Equal(t, wantS, contribs[1].SamplingPosition())
	vec, ok := contribs[1].Vector()
	require.True(t, ok)
	assert.Equal(t, wantV.Mul(dt).Vec(), vec)

	sub := collect(contribs[1].Contributions())
	require.Len(t, sub, 2)
	assert.Equal(t, BaseVelocity, sub[0].Term())
	assert.Equal(t, AccelerationDt, sub[1].Term())
	assert.Equal(t, KindAcceleration, sub[1].Kind())
	assert.Equal(t, s0, sub[1].SamplingPosition())
	vec, ok = sub[1].Vector()
	require.True(t, ok)
	assert.Equal(t, a0.Mul(dt).Vec(), vec)
	assert.Empty(t, collect(sub[1].Contributions()))
}

func TestBuilderSecondOrderTerms(t *testing.T) {
	field := pointField{}
	dt := dynamo.Duration(0.3)
	st := New(startCondition(field), dt)
	b := NewBuilder(field, st)

	sRef, vRef, aRef := b.StartValues()
	half := b.Dt().Half()
	sMid := b.ComputePosition(sRef, vRef.Dt(half), aRef.DtDt(half).Scaled(0.5))
	b.Finalize()

	a0 := field.ValueAt(s0)
	h := half.Of(dt)
	want := s0.Add(v0.Mul(h)).Add(a0.Scale(0.5).Mul(h).Mul(h))

	pos := st.Position(sMid)
	assert.Equal(t, want, pos.S())
	assert.True(t, pos.Fraction().Equal(half))

	contribs := collect(pos.Contributions())
	require.Len(t, contribs, 3)
	assert.Equal(t, AccelerationDtDt, contribs[2].Term())
	assert.Equal(t, 0.5, contribs[2].Factor())
	assert.Equal(t, half, contribs[2].Fraction())
}

func TestBuilderVelocityWithoutTermsIsZeroFraction(t *testing.T) {
	field := pointField{}
	st := New(startCondition(field), 1)
	b := NewBuilder(field, st)

	_, vRef, _ := b.StartValues()
	v := b.ComputeVelocity(vRef)
	assert.True(t, st.Velocity(v).Fraction().Equal(dynamo.ZeroDt))
	assert.Equal(t, v0, st.Velocity(v).V())
}

func TestSetDisplayPosition(t *testing.T) {
	field := pointField{}
	st := New(startCondition(field), 0.3)
	b := NewBuilder(field, st)

	sRef, vRef, aRef := b.StartValues()
	half := b.Dt().Half()
	vMid := b.ComputeVelocity(vRef, aRef.Dt(half))
	assert.Equal(t, s0, st.Velocity(vMid).SamplingPosition())

	sMid := b.ComputePosition(sRef, vMid.Dt(half))
	b.SetDisplayPosition(vMid, sMid)
	assert.Equal(t, st.Position(sMid).S(), st.Velocity(vMid).SamplingPosition())
}

func TestWalkVisitsGraphDepthFirst(t *testing.T) {
	field := pointField{}
	st := New(startCondition(field), 0.3)
	b := NewBuilder(field, st)

	sRef, vRef, aRef := b.StartValues()
	v1 := b.ComputeVelocity(vRef, aRef.Dt(b.Dt()))
	s1 := b.ComputePosition(sRef, v1.Dt(b.Dt()))
	b.Finalize()

	type visit struct {
		depth int
		term  Term
	}
	var visits []visit
	st.Position(s1).Walk(func(depth int, c Contribution) bool {
		visits = append(visits, visit{depth, c.Term()})
		return true
	})
	assert.Equal(t, []visit{
		{0, StartPosition},
		{0, VelocityDt},
		{1, BaseVelocity},
		{1, AccelerationDt},
	}, visits)

	count := 0
	st.Position(s1).Walk(func(int, Contribution) bool {
		count++
		return count < 2
	})
	assert.Equal(t, 2, count)
}

func TestContributionsAreRestartable(t *testing.T) {
	field := pointField{}
	st := New(startCondition(field), 0.3)
	b := NewBuilder(field, st)
	sRef, vRef, _ := b.StartValues()
	s1 := b.ComputePosition(sRef, vRef.Dt(b.Dt()))
	b.Finalize()

	seq := st.Position(s1).Contributions()
	assert.Len(t, collect(seq), 2)
	assert.Len(t, collect(seq), 2)
}

func TestContributionsFactor(t *testing.T) {
	field := pointField{}
	st := New(startCondition(field), 0.3)
	b := NewBuilder(field, st)
	_, vRef, aRef := b.StartValues()
	v := b.ComputeVelocity(vRef, aRef.Dt(b.Dt().Half()).Scaled(3))
	b.Finalize()

	contribs := collect(st.Velocity(v).Contributions())
	require.Len(t, contribs, 2)
	assert.Equal(t, 1.0, contribs[0].ContributionsFactor())
	assert.Equal(t, 1.5, contribs[1].ContributionsFactor())
}

func TestBuilderContractViolationsPanic(t *testing.T) {
	field := pointField{}

	t.Run("compute before StartValues", func(t *testing.T) {
		b := NewBuilder(field, New(startCondition(field), 1))
		assert.Panics(t, func() { b.ComputePosition(0) })
	})

	t.Run("compute after Finalize", func(t *testing.T) {
		b := NewBuilder(field, New(startCondition(field), 1))
		_, vRef, _ := b.StartValues()
		b.Finalize()
		assert.Panics(t, func() { b.ComputeVelocity(vRef) })
		assert.Panics(t, func() { b.AccelerationAt(0) })
	})

	t.Run("double Finalize", func(t *testing.T) {
		b := NewBuilder(field, New(startCondition(field), 1))
		b.StartValues()
		b.Finalize()
		assert.Panics(t, b.Finalize)
	})

	t.Run("builder for sealed step", func(t *testing.T) {
		st := New(startCondition(field), 1)
		st.RecordEndCondition(s0, v0, dynamo.Acceleration{})
		assert.Panics(t, func() { NewBuilder(field, st) })
	})
}

func TestNext(t *testing.T) {
	field := constantField{a: dynamo.NewAcceleration(0, -1, 0)}
	st := New(startCondition(field), 1)

	assert.Panics(t, func() { st.Next() })

	b := NewBuilder(field, st)
	sRef, vRef, _ := b.StartValues()
	b.ComputePosition(sRef, vRef.Dt(b.Dt()))
	b.Finalize()

	next := st.Next()
	assert.Equal(t, st.NextCondition(), next.StartCondition())
	assert.Equal(t, st.Dt(), next.Dt())
	assert.False(t, next.Sealed())
}

func TestRecordEndCondition(t *testing.T) {
	field := constantField{a: dynamo.NewAcceleration(0, -1, 0)}
	st := New(startCondition(field), 1)

	s1 := dynamo.NewPosition(5, 6.5, 9)
	v1 := dynamo.NewVelocity(4, 4, 6)
	a1 := dynamo.NewAcceleration(0, -1, 0)
	st.RecordEndCondition(s1, v1, a1)

	assert.True(t, st.Sealed())
	assert.Equal(t, dynamo.NewStartCondition(s1, v1, a1), st.NextCondition())
	assert.True(t, st.LastComputedPosition().IsBoundary())
	assert.True(t, st.LastComputedPosition().Fraction().Equal(dynamo.FullDt))
	assert.Equal(t, s1, st.LastComputedVelocity().SamplingPosition())
	assert.Equal(t, []dynamo.Position{s0, s1}, collect(st.Positions()))

	assert.Panics(t, func() { st.RecordEndCondition(s1, v1, a1) })
}

func TestDistanceTo(t *testing.T) {
	field := constantField{}
	st := New(dynamo.NewStartCondition(dynamo.NewPosition(0, 0, 0), dynamo.Velocity{}, dynamo.Acceleration{}), 1)
	st.RecordEndCondition(dynamo.NewPosition(10, 0, 0), dynamo.Velocity{}, field.a)

	tests := []struct {
		name string
		pos  dynamo.Position
		want float64
	}{
		{"on segment", dynamo.NewPosition(5, 0, 0), 0},
		{"beside segment", dynamo.NewPosition(5, 3, 0), 3},
		{"before start", dynamo.NewPosition(-3, 4, 0), 5},
		{"after end", dynamo.NewPosition(13, 0, 4), 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, st.DistanceTo(tt.pos), 1e-12)
		})
	}
}

func TestClosestComputed(t *testing.T) {
	field := pointField{}
	st := New(startCondition(field), 0.3)
	b := NewBuilder(field, st)

	sRef, vRef, aRef := b.StartValues()
	half := b.Dt().Half()
	vMid := b.ComputeVelocity(vRef, aRef.Dt(half))
	sMid := b.ComputePosition(sRef, vMid.Dt(half))
	b.SetDisplayPosition(vMid, sMid)
	aMid := b.AccelerationAt(sMid)
	v1 := b.ComputeVelocity(vRef, aMid.Dt(b.Dt()))
	s1 := b.ComputePosition(sRef, v1.Dt(b.Dt()))
	b.Finalize()

	p, ok := st.ClosestComputedPosition(s0)
	require.True(t, ok)
	assert.Equal(t, sMid, p.Ref(), "start position is a boundary record and must be skipped")

	p, ok = st.ClosestComputedPosition(st.Position(s1).S())
	require.True(t, ok)
	assert.Equal(t, s1, p.Ref())

	v, ok := st.ClosestComputedVelocity(st.Position(sMid).S())
	require.True(t, ok)
	assert.Equal(t, vMid, v.Ref())
}

func collect[T any](seq iter.Seq[T]) []T {
	var out []T
	for v := range seq {
		out = append(out, v)
	}
	return out
}
