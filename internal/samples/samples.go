// Package samples holds the chain of steps produced by one integration run.
package samples

import (
	"iter"

	"github.com/san-kum/euleretal/internal/dynamo"
	"github.com/san-kum/euleretal/internal/step"
)

// Building collects steps while a run is in progress. Finalized converts it
// into an immutable Samples.
type Building struct {
	steps     []*step.Step
	finalized bool
}

func New(capacity int) *Building {
	return &Building{steps: make([]*step.Step, 0, capacity)}
}

func (b *Building) Push(st *step.Step) {
	if b.finalized {
		panic("samples: Push after Finalized")
	}
	b.steps = append(b.steps, st)
}

func (b *Building) Len() int { return len(b.steps) }

// Finalized hands the collected steps over. The Building must not be used
// afterwards.
func (b *Building) Finalized() *Samples {
	if b.finalized {
		panic("samples: Finalized called twice")
	}
	b.finalized = true
	s := &Samples{steps: b.steps}
	b.steps = nil
	return s
}

type Samples struct {
	steps []*step.Step
}

func (s *Samples) Len() int { return len(s.steps) }

func (s *Samples) At(i int) *step.Step { return s.steps[i] }

func (s *Samples) Steps() iter.Seq2[int, *step.Step] {
	return func(yield func(int, *step.Step) bool) {
		for i, st := range s.steps {
			if !yield(i, st) {
				return
			}
		}
	}
}

// Positions yields the end position of every step.
func (s *Samples) Positions() iter.Seq[dynamo.Position] {
	return func(yield func(dynamo.Position) bool) {
		for _, st := range s.steps {
			if !yield(st.LastS()) {
				return
			}
		}
	}
}

type Closest struct {
	Index    int
	Distance float64
}

// Closest finds the step whose segment passes nearest to pos.
func (s *Samples) Closest(pos dynamo.Position) (Closest, bool) {
	if len(s.steps) == 0 {
		return Closest{}, false
	}
	best := Closest{Index: 0, Distance: s.steps[0].DistanceTo(pos)}
	for i := 1; i < len(s.steps); i++ {
		if d := s.steps[i].DistanceTo(pos); d < best.Distance {
			best = Closest{Index: i, Distance: d}
		}
	}
	return best, true
}
