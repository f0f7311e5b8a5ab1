package physics

import (
	"fmt"
	"hash"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/euleretal/internal/dynamo"
)

const (
	DefaultStiffness = 1.0
	DefaultMass      = 1.0
)

// Spring is an isotropic harmonic field anchored at the origin: a = -k/m·p.
type Spring struct {
	Stiffness float64
	Mass      float64
}

func NewSpring() *Spring {
	return &Spring{Stiffness: DefaultStiffness, Mass: DefaultMass}
}

func (s *Spring) ValueAt(pos dynamo.Position) dynamo.Acceleration {
	return dynamo.Acceleration(r3.Scale(-s.Stiffness/s.Mass, pos.Vec()))
}

func (s *Spring) Label() string { return "Spring" }

func (s *Spring) Hash(h hash.Hash64) {
	dynamo.HashString(h, "spring")
	dynamo.HashFloat(h, s.Stiffness)
	dynamo.HashFloat(h, s.Mass)
}

func (s *Spring) GetParams() map[string]float64 {
	return map[string]float64{
		"stiffness": s.Stiffness,
		"mass":      s.Mass,
	}
}

func (s *Spring) SetParam(name string, value float64) error {
	switch name {
	case "stiffness":
		s.Stiffness = value
	case "mass":
		if value <= 0 {
			return fmt.Errorf("mass must be positive, got %g", value)
		}
		s.Mass = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}

func (s *Spring) Potential(pos dynamo.Position) float64 {
	return 0.5 * s.Stiffness / s.Mass * r3.Norm2(pos.Vec())
}
