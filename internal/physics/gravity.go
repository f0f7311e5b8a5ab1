package physics

import (
	"fmt"
	"hash"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/euleretal/internal/dynamo"
)

// SingularityEpsilon is the squared distance below which CenterMass reports
// zero acceleration instead of diverging.
const SingularityEpsilon = 1e-12

// CenterMass is inverse-square gravity towards the origin: a = -GM·p/|p|³.
type CenterMass struct {
	GM float64
}

func NewCenterMass() *CenterMass {
	return &CenterMass{GM: 1.0}
}

func (c *CenterMass) ValueAt(pos dynamo.Position) dynamo.Acceleration {
	p := pos.Vec()
	r2 := r3.Norm2(p)
	if r2 < SingularityEpsilon {
		return dynamo.Acceleration{}
	}
	r3n := r2 * math.Sqrt(r2)
	return dynamo.Acceleration(r3.Scale(-c.GM/r3n, p))
}

func (c *CenterMass) Label() string { return "Gravity" }

func (c *CenterMass) Hash(h hash.Hash64) {
	dynamo.HashString(h, "center-mass")
	dynamo.HashFloat(h, c.GM)
}

func (c *CenterMass) GetParams() map[string]float64 {
	return map[string]float64{"gm": c.GM}
}

func (c *CenterMass) SetParam(name string, value float64) error {
	switch name {
	case "gm":
		c.GM = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}

// Potential is -GM/r, or 0 inside the singularity radius.
func (c *CenterMass) Potential(pos dynamo.Position) float64 {
	r2 := r3.Norm2(pos.Vec())
	if r2 < SingularityEpsilon {
		return 0
	}
	return -c.GM / math.Sqrt(r2)
}
