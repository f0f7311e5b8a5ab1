package physics

import (
	"fmt"
	"hash"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/euleretal/internal/dynamo"
)

// ConstantAcceleration is a homogeneous field, e.g. gravity near the ground.
type ConstantAcceleration struct {
	A dynamo.Acceleration
}

func NewConstantAcceleration() *ConstantAcceleration {
	return &ConstantAcceleration{A: dynamo.NewAcceleration(0, -1, 0)}
}

func (c *ConstantAcceleration) ValueAt(dynamo.Position) dynamo.Acceleration { return c.A }

func (c *ConstantAcceleration) Label() string { return "Constant Acceleration" }

func (c *ConstantAcceleration) Hash(h hash.Hash64) {
	dynamo.HashString(h, "constant")
	dynamo.HashFloat(h, c.A.X)
	dynamo.HashFloat(h, c.A.Y)
	dynamo.HashFloat(h, c.A.Z)
}

func (c *ConstantAcceleration) GetParams() map[string]float64 {
	return map[string]float64{
		"ax": c.A.X,
		"ay": c.A.Y,
		"az": c.A.Z,
	}
}

func (c *ConstantAcceleration) SetParam(name string, value float64) error {
	switch name {
	case "ax":
		c.A.X = value
	case "ay":
		c.A.Y = value
	case "az":
		c.A.Z = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}

func (c *ConstantAcceleration) Potential(pos dynamo.Position) float64 {
	return -r3.Dot(c.A.Vec(), pos.Vec())
}
