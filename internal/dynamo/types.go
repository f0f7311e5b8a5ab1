package dynamo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

type Duration float64

func (d Duration) Seconds() float64 { return float64(d) }

func (d Duration) String() string {
	return fmt.Sprintf("%gs", float64(d))
}

// StepCount returns how many steps of length dt fit into total, rounded to
// the nearest integer.
func StepCount(total, dt Duration) int {
	if dt <= 0 {
		panic(fmt.Sprintf("dynamo: step duration must be positive, got %v", dt))
	}
	return int(math.Round(float64(total / dt)))
}

type Position r3.Vec

func NewPosition(x, y, z float64) Position { return Position{X: x, Y: y, Z: z} }

func (p Position) Vec() r3.Vec { return r3.Vec(p) }

func (p Position) Add(m Move) Position {
	return Position(r3.Add(r3.Vec(p), r3.Vec(m)))
}

// VectorTo returns the displacement from p to other.
func (p Position) VectorTo(other Position) Move {
	return Move(r3.Sub(r3.Vec(other), r3.Vec(p)))
}

func (p Position) DistanceSquared(other Position) float64 {
	return r3.Norm2(r3.Sub(r3.Vec(p), r3.Vec(other)))
}

func (p Position) Distance(other Position) float64 {
	return math.Sqrt(p.DistanceSquared(other))
}

func (p Position) IsValid() bool { return isFinite(r3.Vec(p)) }

func (p Position) String() string { return formatVec(r3.Vec(p)) }

type Velocity r3.Vec

func NewVelocity(x, y, z float64) Velocity { return Velocity{X: x, Y: y, Z: z} }

func (v Velocity) Vec() r3.Vec { return r3.Vec(v) }

func (v Velocity) Add(o Velocity) Velocity {
	return Velocity(r3.Add(r3.Vec(v), r3.Vec(o)))
}

func (v Velocity) Sub(o Velocity) Velocity {
	return Velocity(r3.Sub(r3.Vec(v), r3.Vec(o)))
}

func (v Velocity) Scale(f float64) Velocity {
	return Velocity(r3.Scale(f, r3.Vec(v)))
}

// Mul integrates the velocity over dt.
func (v Velocity) Mul(dt Duration) Move {
	return Move(r3.Scale(float64(dt), r3.Vec(v)))
}

func (v Velocity) Norm() float64 { return r3.Norm(r3.Vec(v)) }

func (v Velocity) String() string { return formatVec(r3.Vec(v)) }

type Acceleration r3.Vec

func NewAcceleration(x, y, z float64) Acceleration { return Acceleration{X: x, Y: y, Z: z} }

func (a Acceleration) Vec() r3.Vec { return r3.Vec(a) }

func (a Acceleration) Add(o Acceleration) Acceleration {
	return Acceleration(r3.Add(r3.Vec(a), r3.Vec(o)))
}

func (a Acceleration) Scale(f float64) Acceleration {
	return Acceleration(r3.Scale(f, r3.Vec(a)))
}

// Mul integrates the acceleration over dt.
func (a Acceleration) Mul(dt Duration) Velocity {
	return Velocity(r3.Scale(float64(dt), r3.Vec(a)))
}

func (a Acceleration) String() string { return formatVec(r3.Vec(a)) }

// Move is a displacement, the result of integrating a velocity over time.
type Move r3.Vec

func (m Move) Vec() r3.Vec { return r3.Vec(m) }

func (m Move) Add(o Move) Move {
	return Move(r3.Add(r3.Vec(m), r3.Vec(o)))
}

func (m Move) Scale(f float64) Move {
	return Move(r3.Scale(f, r3.Vec(m)))
}

// Mul scales the move by a duration. Used for the second dt of a·dt².
func (m Move) Mul(dt Duration) Move {
	return Move(r3.Scale(float64(dt), r3.Vec(m)))
}

func (m Move) Norm() float64 { return r3.Norm(r3.Vec(m)) }

func (m Move) String() string { return formatVec(r3.Vec(m)) }

type StartCondition struct {
	Position     Position
	Velocity     Velocity
	Acceleration Acceleration
}

func NewStartCondition(s Position, v Velocity, a Acceleration) StartCondition {
	return StartCondition{Position: s, Velocity: v, Acceleration: a}
}

// AccelerationField defines the physics of a scenario. ValueAt must be pure.
type AccelerationField interface {
	ValueAt(pos Position) Acceleration
	Label() string
}

func isFinite(v r3.Vec) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func formatVec(v r3.Vec) string {
	return fmt.Sprintf("(%.4g, %.4g, %.4g)", v.X, v.Y, v.Z)
}

// Conservative fields expose the potential energy per unit mass, which
// allows energy drift to be measured.
type Conservative interface {
	Potential(pos Position) float64
}
