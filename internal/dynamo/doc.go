// Package dynamo provides the physical primitives shared by the derivation engine.
//
// The package defines the quantities and collaborator contracts every other
// package builds on:
//
//   - [Position], [Velocity], [Acceleration], [Move]: typed 3-vectors
//   - [Duration]: a span of simulated time
//   - [FractionOfDt]: an exact rational multiple of a step's dt
//   - [StartCondition]: the (s, v, a) triple at a step boundary
//   - [AccelerationField]: a pure Position -> Acceleration function
//
// # Typed Arithmetic
//
// Multiplying by a [Duration] moves a quantity down one derivative, so the
// compiler keeps the units of an integration formula honest:
//
//	v1 := v0.Add(a0.Mul(dt))     // Acceleration * dt -> Velocity
//	s1 := s0.Add(v1.Mul(dt))     // Velocity * dt -> Move
//
// # Thread Safety
//
// All types are immutable values. AccelerationField implementations must be
// pure and are expected to be safe for concurrent use.
package dynamo
