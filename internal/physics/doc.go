// Package physics provides the acceleration fields scenarios are built on.
//
// Each field implements [dynamo.AccelerationField] and [dynamo.Hashable]:
//
//   - [ConstantAcceleration]: homogeneous field, (0, -1, 0) by default
//   - [CenterMass]: inverse-square gravity towards the origin
//   - [Spring]: harmonic field anchored at the origin
//
// Fields also expose GetParams and SetParam for configuration overrides.
// Parameters are part of the hash, so changing one invalidates cached
// integration results.
package physics
