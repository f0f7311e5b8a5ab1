package dynamo

import "errors"

// Domain errors for configuration and lookup. Contract violations inside the
// derivation engine panic instead.
var (
	// ErrInvalidStepDuration indicates a step size that is zero or negative.
	ErrInvalidStepDuration = errors.New("dynamo: step duration must be positive")

	// ErrInvalidDuration indicates a scenario duration that is zero or negative.
	ErrInvalidDuration = errors.New("dynamo: scenario duration must be positive")

	// ErrUnknownIntegrator indicates a lookup of an unregistered integrator name.
	ErrUnknownIntegrator = errors.New("dynamo: unknown integrator")

	// ErrUnknownField indicates a lookup of an unregistered acceleration field.
	ErrUnknownField = errors.New("dynamo: unknown acceleration field")

	// ErrUnknownPreset indicates a lookup of an unknown preset.
	ErrUnknownPreset = errors.New("dynamo: unknown preset")

	// ErrInvalidState indicates a start condition containing NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")
)
