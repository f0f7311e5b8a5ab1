package integrators

import (
	"fmt"

	"github.com/san-kum/euleretal/internal/dynamo"
	"github.com/san-kum/euleretal/internal/step"
)

// Integrator advances one step through a Builder. Implementations are
// stateless; everything they derive goes into the builder's Step.
type Integrator interface {
	Label() string
	Description() string
	IntegrateStep(s0 step.PositionRef, v0 step.VelocityRef, a0 step.AccelerationRef, dt dynamo.FractionOfDt, b *step.Builder)
}

// Identity distinguishes integrators in cache keys.
func Identity(i Integrator) string {
	return fmt.Sprintf("%T:%s", i, i.Label())
}

// All returns one instance of every integrator in teaching order.
func All() []Integrator {
	return []Integrator{
		NewBrokenEuler(),
		NewEuler(),
		NewExactForConst(),
		NewMidpointEuler(),
		NewMidpointSecondOrder(),
	}
}
