package experiment

import (
	"fmt"
	"slices"

	"github.com/san-kum/euleretal/internal/dynamo"
	"github.com/san-kum/euleretal/internal/integrators"
	"github.com/san-kum/euleretal/internal/physics"
)

// Configurable fields accept named parameter overrides.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

type Registry struct {
	fields      map[string]func() dynamo.AccelerationField
	integrators map[string]func() integrators.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		fields:      make(map[string]func() dynamo.AccelerationField),
		integrators: make(map[string]func() integrators.Integrator),
	}

	r.fields["center_mass"] = func() dynamo.AccelerationField { return physics.NewCenterMass() }
	r.fields["constant"] = func() dynamo.AccelerationField { return physics.NewConstantAcceleration() }
	r.fields["spring"] = func() dynamo.AccelerationField { return physics.NewSpring() }

	r.integrators["broken_euler"] = func() integrators.Integrator { return integrators.NewBrokenEuler() }
	r.integrators["euler"] = func() integrators.Integrator { return integrators.NewEuler() }
	r.integrators["exact_for_const"] = func() integrators.Integrator { return integrators.NewExactForConst() }
	r.integrators["midpoint_euler"] = func() integrators.Integrator { return integrators.NewMidpointEuler() }
	r.integrators["midpoint_second_order"] = func() integrators.Integrator { return integrators.NewMidpointSecondOrder() }

	return r
}

// GetField builds a fresh field and applies params to it.
func (r *Registry) GetField(name string, params map[string]float64) (dynamo.AccelerationField, error) {
	fn, ok := r.fields[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownField, name)
	}
	field := fn()
	if len(params) == 0 {
		return field, nil
	}

	c, ok := field.(Configurable)
	if !ok {
		return nil, fmt.Errorf("field %s has no parameters", name)
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if err := c.SetParam(k, params[k]); err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}
	}
	return field, nil
}

func (r *Registry) GetIntegrator(name string) (integrators.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownIntegrator, name)
	}
	return fn(), nil
}

func (r *Registry) ListFields() []string {
	return sortedKeys(r.fields)
}

func (r *Registry) ListIntegrators() []string {
	return sortedKeys(r.integrators)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
