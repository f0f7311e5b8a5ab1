package experiment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/euleretal/internal/config"
	"github.com/san-kum/euleretal/internal/dynamo"
	"github.com/san-kum/euleretal/internal/physics"
)

func TestRegistryLookups(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, []string{"center_mass", "constant", "spring"}, r.ListFields())
	assert.Equal(t, []string{"broken_euler", "euler", "exact_for_const", "midpoint_euler", "midpoint_second_order"}, r.ListIntegrators())

	integ, err := r.GetIntegrator("midpoint_euler")
	require.NoError(t, err)
	assert.Equal(t, "Midpoint (explicit, Euler)", integ.Label())

	_, err = r.GetIntegrator("rk4")
	assert.ErrorIs(t, err, dynamo.ErrUnknownIntegrator)

	_, err = r.GetField("pendulum", nil)
	assert.ErrorIs(t, err, dynamo.ErrUnknownField)
}

func TestGetFieldAppliesParams(t *testing.T) {
	r := NewRegistry()

	field, err := r.GetField("center_mass", map[string]float64{"gm": 4})
	require.NoError(t, err)
	assert.Equal(t, 4.0, field.(*physics.CenterMass).GM)

	_, err = r.GetField("spring", map[string]float64{"unknown": 1})
	assert.Error(t, err)
}

func TestExperimentRun(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Integrators = []string{"euler", "midpoint_second_order"}
	cfg.StepSizes = []float64{0.2, 0.1}

	e := New(cfg, NewRegistry(), nil, nil)
	require.NoError(t, e.Setup())

	results, err := e.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Equal(t, "euler", results[0].Name)
	assert.Equal(t, dynamo.Duration(0.2), results[0].StepDuration)
	assert.Equal(t, "midpoint_second_order", results[3].Name)
	assert.Equal(t, dynamo.Duration(0.1), results[3].StepDuration)

	for _, r := range results {
		assert.Equal(t, r.Integration.ReferenceSamples().Len(), r.Integration.Samples().Len())
		assert.Contains(t, r.Metrics, "max_position_error")
		assert.Contains(t, r.Metrics, "energy_drift")
	}

	// Smaller steps and higher order both reduce the error on a circular orbit.
	assert.Less(t, results[1].Metrics["max_position_error"], results[0].Metrics["max_position_error"])
	assert.Less(t, results[2].Metrics["max_position_error"], results[0].Metrics["max_position_error"])
}

func TestExperimentSetupErrors(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Integrators = []string{"leapfrog"}
	assert.ErrorIs(t, New(cfg, NewRegistry(), nil, nil).Setup(), dynamo.ErrUnknownIntegrator)

	_, err := New(config.DefaultConfig(), NewRegistry(), nil, nil).Run(context.Background())
	assert.Error(t, err)
}
