package experiment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/euleretal/internal/config"
	"github.com/san-kum/euleretal/internal/dynamo"
	"github.com/san-kum/euleretal/internal/integration"
	"github.com/san-kum/euleretal/internal/integrators"
	"github.com/san-kum/euleretal/internal/metrics"
	"github.com/san-kum/euleretal/internal/scenario"
)

// Result is one integrator at one step size.
type Result struct {
	Name         string
	Integrator   integrators.Integrator
	StepDuration dynamo.Duration
	Integration  *integration.Integration
	Metrics      map[string]float64
}

type Experiment struct {
	cfg      *config.Config
	registry *Registry
	logger   *slog.Logger
	metrics  *integration.Metrics

	scenario    *scenario.Scenario
	integrators []integrators.Integrator
}

func New(cfg *config.Config, registry *Registry, logger *slog.Logger, m *integration.Metrics) *Experiment {
	if logger == nil {
		logger = slog.Default()
	}
	return &Experiment{cfg: cfg, registry: registry, logger: logger, metrics: m}
}

// Setup resolves names from the configuration.
func (e *Experiment) Setup() error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	field, err := e.registry.GetField(e.cfg.Field, e.cfg.Params)
	if err != nil {
		return err
	}
	e.scenario = scenario.New(field,
		e.cfg.StartPosition.Position(),
		e.cfg.StartVelocity.Velocity(),
		dynamo.Duration(e.cfg.Duration))
	if err := e.scenario.Validate(); err != nil {
		return err
	}

	e.integrators = e.integrators[:0]
	for _, name := range e.cfg.Integrators {
		integ, err := e.registry.GetIntegrator(name)
		if err != nil {
			return err
		}
		e.integrators = append(e.integrators, integ)
	}
	return nil
}

func (e *Experiment) Scenario() *scenario.Scenario { return e.scenario }

// Run integrates every configured integrator at every step size, in that
// order.
func (e *Experiment) Run(ctx context.Context) ([]Result, error) {
	if e.scenario == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	var jobs []integration.Job
	var results []Result
	for i, integ := range e.integrators {
		for _, dt := range e.cfg.StepSizes {
			jobs = append(jobs, integration.Job{
				Scenario:     e.scenario,
				Integrator:   integ,
				StepDuration: dynamo.Duration(dt),
			})
			results = append(results, Result{
				Name:         e.cfg.Integrators[i],
				Integrator:   integ,
				StepDuration: dynamo.Duration(dt),
			})
		}
	}

	runs, err := integration.NewEnsemble(e.logger, e.metrics, 0).Run(ctx, jobs)
	if err != nil {
		return nil, err
	}

	for i, in := range runs {
		results[i].Integration = in
		results[i].Metrics = metrics.Evaluate(metrics.Default(e.scenario.Field), in.Samples(), in.ReferenceSamples())
	}
	e.logger.Info("experiment finished", "field", e.cfg.Field, "runs", len(results))
	return results, nil
}
