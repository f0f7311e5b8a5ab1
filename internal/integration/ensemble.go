package integration

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/euleretal/internal/dynamo"
	"github.com/san-kum/euleretal/internal/integrators"
	"github.com/san-kum/euleretal/internal/scenario"
)

// Job is one independent integration.
type Job struct {
	Scenario     *scenario.Scenario
	Integrator   integrators.Integrator
	StepDuration dynamo.Duration
}

// Ensemble runs independent integrations in parallel. Each job gets its own
// Integration, so no state is shared between goroutines.
type Ensemble struct {
	logger  *slog.Logger
	metrics *Metrics
	limit   int
}

func NewEnsemble(logger *slog.Logger, metrics *Metrics, limit int) *Ensemble {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ensemble{logger: logger, metrics: metrics, limit: limit}
}

// Run returns one Integration per job, in job order. The context is checked
// before each job starts; a running integration is not interrupted.
func (e *Ensemble) Run(ctx context.Context, jobs []Job) ([]*Integration, error) {
	results := make([]*Integration, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}

	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if job.StepDuration <= 0 {
				return fmt.Errorf("job %d: %w: %v", i, dynamo.ErrInvalidStepDuration, job.StepDuration)
			}
			if err := job.Scenario.Validate(); err != nil {
				return fmt.Errorf("job %d: %w", i, err)
			}

			in := New(WithLogger(e.logger), WithMetrics(e.metrics))
			in.Update(job.Scenario, job.Integrator, job.StepDuration)
			results[i] = in
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
