package optim

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/san-kum/euleretal/internal/config"
	"github.com/san-kum/euleretal/internal/experiment"
)

// Candidate is the outcome of one step size in a search.
type Candidate struct {
	StepSize float64
	Value    float64
}

// StepSearch looks for the largest step size whose metric stays within a
// tolerance. Candidates are evaluated in a single experiment run.
type StepSearch struct {
	metric    string
	tolerance float64
	steps     []float64
}

func NewStepSearch(metric string, tolerance float64, steps []float64) *StepSearch {
	sorted := slices.Clone(steps)
	slices.Sort(sorted)
	return &StepSearch{metric: metric, tolerance: tolerance, steps: slices.Compact(sorted)}
}

// Search runs every candidate step size for the first integrator named in
// base. best is the largest candidate within tolerance; ok is false when
// none qualifies.
func (s *StepSearch) Search(
	ctx context.Context,
	base *config.Config,
	buildExperiment func(cfg *config.Config) (*experiment.Experiment, error),
) (best Candidate, all []Candidate, ok bool, err error) {
	if len(s.steps) == 0 {
		return Candidate{}, nil, false, fmt.Errorf("optim: no candidate step sizes")
	}
	if len(base.Integrators) == 0 {
		return Candidate{}, nil, false, fmt.Errorf("optim: no integrator to tune")
	}

	cfg := base.Clone()
	cfg.Integrators = cfg.Integrators[:1]
	cfg.StepSizes = s.steps

	exp, err := buildExperiment(cfg)
	if err != nil {
		return Candidate{}, nil, false, err
	}
	results, err := exp.Run(ctx)
	if err != nil {
		return Candidate{}, nil, false, err
	}

	best.Value = math.Inf(1)
	for _, r := range results {
		val, found := r.Metrics[s.metric]
		if !found {
			return Candidate{}, nil, false, fmt.Errorf("optim: unknown metric %q", s.metric)
		}
		c := Candidate{StepSize: float64(r.StepDuration), Value: val}
		all = append(all, c)
		if val <= s.tolerance && (!ok || c.StepSize > best.StepSize) {
			best, ok = c, true
		}
	}
	if !ok {
		best = Candidate{}
	}
	return best, all, ok, nil
}
