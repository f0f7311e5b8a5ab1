package integration_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/san-kum/euleretal/internal/dynamo"
	"github.com/san-kum/euleretal/internal/integration"
	"github.com/san-kum/euleretal/internal/integrators"
	"github.com/san-kum/euleretal/internal/physics"
	"github.com/san-kum/euleretal/internal/samples"
	"github.com/san-kum/euleretal/internal/scenario"
	"github.com/san-kum/euleretal/internal/step"
)

// polyline builds boundary-only steps from consecutive start/end pairs.
func polyline(points ...dynamo.Position) *samples.Samples {
	b := samples.New(len(points) / 2)
	for i := 0; i+1 < len(points); i += 2 {
		st := step.New(dynamo.NewStartCondition(points[i], dynamo.Velocity{}, dynamo.Acceleration{}), 1)
		st.RecordEndCondition(points[i+1], dynamo.Velocity{}, dynamo.Acceleration{})
		b.Push(st)
	}
	return b.Finalized()
}

func orbit() *scenario.Scenario {
	return scenario.New(physics.NewCenterMass(), dynamo.NewPosition(1, 0, 0), dynamo.NewVelocity(0, 1, 0), 2*math.Pi)
}

var _ = Describe("Integration", func() {
	var (
		metrics *integration.Metrics
		in      *integration.Integration
	)

	updates := func(result string) float64 {
		return testutil.ToFloat64(integration.MetricsUpdates(metrics, result))
	}

	BeforeEach(func() {
		metrics = integration.NewMetrics(prometheus.NewRegistry())
		in = integration.New(integration.WithMetrics(metrics))
	})

	It("has no samples before the first update", func() {
		Expect(in.Samples()).To(BeNil())
		Expect(in.ReferenceSamples()).To(BeNil())
		_, ok := in.ClosestSampleIndex(dynamo.Position{})
		Expect(ok).To(BeFalse())
	})

	It("computes once and then reports no change", func() {
		sc := orbit()
		Expect(in.Update(sc, integrators.NewEuler(), 0.1)).To(BeTrue())
		Expect(in.Update(sc, integrators.NewEuler(), 0.1)).To(BeFalse())

		Expect(updates(integration.ResultMiss)).To(Equal(1.0))
		Expect(updates(integration.ResultHit)).To(Equal(1.0))
		Expect(updates(integration.ResultReference)).To(Equal(1.0))
	})

	It("keeps computed and reference samples the same length", func() {
		sc := orbit()
		Expect(in.Update(sc, integrators.NewMidpointEuler(), 0.1)).To(BeTrue())

		n := dynamo.StepCount(sc.Duration, 0.1)
		Expect(in.Samples().Len()).To(Equal(n))
		Expect(in.ReferenceSamples().Len()).To(Equal(n))
	})

	It("chains steps end to start", func() {
		Expect(in.Update(orbit(), integrators.NewEuler(), 0.1)).To(BeTrue())
		s := in.Samples()
		for i := 1; i < s.Len(); i++ {
			Expect(s.At(i).StartCondition()).To(Equal(s.At(i - 1).NextCondition()))
		}
	})

	It("keeps reference samples when only the integrator changes", func() {
		sc := orbit()
		in.Update(sc, integrators.NewEuler(), 0.1)
		ref := in.ReferenceSamples()

		Expect(in.Update(sc, integrators.NewBrokenEuler(), 0.1)).To(BeTrue())
		Expect(in.ReferenceSamples()).To(BeIdenticalTo(ref))
		Expect(updates(integration.ResultReference)).To(Equal(1.0))
	})

	It("recomputes everything when the step duration changes", func() {
		sc := orbit()
		in.Update(sc, integrators.NewEuler(), 0.1)
		ref := in.ReferenceSamples()

		Expect(in.Update(sc, integrators.NewEuler(), 0.2)).To(BeTrue())
		Expect(in.ReferenceSamples()).NotTo(BeIdenticalTo(ref))
		Expect(in.Samples().Len()).To(Equal(in.ReferenceSamples().Len()))
	})

	It("recomputes when the scenario changes", func() {
		sc := orbit()
		in.Update(sc, integrators.NewEuler(), 0.1)

		sc.StartVelocity = dynamo.NewVelocity(0, 1.1, 0)
		Expect(in.Update(sc, integrators.NewEuler(), 0.1)).To(BeTrue())
	})

	It("panics on a non-positive step duration", func() {
		Expect(func() { in.Update(orbit(), integrators.NewEuler(), 0) }).To(Panic())
	})

	It("logs run and reference timings under the same key", func() {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		in = integration.New(integration.WithLogger(logger))
		in.Update(orbit(), integrators.NewEuler(), 0.5)

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		Expect(lines).To(HaveLen(2))
		for _, line := range lines {
			Expect(line).To(ContainSubstring(`"elapsed":`))
			Expect(line).NotTo(ContainSubstring("elapsed_us"))
		}
	})

	It("panics with a package message on a negative scenario duration", func() {
		sc := orbit()
		sc.Duration = -1
		Expect(func() { in.Update(sc, integrators.NewEuler(), 0.1) }).To(
			PanicWith(ContainSubstring("integration: scenario duration")))
	})

	Describe("ClosestSampleIndex", func() {
		It("finds the step of a position both samples pass through", func() {
			sc := scenario.New(physics.NewConstantAcceleration(), dynamo.Position{}, dynamo.NewVelocity(1, 0, 0), 3)
			in.Update(sc, integrators.NewExactForConst(), 1)

			// ExactForConst reproduces the reference for a constant field.
			idx, ok := in.ClosestSampleIndex(in.ReferenceSamples().At(2).LastS())
			Expect(ok).To(BeTrue())
			Expect(idx).To(Equal(2))
		})

		It("returns the reference index when both are equally far", func() {
			computed := polyline(dynamo.NewPosition(0, 0, 0), dynamo.NewPosition(1, 0, 0))
			reference := polyline(
				dynamo.NewPosition(5, 0, 0), dynamo.NewPosition(6, 0, 0),
				dynamo.NewPosition(0, 2, 0), dynamo.NewPosition(1, 2, 0),
			)
			integration.SetSamples(in, computed, reference)

			// Distance 1 to computed step 0 and to reference step 1.
			idx, ok := in.ClosestSampleIndex(dynamo.NewPosition(0.5, 1, 0))
			Expect(ok).To(BeTrue())
			Expect(idx).To(Equal(1))
		})

		It("finds the step nearest to a computed position", func() {
			in.Update(orbit(), integrators.NewBrokenEuler(), 0.5)
			target := in.Samples().At(3).LastS()

			idx, ok := in.ClosestSampleIndex(target)
			Expect(ok).To(BeTrue())
			Expect(idx).To(BeNumerically(">=", 3))
			Expect(idx).To(BeNumerically("<=", 4))
		})
	})
})

var _ = Describe("Ensemble", func() {
	It("runs one integration per job in order", func() {
		metrics := integration.NewMetrics(prometheus.NewRegistry())
		e := integration.NewEnsemble(nil, metrics, 2)

		var jobs []integration.Job
		for _, integ := range integrators.All() {
			jobs = append(jobs, integration.Job{Scenario: orbit(), Integrator: integ, StepDuration: 0.25})
		}

		results, err := e.Run(context.Background(), jobs)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(len(jobs)))
		for _, in := range results {
			Expect(in.Samples().Len()).To(Equal(in.ReferenceSamples().Len()))
		}
		Expect(testutil.ToFloat64(integration.MetricsUpdates(metrics, integration.ResultMiss))).To(Equal(float64(len(jobs))))
	})

	It("rejects invalid jobs", func() {
		e := integration.NewEnsemble(nil, nil, 0)
		_, err := e.Run(context.Background(), []integration.Job{
			{Scenario: orbit(), Integrator: integrators.NewEuler(), StepDuration: -1},
		})
		Expect(errors.Is(err, dynamo.ErrInvalidStepDuration)).To(BeTrue())
	})

	It("does not start jobs after cancellation", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		e := integration.NewEnsemble(nil, nil, 1)
		_, err := e.Run(ctx, []integration.Job{
			{Scenario: orbit(), Integrator: integrators.NewEuler(), StepDuration: 0.1},
		})
		Expect(err).To(MatchError(context.Canceled))
	})
})
