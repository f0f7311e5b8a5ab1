package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/san-kum/euleretal/internal/config"
	"github.com/san-kum/euleretal/internal/dynamo"
	"github.com/san-kum/euleretal/internal/experiment"
	"github.com/san-kum/euleretal/internal/integration"
	"github.com/san-kum/euleretal/internal/metrics"
	"github.com/san-kum/euleretal/internal/optim"
	"github.com/san-kum/euleretal/internal/viz"
)

var (
	dt         float64
	duration   float64
	startPos   []float64
	startVel   []float64
	configFile string
	preset     string
	logLevel   string
	integrator string
	stepIndex  int
	saveFile   string
	width      int
	height     int
	metricName string
	tolerance  float64
	candidates []float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "euleretal",
		Short:         "step-by-step derivations of numerical integrators",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.Float64Var(&dt, "dt", config.DefaultDt, "step duration")
	pf.Float64Var(&duration, "time", config.DefaultDuration, "scenario duration")
	pf.Float64SliceVar(&startPos, "pos", []float64{1, 0, 0}, "start position x,y,z")
	pf.Float64SliceVar(&startVel, "vel", []float64{0, 1, 0}, "start velocity x,y,z")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run [field]",
		Short: "integrate one scenario and compare it with the reference",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	runCmd.Flags().StringVar(&integrator, "integrator", "euler", "integrator")
	runCmd.Flags().StringVar(&saveFile, "save", "", "write the resolved configuration to this file")

	compareCmd := &cobra.Command{
		Use:   "compare [field] [integrators...]",
		Short: "compare integrators on one scenario",
		Args:  cobra.MinimumNArgs(1),
		RunE:  compareIntegrators,
	}

	inspectCmd := &cobra.Command{
		Use:   "inspect [field]",
		Short: "show the derivation of one step",
		Args:  cobra.MaximumNArgs(1),
		RunE:  inspectStep,
	}
	inspectCmd.Flags().StringVar(&integrator, "integrator", "euler", "integrator")
	inspectCmd.Flags().IntVar(&stepIndex, "step", 0, "step index")

	plotCmd := &cobra.Command{
		Use:   "plot [field] [integrators...]",
		Short: "plot position error per step and the trajectories",
		Args:  cobra.MinimumNArgs(1),
		RunE:  plotErrors,
	}
	plotCmd.Flags().IntVar(&width, "width", 72, "plot width")
	plotCmd.Flags().IntVar(&height, "height", 16, "plot height")

	tuneCmd := &cobra.Command{
		Use:   "tune [field]",
		Short: "find the largest step size within an error tolerance",
		Args:  cobra.MaximumNArgs(1),
		RunE:  tuneStepSize,
	}
	tuneCmd.Flags().StringVar(&integrator, "integrator", "euler", "integrator")
	tuneCmd.Flags().StringVar(&metricName, "metric", "max_position_error", "metric to bound")
	tuneCmd.Flags().Float64Var(&tolerance, "tolerance", 0.1, "largest acceptable metric value")
	tuneCmd.Flags().Float64SliceVar(&candidates, "steps", []float64{0.4, 0.2, 0.1, 0.05, 0.025, 0.0125}, "candidate step sizes")

	integratorsCmd := &cobra.Command{
		Use:   "integrators",
		Short: "list integrators",
		RunE:  listIntegrators,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [field]",
		Short: "list presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, compareCmd, inspectCmd, plotCmd, tuneCmd, integratorsCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func setupLogging(level string) error {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q", level)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
	return nil
}

// resolveConfig layers defaults, preset, config file and explicit flags, in
// that order.
func resolveConfig(cmd *cobra.Command, field string, integrators []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if field != "" {
		cfg.Field = field
	}

	if preset != "" {
		p, err := config.GetPreset(cfg.Field, preset)
		if err != nil {
			return nil, err
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if field != "" {
			cfg.Field = field
		}
	}

	flags := cmd.Flags()
	if flags.Changed("dt") || (preset == "" && configFile == "") {
		cfg.StepSizes = []float64{dt}
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("pos") {
		v, err := vec3("pos", startPos)
		if err != nil {
			return nil, err
		}
		cfg.StartPosition = v
	}
	if flags.Changed("vel") {
		v, err := vec3("vel", startVel)
		if err != nil {
			return nil, err
		}
		cfg.StartVelocity = v
	}
	if len(integrators) > 0 {
		cfg.Integrators = integrators
	}
	return cfg, cfg.Validate()
}

func vec3(name string, values []float64) (config.Vec3, error) {
	if len(values) != 3 {
		return config.Vec3{}, fmt.Errorf("--%s needs 3 components, got %d", name, len(values))
	}
	return config.Vec3{values[0], values[1], values[2]}, nil
}

func fieldArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func runExperiment(ctx context.Context, cfg *config.Config) (*experiment.Experiment, []experiment.Result, error) {
	m := integration.NewMetrics(prometheus.NewRegistry())
	exp := experiment.New(cfg, experiment.NewRegistry(), slog.Default(), m)
	if err := exp.Setup(); err != nil {
		return nil, nil, err
	}
	results, err := exp.Run(ctx)
	if err != nil {
		return nil, nil, err
	}
	return exp, results, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, fieldArg(args), []string{integrator})
	if err != nil {
		return err
	}

	exp, results, err := runExperiment(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	sc := exp.Scenario()
	fmt.Println(viz.Title.Render(fmt.Sprintf("%s: %s", sc.Label(), results[0].Integrator.Label())))
	fmt.Printf("start s=%v v=%v, duration %v\n\n", sc.StartPosition, sc.StartVelocity, sc.Duration)

	for _, r := range results {
		computed := r.Integration.Samples()
		reference := r.Integration.ReferenceSamples()
		if computed.Len() == 0 {
			fmt.Printf("dt=%v  no steps fit into %v\n", r.StepDuration, sc.Duration)
			continue
		}
		last := computed.At(computed.Len() - 1)
		ref := reference.At(reference.Len() - 1)

		fmt.Printf("dt=%v  steps=%d\n", r.StepDuration, computed.Len())
		fmt.Printf("  computed  s=%v v=%v\n", last.LastS(), last.LastV())
		fmt.Printf("  reference s=%v v=%v\n", ref.LastS(), ref.LastV())
		fmt.Printf("  error     %s\n", viz.SparklineChart(metrics.PositionErrors(computed, reference), 40))
		fmt.Println(viz.RenderMetrics(r.Metrics))
		fmt.Println(viz.Separator(60))
	}

	if saveFile != "" {
		if err := config.Save(saveFile, cfg); err != nil {
			return err
		}
		fmt.Printf("config saved to %s\n", saveFile)
	}
	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	names := args[1:]
	if len(names) == 0 {
		names = experiment.NewRegistry().ListIntegrators()
	}
	cfg, err := resolveConfig(cmd, args[0], names)
	if err != nil {
		return err
	}

	exp, results, err := runExperiment(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	fmt.Printf("comparing integrators for %s (duration=%v)\n\n", exp.Scenario().Label(), exp.Scenario().Duration)

	var metricNames []string
	for name := range results[0].Metrics {
		metricNames = append(metricNames, name)
	}
	slices.Sort(metricNames)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "integrator\tdt\t%s\n", strings.Join(metricNames, "\t"))
	for _, r := range results {
		row := make([]string, len(metricNames))
		for i, name := range metricNames {
			row[i] = fmt.Sprintf("%.4e", r.Metrics[name])
		}
		fmt.Fprintf(w, "%s\t%v\t%s\n", r.Name, r.StepDuration, strings.Join(row, "\t"))
	}
	return w.Flush()
}

func inspectStep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, fieldArg(args), []string{integrator})
	if err != nil {
		return err
	}
	cfg.StepSizes = cfg.StepSizes[:1]

	_, results, err := runExperiment(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	r := results[0]
	computed := r.Integration.Samples()
	if stepIndex < 0 || stepIndex >= computed.Len() {
		return fmt.Errorf("step %d out of range [0, %d)", stepIndex, computed.Len())
	}

	fmt.Printf("step %d of %d, dt=%v\n\n", stepIndex, computed.Len(), r.StepDuration)
	fmt.Print(viz.RenderDerivation(r.Integrator, computed.At(stepIndex)))

	ref := r.Integration.ReferenceSamples().At(stepIndex)
	fmt.Printf("\nreference s'=%v v'=%v\n", ref.LastS(), ref.LastV())
	return nil
}

func plotErrors(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0], args[1:])
	if err != nil {
		return err
	}

	exp, results, err := runExperiment(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	var series [][]float64
	var names []string
	canvas := viz.NewCanvas(width, height)
	canvas.AddPath(exp.Scenario().Trajectory(dynamo.Duration(slices.Min(cfg.StepSizes))), viz.ReferenceStyle)

	for _, r := range results {
		errs := metrics.PositionErrors(r.Integration.Samples(), r.Integration.ReferenceSamples())
		series = append(series, errs)
		names = append(names, fmt.Sprintf("%s@%v", r.Name, r.StepDuration))
		canvas.AddPath(slices.Collect(r.Integration.Samples().Positions()), viz.PositionStyle)
	}

	caption := "position error per step: " + strings.Join(names, ", ")
	if len(series) == 1 {
		fmt.Println(viz.ErrorPlot(series[0], width, height, caption))
	} else {
		fmt.Println(viz.CompareErrors(series, width, height, caption))
	}
	fmt.Println()
	fmt.Println(viz.Panel.Render(canvas.String()))
	return nil
}

func tuneStepSize(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, fieldArg(args), []string{integrator})
	if err != nil {
		return err
	}

	m := integration.NewMetrics(prometheus.NewRegistry())
	build := func(c *config.Config) (*experiment.Experiment, error) {
		exp := experiment.New(c, experiment.NewRegistry(), slog.Default(), m)
		if err := exp.Setup(); err != nil {
			return nil, err
		}
		return exp, nil
	}

	best, all, ok, err := optim.NewStepSearch(metricName, tolerance, candidates).Search(cmd.Context(), cfg, build)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "dt\t%s\n", metricName)
	for _, c := range all {
		fmt.Fprintf(w, "%g\t%.4e\n", c.StepSize, c.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if !ok {
		fmt.Printf("\nno step size keeps %s within %g\n", metricName, tolerance)
		return nil
	}
	fmt.Printf("\nlargest step within tolerance: %g (%s=%.4e)\n", best.StepSize, metricName, best.Value)
	return nil
}

func listIntegrators(cmd *cobra.Command, args []string) error {
	registry := experiment.NewRegistry()
	for _, name := range registry.ListIntegrators() {
		integ, err := registry.GetIntegrator(name)
		if err != nil {
			return err
		}
		fmt.Printf("%s\n", viz.Title.Render(name+": "+integ.Label()))
		fmt.Printf("%s\n\n", viz.Subtle.Render(integ.Description()))
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	fields := experiment.NewRegistry().ListFields()
	if len(args) > 0 {
		fields = args
	}
	for _, field := range fields {
		presets := config.ListPresets(field)
		if len(presets) == 0 {
			fmt.Printf("%s: no presets\n", field)
			continue
		}
		fmt.Printf("%s: %s\n", field, strings.Join(presets, ", "))
	}
	return nil
}
