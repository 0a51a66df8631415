package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/san-kum/spintop/internal/analysis"
	"github.com/san-kum/spintop/internal/automation"
	"github.com/san-kum/spintop/internal/config"
	"github.com/san-kum/spintop/internal/experiment"
	"github.com/san-kum/spintop/internal/export"
	"github.com/san-kum/spintop/internal/logging"
	"github.com/san-kum/spintop/internal/optim"
	"github.com/san-kum/spintop/internal/sim"
	"github.com/san-kum/spintop/internal/storage"
	"github.com/san-kum/spintop/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir  string
	verbose  bool
	logLevel string
	theme    string

	// Scene configuration
	configFile string
	preset     string
	seed       int64
	duration   float64
	useAt      []float64

	runs int

	// Tuning
	tuneParams []string
	metric     string
	maximize   bool

	// Monte Carlo
	trials      int
	aimJitter   float64
	startJitter float64
)

// main registers the spintop commands and runs the root command until it
// finishes or the process is interrupted.
func main() {
	rootCmd := &cobra.Command{
		Use:          "spintop",
		Short:        "spinning top placement and balance lab",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".spintop", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", viz.Themes[0].Name, "colour theme")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a scene and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScene,
	}
	addSceneFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	scenesCmd := &cobra.Command{
		Use:   "scenes",
		Short: "list available scenes",
		RunE:  listScenes,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run]",
		Short: "plot tilt, spin and push of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run]",
		Short: "wobble spectrum and drift of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run]",
		Short: "write the samples of a run as csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run]",
		Short: "write a run and its samples as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list configuration presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PRESET\tSCENE\tFALL\tDURATION")
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%.1f-%.1fs\t%.0fs\n",
					name, cfg.Scene.Name, cfg.Top.MinFallTime, cfg.Top.MaxFallTime, cfg.Sim.Duration)
			}
			return w.Flush()
		},
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [scene]",
		Short: "run a scene over consecutive seeds",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepScene,
	}
	addSceneFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&runs, "runs", 8, "number of seeds")

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "step a scene in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSceneFlags(liveCmd)

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run]",
		Short: "write the ground track of a run as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}

	tuneCmd := &cobra.Command{
		Use:   "tune [scene]",
		Short: "grid search top parameters against a metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  tuneScene,
	}
	addSceneFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&tuneParams, "param", nil, "name=a,b,c or name=min:max:n (repeatable)")
	tuneCmd.Flags().StringVar(&metric, "metric", "settle_time", "metric to optimize")
	tuneCmd.Flags().BoolVar(&maximize, "maximize", false, "maximize instead of minimize")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario of scripted runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [scene]",
		Short: "jitter the aim and count placements and tosses",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMonteCarlo,
	}
	addSceneFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().Float64Var(&aimJitter, "aim", 0.1, "gaze jitter per component")
	monteCarloCmd.Flags().Float64Var(&startJitter, "start", 0.05, "start position jitter (m)")

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write a configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}
	configCmd.Flags().StringVar(&preset, "preset", "", "start from a preset")

	rootCmd.AddCommand(runCmd, listCmd, scenesCmd, plotCmd, analyzeCmd, exportCSVCmd,
		exportJSONCmd, exportSVGCmd, presetsCmd, sweepCmd, tuneCmd, scenarioCmd, monteCarloCmd,
		liveCmd, configCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func addSceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Float64SliceVar(&useAt, "use-at", []float64{config.DefaultUseAt}, "times to press use")
}

// loadConfig starts from the preset or the defaults, replaces them with the
// config file if one is given, then applies the scene argument and any
// flags set on the command line.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if len(args) > 0 {
		cfg.Scene.Name = args[0]
	}
	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Sim.Seed = seed
	}
	if flags.Changed("time") {
		cfg.Sim.Duration = duration
	}
	if flags.Changed("use-at") {
		cfg.Scene.UseAt = useAt
	}
	return cfg, cfg.Validate()
}

// newLogger builds the command logger. An unknown --log-level falls back to
// info with a warning; -v always enables debug.
func newLogger() logging.Logger {
	level, err := logging.ParseLevel(logLevel)
	l := logging.New("spintop", level)
	if err != nil {
		l.Warnf("%v, using info", err)
	}
	if verbose {
		l.SetDebug(true)
	}
	return l
}

func styles() viz.Styles {
	return viz.NewStyles(viz.ThemeByName(theme))
}

func runScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	log := newLogger()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.New(cfg, experiment.NewRegistry(), log)
	if err != nil {
		return err
	}
	defer exp.Close()

	fmt.Printf("running %s scene...\n", cfg.Scene.Name)
	start := time.Now()

	result, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(cfg, preset, result)
	if err != nil {
		return err
	}

	final := result.Final()
	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d (fixed steps: %d)\n", result.Frames, result.FixedSteps)
	fmt.Printf("final: phase=%s tilt=%.1f° spin=%.2f rad/s\n", final.Phase, degrees(final.Tilt), final.AngularSpeed)
	for _, e := range result.Errors {
		log.Warnf("%v", e)
	}
	fmt.Println(viz.Summary("metrics", result.Metrics, styles()))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	stored, err := st.List()
	if err != nil {
		return err
	}

	if len(stored) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tPRESET\tTIME\tDURATION\tSEED\tSETTLE")

	for _, run := range stored {
		settle := "-"
		if v, ok := run.Metrics["settle_time"]; ok && v >= 0 {
			settle = fmt.Sprintf("%.2fs", v)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2fs\t%d\t%s\n",
			run.ID,
			run.Scene,
			orDash(run.Preset),
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Seed,
			settle,
		)
	}

	return w.Flush()
}

func listScenes(cmd *cobra.Command, args []string) error {
	reg := experiment.NewRegistry()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENE\tDESCRIPTION")
	for _, name := range reg.ListScenes() {
		fmt.Fprintf(w, "%s\t%s\n", name, reg.Describe(name))
	}
	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, []sim.Sample, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(samples) == 0 {
		return nil, nil, fmt.Errorf("no data for run %s", runID)
	}
	return meta, samples, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("samples: %d\n\n", len(samples))

	r := &sim.Result{Samples: samples}
	plots := []struct {
		caption string
		f       func(sim.Sample) float64
	}{
		{"tilt (deg)", func(s sim.Sample) float64 { return degrees(s.Tilt) }},
		{"spin (rad/s)", func(s sim.Sample) float64 { return s.AngularSpeed }},
		{"height (m)", func(s sim.Sample) float64 { return s.Position.Y() }},
		{"push force (N)", func(s sim.Sample) float64 { return s.PushForce }},
	}
	for _, p := range plots {
		fmt.Println(viz.PlotSeries(r.Series(p.f), p.caption, 80, 10))
		fmt.Println()
	}

	fmt.Println("ground track (o start, x settled):")
	fmt.Println(analysis.PathToASCII(analysis.GeneratePath(samples), 60, 20))
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("wobble analysis: %s\n", meta.ID)
	fmt.Printf("scene: %s\n\n", meta.Scene)

	spectrum := analysis.WobbleSpectrum(samples, meta.FrameDt)
	if len(spectrum.Power) < 2 {
		return fmt.Errorf("run too short for a spectrum")
	}
	fmt.Println(viz.PlotSeries(spectrum.Power[:max(2, len(spectrum.Power)/4)], "tilt power spectrum", 80, 15))
	fmt.Println()

	freq, power := analysis.DominantFrequency(spectrum)
	fmt.Printf("dominant wobble: %.3f hz (power %.4f)\n", freq, power)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	path := analysis.GeneratePath(samples)
	fmt.Printf("drift extent: %.3f m\n", path.Extent())
	if path.Settled >= 0 {
		fmt.Printf("settled at: %.2f s\n", samples[path.Settled].Time)
	} else {
		fmt.Println("settled at: never")
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.WriteSamples(os.Stdout, samples)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, samples)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return export.WriteSVG(os.Stdout, export.PathToSVG(analysis.GeneratePath(samples), 400, 400, "#00ff88"))
}

func tuneScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if len(tuneParams) == 0 {
		return fmt.Errorf("no --param given (available: %v)", optim.ParamNames())
	}

	names := make([]string, 0, len(tuneParams))
	ranges := make([][]float64, 0, len(tuneParams))
	for _, p := range tuneParams {
		name, values, err := optim.ParseParam(p)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	g, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}
	g.Maximize = maximize

	best, all, err := g.Search(cmd.Context(), cfg, experiment.NewRegistry(), metric)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(metric))
	for _, tr := range all {
		row := make([]string, len(names))
		for i, name := range names {
			row[i] = fmt.Sprintf("%.4g", tr.Params[name])
		}
		fmt.Fprintf(w, "%s\t%.4f\n", strings.Join(row, "\t"), tr.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nbest %s: %.4f with", metric, best.Value)
	for _, name := range names {
		fmt.Printf(" %s=%.4g", name, best.Params[name])
	}
	fmt.Println()
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("scenario: %s\n", scenario.Name)
	if scenario.Description != "" {
		fmt.Printf("%s\n", scenario.Description)
	}
	results, err := automation.RunScenario(cmd.Context(), scenario, experiment.NewRegistry(), st, newLogger())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSCENE\tOUTCOME\tFINAL PHASE\tRUN")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			r.Step,
			r.Config.Scene.Name,
			automation.Classify(r.Result.Samples),
			r.Result.Final().Phase,
			orDash(r.RunID),
		)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	results, err := automation.RunMonteCarlo(cmd.Context(), &automation.MonteCarloConfig{
		Base:        cfg,
		AimJitter:   aimJitter,
		StartJitter: startJitter,
		NumTrials:   trials,
		Seed:        cfg.Sim.Seed,
	}, experiment.NewRegistry(), newLogger())
	if err != nil {
		return err
	}

	counts := automation.MonteCarloStats(results)
	fmt.Printf("%d trials on %s\n", len(results), cfg.Scene.Name)
	for _, o := range []automation.Outcome{automation.OutcomePlaced, automation.OutcomeTossed, automation.OutcomeNone} {
		fmt.Printf("  %-7s %d\n", o, counts[o])
	}
	return nil
}

func sweepScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if runs <= 0 {
		return fmt.Errorf("runs must be positive, got %d", runs)
	}

	fmt.Printf("sweeping %s over %d seeds from %d...\n", cfg.Scene.Name, runs, cfg.Sim.Seed)
	start := time.Now()
	results, err := experiment.Sweep(cmd.Context(), cfg, experiment.NewRegistry(), runs)
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	names := make([]string, 0)
	for _, r := range results {
		if r == nil {
			continue
		}
		for name := range r.Metrics {
			names = append(names, name)
		}
		break
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tMEAN\tMIN\tMAX\tRUNS")
	for _, name := range names {
		s := experiment.Summarize(results, name)
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\t%d\n", s.Metric, s.Mean, s.Min, s.Max, s.Count)
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	reg := experiment.NewRegistry()

	build := func(seed int64) (*experiment.Experiment, error) {
		c := *cfg
		c.Sim.Seed = seed
		return experiment.New(&c, reg, logging.Nop())
	}
	return viz.Run(build, cfg.Sim.Seed, viz.ThemeByName(theme))
}

func degrees(rad float64) float64 { return rad * 180 / math.Pi }

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
