package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/sphfluid/internal/analysis"
	"github.com/san-kum/sphfluid/internal/compute"
	"github.com/san-kum/sphfluid/internal/config"
	"github.com/san-kum/sphfluid/internal/fluid"
	"github.com/san-kum/sphfluid/internal/kernel"
	"github.com/san-kum/sphfluid/internal/metrics"
	"github.com/san-kum/sphfluid/internal/runner"
	"github.com/san-kum/sphfluid/internal/seed"
	"github.com/san-kum/sphfluid/internal/storage"
	"github.com/san-kum/sphfluid/internal/viz"
)

var (
	dataDir    string
	particles  int
	dt         float64
	duration   float64
	randomSeed int64
	configFile string
	presetName string
)

// main is the entry point for the sphsim CLI; it registers the command tree
// and executes the root command, exiting with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "sphsim",
		Short: "smoothed-particle-hydrodynamics fluid simulation lab",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".sphsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a fluid simulation and save the result",
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a fluid simulation with a live terminal view",
		RunE:  runLive,
	}
	addRunFlags(liveCmd)

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the engine across a range of particle counts",
		RunE:  benchEngine,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets()
			fmt.Println("presets:")
			for _, name := range names {
				fmt.Printf("  %s\n", name)
			}
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a run's metric time series as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSVRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id] [metric]",
		Short: "frequency analysis of a metric time series",
		Args:  cobra.ExactArgs(2),
		RunE:  analyzeRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a run's metric time series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "cross-check the spatial-hash density computation against the brute-force oracle",
		RunE:  verifyDensities,
	}
	addRunFlags(verifyCmd)

	rootCmd.AddCommand(runCmd, liveCmd, benchCmd, presetsCmd, listCmd, exportCmd, exportCSVCmd, analyzeCmd, plotCmd, verifyCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&particles, "particles", config.DefaultParticleCount, "particle count")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration in seconds")
	cmd.Flags().Int64Var(&randomSeed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&presetName, "preset", "", "use a named preset")
}

// resolveConfig builds a *config.Config from defaults, an optional preset,
// an optional config file, and any flags the user actually set, in that
// order of increasing priority.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if presetName != "" {
		preset := config.GetPreset(presetName)
		if preset == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", presetName, config.ListPresets())
		}
		copied := *preset
		cfg = &copied
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = fileCfg
	}

	if cmd.Flags().Changed("particles") {
		cfg.ParticleCount = particles
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = randomSeed
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return cfg, nil
}

func buildEngine(cfg *config.Config) (*fluid.Engine, error) {
	seeder := seed.NewUniform(2*cfg.BoundsX, cfg.SeedMargin, cfg.SeedMinHeightRatio, cfg.Seed)
	particles := seeder.Seed(cfg.ParticleCount)

	engine := fluid.New()
	if err := engine.Init(cfg.FluidConfig(), particles); err != nil {
		return nil, err
	}
	return engine, nil
}

func buildMetrics(cfg *config.Config) []metrics.Metric {
	return []metrics.Metric{
		metrics.NewKineticEnergy(),
		metrics.NewContainment(cfg.FluidConfig().Bounds),
		metrics.NewNeighborCount(),
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	engine, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer engine.Destroy()

	r := runner.New(engine)
	ms := buildMetrics(cfg)
	for _, m := range ms {
		r.AddMetric(m)
	}

	fmt.Printf("running %d particles for %.1fs (dt=%.4f)...\n", cfg.ParticleCount, cfg.Duration, cfg.Dt)
	start := time.Now()

	result, err := r.Run(context.Background(), runner.Config{Dt: cfg.Dt, Duration: cfg.Duration})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	series := seriesFromResult(result)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	name := presetName
	if name == "" {
		name = "custom"
	}
	runID, err := st.Save(name, cfg.ParticleCount, cfg.Dt, cfg.Duration, cfg.SmoothingRadius, cfg.Seed, result, series)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	if len(result.Errors) > 0 {
		fmt.Printf("errors: %d (last: %v)\n", len(result.Errors), result.Errors[len(result.Errors)-1])
	}
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

// seriesFromResult derives a per-snapshot time series of total kinetic energy
// (unit particle mass) from the recorded snapshots so it can be persisted
// alongside the final metric values. It is the only series produced; the
// registered metrics contribute their final values only.
func seriesFromResult(result *runner.Result) map[string][]float64 {
	series := make(map[string][]float64)
	ke := make([]float64, len(result.Snapshots))
	for i, snap := range result.Snapshots {
		var e float64
		for _, p := range snap.Particles {
			e += 0.5 * p.Velocity.Dot(p.Velocity)
		}
		ke[i] = e
	}
	series["total_kinetic_energy"] = ke
	return series
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	engine, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer engine.Destroy()

	m := viz.NewModel(engine, cfg.Dt)
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func benchEngine(cmd *cobra.Command, args []string) error {
	counts := []int{100, 500, 1000, 5000}
	cfg := config.DefaultConfig()
	cfg.Duration = 2.0

	fmt.Println("benchmarking engine")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLES\tSTEPS\tTIME\tSTEPS/SEC")

	for _, n := range counts {
		cfg.ParticleCount = n
		cfg.Seed = 42

		engine, err := buildEngine(cfg)
		if err != nil {
			return err
		}

		r := runner.New(engine)
		start := time.Now()
		result, err := r.Run(context.Background(), runner.Config{Dt: cfg.Dt, Duration: cfg.Duration})
		engine.Destroy()
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		stepsPerSec := float64(result.StepsTaken) / elapsed.Seconds()
		fmt.Fprintf(w, "%d\t%d\t%v\t%.1f\n", n, result.StepsTaken, elapsed, stepsPerSec)
	}

	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tPARTICLES\tDURATION\tDT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2fs\t%.4fs\n",
			run.ID, run.Preset, run.Timestamp.Format("2006-01-02 15:04:05"),
			run.ParticleCount, run.Duration, run.Dt)
	}
	return w.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSVRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	series, times, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}

	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := append([]string{"time"}, names...)
	if err := w.Write(header); err != nil {
		return err
	}
	for i, t := range times {
		row := []string{strconv.FormatFloat(t, 'f', 6, 64)}
		for _, name := range names {
			row = append(row, strconv.FormatFloat(series[name][i], 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID, metricName := args[0], args[1]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	series, _, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	data, ok := series[metricName]
	if !ok || len(data) == 0 {
		return fmt.Errorf("no data for metric: %s", metricName)
	}

	n := 1
	for n < len(data) {
		n *= 2
	}
	padded := make([]float64, n)
	copy(padded, data)

	ps := analysis.PowerSpectrum(padded)
	plotData := ps[:len(ps)/4]

	fmt.Printf("frequency analysis: %s / %s\n\n", meta.ID, metricName)
	graph := asciigraph.Plot(plotData, asciigraph.Height(15), asciigraph.Width(80), asciigraph.Caption("power spectrum"))
	fmt.Println(graph)

	maxPower, maxIdx := 0.0, 0
	for i := 1; i < len(plotData); i++ {
		if plotData[i] > maxPower {
			maxPower = plotData[i]
			maxIdx = i
		}
	}
	// Bin k of an n-point transform sampled every dt is k/(n*dt) hz; n
	// includes the zero padding.
	freq := float64(maxIdx) / (float64(n) * meta.Dt)
	fmt.Printf("\ndominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	series, _, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("particles: %d\n\n", meta.ParticleCount)

	for name, data := range series {
		graph := asciigraph.Plot(data, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption(name))
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

// verifyDensities seeds a particle cloud, lets the engine's spatial-hash
// neighbor search compute one pass of densities, and cross-checks the result
// against compute's brute-force O(n^2) oracle backend.
func verifyDensities(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	engine, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer engine.Destroy()

	if err := engine.Step(cfg.Dt); err != nil {
		return err
	}

	particles := engine.Particles()
	n := len(particles)
	px := make([]float64, n)
	py := make([]float64, n)
	pz := make([]float64, n)
	hashDensity := make([]float64, n)
	hashNear := make([]float64, n)
	for i, p := range particles {
		// Density/NearDensity were accumulated from each particle's predicted
		// position, not its final post-collision Position, so the oracle must
		// be fed the same predicted positions to be a valid cross-check.
		px[i] = p.Predicted.X
		py[i] = p.Predicted.Y
		pz[i] = p.Predicted.Z
		hashDensity[i] = p.Density
		hashNear[i] = p.NearDensity
	}

	coeffs := kernel.NewCoefficients(cfg.SmoothingRadius)
	backend := compute.GetBackend()
	fmt.Printf("backend: %s\n", backend.Name())

	bruteDensity, bruteNear := backend.Densities(px, py, pz, cfg.SmoothingRadius,
		coeffs.DensityKernel, coeffs.NearDensityKernel)

	var maxDiff, maxNearDiff float64
	for i := 0; i < n; i++ {
		if d := absDiff(hashDensity[i], bruteDensity[i]); d > maxDiff {
			maxDiff = d
		}
		if d := absDiff(hashNear[i], bruteNear[i]); d > maxNearDiff {
			maxNearDiff = d
		}
	}

	fmt.Printf("particles: %d\n", n)
	fmt.Printf("max density difference:      %.3e\n", maxDiff)
	fmt.Printf("max near-density difference: %.3e\n", maxNearDiff)
	return nil
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
