package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/fdtd/internal/analysis"
	"github.com/san-kum/fdtd/internal/config"
	"github.com/san-kum/fdtd/internal/export"
	"github.com/san-kum/fdtd/internal/grid"
	"github.com/san-kum/fdtd/internal/metrics"
	"github.com/san-kum/fdtd/internal/sim"
	"github.com/san-kum/fdtd/internal/storage"
	"github.com/san-kum/fdtd/internal/viz"
)

var (
	dataDir      string
	configFile   string
	preset       string
	steps        int
	duration     float64
	interval     int
	runName      string
	saveFrames   bool
	saveVideo    bool
	fps          int
	verbose      bool
	svgOut       string
	sweepPeriods []int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fdtd",
		Short: "finite-difference time-domain electromagnetic simulation lab",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".fdtd", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "scenario file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use a preset scenario")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store its results",
		RunE:  runSimulation,
	}
	runCmd.Flags().IntVar(&steps, "steps", 0, "number of timesteps (overrides scenario)")
	runCmd.Flags().Float64Var(&duration, "time", 0, "simulated duration in seconds (overrides steps)")
	runCmd.Flags().IntVar(&interval, "interval", 0, "frame capture interval in steps")
	runCmd.Flags().StringVar(&runName, "name", "", "run name")
	runCmd.Flags().BoolVar(&saveFrames, "frames", false, "save field snapshots as png")
	runCmd.Flags().BoolVar(&saveVideo, "video", false, "assemble saved frames into an mp4 (requires ffmpeg)")
	runCmd.Flags().IntVar(&fps, "fps", 10, "video frame rate")
	runCmd.Flags().BoolVar(&verbose, "verbose", false, "per-interval progress logging")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with live terminal visualization",
		RunE:  runLive,
	}
	liveCmd.Flags().IntVar(&steps, "steps", 0, "stop after this many timesteps (0 = endless)")

	describeCmd := &cobra.Command{
		Use:   "describe",
		Short: "print the grid and its components without running",
		RunE:  describeScenario,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset scenarios",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.PresetNames() {
				fmt.Println(name)
			}
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id] [detector]",
		Short: "plot a detector's readings",
		Args:  cobra.ExactArgs(2),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgOut, "svg", "", "also write the plot to an svg file")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run the scenario once per source period, in parallel",
		RunE:  runSweep,
	}
	sweepCmd.Flags().IntVar(&steps, "steps", 0, "number of timesteps per variant")
	sweepCmd.Flags().IntSliceVar(&sweepPeriods, "periods", nil, "source periods in timesteps, one variant each")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id] [detector]",
		Short: "frequency analysis of a detector's readings",
		Args:  cobra.ExactArgs(2),
		RunE:  analyzeRun,
	}

	rootCmd.AddCommand(runCmd, liveCmd, describeCmd, presetsCmd, listCmd, plotCmd, analyzeCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadScenario() (*config.Config, error) {
	switch {
	case configFile != "" && preset != "":
		return nil, fmt.Errorf("--config and --preset are mutually exclusive")
	case configFile != "":
		return config.Load(configFile)
	case preset != "":
		return config.Preset(preset)
	default:
		return config.Default(), nil
	}
}

func buildGrid() (*config.Config, *grid.Grid, error) {
	cfg, err := loadScenario()
	if err != nil {
		return nil, nil, err
	}
	g, err := cfg.Build()
	if err != nil {
		return nil, nil, err
	}
	return cfg, g, nil
}

func scenarioName(cfg *config.Config) string {
	if runName != "" {
		return runName
	}
	if cfg.Save.Name != "" {
		return cfg.Save.Name
	}
	if preset != "" {
		return preset
	}
	return "run"
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, g, err := buildGrid()
	if err != nil {
		return err
	}

	log := zap.NewNop()
	if verbose {
		if log, err = zap.NewDevelopment(); err != nil {
			return err
		}
		defer log.Sync()
	}

	total := cfg.TotalSteps(g)
	if cmd.Flags().Changed("steps") {
		total = steps
	}
	if cmd.Flags().Changed("time") {
		total = g.Converter().TimeToSteps(duration)
	}

	name := scenarioName(cfg)
	wantFrames := saveFrames || cfg.Save.Frames
	wantVideo := saveVideo || cfg.Save.Video

	base := cfg.Save.Folder
	if base == "" {
		base = dataDir
	}
	st := storage.New(base)
	if err := st.Init(name); err != nil {
		return err
	}

	runner := sim.New(g, log)
	if interval > 0 {
		runner.Interval = interval
	} else if cfg.Run.Interval > 0 {
		runner.Interval = cfg.Run.Interval
	}
	if wantFrames || wantVideo {
		runner.Frame = st.SaveFrame
	}

	energy := metrics.NewEnergy()
	runner.AddObserver(energy)

	lastPercent := -1
	runner.Progress = func(done, totalSteps int) {
		percent := done * 100 / totalSteps
		if percent/10 > lastPercent/10 {
			fmt.Printf("  %3d%% (%d/%d steps)\n", percent, done, totalSteps)
		}
		lastPercent = percent
	}

	fmt.Printf("running %s: %d steps on %s\n", name, total, sizeString(g))
	start := time.Now()
	if err := runner.RunSteps(context.Background(), total); err != nil {
		return err
	}
	fmt.Printf("completed in %v\n", time.Since(start))

	if err := st.SaveMetadata(name, g); err != nil {
		return err
	}
	if err := st.SaveDetectorReadings(g); err != nil {
		return err
	}
	if wantVideo {
		if err := st.GenerateVideo(fps); err != nil {
			return err
		}
	}

	fmt.Printf("run id: %s\n", st.RunID())
	fmt.Printf("final field energy: %.6g\n", energy.Last())
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, g, err := buildGrid()
	if err != nil {
		return err
	}
	return viz.Run(g, scenarioName(cfg), steps)
}

func describeScenario(cmd *cobra.Command, args []string) error {
	_, g, err := buildGrid()
	if err != nil {
		return err
	}
	fmt.Print(g.String())
	return nil
}

func sizeString(g *grid.Grid) string {
	nx, ny, nz := g.Shape()
	return fmt.Sprintf("%dx%dx%d grid", nx, ny, nz)
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
	fmt.Fprintln(w, "ID\tNAME\tTIME\tSHAPE\tSTEPS\tDETECTORS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%dx%d\t%d\t%d\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Shape[0], run.Shape[1], run.Shape[2],
			run.Steps,
			len(run.Detectors),
		)
	}
	return w.Flush()
}

// detectorSeries loads one scalar series from a stored run: the first
// column of the detector's electric readings.
func detectorSeries(runID, detector string) ([]float64, *storage.RunMetadata, error) {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return nil, nil, err
	}
	var meta *storage.RunMetadata
	for i := range runs {
		if runs[i].ID == runID {
			meta = &runs[i]
			break
		}
	}
	if meta == nil {
		return nil, nil, fmt.Errorf("run %q not found under %s", runID, dataDir)
	}

	rows, err := storage.LoadDetectorReadings(
		filepath.Join(dataDir, runID), detector+" (E)")
	if err != nil {
		return nil, nil, err
	}
	series := make([]float64, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		series = append(series, row[0])
	}
	return series, meta, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	series, meta, err := detectorSeries(args[0], args[1])
	if err != nil {
		return err
	}
	if len(series) < 2 {
		return fmt.Errorf("no data to plot")
	}
	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(series))
	fmt.Println(asciigraph.Plot(series,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(args[1]+" (E)")))

	if svgOut != "" {
		svg := export.SeriesToSVG(series, meta.TimeStep, 800, 400, "#00ff00")
		if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgOut)
	}
	return nil
}

// runSweep builds one variant per requested source period, overriding the
// period of every configured source, and runs them concurrently.
func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario()
	if err != nil {
		return err
	}
	if len(cfg.Sources) == 0 {
		return fmt.Errorf("scenario has no sources to sweep")
	}
	if len(sweepPeriods) == 0 {
		return fmt.Errorf("--periods is required")
	}

	variants := make([]sim.Variant, 0, len(sweepPeriods))
	for _, p := range sweepPeriods {
		p := p
		variants = append(variants, sim.Variant{
			Name: fmt.Sprintf("period-%d", p),
			Build: func() (*grid.Grid, error) {
				v := *cfg
				v.Sources = append([]config.SourceConfig(nil), cfg.Sources...)
				for i := range v.Sources {
					v.Sources[i].Period = 0
					v.Sources[i].PeriodSteps = p
				}
				return v.Build()
			},
		})
	}

	total := steps
	if total <= 0 {
		total = cfg.Run.Steps
	}
	if total <= 0 {
		total = config.DefaultSteps
	}

	fmt.Printf("sweeping %d variants, %d steps each\n", len(variants), total)
	start := time.Now()
	results, err := sim.NewEnsemble(total, nil).Run(context.Background(), variants)
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VARIANT\tENERGY")
	for _, res := range results {
		fmt.Fprintf(w, "%s\t%.6g\n", res.Name, metrics.TotalEnergy(res.Grid))
	}
	return w.Flush()
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	series, meta, err := detectorSeries(args[0], args[1])
	if err != nil {
		return err
	}

	spectrum, err := analysis.PowerSpectrum(series, meta.TimeStep)
	if err != nil {
		return err
	}
	freq, power := spectrum.Peak()
	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d  dt: %.4g s\n", len(series), meta.TimeStep)
	fmt.Printf("dominant frequency: %.4g Hz (power %.4g)\n\n", freq, power)

	if len(spectrum.Power) > 2 {
		fmt.Println(asciigraph.Plot(spectrum.Power[1:],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum")))
	}
	return nil
}
