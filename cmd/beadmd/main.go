package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/beadmd/internal/analysis"
	"github.com/san-kum/beadmd/internal/config"
	"github.com/san-kum/beadmd/internal/export"
	"github.com/san-kum/beadmd/internal/logger"
	"github.com/san-kum/beadmd/internal/metrics"
	"github.com/san-kum/beadmd/internal/run"
	"github.com/san-kum/beadmd/internal/storage"
	"github.com/san-kum/beadmd/internal/store"
	"github.com/san-kum/beadmd/internal/viz"
)

var (
	dataDir   string
	verbosity string

	configFile string
	preset     string

	dt        float64
	steps     int
	seed      int64
	nmts      []int
	splitting string
	nbeads    int
	natoms    int
	mass      float64
	springK   float64
	scAlpha   float64
	temp      float64
	pressure  float64
	thermoTau float64
	baroTau   float64
	thermo    string
	baro      string
	fixCOM    bool
	fixAtoms  []int

	fieldAmp   float64
	fieldFreq  float64
	fieldPeak  float64
	fieldSigma float64

	numRuns int

	svgColumn string
	svgOut    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "beadmd",
		Short:        "path integral molecular dynamics engine",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v, err := logger.Parse(verbosity)
			if err != nil {
				return err
			}
			logger.Set(v)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".beadmd", "data directory")
	rootCmd.PersistentFlags().StringVar(&verbosity, "verbosity", "low", "log verbosity (quiet, low, medium, high)")

	runCmd := &cobra.Command{
		Use:   "run [mode]",
		Short: "run a trajectory",
		Long: `Run a trajectory in the given mode (nve, nvt, nvt-cc, npt, nst,
sc, scnpt, eda-nve) and store its samples under the data directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runTrajectory,
	}
	addSimFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live [mode]",
		Short: "run a trajectory with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSimFlags(liveCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep [mode]",
		Short: "run independent trajectories over consecutive seeds",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&numRuns, "runs", 4, "number of trajectories")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot stored observables",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "spectral analysis of the kinetic energy series",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSONRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a stored run as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSVRun,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render one observable of a stored run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVGRun,
	}
	exportSVGCmd.Flags().StringVar(&svgColumn, "column", "conserved", "observable to plot")
	exportSVGCmd.Flags().StringVar(&svgOut, "out", "", "output path (default <run_id>_<column>.svg)")

	presetsCmd := &cobra.Command{
		Use:   "presets [mode]",
		Short: "list preset configurations for a mode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets(args[0])
			if len(names) == 0 {
				fmt.Printf("no presets for mode: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, n := range names {
				fmt.Printf("  %s\n", n)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, sweepCmd, listCmd, plotCmd, analyzeCmd,
		exportJSONCmd, exportCSVCmd, exportSVGCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "preset configuration name")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "outer timestep (a.u.)")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of outer steps")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().IntSliceVar(&nmts, "nmts", []int{1}, "force substeps per level, outermost first")
	cmd.Flags().StringVar(&splitting, "splitting", "obabo", "thermostat splitting (obabo, baoab)")
	cmd.Flags().IntVar(&nbeads, "nbeads", config.DefaultNBeads, "ring polymer beads")
	cmd.Flags().IntVar(&natoms, "natoms", config.DefaultNAtoms, "number of atoms")
	cmd.Flags().Float64Var(&mass, "mass", config.DefaultMass, "atom mass (a.u.)")
	cmd.Flags().Float64Var(&springK, "spring-k", config.DefaultSpringK, "harmonic force constant")
	cmd.Flags().Float64Var(&scAlpha, "sc-alpha", 1.0/24.0, "Suzuki-Chin alpha")
	cmd.Flags().Float64Var(&temp, "temp", config.DefaultTemp, "target temperature (K)")
	cmd.Flags().Float64Var(&pressure, "pressure", 0, "target pressure (a.u.)")
	cmd.Flags().StringVar(&thermo, "thermostat", "langevin", "thermostat (none, langevin, pile-g)")
	cmd.Flags().StringVar(&baro, "barostat", "none", "barostat (none, isotropic, anisotropic)")
	cmd.Flags().Float64Var(&thermoTau, "tau-t", config.DefaultTauT, "thermostat time constant (a.u.)")
	cmd.Flags().Float64Var(&baroTau, "tau-p", config.DefaultTauP, "barostat time constant (a.u.)")
	cmd.Flags().BoolVar(&fixCOM, "fix-com", false, "pin the centre of mass")
	cmd.Flags().IntSliceVar(&fixAtoms, "fix-atoms", nil, "atom indices to freeze")
	cmd.Flags().Float64Var(&fieldAmp, "field-amp", 0, "electric field amplitude along x (a.u.)")
	cmd.Flags().Float64Var(&fieldFreq, "field-freq", 0, "electric field angular frequency (a.u.)")
	cmd.Flags().Float64Var(&fieldPeak, "field-peak", 0, "Gaussian envelope peak time (a.u.)")
	cmd.Flags().Float64Var(&fieldSigma, "field-sigma", 0, "Gaussian envelope width (a.u.)")
}

// buildConfig resolves preset, config file, then explicit flags, in
// increasing order of precedence.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	mode := ""
	if len(args) > 0 {
		mode = args[0]
	}

	cfg := config.DefaultConfig()

	if preset != "" {
		if mode == "" {
			return nil, fmt.Errorf("a mode is required when using --preset")
		}
		p := config.GetPreset(mode, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(mode))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if mode != "" {
		cfg.Mode = mode
	}

	if cfg.Verbosity != "" && !cmd.Root().PersistentFlags().Changed("verbosity") {
		v, err := logger.Parse(cfg.Verbosity)
		if err != nil {
			return nil, err
		}
		logger.Set(v)
	}

	f := cmd.Flags()
	if f.Changed("dt") {
		cfg.Dt = dt
	}
	if f.Changed("steps") {
		cfg.Steps = steps
	}
	if f.Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if f.Changed("nmts") {
		cfg.NMTS = nmts
	}
	if f.Changed("splitting") {
		cfg.Splitting = splitting
	}
	if f.Changed("nbeads") {
		cfg.System.NBeads = nbeads
	}
	if f.Changed("natoms") {
		cfg.System.NAtoms = natoms
	}
	if f.Changed("mass") {
		cfg.System.Mass = mass
	}
	if f.Changed("spring-k") {
		cfg.System.SpringK = springK
	}
	if f.Changed("sc-alpha") {
		cfg.System.SCAlpha = scAlpha
	}
	if f.Changed("temp") {
		cfg.Ensemble.Temperature = temp
	}
	if f.Changed("pressure") {
		cfg.Ensemble.Pressure = pressure
	}
	if f.Changed("thermostat") {
		cfg.Thermostat.Kind = thermo
	}
	if f.Changed("barostat") {
		cfg.Barostat.Kind = baro
	}
	if f.Changed("tau-t") {
		cfg.Thermostat.Tau = thermoTau
	}
	if f.Changed("tau-p") {
		cfg.Barostat.Tau = baroTau
	}
	if f.Changed("fix-com") {
		cfg.System.FixCOM = fixCOM
	}
	if f.Changed("fix-atoms") {
		cfg.System.FixAtoms = fixAtoms
	}
	if f.Changed("field-amp") {
		cfg.Field.Amplitude = [3]float64{fieldAmp, 0, 0}
	}
	if f.Changed("field-freq") {
		cfg.Field.Freq = fieldFreq
	}
	if f.Changed("field-peak") {
		cfg.Field.Peak = fieldPeak
	}
	if f.Changed("field-sigma") {
		cfg.Field.Sigma = fieldSigma
	}

	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runTrajectory(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	r, err := run.Assemble(cfg)
	if err != nil {
		return err
	}
	r.AddMetric(metrics.NewTemperature())
	r.AddMetric(metrics.NewDrift())
	if cfg.Barostat.Kind != "none" {
		r.AddMetric(metrics.NewVolume())
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %s trajectory (%d beads, %d atoms)...\n",
		cfg.Mode, cfg.System.NBeads, cfg.System.NAtoms)
	start := time.Now()

	result, err := r.Execute(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6g\n", name, val)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	r, err := run.Assemble(cfg)
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewModel(r))
	_, err = p.Run()
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	sw := run.NewSweep(cfg, numRuns, cfg.Seed)
	sw.AddMetric(func() run.Metric { return metrics.NewTemperature() })
	sw.AddMetric(func() run.Metric { return metrics.NewDrift() })

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("sweeping %d %s trajectories...\n", numRuns, cfg.Mode)
	start := time.Now()
	results, err := sw.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSEED\tTEMPERATURE\tDRIFT")
	for i, res := range results {
		fmt.Fprintf(w, "%d\t%d\t%.2f\t%.3g\n",
			i, cfg.Seed+int64(i), res.Metrics["temperature"], res.Metrics["conserved_drift"])
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
	fmt.Fprintln(w, "ID\tMODE\tTIME\tSTEPS\tBEADS\tATOMS\tDT")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%.2f\n",
			r.ID, r.Mode, r.Timestamp.Format("2006-01-02 15:04:05"),
			r.Steps, r.NBeads, r.NAtoms, r.Dt)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("mode: %s\n", meta.Mode)
	fmt.Printf("samples: %d\n\n", len(samples))

	series := []struct {
		caption string
		pick    func(run.Sample) float64
	}{
		{"conserved quantity", func(s run.Sample) float64 { return s.Conserved }},
		{"kinetic temperature (K)", func(s run.Sample) float64 { return s.Temperature }},
		{"potential energy", func(s run.Sample) float64 { return s.Potential }},
	}
	if meta.Mode == "npt" || meta.Mode == "nst" || meta.Mode == "scnpt" {
		series = append(series, struct {
			caption string
			pick    func(run.Sample) float64
		}{"cell volume", func(s run.Sample) float64 { return s.Volume }})
	}

	for _, sr := range series {
		data := make([]float64, len(samples))
		for i, s := range samples {
			data[i] = sr.pick(s)
		}
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(sr.caption)))
		fmt.Println()
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) < 4 {
		return fmt.Errorf("not enough samples to analyze")
	}

	data := make([]float64, len(samples))
	for i, s := range samples {
		data[i] = s.Kinetic
	}
	sampleDt := samples[1].Time - samples[0].Time

	fmt.Printf("spectral analysis: %s\n", meta.ID)
	fmt.Printf("mode: %s\n\n", meta.Mode)

	_, power := analysis.PowerSpectrum(data, sampleDt)
	fmt.Println(asciigraph.Plot(power[:len(power)/4],
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("kinetic energy power spectrum")))
	fmt.Println()

	freq := analysis.DominantFrequency(data, sampleDt)
	fmt.Printf("dominant frequency: %.6g / a.u. time\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.6g a.u.\n", 1/freq)
	}

	tau := analysis.CorrelationTime(data)
	fmt.Printf("correlation time: %.3g samples\n", tau)

	mean, stderr := analysis.BlockAverage(data, 10)
	fmt.Printf("kinetic energy: %.8g +/- %.2g\n", mean, stderr)
	return nil
}

func exportJSONRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	cfg, err := st.LoadConfig(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	result := &run.Result{
		Samples:    samples,
		Metrics:    meta.Metrics,
		StepsTaken: meta.Steps,
	}
	return store.ExportJSONStdout(cfg, result)
}

func exportCSVRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write(run.Columns); err != nil {
		return err
	}
	for _, s := range samples {
		row := make([]string, 0, len(run.Columns))
		for _, v := range s.Row() {
			row = append(row, strconv.FormatFloat(v, 'g', 12, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func exportSVGRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	out := svgOut
	if out == "" {
		out = fmt.Sprintf("%s_%s.svg", runID, svgColumn)
	}
	if err := export.SeriesSVGFile(out, samples, svgColumn, 800, 400); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", out)
	return nil
}
