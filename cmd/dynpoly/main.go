package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/dynpoly/internal/analysis"
	"github.com/san-kum/dynpoly/internal/config"
	"github.com/san-kum/dynpoly/internal/experiment"
	"github.com/san-kum/dynpoly/internal/metrics"
	"github.com/san-kum/dynpoly/internal/optim"
	"github.com/san-kum/dynpoly/internal/sim"
	"github.com/san-kum/dynpoly/internal/species"
	"github.com/san-kum/dynpoly/internal/storage"
	"github.com/san-kum/dynpoly/internal/viz"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

var (
	dataDir string
	verbose bool
	logger  *zap.Logger

	configFile  string
	preset      string
	name        string
	integrator  string
	dt          float64
	steps       int
	sampleEvery int
	seed        int64
	kT          float64
	runs        int
	parallel    int
	metricsAddr string
	noSave      bool

	field      string
	plotWidth  int
	plotHeight int
	outFile    string

	sweepParams []string
	objective   string
	minimize    bool

	window    int
	tolerance float64
	maxLag    int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dynpoly",
		Short: "active polymer assembly simulator",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := zap.NewProductionConfig()
			if verbose {
				cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = cfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunMenu(time.Now().UnixNano(), zap.NewNop())
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".dynpoly", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a scenario and store its samples",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	scenarioFlags(runCmd)
	runCmd.Flags().StringVar(&name, "name", "", "run name (defaults to the scenario name)")
	runCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	runCmd.Flags().IntVar(&sampleEvery, "sample-every", config.DefaultSampleEvery, "steps between samples")
	runCmd.Flags().IntVar(&runs, "runs", 1, "ensemble size with consecutive seeds")
	runCmd.Flags().IntVar(&parallel, "parallel", 0, "concurrent ensemble runs (0 = GOMAXPROCS)")
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address while running")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "skip storing the run")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "step a scenario with live visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	scenarioFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "summarize a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a sample field of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&field, "field", "polymer_fraction", "sample field ("+strings.Join(viz.Fields(), ", ")+")")
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")
	plotCmd.Flags().IntVar(&plotHeight, "height", 12, "plot height")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and samples to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	deleteCmd := &cobra.Command{
		Use:   "delete [run_id]",
		Short: "delete a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  deleteRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [family]",
		Short: "list preset scenarios",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	speciesCmd := &cobra.Command{
		Use:   "species",
		Short: "list monomer species",
		Args:  cobra.NoArgs,
		RunE:  listSpecies,
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a scenario as yaml for editing",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}
	initCmd.Flags().StringVar(&preset, "preset", "", "start from preset family/name")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search over scenario parameters",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	scenarioFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps per point")
	sweepCmd.Flags().StringArrayVar(&sweepParams, "param", nil, "swept parameter as name=v1,v2 (repeatable; "+strings.Join(optim.SetterNames(), ", ")+")")
	sweepCmd.Flags().StringVar(&objective, "metric", "polymer_fraction", "end-of-run metric to optimize")
	sweepCmd.Flags().BoolVar(&minimize, "minimize", false, "minimize instead of maximize")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "steady state and fluctuation analysis of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&field, "field", "polymer_fraction", "sample field to analyze")
	analyzeCmd.Flags().IntVar(&window, "window", 5, "samples per steady-state window")
	analyzeCmd.Flags().Float64Var(&tolerance, "tol", 0.02, "steady-state tolerance on the window mean")
	analyzeCmd.Flags().IntVar(&maxLag, "max-lag", 20, "largest autocorrelation lag")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, showCmd, plotCmd, exportCSVCmd, exportJSONCmd, deleteCmd, presetsCmd, speciesCmd, initCmd, sweepCmd, analyzeCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// scenarioFlags registers the flags shared by run and live.
func scenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "preset as family/name")
	cmd.Flags().StringVar(&integrator, "integrator", "brownian", "integrator (brownian, verlet)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().Float64Var(&kT, "kt", config.DefaultKT, "thermal energy")
}

// loadScenario resolves the preset or config file, then applies any
// flag the user set explicitly.
func loadScenario(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	case preset != "":
		c, err := presetConfig(preset)
		if err != nil {
			return nil, err
		}
		cfg = c
	default:
		cfg = config.DefaultConfig()
	}

	flags := cmd.Flags()
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("kt") {
		cfg.KT = kT
	}
	if flags.Lookup("steps") != nil && flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Lookup("sample-every") != nil && flags.Changed("sample-every") {
		cfg.SampleEvery = sampleEvery
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func presetConfig(ref string) (*config.Config, error) {
	family, pname, ok := strings.Cut(ref, "/")
	if !ok {
		return nil, fmt.Errorf("preset must be family/name, got %q (families: %v)", ref, config.ListFamilies())
	}
	cfg := config.GetPreset(family, pname)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available in %s: %v)", ref, family, config.ListPresets(family))
	}
	return cfg, nil
}

func openStore() (*storage.Store, error) {
	return storage.Open(filepath.Join(dataDir, "runs.db"), logger)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd)
	if err != nil {
		return err
	}
	if name == "" {
		name = cfg.Name
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	registry := experiment.NewRegistry()
	var results []*sim.Result
	start := time.Now()
	if runs > 1 {
		ens := experiment.Ensemble(cfg, registry, runs, logger)
		if parallel > 0 {
			ens.SetLimit(parallel)
		}
		fmt.Printf("running %d x %s...\n", runs, name)
		results, err = ens.Run(ctx, experiment.SimConfig(cfg))
		if err != nil {
			return err
		}
	} else {
		res, err := runSingle(ctx, cfg, registry)
		if err != nil && res == nil {
			return err
		}
		if err != nil {
			logger.Warn("run interrupted", zap.Error(err), zap.Int("steps", res.StepsTaken))
		}
		results = []*sim.Result{res}
	}
	elapsed := time.Since(start)

	var st *storage.Store
	if !noSave {
		st, err = openStore()
		if err != nil {
			return err
		}
		defer st.Close()
	}
	doc, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n\n", elapsed.Round(time.Millisecond))
	for i, res := range results {
		runSeed := cfg.Seed + int64(i)
		fmt.Print(viz.Summary(fmt.Sprintf("%s (seed %d)", name, runSeed), res))
		if st == nil {
			fmt.Println()
			continue
		}
		id, err := st.Save(ctx, storage.RunMetadata{
			Name:       name,
			Seed:       runSeed,
			Dt:         cfg.Dt,
			Steps:      res.StepsTaken,
			Integrator: cfg.Integrator,
			Species:    populationSpecies(cfg),
			Config:     string(doc),
		}, res)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n\n", id)
	}
	return nil
}

// runSingle runs one experiment, serving its samples as prometheus
// metrics when metricsAddr is set.
func runSingle(ctx context.Context, cfg *config.Config, registry *experiment.Registry) (*sim.Result, error) {
	exp := experiment.New(cfg, registry, logger)
	var observers []sim.Observer
	if metricsAddr != "" {
		collector := metrics.NewCollector(name)
		observers = append(observers, collector)
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		srv := &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		logger.Info("serving metrics", zap.String("addr", metricsAddr))
	}
	if err := exp.Setup(cfg.Seed, registry.DefaultMetrics(), observers...); err != nil {
		return nil, err
	}
	fmt.Printf("running %s (%d monomers, %d steps)...\n", name, cfg.Monomers(), cfg.Steps)
	return exp.Run(ctx)
}

func populationSpecies(cfg *config.Config) []string {
	out := make([]string, 0, len(cfg.Populations))
	for _, p := range cfg.Populations {
		out = append(out, p.Species)
	}
	return out
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd)
	if err != nil {
		return err
	}
	// The full-screen view owns the terminal.
	sys, err := experiment.Build(cfg, nil, cfg.Seed, zap.NewNop())
	if err != nil {
		return err
	}
	final, err := viz.RunLive(viz.NewLiveModel(cfg.Name, sys, cfg.Dt, cfg.Box/2))
	if err != nil {
		return err
	}
	logger.Info("live session ended", zap.Int("steps", final.Step()), zap.Error(final.Err()))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	list, err := st.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("no runs found")
		return nil
	}
	fmt.Print(viz.RunTable(list))
	return nil
}

func showRun(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	ctx := cmd.Context()
	meta, err := st.Load(ctx, args[0])
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(ctx, args[0])
	if err != nil {
		return err
	}
	res := &sim.Result{Samples: samples, Metrics: meta.Metrics, StepsTaken: meta.Steps}
	if len(samples) > 0 {
		res.Totals = samples[len(samples)-1].Totals
	}
	fmt.Printf("created: %s  seed: %d  integrator: %s  species: %s\n\n",
		meta.Timestamp.Format("2006-01-02 15:04:05"), meta.Seed, meta.Integrator, strings.Join(meta.Species, ","))
	fmt.Print(viz.Summary(meta.Name, res))
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	samples, err := st.LoadSamples(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	out, err := viz.Plot(samples, field, plotWidth, plotHeight)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

// output returns stdout or the -o file with its closer.
func output() (io.Writer, func() error, error) {
	if outFile == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	return export(cmd, args[0], (*storage.Store).ExportCSV)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return export(cmd, args[0], (*storage.Store).ExportJSON)
}

func export(cmd *cobra.Command, id string, write func(*storage.Store, context.Context, io.Writer, string) error) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	w, closeFn, err := output()
	if err != nil {
		return err
	}
	if err := write(st, cmd.Context(), w, id); err != nil {
		_ = closeFn()
		return err
	}
	if err := closeFn(); err != nil {
		return err
	}
	if outFile != "" {
		fmt.Fprintf(os.Stderr, "exported %s to %s\n", id, outFile)
	}
	return nil
}

func deleteRun(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Printf("deleted %s\n", args[0])
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	families := config.ListFamilies()
	if len(args) == 1 {
		families = args
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tINTEGRATOR\tSTEPS\tPOPULATIONS")
	for _, fam := range families {
		names := config.ListPresets(fam)
		if len(names) == 0 {
			return fmt.Errorf("no presets for family: %s (available: %v)", fam, config.ListFamilies())
		}
		for _, n := range names {
			cfg := config.GetPreset(fam, n)
			pops := make([]string, 0, len(cfg.Populations))
			for _, p := range cfg.Populations {
				pops = append(pops, fmt.Sprintf("%s x%d", p.Species, p.Count))
			}
			fmt.Fprintf(w, "%s/%s\t%s\t%d\t%s\n", fam, n, cfg.Integrator, cfg.Steps, strings.Join(pops, ", "))
		}
	}
	return w.Flush()
}

func listSpecies(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SPECIES\tGEOMETRY\tCONNECTION\tMAX BONDS\tRELEASE\tDESCRIPTION")
	for _, n := range species.Names() {
		def, err := species.Lookup(n)
		if err != nil {
			return err
		}
		maxBonds := "-"
		if def.MaxBonds > 0 {
			maxBonds = fmt.Sprint(def.MaxBonds)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", def.Name, def.Geometry, def.Connection, maxBonds, def.Release, def.Description)
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if preset != "" {
		c, err := presetConfig(preset)
		if err != nil {
			return err
		}
		cfg = c
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd)
	if err != nil {
		return err
	}
	if len(sweepParams) == 0 {
		return fmt.Errorf("at least one --param is required")
	}
	params := make([]optim.Param, 0, len(sweepParams))
	for _, s := range sweepParams {
		p, err := optim.ParseParam(s)
		if err != nil {
			return err
		}
		params = append(params, p)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	g := optim.NewGridSearch(params, !minimize, logger)
	fmt.Printf("sweeping %d points of %s...\n", g.Size(), cfg.Name)
	best, all, err := g.Search(ctx, cfg, nil, optim.MetricObjective(objective))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := make([]string, 0, len(params)+1)
	for _, p := range params {
		header = append(header, strings.ToUpper(p.Name))
	}
	fmt.Fprintln(w, strings.Join(append(header, strings.ToUpper(objective)), "\t"))
	for _, pt := range all {
		row := make([]string, 0, len(params)+1)
		for _, p := range params {
			row = append(row, fmt.Sprintf("%g", pt.Params[p.Name]))
		}
		fmt.Fprintln(w, strings.Join(append(row, fmt.Sprintf("%.4f", pt.Value)), "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nbest %s = %.4f at %v\n", objective, best.Value, best.Params)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	samples, err := st.LoadSamples(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	ys, err := viz.Series(samples, field)
	if err != nil {
		return err
	}
	if len(ys) == 0 {
		return fmt.Errorf("run %s has no samples", args[0])
	}

	from := 0
	if i, ok := analysis.SteadyState(ys, window, tolerance); ok {
		from = i
		fmt.Printf("steady state from sample %d (step %d)\n", i, samples[i].Step)
	} else {
		fmt.Println("series too short for steady-state detection; analyzing all samples")
	}
	tail := ys[from:]
	d := analysis.Describe(tail)
	fmt.Printf("%s: mean %.4f  std %.4f  range [%.4f, %.4f]  n=%d\n\n", field, d.Mean, d.Std, d.Min, d.Max, d.N)

	if ac := analysis.Autocorrelation(tail, maxLag); len(ac) > 1 {
		fmt.Println(asciigraph.Plot(ac, asciigraph.Height(8), asciigraph.Width(60), asciigraph.Caption("autocorrelation by lag")))
		fmt.Println()
	}
	if ps := analysis.PowerSpectrum(tail); len(ps) > 1 {
		fmt.Println(asciigraph.Plot(ps, asciigraph.Height(8), asciigraph.Width(60), asciigraph.Caption("fluctuation spectrum")))
	}
	return nil
}
