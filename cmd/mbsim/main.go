package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/san-kum/mbsim/internal/analysis"
	"github.com/san-kum/mbsim/internal/compute"
	"github.com/san-kum/mbsim/internal/config"
	"github.com/san-kum/mbsim/internal/export"
	"github.com/san-kum/mbsim/internal/metrics"
	"github.com/san-kum/mbsim/internal/solver"
	"github.com/san-kum/mbsim/internal/storage"
	"github.com/san-kum/mbsim/internal/tui"
)

var (
	log = logrus.New()

	// run
	preset     string
	gridpoints int
	endtime    float64
	showTUI    bool
	noSave     bool

	// plot, analyze, render
	row    int
	col    int
	kind   string
	output string

	// export
	format string
	result string

	// energy
	from float64

	// bench
	maxWorkers int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "mbsim",
		Short:         "1-D Maxwell-Bloch simulation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup()
		},
	}

	rootCmd.PersistentFlags().String("data", ".mbsim", "data directory")
	rootCmd.PersistentFlags().String("log-level", "info", "log level")
	rootCmd.PersistentFlags().Int("workers", 0, "worker count (0 = backend default)")
	rootCmd.PersistentFlags().String("backend", "", "compute backend")
	viper.BindPFlag("data", rootCmd.PersistentFlags().Lookup("data"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("workers", rootCmd.PersistentFlags().Lookup("workers"))
	viper.BindPFlag("backend", rootCmd.PersistentFlags().Lookup("backend"))

	runCmd := &cobra.Command{
		Use:   "run [config.yaml]",
		Short: "run a simulation from a file or preset",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().IntVar(&gridpoints, "gridpoints", 0, "override number of gridpoints")
	runCmd.Flags().Float64Var(&endtime, "endtime", 0, "override simulation end time (s)")
	runCmd.Flags().BoolVar(&showTUI, "tui", false, "show live progress")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store results")

	presetsCmd := &cobra.Command{
		Use:   "presets [family]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id] [result]",
		Short: "plot a stored result in the terminal",
		Args:  cobra.ExactArgs(2),
		RunE:  plotResult,
	}
	plotCmd.Flags().IntVar(&row, "row", -1, "plot the profile at this sample (default last)")
	plotCmd.Flags().IntVar(&col, "col", -1, "plot the time series at this column")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id] [result]",
		Short: "statistics and spectrum of a stored result",
		Args:  cobra.ExactArgs(2),
		RunE:  analyzeResult,
	}
	analyzeCmd.Flags().IntVar(&col, "col", 0, "column for the spectrum")

	renderCmd := &cobra.Command{
		Use:   "render [run_id] [result]",
		Short: "render a stored result to PNG",
		Args:  cobra.ExactArgs(2),
		RunE:  renderResult,
	}
	renderCmd.Flags().StringVar(&kind, "kind", "heatmap", "heatmap, line or series")
	renderCmd.Flags().IntVar(&row, "row", -1, "sample for line plots (default last)")
	renderCmd.Flags().IntVar(&col, "col", 0, "column for series plots")
	renderCmd.Flags().StringVarP(&output, "out", "o", "", "output file (default <data>/<run>/<result>.png)")

	energyCmd := &cobra.Command{
		Use:   "energy [run_id]",
		Short: "field energy history of a run with whole-grid e and h records",
		Args:  cobra.ExactArgs(1),
		RunE:  energyRun,
	}
	energyCmd.Flags().Float64Var(&from, "from", 0, "ignore samples before this time for the drift (s)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run data",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&format, "format", "json", "json or csv")
	exportCmd.Flags().StringVar(&result, "result", "", "result to export (csv only)")

	benchCmd := &cobra.Command{
		Use:   "bench [config.yaml]",
		Short: "time a run over worker counts and compare outputs",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchRun,
	}
	benchCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	benchCmd.Flags().IntVar(&gridpoints, "gridpoints", 0, "override number of gridpoints")
	benchCmd.Flags().Float64Var(&endtime, "endtime", 0, "override simulation end time (s)")
	benchCmd.Flags().IntVar(&maxWorkers, "max-workers", 0, "largest worker count (default backend workers)")

	rootCmd.AddCommand(runCmd, presetsCmd, listCmd, plotCmd, analyzeCmd, renderCmd, energyCmd, exportCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

// setup reads mbsim.yaml from the working directory when present, applies
// MBSIM_* environment overrides and configures the logger.
func setup() error {
	viper.SetConfigName("mbsim")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("MBSIM")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}

	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	level, err := logrus.ParseLevel(viper.GetString("log_level"))
	if err != nil {
		return err
	}
	log.SetLevel(level)
	return nil
}

func store() *storage.Store {
	return storage.New(viper.GetString("data"))
}

// loadConfig resolves the simulation description from a file argument or
// --preset and applies command-line overrides.
func loadConfig(args []string) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case len(args) == 1:
		c, err := config.Load(args[0])
		if err != nil {
			return nil, err
		}
		cfg = c
	case preset != "":
		cfg = config.FindPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (see mbsim presets)", preset)
		}
	default:
		cfg = config.DefaultConfig()
	}

	if gridpoints > 0 {
		cfg.Scenario.Gridpoints = gridpoints
	}
	if endtime > 0 {
		cfg.Scenario.Endtime = endtime
	}
	if w := viper.GetInt("workers"); w > 0 {
		cfg.Solver.Workers = w
	}
	if b := viper.GetString("backend"); b != "" {
		cfg.Solver.Backend = b
	}
	return cfg, nil
}

func newSolver(cfg *config.Config, extra ...solver.Option) (*solver.Solver, error) {
	dev, scn, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	opts, err := cfg.Options(log)
	if err != nil {
		return nil, err
	}
	return solver.New(dev, scn, append(opts, extra...)...)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	s, err := newSolver(cfg)
	if err != nil {
		return err
	}

	scn := s.Scenario()
	log.WithFields(logrus.Fields{
		"solver":     s.Name(),
		"workers":    s.Workers(),
		"gridpoints": scn.NumGridpoints,
		"timesteps":  scn.NumTimesteps,
	}).Info("starting run")

	var elapsed time.Duration
	if showTUI {
		elapsed, err = tui.RunProgress(cfg.Name+" · "+s.Name(), s)
		if err != nil {
			return err
		}
	} else {
		start := time.Now()
		s.Run()
		elapsed = time.Since(start)
	}

	log.WithFields(logrus.Fields{
		"elapsed":   elapsed.Round(time.Millisecond),
		"steps_sec": fmt.Sprintf("%.0f", float64(scn.NumTimesteps)/elapsed.Seconds()),
	}).Info("run finished")

	for _, r := range s.Results() {
		sum := analysis.Summarize(r.Real)
		fmt.Printf("%-12s %5dx%-5d min %+.4e  max %+.4e  rms %.4e\n", r.Name, r.Rows, r.Cols, sum.Min, sum.Max, sum.RMS)
	}
	if energy, err := metrics.FieldEnergy(s); err == nil {
		fmt.Printf("\nfield energy: %.6e J/m²\n", energy)
	}

	if noSave {
		return nil
	}
	st := store()
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.Metadata(s, elapsed), s.Results(), cfg)
	if err != nil {
		return err
	}
	fmt.Printf("\nrun id: %s\n", runID)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	families := config.Families()
	if len(args) == 1 {
		families = []string{args[0]}
	}
	for _, family := range families {
		presets := config.ListPresets(family)
		if len(presets) == 0 {
			fmt.Printf("no presets for family: %s\n", family)
			continue
		}
		fmt.Printf("%s:\n", family)
		for _, p := range presets {
			fmt.Printf("  %s\n", p)
		}
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := store().List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSOLVER\tTIME\tGRID\tSTEPS\tWORKERS\tELAPSED\tRESULTS")

	for _, run := range runs {
		names := make([]string, len(run.Results))
		for i, r := range run.Results {
			names[i] = r.Name
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%v\t%s\n",
			run.ID,
			run.Solver,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Gridpoints,
			run.Timesteps,
			run.Workers,
			run.Elapsed.Round(time.Millisecond),
			strings.Join(names, ","),
		)
	}

	return w.Flush()
}

func loadResult(runID, name string) (*storage.RunMetadata, storage.ResultInfo, *solver.Result, error) {
	st := store()
	meta, err := st.Load(runID)
	if err != nil {
		return nil, storage.ResultInfo{}, nil, err
	}
	info, ok := meta.Result(name)
	if !ok {
		return nil, storage.ResultInfo{}, nil, fmt.Errorf("run %s has no result %q", runID, name)
	}
	r, err := st.LoadResult(runID, name)
	if err != nil {
		return nil, storage.ResultInfo{}, nil, err
	}
	return meta, info, r, nil
}

func axes(meta *storage.RunMetadata, info storage.ResultInfo) export.Axes {
	return export.Axes{
		X0: float64(info.Position) * meta.GridpointSize,
		Dx: meta.GridpointSize,
		Dt: meta.Interval(info),
	}
}

func plotResult(cmd *cobra.Command, args []string) error {
	meta, info, r, err := loadResult(args[0], args[1])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("result: %s (%dx%d)\n\n", r.Name, r.Rows, r.Cols)

	var data []float64
	var caption string
	switch {
	case col >= 0 || r.Cols == 1:
		c := col
		if c < 0 {
			c = 0
		}
		if c >= r.Cols {
			return fmt.Errorf("column %d out of range [0, %d)", c, r.Cols)
		}
		data = r.Column(c)
		caption = fmt.Sprintf("%s vs time at x = %.4g m", r.Name, float64(info.Position+c)*meta.GridpointSize)
	default:
		rr := row
		if rr < 0 {
			rr = r.Rows - 1
		}
		if rr >= r.Rows {
			return fmt.Errorf("row %d out of range [0, %d)", rr, r.Rows)
		}
		data = r.Row(rr)
		caption = fmt.Sprintf("%s vs x at t = %.4g s", r.Name, float64(rr)*meta.Interval(info))
	}

	graph := asciigraph.Plot(data,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
	fmt.Println(graph)
	return nil
}

func analyzeResult(cmd *cobra.Command, args []string) error {
	meta, info, r, err := loadResult(args[0], args[1])
	if err != nil {
		return err
	}
	if col < 0 || col >= r.Cols {
		return fmt.Errorf("column %d out of range [0, %d)", col, r.Cols)
	}

	sum := analysis.Summarize(r.Real)
	fmt.Printf("result: %s (%dx%d)\n", r.Name, r.Rows, r.Cols)
	fmt.Printf("min %+.6e  max %+.6e  mean %+.6e  rms %.6e\n\n", sum.Min, sum.Max, sum.Mean, sum.RMS)

	interval := meta.Interval(info)
	series := r.Column(col)
	ps := analysis.PowerSpectrum(series)
	if len(ps) > 1 {
		graph := asciigraph.Plot(ps,
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("power spectrum (column %d)", col)),
		)
		fmt.Println(graph)
		fmt.Println()

		freq := analysis.DominantFrequency(series, interval)
		fmt.Printf("dominant frequency: %.4e hz\n", freq)
		if freq > 0 {
			fmt.Printf("period: %.4e s\n", 1.0/freq)
		}
	}

	if r.Cols > 1 && r.Rows > 1 {
		v := analysis.Velocity(r, r.Rows/2, meta.GridpointSize, interval)
		fmt.Printf("peak velocity: %.4e m/s\n", v)
	}
	return nil
}

func renderResult(cmd *cobra.Command, args []string) error {
	meta, info, r, err := loadResult(args[0], args[1])
	if err != nil {
		return err
	}

	path := output
	if path == "" {
		path = filepath.Join(viper.GetString("data"), meta.ID, fmt.Sprintf("%s_%s.png", r.Name, kind))
	}
	ax := axes(meta, info)

	switch kind {
	case "heatmap":
		err = export.HeatMap(r, ax, path)
	case "line":
		rr := row
		if rr < 0 {
			rr = r.Rows - 1
		}
		err = export.Line(r, rr, ax, path)
	case "series":
		err = export.Series(r, col, ax, path)
	default:
		return fmt.Errorf("unknown kind: %s (heatmap, line, series)", kind)
	}
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

// wholeGrid returns the first whole-grid result of the observable.
func wholeGrid(meta *storage.RunMetadata, observable string) (storage.ResultInfo, bool) {
	for _, info := range meta.Results {
		if info.Observable == observable && info.Cols == meta.Gridpoints {
			return info, true
		}
	}
	return storage.ResultInfo{}, false
}

func energyRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := store()
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	eInfo, okE := wholeGrid(meta, "e")
	hInfo, okH := wholeGrid(meta, "h")
	if !okE || !okH || eInfo.Stride != hInfo.Stride {
		return fmt.Errorf("run %s needs whole-grid e and h records with the same interval", runID)
	}

	cfg, err := st.LoadConfig(runID)
	if err != nil {
		return err
	}
	s, err := newSolver(cfg)
	if err != nil {
		return err
	}
	med, err := metrics.MediumOf(s)
	if err != nil {
		return err
	}

	e, err := st.LoadResult(runID, eInfo.Name)
	if err != nil {
		return err
	}
	h, err := st.LoadResult(runID, hInfo.Name)
	if err != nil {
		return err
	}

	interval := meta.Interval(eInfo)
	history := make([]float64, e.Rows)
	for row := range history {
		history[row] = med.Energy(e.Row(row), h.Row(row))
	}
	mean := metrics.NewEnergy(med)
	drift := metrics.NewEnergyDrift(med, from)
	if err := metrics.Evaluate(e, h, interval, mean, drift); err != nil {
		return err
	}

	graph := asciigraph.Plot(history,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("field energy (J/m²) vs sample"),
	)
	fmt.Println(graph)
	fmt.Println()
	fmt.Printf("mean energy: %.6e J/m²\n", mean.Value())
	fmt.Printf("max drift after %.4g s: %.4e\n", from, drift.Value())
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := store()
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	switch format {
	case "json":
		results := make([]*solver.Result, 0, len(meta.Results))
		for _, info := range meta.Results {
			r, err := st.LoadResult(runID, info.Name)
			if err != nil {
				return err
			}
			results = append(results, r)
		}
		return storage.ExportJSON(os.Stdout, *meta, results)
	case "csv":
		if result == "" {
			return fmt.Errorf("--result is required for csv export")
		}
		r, err := st.LoadResult(runID, result)
		if err != nil {
			return err
		}
		return storage.WriteCSV(os.Stdout, r.Real, r.Rows, r.Cols)
	default:
		return fmt.Errorf("unknown format: %s (json, csv)", format)
	}
}

func benchRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	limit := maxWorkers
	if limit <= 0 {
		limit = compute.GetBackend().Workers()
	}

	var reference []*solver.Result
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WORKERS\tSTEPS\tTIME\tSTEPS/SEC\tSPEEDUP\tIDENTICAL")

	var base time.Duration
	for workers := 1; workers <= limit; workers *= 2 {
		s, err := newSolver(cfg, solver.WithWorkers(workers))
		if err != nil {
			return err
		}
		if s.Workers() < workers {
			break
		}

		start := time.Now()
		s.Run()
		elapsed := time.Since(start)

		if reference == nil {
			reference, base = s.Results(), elapsed
		}
		fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\t%.2fx\t%v\n",
			s.Workers(),
			s.Timesteps(),
			elapsed.Round(time.Microsecond),
			float64(s.Timesteps())/elapsed.Seconds(),
			base.Seconds()/elapsed.Seconds(),
			identical(reference, s.Results()),
		)
	}

	return w.Flush()
}

func identical(a, b []*solver.Result) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i].Real) != len(b[i].Real) || len(a[i].Imag) != len(b[i].Imag) {
			return false
		}
		for j := range a[i].Real {
			if a[i].Real[j] != b[i].Real[j] {
				return false
			}
		}
		for j := range a[i].Imag {
			if a[i].Imag[j] != b[i].Imag[j] {
				return false
			}
		}
	}
	return true
}
