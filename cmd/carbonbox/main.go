package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/lmarek/carbonbox/internal/boxmodel"
	"github.com/lmarek/carbonbox/internal/config"
	"github.com/lmarek/carbonbox/internal/storage"
	"github.com/lmarek/carbonbox/internal/sweep"
	"github.com/lmarek/carbonbox/internal/tui"
	"github.com/lmarek/carbonbox/internal/viz"
)

var (
	dataDir string
	c1      float64
	c2      float64
	c3      float64
	rock    float64
	atmo    float64
	steps   int
	// Config file and preset
	configFile string
	preset     string
	// Plot options
	plotWidth  int
	plotHeight int
	combined   bool
	// Sweep axes
	axes []string
)

// main registers commands and flags; with no subcommand it launches the
// interactive explorer. Exits with status 1 on command error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "carbonbox",
		Short: "two-reservoir carbon cycle explorer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(config.DefaultConfig().Params())
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".carbonbox", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run one simulation and store the trajectory",
		RunE:  runSimulation,
	}
	addParamFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "chart width")
	plotCmd.Flags().IntVar(&plotHeight, "height", 10, "chart height")
	plotCmd.Flags().BoolVar(&combined, "combined", false, "single chart with all three series")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run a parameter grid in parallel",
		Long: `Sweep one or more parameters over evenly spaced values, for example:

  carbonbox sweep --axis c1=0.001:0.05:10 --axis c2=0.001:0.05:5

Axis names: c1, c2, c3, rock, atmo, steps.`,
		RunE: runSweep,
	}
	addParamFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&axes, "axis", nil, "swept axis as name=start:stop:count")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a stored run to CSV on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run to JSON on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list named presets",
		RunE:  listPresets,
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive parameter explorer",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolveParams(cmd)
			if err != nil {
				return err
			}
			return tui.Run(p)
		},
	}
	addParamFlags(tuiCmd)

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, sweepCmd, exportCSVCmd, exportJSONCmd, presetsCmd, tuiCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addParamFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&c1, "c1", config.DefaultReleaseRate, "carbon release rate")
	cmd.Flags().Float64Var(&c2, "c2", config.DefaultBurialRate, "carbon burial rate")
	cmd.Flags().Float64Var(&c3, "c3", config.DefaultTempFactor, "temperature factor")
	cmd.Flags().Float64Var(&rock, "rock", config.DefaultInitRock, "initial rock carbon")
	cmd.Flags().Float64Var(&atmo, "atmo", config.DefaultInitAtmo, "initial atmospheric carbon")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of timesteps")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset parameters")
}

// resolveParams merges preset, config file, and flags; explicitly changed
// flags win over both.
func resolveParams(cmd *cobra.Command) (boxmodel.Params, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return boxmodel.Params{}, fmt.Errorf("unknown preset: %s (available: %v)", preset, sortedPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return boxmodel.Params{}, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cfg.DataDir != "" && !cmd.Flags().Changed("data") {
		dataDir = cfg.DataDir
	}

	p := cfg.Params()
	if cmd.Flags().Changed("c1") {
		p.ReleaseRate = c1
	}
	if cmd.Flags().Changed("c2") {
		p.BurialRate = c2
	}
	if cmd.Flags().Changed("c3") {
		p.TempFactor = c3
	}
	if cmd.Flags().Changed("rock") {
		p.InitRock = rock
	}
	if cmd.Flags().Changed("atmo") {
		p.InitAtmo = atmo
	}
	if cmd.Flags().Changed("steps") {
		p.Steps = steps
	}
	return p, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	p, err := resolveParams(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Println("running weathering simulation...")
	start := time.Now()

	tr, err := boxmodel.Simulate(p)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)
	diag := boxmodel.Diagnose(tr)

	runID, err := st.Save(p, tr, diag)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", tr.Len())
	fmt.Println("\ndiagnostics:")
	fmt.Printf("  final temp:    %.6f\n", diag.FinalTemp)
	fmt.Printf("  peak atmo:     %.6f (step %d)\n", diag.PeakAtmo, diag.PeakAtmoStep)
	fmt.Printf("  budget drift:  %.6f\n", diag.BudgetDrift)
	if diag.Diverged {
		fmt.Println("  diverged:      yes")
	}

	return nil
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tC1\tC2\tC3\tROCK\tATMO\tSTEPS\tFINAL_TEMP")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%.4f\t%.4f\t%.4f\t%.1f\t%.1f\t%d\t%.4f\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.ReleaseRate,
			run.BurialRate,
			run.TempFactor,
			run.InitRock,
			run.InitAtmo,
			run.Steps,
			run.Diagnostics["final_temp"],
		)
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

	tr, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	if tr.Len() == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("c1=%.4f c2=%.4f c3=%.4f rock=%.1f atmo=%.1f steps=%d\n\n",
		meta.ReleaseRate, meta.BurialRate, meta.TempFactor, meta.InitRock, meta.InitAtmo, meta.Steps)

	if combined {
		fmt.Println(viz.RenderCombined(tr, plotWidth, plotHeight))
	} else {
		fmt.Println(viz.RenderSeries(tr, plotWidth, plotHeight))
	}

	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	if len(axes) == 0 {
		return fmt.Errorf("at least one --axis is required")
	}

	base, err := resolveParams(cmd)
	if err != nil {
		return err
	}

	parsed := make([]sweep.Axis, 0, len(axes))
	for _, spec := range axes {
		ax, err := parseAxis(spec)
		if err != nil {
			return err
		}
		parsed = append(parsed, ax)
	}

	g := sweep.NewGrid(parsed...)
	fmt.Printf("sweeping %d cells...\n\n", g.Size())

	start := time.Now()
	cells, err := g.Run(context.Background(), base)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := make([]string, 0, len(parsed)+4)
	for _, ax := range parsed {
		header = append(header, strings.ToUpper(ax.Param))
	}
	header = append(header, "FINAL_TEMP", "PEAK_ATMO", "BUDGET_DRIFT", "STATUS")
	fmt.Fprintln(w, strings.Join(header, "\t"))

	for _, cell := range cells {
		row := make([]string, 0, len(header))
		for _, ax := range parsed {
			row = append(row, formatAxisValue(cell.Params, ax.Param))
		}

		switch {
		case cell.Err != nil:
			row = append(row, "-", "-", "-", cell.Err.Error())
		case cell.Diag.Diverged:
			row = append(row,
				fmt.Sprintf("%.4f", cell.Diag.FinalTemp),
				fmt.Sprintf("%.2f", cell.Diag.PeakAtmo),
				fmt.Sprintf("%.2f", cell.Diag.BudgetDrift),
				"diverged")
		default:
			row = append(row,
				fmt.Sprintf("%.4f", cell.Diag.FinalTemp),
				fmt.Sprintf("%.2f", cell.Diag.PeakAtmo),
				fmt.Sprintf("%.2f", cell.Diag.BudgetDrift),
				"ok")
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}

	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\ncompleted in %v\n", elapsed)
	return nil
}

// parseAxis reads "name=start:stop:count".
func parseAxis(spec string) (sweep.Axis, error) {
	name, rng, ok := strings.Cut(spec, "=")
	if !ok {
		return sweep.Axis{}, fmt.Errorf("invalid axis %q: want name=start:stop:count", spec)
	}

	parts := strings.Split(rng, ":")
	if len(parts) != 3 {
		return sweep.Axis{}, fmt.Errorf("invalid axis range %q: want start:stop:count", rng)
	}

	axStart, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return sweep.Axis{}, fmt.Errorf("invalid axis start %q: %w", parts[0], err)
	}
	axStop, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return sweep.Axis{}, fmt.Errorf("invalid axis stop %q: %w", parts[1], err)
	}
	count, err := strconv.Atoi(parts[2])
	if err != nil || count < 1 {
		return sweep.Axis{}, fmt.Errorf("invalid axis count %q", parts[2])
	}

	return sweep.Axis{Param: name, Values: sweep.Range(axStart, axStop, count)}, nil
}

func formatAxisValue(p boxmodel.Params, name string) string {
	switch name {
	case "c1":
		return fmt.Sprintf("%.4f", p.ReleaseRate)
	case "c2":
		return fmt.Sprintf("%.4f", p.BurialRate)
	case "c3":
		return fmt.Sprintf("%.4f", p.TempFactor)
	case "rock":
		return fmt.Sprintf("%.1f", p.InitRock)
	case "atmo":
		return fmt.Sprintf("%.1f", p.InitAtmo)
	case "steps":
		return strconv.Itoa(p.Steps)
	}
	return "?"
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	tr, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	if tr.Len() == 0 {
		return fmt.Errorf("no data to export")
	}

	return storage.WriteCSV(os.Stdout, tr)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)

	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	tr, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	return storage.ExportJSONTo(os.Stdout, meta, tr)
}

func listPresets(cmd *cobra.Command, args []string) error {
	names := sortedPresets()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tC1\tC2\tC3\tROCK\tATMO\tSTEPS")
	for _, name := range names {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\t%.1f\t%.1f\t%d\n",
			name, p.ReleaseRate, p.BurialRate, p.TempFactor, p.InitRock, p.InitAtmo, p.Steps)
	}
	return w.Flush()
}

func sortedPresets() []string {
	names := config.ListPresets()
	sort.Strings(names)
	return names
}
