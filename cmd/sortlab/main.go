package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/sortlab/internal/config"
	"github.com/san-kum/sortlab/internal/input"
	"github.com/san-kum/sortlab/internal/logging"
	"github.com/san-kum/sortlab/internal/storage"
	"github.com/san-kum/sortlab/internal/viz"
)

var (
	dataDir    string
	configFile string
	logLevel   string
	preset     string
	inputText  string
	delayMs    int
	theme      string
	seed       int64
	save       bool
	quiet      bool
	// export
	outFile string
	step    int
	// charts
	worstSize int
	bestSize  int
	svgFile   string
	// bench
	maxSize int
	caseArg string
	// sweep
	sweepCase  string
	sweepMin   int
	sweepMax   int
	sweepSteps int

	cfg *config.Config
)

func main() {
	rootCmd := &cobra.Command{
		Use:               "sortlab",
		Short:             "insertion sort step-by-step visualizer",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logging.Close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(false)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", config.DefaultTheme, "color theme")
	rootCmd.Flags().BoolVar(&save, "save", false, "record finished runs")

	runCmd := &cobra.Command{
		Use:   "run [numbers...]",
		Short: "print the trace of one run",
		RunE:  runTrace,
	}
	addInputFlags(runCmd)
	runCmd.Flags().BoolVar(&save, "save", false, "record the run")
	runCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print only the summary")

	liveCmd := &cobra.Command{
		Use:   "live [numbers...]",
		Short: "visualize a run in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				cfg.Input = input.ParseNumbers(strings.Join(args, " "))
			}
			return runApp(true)
		},
	}
	addInputFlags(liveCmd)
	liveCmd.Flags().BoolVar(&save, "save", false, "record finished runs")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	replayCmd := &cobra.Command{
		Use:   "replay [run_id]",
		Short: "play back a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  replayRun,
	}
	replayCmd.Flags().IntVar(&delayMs, "delay", config.DefaultDelayMs, "delay between steps in ms")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a run's events to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export one step of a run to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().IntVar(&step, "step", -1, "event ordinal (default last)")

	chartCmd := &cobra.Command{
		Use:       "chart [time|space|noisy|measured]",
		Short:     "plot complexity curves",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"time", "space", "noisy", "measured"},
		RunE:      plotChart,
	}
	chartCmd.Flags().IntVar(&worstSize, "worst-size", config.DefaultChartSize, "worst case size (1..100)")
	chartCmd.Flags().IntVar(&bestSize, "best-size", config.DefaultChartSize, "best case size (1..100)")
	chartCmd.Flags().StringVar(&svgFile, "svg", "", "also write the chart as SVG")
	chartCmd.Flags().Int64Var(&seed, "seed", 0, "random seed")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "count operations across input sizes",
		RunE:  benchCases,
	}
	benchCmd.Flags().IntVar(&maxSize, "max-size", 50, "largest input size")
	benchCmd.Flags().StringVar(&caseArg, "case", "all", "input case (best, worst, random, duplicates, all)")
	benchCmd.Flags().Int64Var(&seed, "seed", 0, "random seed")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available input presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("presets:")
			for _, name := range config.ListPresets() {
				p, _ := config.GetPreset(name)
				fmt.Printf("  %-12s %s\n", name, p.Description)
			}
			return nil
		},
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "trace a scripted batch of inputs from a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "measure shifts over a range of input sizes",
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepCase, "case", string(input.WorstCase), "input case (best, worst, random, duplicates)")
	sweepCmd.Flags().IntVar(&sweepMin, "min", 2, "smallest input size")
	sweepCmd.Flags().IntVar(&sweepMax, "max", 100, "largest input size")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 10, "number of sizes")
	sweepCmd.Flags().Int64Var(&seed, "seed", 0, "random seed")

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the effective configuration to a yaml file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "sortlab.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			if err := config.Save(path, cfg); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, showCmd, replayCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd, chartCmd, benchCmd, scenarioCmd, sweepCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&inputText, "input", "", "whitespace separated numbers")
	cmd.Flags().IntVar(&delayMs, "delay", config.DefaultDelayMs, "delay between steps in ms")
	cmd.Flags().StringVar(&preset, "preset", "", "use a preset input")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for presets")
}

// setup loads the config file, applies the preset and any explicitly set
// flags on top of it, then opens the log file.
func setup(cmd *cobra.Command, args []string) error {
	cfg = config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("delay") {
		cfg.DelayMs = delayMs
	}
	if flags.Changed("worst-size") {
		cfg.Charts.WorstSize = worstSize
	}
	if flags.Changed("best-size") {
		cfg.Charts.BestSize = bestSize
	}
	if preset != "" {
		if err := cfg.ApplyPreset(preset); err != nil {
			return err
		}
	}
	if flags.Changed("input") {
		cfg.Input = input.ParseNumbers(inputText)
	}

	if err := logging.Init(cfg.DataDir, cfg.LogLevel); err != nil {
		return err
	}
	logging.Debug("config loaded", "command", cmd.Name(), "file", configFile, "preset", preset)
	return nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func openStore() (*storage.Store, error) {
	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return nil, fmt.Errorf("failed to init data dir: %w", err)
	}
	return st, nil
}

func runApp(autoStart bool) error {
	var st *storage.Store
	if save {
		var err error
		if st, err = openStore(); err != nil {
			return err
		}
	}
	return viz.RunApp(viz.Options{
		Input:     cfg.Input,
		Delay:     cfg.Delay(),
		Theme:     cfg.Theme,
		WorstSize: cfg.Charts.WorstSize,
		BestSize:  cfg.Charts.BestSize,
		Store:     st,
		AutoStart: autoStart,
	})
}

func replayRun(cmd *cobra.Command, args []string) error {
	st := storage.New(cfg.DataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	events, err := st.LoadEvents(args[0])
	if err != nil {
		return err
	}

	delay := time.Duration(meta.DelayMs) * time.Millisecond
	if cmd.Flags().Changed("delay") {
		delay = cfg.Delay()
	}
	return viz.RunReplay(meta.ID, events, delay, cfg.Theme)
}
