package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/san-kum/sortlab/internal/automation"
	"github.com/san-kum/sortlab/internal/complexity"
	"github.com/san-kum/sortlab/internal/export"
	"github.com/san-kum/sortlab/internal/input"
	"github.com/san-kum/sortlab/internal/logging"
	"github.com/san-kum/sortlab/internal/metrics"
	"github.com/san-kum/sortlab/internal/storage"
	"github.com/san-kum/sortlab/internal/trace"
)

func runTrace(cmd *cobra.Command, args []string) error {
	numbers := cfg.Input
	if len(args) > 0 {
		numbers = input.ParseNumbers(strings.Join(args, " "))
	}
	delay := cfg.Delay()

	ctx, cancel := signalContext()
	defer cancel()

	gen := trace.New()
	ms := metrics.Default()
	for _, m := range ms {
		gen.AddMetric(m)
	}

	logging.Info("run", "input", numbers, "delay", delay)
	start := time.Now()

	result := &trace.Result{Input: numbers, Metrics: make(map[string]float64)}
	err := gen.RunWithCallback(ctx, numbers, delay, func(e trace.Event) bool {
		result.Events = append(result.Events, e)
		if !quiet {
			fmt.Println(formatEvent(e))
		}
		return true
	})
	if err != nil {
		return fmt.Errorf("run interrupted after %d events: %w", len(result.Events), err)
	}
	for _, m := range ms {
		result.Metrics[m.Name()] = m.Value()
	}

	if !quiet {
		fmt.Println()
	}
	fmt.Printf("input:  %v\n", numbers)
	fmt.Printf("sorted: %v\n", result.Final().Values)
	fmt.Printf("events: %s in %v\n", humanize.Comma(int64(len(result.Events))), time.Since(start).Round(time.Millisecond))
	printMetrics(os.Stdout, result.Metrics)

	if save {
		st, err := openStore()
		if err != nil {
			return err
		}
		runID, err := st.Save(result, delay)
		if err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		logging.Info("run saved", "id", runID)
		fmt.Printf("run id: %s\n", runID)
	}
	return nil
}

// formatEvent renders one event as a single line.
func formatEvent(e trace.Event) string {
	key := "-"
	if e.HasKey() {
		key = strconv.Itoa(e.Key)
	}
	return fmt.Sprintf("%4d  %-15s i=%-3d key=%-4s j=%-3d j+1=%-3d %v",
		e.Ordinal, e.Step, e.Outer, key, e.Inner, e.InnerNext, e.Values)
}

func printMetrics(w io.Writer, ms map[string]float64) {
	for _, name := range []string{"passes", "comparisons", "shifts"} {
		if v, ok := ms[name]; ok {
			fmt.Fprintf(w, "%-7s %s\n", name+":", humanize.Comma(int64(v)))
		}
	}
}

// truncate shortens an input listing for table output.
func truncate(values []int, limit int) string {
	s := input.FormatNumbers(values)
	if len(s) <= limit {
		return s
	}
	return s[:limit-3] + "..."
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(cfg.DataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tWHEN\tN\tEVENTS\tSHIFTS\tINPUT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n",
			run.ID,
			humanize.Time(run.Timestamp),
			len(run.Input),
			humanize.Comma(int64(run.Events)),
			humanize.Comma(int64(run.Metrics["shifts"])),
			truncate(run.Input, 40),
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(cfg.DataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	events, err := st.LoadEvents(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run:    %s\n", meta.ID)
	fmt.Printf("when:   %s (%s)\n", meta.Timestamp.Format("2006-01-02 15:04:05"), humanize.Time(meta.Timestamp))
	fmt.Printf("delay:  %dms\n", meta.DelayMs)
	fmt.Printf("input:  %v\n", meta.Input)
	fmt.Printf("sorted: %v\n", meta.Sorted)
	fmt.Printf("events: %s\n", humanize.Comma(int64(meta.Events)))
	printMetrics(os.Stdout, meta.Metrics)

	counts := make(map[trace.StepKind]int)
	for _, e := range events {
		counts[e.Step]++
	}
	fmt.Println("\nsteps:")
	for _, k := range []trace.StepKind{trace.OuterBegin, trace.KeyCaptured, trace.ShiftPerformed, trace.KeyPlaced, trace.Completed} {
		fmt.Printf("  %-15s %d\n", k, counts[k])
	}
	return nil
}

// output returns stdout or the --out file.
func output() (io.WriteCloser, error) {
	if outFile == "" {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", outFile, err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func exportJSON(cmd *cobra.Command, args []string) error {
	w, err := output()
	if err != nil {
		return err
	}
	defer w.Close()
	return storage.New(cfg.DataDir).ExportJSON(w, args[0])
}

func exportCSV(cmd *cobra.Command, args []string) error {
	events, err := storage.New(cfg.DataDir).LoadEvents(args[0])
	if err != nil {
		return err
	}

	w, err := output()
	if err != nil {
		return err
	}
	defer w.Close()

	cw := csv.NewWriter(w)
	if err := cw.Write(storage.CSVHeader()); err != nil {
		return err
	}
	for _, e := range events {
		if err := cw.Write(storage.EventRecord(e)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	events, err := storage.New(cfg.DataDir).LoadEvents(args[0])
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return fmt.Errorf("no events in %s", args[0])
	}

	idx := step
	if idx < 0 {
		idx = len(events) - 1
	}
	if idx >= len(events) {
		return fmt.Errorf("step %d out of range (0..%d)", idx, len(events)-1)
	}

	w, err := output()
	if err != nil {
		return err
	}
	defer w.Close()
	_, err = io.WriteString(w, export.EventToSVG(events[idx], 50))
	return err
}

func plotChart(cmd *cobra.Command, args []string) error {
	kind := "time"
	if len(args) > 0 {
		kind = args[0]
	}
	worst := complexity.ClampSize(cfg.Charts.WorstSize)
	best := complexity.ClampSize(cfg.Charts.BestSize)

	var series []complexity.Series
	var caption string
	switch kind {
	case "time":
		series = []complexity.Series{complexity.WorstTime(worst), complexity.BestTime(best)}
		caption = "time: worst O(n²) vs best O(n)"
	case "space":
		series = []complexity.Series{complexity.WorstSpace(worst), complexity.BestSpace(best)}
		caption = "space: worst O(n) vs best O(1)"
	case "noisy":
		series = []complexity.Series{complexity.Noisy(worst, rand.New(rand.NewSource(cfg.Seed))), complexity.WorstTime(worst)}
		caption = "time with measurement noise"
	case "measured":
		ctx, cancel := signalContext()
		defer cancel()
		for _, c := range []input.Case{input.WorstCase, input.BestCase} {
			ms, err := complexity.Measure(ctx, c, complexity.Sizes(worst), cfg.Seed)
			if err != nil {
				return err
			}
			comparisons, _ := complexity.Measured(c, ms)
			series = append(series, comparisons)
		}
		caption = "measured comparisons"
	default:
		return fmt.Errorf("unknown chart %q (time, space, noisy, measured)", kind)
	}

	fmt.Println(complexity.Plot(complexity.PlotOptions{Height: 15, Width: 60, Caption: caption}, series...))

	if svgFile != "" {
		svg := export.SeriesToSVG(series, 800, 400)
		if err := os.WriteFile(svgFile, []byte(svg), 0644); err != nil {
			return fmt.Errorf("failed to write svg: %w", err)
		}
		fmt.Printf("saved %s\n", svgFile)
	}
	return nil
}

func parseCases(arg string) ([]input.Case, error) {
	if arg == "" || arg == "all" {
		return input.Cases, nil
	}
	c, err := input.ParseCase(arg)
	if err != nil {
		return nil, err
	}
	return []input.Case{c}, nil
}

func benchCases(cmd *cobra.Command, args []string) error {
	cases, err := parseCases(caseArg)
	if err != nil {
		return err
	}
	if maxSize < 1 {
		return fmt.Errorf("max-size must be positive")
	}

	ctx, cancel := signalContext()
	defer cancel()

	sizes := []int{maxSize}
	for n := maxSize / 2; n >= 1 && len(sizes) < 4; n /= 2 {
		sizes = append([]int{n}, sizes...)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "CASE\tN\tCOMPARISONS\tSHIFTS\tEVENTS\tTIME\t")
	for _, c := range cases {
		start := time.Now()
		ms, err := complexity.Measure(ctx, c, sizes, cfg.Seed)
		if err != nil {
			return err
		}
		elapsed := time.Since(start)
		for _, m := range ms {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%v\t\n",
				c,
				m.Size,
				humanize.Comma(int64(m.Comparisons)),
				humanize.Comma(int64(m.Shifts)),
				humanize.Comma(int64(m.Events)),
				elapsed.Round(time.Microsecond),
			)
		}
		logging.Debug("bench case done", "case", c, "elapsed", elapsed)
	}
	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunScenario(ctx, sc, st)
	if err != nil {
		return err
	}

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("%s\n", sc.Description)
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tN\tEVENTS\tSHIFTS\tCOMPARISONS\tRUN")
	for i, r := range results {
		name := r.Step.Name
		if name == "" {
			name = strconv.Itoa(i + 1)
		}
		runID := r.RunID
		if runID == "" {
			runID = "-"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\n",
			name,
			len(r.Result.Input),
			humanize.Comma(int64(len(r.Result.Events))),
			humanize.Comma(int64(r.Result.Metrics["shifts"])),
			humanize.Comma(int64(r.Result.Metrics["comparisons"])),
			runID,
		)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cases, err := parseCases(sweepCase)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "CASE\tN\tSHIFTS\tSHIFTS/N²\t")
	for _, c := range cases {
		results, err := automation.RunSweep(ctx, &automation.SizeSweep{
			Case:     c,
			MinSize:  sweepMin,
			MaxSize:  sweepMax,
			NumSteps: sweepSteps,
			Seed:     cfg.Seed,
		})
		if err != nil {
			return err
		}
		for _, r := range results {
			fmt.Fprintf(w, "%s\t%d\t%s\t%.3f\t\n", c, r.Size, humanize.Comma(int64(r.Shifts)), r.Ratio)
		}
	}
	return w.Flush()
}
