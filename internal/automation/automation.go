package automation

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/sortlab/internal/complexity"
	"github.com/san-kum/sortlab/internal/config"
	"github.com/san-kum/sortlab/internal/input"
	"github.com/san-kum/sortlab/internal/logging"
	"github.com/san-kum/sortlab/internal/metrics"
	"github.com/san-kum/sortlab/internal/storage"
	"github.com/san-kum/sortlab/internal/trace"
)

var ErrEmptyScenario = errors.New("scenario has no steps")

// Scenario is a scripted batch of traces.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Workers     int            `yaml:"workers"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep names one input. Exactly one of Input, Preset or Case
// should be set; Case uses Size and Seed.
type ScenarioStep struct {
	Name   string `yaml:"name"`
	Input  []int  `yaml:"input"`
	Preset string `yaml:"preset"`
	Case   string `yaml:"case"`
	Size   int    `yaml:"size"`
	Seed   int64  `yaml:"seed"`
	Save   bool   `yaml:"save"`
}

// StepResult is the outcome of one scenario step.
type StepResult struct {
	Step   ScenarioStep
	Result *trace.Result
	RunID  string
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyScenario)
	}
	return &scenario, nil
}

// Resolve returns the input sequence the step describes.
func (s ScenarioStep) Resolve() ([]int, error) {
	switch {
	case s.Preset != "":
		p, ok := config.GetPreset(s.Preset)
		if !ok {
			return nil, fmt.Errorf("%w: %s", config.ErrUnknownPreset, s.Preset)
		}
		return p.Build(rand.New(rand.NewSource(s.Seed))), nil
	case s.Case != "":
		if s.Size < 0 {
			return nil, fmt.Errorf("negative size %d", s.Size)
		}
		c, err := input.ParseCase(s.Case)
		if err != nil {
			return nil, err
		}
		return input.Generate(c, s.Size, rand.New(rand.NewSource(s.Seed))), nil
	default:
		return append([]int{}, s.Input...), nil
	}
}

// RunScenario traces every step concurrently and saves the steps marked
// for saving. st may be nil when no step saves.
func RunScenario(ctx context.Context, scenario *Scenario, st *storage.Store) ([]StepResult, error) {
	inputs := make([][]int, len(scenario.Steps))
	for i, step := range scenario.Steps {
		in, err := step.Resolve()
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		inputs[i] = in
	}

	logging.Info("scenario started", "name", scenario.Name, "steps", len(inputs))
	results, err := trace.NewEnsemble(metrics.Default, scenario.Workers).Run(ctx, inputs)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	out := make([]StepResult, len(results))
	for i, res := range results {
		step := scenario.Steps[i]
		out[i] = StepResult{Step: step, Result: res}
		if !step.Save {
			continue
		}
		if st == nil {
			return out, fmt.Errorf("step %d: no store to save to", i+1)
		}
		id, err := st.Save(res, 0)
		if err != nil {
			return out, fmt.Errorf("step %d save: %w", i+1, err)
		}
		out[i].RunID = id
		logging.Debug("scenario step saved", "step", i+1, "id", id)
	}
	return out, nil
}

// SizeSweep measures one input case across a range of sizes.
type SizeSweep struct {
	Case     input.Case
	MinSize  int
	MaxSize  int
	NumSteps int
	Seed     int64
}

// SweepResult holds the counts measured at one size.
type SweepResult struct {
	Size        int
	Comparisons float64
	Shifts      float64
	// Ratio is shifts over n², which settles near 0.5 for reversed input
	// and 0.25 for random input.
	Ratio float64
}

// Sizes spreads NumSteps sizes evenly over [MinSize, MaxSize].
func (s *SizeSweep) Sizes() []int {
	lo, hi := max(s.MinSize, 1), max(s.MaxSize, 1)
	if hi < lo {
		lo, hi = hi, lo
	}
	steps := max(s.NumSteps, 1)
	if steps == 1 || lo == hi {
		return []int{hi}
	}

	sizes := make([]int, 0, steps)
	for i := 0; i < steps; i++ {
		n := lo + i*(hi-lo)/(steps-1)
		if len(sizes) > 0 && sizes[len(sizes)-1] == n {
			continue
		}
		sizes = append(sizes, n)
	}
	return sizes
}

func RunSweep(ctx context.Context, sweep *SizeSweep) ([]SweepResult, error) {
	ms, err := complexity.Measure(ctx, sweep.Case, sweep.Sizes(), sweep.Seed)
	if err != nil {
		return nil, err
	}

	results := make([]SweepResult, len(ms))
	for i, m := range ms {
		n := float64(m.Size)
		results[i] = SweepResult{
			Size:        m.Size,
			Comparisons: m.Comparisons,
			Shifts:      m.Shifts,
			Ratio:       m.Shifts / (n * n),
		}
	}
	return results, nil
}
