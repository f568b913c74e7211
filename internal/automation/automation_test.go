package automation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/sortlab/internal/config"
	"github.com/san-kum/sortlab/internal/input"
	"github.com/san-kum/sortlab/internal/storage"
)

const scenarioYAML = `
name: mixed
description: one of each step kind
workers: 2
steps:
  - name: literal
    input: [3, 1, 2]
    save: true
  - name: preset
    preset: reversed
  - name: generated
    case: worst
    size: 6
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	if sc.Name != "mixed" || len(sc.Steps) != 3 || sc.Workers != 2 {
		t.Errorf("unexpected scenario %+v", sc)
	}

	_, err = LoadScenario(writeScenario(t, "name: empty\n"))
	if !errors.Is(err, ErrEmptyScenario) {
		t.Errorf("expected ErrEmptyScenario, got %v", err)
	}

	if _, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		step ScenarioStep
		want int
	}{
		{"literal", ScenarioStep{Input: []int{4, 5}}, 2},
		{"preset", ScenarioStep{Preset: "demo"}, 3},
		{"case", ScenarioStep{Case: string(input.RandomCase), Size: 7}, 7},
		{"nothing", ScenarioStep{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.step.Resolve()
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != tt.want {
				t.Errorf("len = %d, want %d", len(got), tt.want)
			}
		})
	}

	_, err := ScenarioStep{Preset: "nope"}.Resolve()
	if !errors.Is(err, config.ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}

	_, err = ScenarioStep{Case: "wrost", Size: 5}.Resolve()
	if !errors.Is(err, input.ErrUnknownCase) {
		t.Errorf("expected ErrUnknownCase, got %v", err)
	}

	sc := &Scenario{Name: "typo", Steps: []ScenarioStep{{Case: "wrost", Size: 5}}}
	if _, err := RunScenario(context.Background(), sc, nil); !errors.Is(err, input.ErrUnknownCase) {
		t.Errorf("expected RunScenario to reject the case, got %v", err)
	}
}

func TestRunScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	st := storage.New(t.TempDir())

	results, err := RunScenario(context.Background(), sc, st)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}

	if results[0].RunID == "" || results[1].RunID != "" {
		t.Errorf("only the first step should be saved: %q %q", results[0].RunID, results[1].RunID)
	}
	if got := results[0].Result.Metrics["shifts"]; got != 2 {
		t.Errorf("literal shifts = %v, want 2", got)
	}
	if got := results[2].Result.Metrics["shifts"]; got != 15 {
		t.Errorf("worst case n=6 shifts = %v, want 15", got)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Errorf("stored runs = %d, want 1", len(runs))
	}

	if _, err := RunScenario(context.Background(), sc, nil); err == nil {
		t.Error("expected error when saving without a store")
	}
}

func TestSweepSizes(t *testing.T) {
	tests := []struct {
		sweep SizeSweep
		want  []int
	}{
		{SizeSweep{MinSize: 1, MaxSize: 10, NumSteps: 4}, []int{1, 4, 7, 10}},
		{SizeSweep{MinSize: 5, MaxSize: 5, NumSteps: 3}, []int{5}},
		{SizeSweep{MinSize: 10, MaxSize: 2, NumSteps: 1}, []int{10}},
		{SizeSweep{MinSize: 1, MaxSize: 3, NumSteps: 10}, []int{1, 2, 3}},
	}
	for _, tt := range tests {
		got := tt.sweep.Sizes()
		if len(got) != len(tt.want) {
			t.Errorf("%+v: sizes = %v, want %v", tt.sweep, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%+v: sizes = %v, want %v", tt.sweep, got, tt.want)
				break
			}
		}
	}
}

func TestRunSweepWorstCase(t *testing.T) {
	results, err := RunSweep(context.Background(), &SizeSweep{Case: input.WorstCase, MinSize: 2, MaxSize: 20, NumSteps: 5})
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range results {
		n := float64(r.Size)
		if r.Shifts != n*(n-1)/2 {
			t.Errorf("n=%d shifts = %v, want %v", r.Size, r.Shifts, n*(n-1)/2)
		}
		if r.Ratio <= 0 || r.Ratio >= 0.5 {
			t.Errorf("n=%d ratio = %v", r.Size, r.Ratio)
		}
	}
}
