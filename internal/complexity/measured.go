package complexity

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/san-kum/sortlab/internal/input"
	"github.com/san-kum/sortlab/internal/metrics"
	"github.com/san-kum/sortlab/internal/trace"
)

// Measurement holds the operation counts of one traced input.
type Measurement struct {
	Size        int
	Comparisons float64
	Shifts      float64
	Events      float64
}

// Measure traces inputs of shape c for every size and reports their
// operation counts. Runs are spread over an Ensemble.
func Measure(ctx context.Context, c input.Case, sizes []int, seed int64) ([]Measurement, error) {
	rng := rand.New(rand.NewSource(seed))
	inputs := make([][]int, len(sizes))
	for i, n := range sizes {
		inputs[i] = input.Generate(c, n, rng)
	}

	results, err := trace.NewEnsemble(metrics.Default, 0).Run(ctx, inputs)
	if err != nil {
		return nil, fmt.Errorf("measure %s: %w", c, err)
	}

	out := make([]Measurement, len(results))
	for i, res := range results {
		out[i] = Measurement{
			Size:        sizes[i],
			Comparisons: res.Metrics["comparisons"],
			Shifts:      res.Metrics["shifts"],
			Events:      res.Metrics["events"],
		}
	}
	return out, nil
}

// Measured converts measurements into comparison and shift series.
func Measured(c input.Case, ms []Measurement) (comparisons, shifts Series) {
	comparisons.Name = fmt.Sprintf("%s comparisons", c)
	shifts.Name = fmt.Sprintf("%s shifts", c)
	for _, m := range ms {
		x := float64(m.Size)
		comparisons.Points = append(comparisons.Points, Point{X: x, Y: m.Comparisons})
		shifts.Points = append(shifts.Points, Point{X: x, Y: m.Shifts})
	}
	return comparisons, shifts
}

// Sizes returns 1..n.
func Sizes(n int) []int {
	sizes := make([]int, n)
	for i := range sizes {
		sizes[i] = i + 1
	}
	return sizes
}
