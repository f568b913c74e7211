package trace

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Ensemble traces many inputs concurrently. Each input gets its own
// Generator and its own metric set from newMetrics, so no state is shared.
type Ensemble struct {
	newMetrics func() []Metric
	limit      int
}

func NewEnsemble(newMetrics func() []Metric, limit int) *Ensemble {
	return &Ensemble{newMetrics: newMetrics, limit: limit}
}

func (e *Ensemble) Run(ctx context.Context, inputs [][]int) ([]*Result, error) {
	results := make([]*Result, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}

	for i, input := range inputs {
		g.Go(func() error {
			gen := New()
			if e.newMetrics != nil {
				for _, m := range e.newMetrics() {
					gen.AddMetric(m)
				}
			}

			res, err := gen.Trace(ctx, input)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
