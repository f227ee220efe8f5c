package sim

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/san-kum/fdtd/internal/grid"
)

// Variant is one member of an ensemble: a name and a factory producing a
// fully placed grid. Each run builds its own grid so members share nothing.
type Variant struct {
	Name  string
	Build func() (*grid.Grid, error)
}

// VariantResult pairs a variant with its stepped grid.
type VariantResult struct {
	Name string
	Grid *grid.Grid
}

// Ensemble steps independent scenario variants concurrently, one goroutine
// per variant.
type Ensemble struct {
	// Steps is the run length applied to every variant.
	Steps int
	// Interval is the frame cadence forwarded to each variant's runner.
	Interval int

	log *zap.Logger
}

// NewEnsemble builds an ensemble runner. A nil logger disables logging.
func NewEnsemble(steps int, log *zap.Logger) *Ensemble {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ensemble{Steps: steps, log: log}
}

// Run executes every variant and returns their results in input order. The
// first build or run error fails the whole ensemble.
func (e *Ensemble) Run(ctx context.Context, variants []Variant) ([]VariantResult, error) {
	results := make([]VariantResult, len(variants))
	errs := make([]error, len(variants))

	var wg sync.WaitGroup
	for i, v := range variants {
		wg.Add(1)
		go func(idx int, v Variant) {
			defer wg.Done()

			g, err := v.Build()
			if err != nil {
				errs[idx] = err
				return
			}
			r := New(g, e.log.Named(v.Name))
			r.Interval = e.Interval
			if err := r.RunSteps(ctx, e.Steps); err != nil {
				errs[idx] = err
				return
			}
			results[idx] = VariantResult{Name: v.Name, Grid: g}
		}(i, v)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
