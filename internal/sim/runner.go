// Package sim drives repeated stepping of an FDTD grid. The Runner owns no
// numerical state: it converts durations to step counts, checks for
// cancellation between whole steps, and fans the current grid state out to
// observers and the periodic frame hook.
package sim

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/fdtd/internal/grid"
)

// DefaultInterval is the frame-hook cadence when none is configured.
const DefaultInterval = 100

// Hook receives the grid right after a step has completed. The step argument
// is the value of the step counter before that step ran, matching the frame
// numbering convention of the stored output.
type Hook func(g *grid.Grid, step int) error

// Observer is notified after every completed step.
type Observer interface {
	OnStep(g *grid.Grid, step int)
}

// Runner repeatedly steps a grid. A step is atomic with respect to external
// control: cancellation and hook failures are only acted on between steps.
type Runner struct {
	// Interval is the frame-hook cadence in steps. Zero means
	// DefaultInterval.
	Interval int

	// Frame, when set, is invoked every Interval steps. A frame error
	// aborts the run; the grid keeps the state of every completed step.
	Frame Hook

	// Progress, when set, is called after every step with the number of
	// steps done out of the total.
	Progress func(done, total int)

	g         *grid.Grid
	log       *zap.Logger
	observers []Observer
}

// New builds a Runner for the given grid. A nil logger disables logging.
func New(g *grid.Grid, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{g: g, log: log}
}

// AddObserver appends an observer; observers run in registration order.
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Run advances the grid for a physical duration in seconds.
func (r *Runner) Run(ctx context.Context, duration float64) error {
	if duration <= 0 {
		return fmt.Errorf("duration must be positive, got %g", duration)
	}
	return r.RunSteps(ctx, r.g.Converter().TimeToSteps(duration))
}

// RunSteps advances the grid by a whole number of leapfrog steps.
func (r *Runner) RunSteps(ctx context.Context, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("step count must be positive, got %d", steps)
	}
	interval := r.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	r.log.Info("run started",
		zap.Int("steps", steps),
		zap.Float64("time_step", r.g.TimeStep()),
		zap.Int("interval", interval),
	)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			r.log.Info("run cancelled", zap.Int("completed", i))
			return ctx.Err()
		default:
		}

		before := r.g.StepsPassed()
		r.g.Step()

		for _, o := range r.observers {
			o.OnStep(r.g, r.g.StepsPassed())
		}
		if r.Frame != nil && before%interval == 0 {
			if err := r.Frame(r.g, before); err != nil {
				return fmt.Errorf("frame hook at step %d: %w", before, err)
			}
		}
		if r.Progress != nil {
			r.Progress(i+1, steps)
		}
	}

	r.log.Info("run finished", zap.Int("steps_passed", r.g.StepsPassed()))
	return nil
}
