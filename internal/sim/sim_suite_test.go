package sim_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fdtd/internal/grid"
	"github.com/san-kum/fdtd/internal/sim"
)

func TestSim(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Sim Suite")
}

func newGrid() *grid.Grid {
	g, err := grid.New(grid.Config{Shape: grid.Shape(4, 4, 4)})
	Expect(err).NotTo(HaveOccurred())
	return g
}

type countingObserver struct{ calls []int }

func (c *countingObserver) OnStep(g *grid.Grid, step int) { c.calls = append(c.calls, step) }

var _ = Describe("Runner", func() {
	It("advances the grid by the requested step count", func() {
		g := newGrid()
		r := sim.New(g, nil)

		Expect(r.RunSteps(context.Background(), 25)).To(Succeed())
		Expect(g.StepsPassed()).To(Equal(25))
	})

	It("converts physical durations through the grid timestep", func() {
		g := newGrid()
		r := sim.New(g, nil)

		Expect(r.Run(context.Background(), 10*g.TimeStep())).To(Succeed())
		Expect(g.StepsPassed()).To(Equal(10))
	})

	It("rejects non-positive durations and step counts", func() {
		g := newGrid()
		r := sim.New(g, nil)

		Expect(r.Run(context.Background(), 0)).NotTo(Succeed())
		Expect(r.RunSteps(context.Background(), -3)).NotTo(Succeed())
		Expect(g.StepsPassed()).To(BeZero())
	})

	It("notifies observers after every step with the running counter", func() {
		g := newGrid()
		r := sim.New(g, nil)
		obs := &countingObserver{}
		r.AddObserver(obs)

		Expect(r.RunSteps(context.Background(), 5)).To(Succeed())
		Expect(obs.calls).To(Equal([]int{1, 2, 3, 4, 5}))
	})

	It("invokes the frame hook on the configured cadence", func() {
		g := newGrid()
		r := sim.New(g, nil)
		r.Interval = 100

		var frames []int
		r.Frame = func(g *grid.Grid, step int) error {
			frames = append(frames, step)
			return nil
		}

		Expect(r.RunSteps(context.Background(), 250)).To(Succeed())
		Expect(frames).To(Equal([]int{0, 100, 200}))
	})

	It("defaults the cadence to every 100 steps", func() {
		g := newGrid()
		r := sim.New(g, nil)

		var count int
		r.Frame = func(g *grid.Grid, step int) error {
			count++
			return nil
		}

		Expect(r.RunSteps(context.Background(), 101)).To(Succeed())
		Expect(count).To(Equal(2))
	})

	It("aborts the run when the frame hook fails, keeping completed steps", func() {
		g := newGrid()
		r := sim.New(g, nil)
		r.Interval = 10

		boom := func(g *grid.Grid, step int) error {
			if step == 20 {
				return context.DeadlineExceeded
			}
			return nil
		}
		r.Frame = boom

		err := r.RunSteps(context.Background(), 50)
		Expect(err).To(HaveOccurred())
		// Steps up to and including the failing hook's step completed.
		Expect(g.StepsPassed()).To(Equal(21))
	})

	It("stops between whole steps on cancellation", func() {
		g := newGrid()
		r := sim.New(g, nil)

		ctx, cancel := context.WithCancel(context.Background())
		stopAt := 7
		r.Progress = func(done, total int) {
			if done == stopAt {
				cancel()
			}
		}

		err := r.RunSteps(ctx, 1000)
		Expect(err).To(MatchError(context.Canceled))
		Expect(g.StepsPassed()).To(Equal(stopAt))
	})

	It("reports progress monotonically up to the total", func() {
		g := newGrid()
		r := sim.New(g, nil)

		var last, calls int
		r.Progress = func(done, total int) {
			Expect(done).To(Equal(last + 1))
			Expect(total).To(Equal(12))
			last = done
			calls++
		}

		Expect(r.RunSteps(context.Background(), 12)).To(Succeed())
		Expect(calls).To(Equal(12))
	})
})
