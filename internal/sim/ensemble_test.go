package sim_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fdtd/internal/grid"
	"github.com/san-kum/fdtd/internal/sim"
)

var _ = Describe("Ensemble", func() {
	build := func() (*grid.Grid, error) {
		return grid.New(grid.Config{Shape: grid.Shape(4, 4, 4)})
	}

	It("runs every variant to the configured step count", func() {
		e := sim.NewEnsemble(15, nil)
		results, err := e.Run(context.Background(), []sim.Variant{
			{Name: "a", Build: build},
			{Name: "b", Build: build},
			{Name: "c", Build: build},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))
		Expect(results[0].Name).To(Equal("a"))
		for _, res := range results {
			Expect(res.Grid.StepsPassed()).To(Equal(15))
		}
	})

	It("fails the whole ensemble on a build error", func() {
		boom := errors.New("bad scenario")
		e := sim.NewEnsemble(5, nil)
		_, err := e.Run(context.Background(), []sim.Variant{
			{Name: "good", Build: build},
			{Name: "bad", Build: func() (*grid.Grid, error) { return nil, boom }},
		})
		Expect(err).To(MatchError(boom))
	})

	It("propagates cancellation to running variants", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		e := sim.NewEnsemble(1000, nil)
		_, err := e.Run(ctx, []sim.Variant{{Name: "a", Build: build}})
		Expect(err).To(MatchError(context.Canceled))
	})
})
