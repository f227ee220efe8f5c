// Package metrics provides run observers sampling aggregate field
// quantities per step.
package metrics

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/fdtd/internal/grid"
)

// TotalEnergy returns the summed squared field magnitude over the whole
// grid, both field kinds and both numeric planes.
func TotalEnergy(g *grid.Grid) float64 {
	e := floats.Dot(g.E.Re, g.E.Re) + floats.Dot(g.H.Re, g.H.Re)
	if g.E.Im != nil {
		e += floats.Dot(g.E.Im, g.E.Im)
	}
	if g.H.Im != nil {
		e += floats.Dot(g.H.Im, g.H.Im)
	}
	return e
}

// Energy is a run observer accumulating the per-step total field energy.
type Energy struct {
	series []float64
}

// NewEnergy builds an empty energy observer.
func NewEnergy() *Energy { return &Energy{} }

// OnStep records the current total energy.
func (e *Energy) OnStep(g *grid.Grid, step int) {
	e.series = append(e.series, TotalEnergy(g))
}

// Series returns the recorded per-step energies.
func (e *Energy) Series() []float64 { return e.series }

// Max returns the largest recorded energy, or zero when empty.
func (e *Energy) Max() float64 {
	if len(e.series) == 0 {
		return 0
	}
	return floats.Max(e.series)
}

// Last returns the most recent recorded energy, or zero when empty.
func (e *Energy) Last() float64 {
	if len(e.series) == 0 {
		return 0
	}
	return e.series[len(e.series)-1]
}

// Reset clears the series.
func (e *Energy) Reset() { e.series = e.series[:0] }
