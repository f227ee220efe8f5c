package components

import (
	"fmt"

	"github.com/san-kum/fdtd/internal/grid"
)

// Periodic wraps one axis of the grid onto itself: the E edge layer at index
// 0 copies the far layer, and the H far layer copies index 0, closing the
// one-sided curl truncation into a ring.
//
// Place it with a single-cell key on the wrapped axis, e.g.
// g.Place(b, grid.Index(0)) for the x axis.
type Periodic struct {
	attachment

	name string
	axis int
}

// NewPeriodic builds a periodic boundary.
func NewPeriodic(name string) *Periodic { return &Periodic{name: name, axis: -1} }

func (b *Periodic) Name() string { return b.name }

// Register determines the wrapped axis from the single-index key and binds
// the boundary.
func (b *Periodic) Register(g *grid.Grid, x, y, z grid.Selection) error {
	for a, sel := range []grid.Selection{x, y, z} {
		if _, ok := sel.Single(); ok {
			if b.axis != -1 {
				return fmt.Errorf("boundary %q: wrap exactly one axis", b.name)
			}
			b.axis = a
		}
	}
	if b.axis == -1 {
		return fmt.Errorf("boundary %q: wrap exactly one axis", b.name)
	}
	if err := b.bind(b.name, g, x, y, z); err != nil {
		return err
	}
	g.AttachBoundary(b)
	return nil
}

// PreUpdateE is a no-op; the periodic boundary keeps no auxiliary state.
func (b *Periodic) PreUpdateE(dx, dy, dz float64) {}

// UpdateE copies the far E layer onto index 0 of the wrapped axis.
func (b *Periodic) UpdateE() {
	g := b.grid
	last := b.axisLen() - 1
	b.eachPlaneCell(func(i, j, k int) {
		li, lj, lk := i, j, k
		switch b.axis {
		case 0:
			li = last
		case 1:
			lj = last
		default:
			lk = last
		}
		for p := 0; p < 3; p++ {
			n0 := g.E.Idx(i, j, k, p)
			nl := g.E.Idx(li, lj, lk, p)
			g.E.Re[n0] = g.E.Re[nl]
			if g.E.Im != nil {
				g.E.Im[n0] = g.E.Im[nl]
			}
		}
	})
}

// PreUpdateH is a no-op.
func (b *Periodic) PreUpdateH(dx, dy, dz float64) {}

// UpdateH copies the index-0 H layer onto the far end of the wrapped axis.
func (b *Periodic) UpdateH() {
	g := b.grid
	last := b.axisLen() - 1
	b.eachPlaneCell(func(i, j, k int) {
		li, lj, lk := i, j, k
		switch b.axis {
		case 0:
			li = last
		case 1:
			lj = last
		default:
			lk = last
		}
		for p := 0; p < 3; p++ {
			n0 := g.H.Idx(i, j, k, p)
			nl := g.H.Idx(li, lj, lk, p)
			g.H.Re[nl] = g.H.Re[n0]
			if g.H.Im != nil {
				g.H.Im[nl] = g.H.Im[n0]
			}
		}
	})
}

// PromoteToComplex is a no-op; there is no auxiliary state to promote.
func (b *Periodic) PromoteToComplex() {}

func (b *Periodic) axisLen() int {
	nx, ny, nz := b.grid.Shape()
	return [3]int{nx, ny, nz}[b.axis]
}

// eachPlaneCell visits the index-0 plane perpendicular to the wrapped axis.
func (b *Periodic) eachPlaneCell(fn func(i, j, k int)) {
	nx, ny, nz := b.grid.Shape()
	switch b.axis {
	case 0:
		for j := 0; j < ny; j++ {
			for k := 0; k < nz; k++ {
				fn(0, j, k)
			}
		}
	case 1:
		for i := 0; i < nx; i++ {
			for k := 0; k < nz; k++ {
				fn(i, 0, k)
			}
		}
	default:
		for i := 0; i < nx; i++ {
			for j := 0; j < ny; j++ {
				fn(i, j, 0)
			}
		}
	}
}

func (b *Periodic) String() string {
	return fmt.Sprintf("%s: periodic boundary axis=%d", b.name, b.axis)
}
