package components

import (
	"fmt"

	"github.com/san-kum/fdtd/internal/grid"
)

// Brick marks a rectangular sub-region with modified material coefficients.
// Registration writes the reciprocal permittivity/permeability into the
// grid's material tensors and stamps Priority into the priority matrix; the
// per-step update needs no further special-casing.
//
// Overlap policy: a cell keeps the material of the highest-priority object
// covering it; between objects of equal priority the one registered later
// wins.
type Brick struct {
	attachment

	name string

	// Permittivity and Permeability are the relative material constants
	// inside the brick. Zero values are rejected: the reciprocal is taken
	// at registration.
	Permittivity float64
	Permeability float64

	// Priority ranks this object in the overlap resolution. Must be
	// positive so the brick outranks the zero-valued background.
	Priority int

	claimed int
}

// NewBrick builds a material brick with the given name and relative
// permittivity, vacuum permeability and priority 1.
func NewBrick(name string, permittivity float64) *Brick {
	return &Brick{name: name, Permittivity: permittivity, Permeability: 1, Priority: 1}
}

func (o *Brick) Name() string { return o.name }

// Register validates the material, binds the region, and claims each covered
// cell subject to the overlap policy.
func (o *Brick) Register(g *grid.Grid, x, y, z grid.Selection) error {
	if o.Permittivity == 0 || o.Permeability == 0 {
		return fmt.Errorf("object %q: %w", o.name, grid.ErrZeroMaterial)
	}
	if o.Priority < 1 {
		return fmt.Errorf("object %q: priority must be positive, got %d", o.name, o.Priority)
	}
	if err := o.bind(o.name, g, x, y, z); err != nil {
		return err
	}

	invEps := [3]float64{1 / o.Permittivity, 1 / o.Permittivity, 1 / o.Permittivity}
	invMu := [3]float64{1 / o.Permeability, 1 / o.Permeability, 1 / o.Permeability}
	o.cells(func(i, j, k int) {
		if g.ClaimCell(i, j, k, o.Priority, invEps, invMu) {
			o.claimed++
		}
	})

	g.AttachObject(o)
	return nil
}

// Claimed returns how many cells of the region this object ended up owning.
func (o *Brick) Claimed() int { return o.claimed }

func (o *Brick) String() string {
	return fmt.Sprintf("%s: brick %s eps=%g mu=%g priority=%d",
		o.name, o.regionString(), o.Permittivity, o.Permeability, o.Priority)
}
