package grid

import "fmt"

// Component is the contract shared by everything that can be placed on a
// grid. Register is called exactly once, by Place, with the normalized axis
// selections; a component belongs to at most one grid for its whole life.
type Component interface {
	Name() string
	Register(g *Grid, x, y, z Selection) error
}

// Source additively injects field values after each field update.
type Source interface {
	Component
	UpdateE()
	UpdateH()
}

// Boundary couples an absorbing or wrapping boundary condition into the
// step. The pre-update hooks run before the corresponding curl is taken and
// receive the three axis spacings; the update hooks run right after the
// field update, before sources and detectors. PromoteToComplex mirrors the
// grid's field promotion onto the boundary's auxiliary state.
type Boundary interface {
	Component
	PreUpdateE(dx, dy, dz float64)
	UpdateE()
	PreUpdateH(dx, dy, dz float64)
	UpdateH()
	PromoteToComplex()
}

// Detector samples fields read-only after each update, accumulating one
// series per field kind. ReadingsE and ReadingsH expose the accumulated
// per-step samples for export.
type Detector interface {
	Component
	DetectE()
	DetectH()
	ReadingsE() [][]float64
	ReadingsH() [][]float64
}

// Object marks a sub-region with modified material coefficients at
// registration time; it takes no part in the per-step loop beyond the
// material tensors it already wrote.
type Object interface {
	Component
}

// Place normalizes up to three axis keys and registers the component on the
// grid. Missing keys select the whole axis; more than three keys is a
// configuration error rejected before any mutation. This is the sole
// component-attachment entry point.
func (g *Grid) Place(c Component, keys ...Key) error {
	if len(keys) > 3 {
		return fmt.Errorf("%w, got %d", ErrTooManyKeys, len(keys))
	}
	conv := g.Converter()
	sels := [3]Selection{}
	for a := 0; a < 3; a++ {
		k := All()
		if a < len(keys) {
			k = keys[a]
		}
		s, err := conv.NormalizeKey(k, a)
		if err != nil {
			return fmt.Errorf("placing %q: %w", c.Name(), err)
		}
		sels[a] = s
	}
	if err := c.Register(g, sels[0], sels[1], sels[2]); err != nil {
		return fmt.Errorf("placing %q: %w", c.Name(), err)
	}
	return nil
}

// AttachSource appends a source to the grid's ordered collection. Called by
// Source implementations from Register; insertion order fixes the per-step
// invocation order.
func (g *Grid) AttachSource(s Source) { g.sources = append(g.sources, s) }

// AttachBoundary appends a boundary to the grid's ordered collection.
func (g *Grid) AttachBoundary(b Boundary) { g.boundaries = append(g.boundaries, b) }

// AttachDetector appends a detector to the grid's ordered collection.
func (g *Grid) AttachDetector(d Detector) { g.detectors = append(g.detectors, d) }

// AttachObject appends an object to the grid's ordered collection.
func (g *Grid) AttachObject(o Object) { g.objects = append(g.objects, o) }

// Sources returns the registered sources in registration order.
func (g *Grid) Sources() []Source { return g.sources }

// Boundaries returns the registered boundaries in registration order.
func (g *Grid) Boundaries() []Boundary { return g.boundaries }

// Detectors returns the registered detectors in registration order.
func (g *Grid) Detectors() []Detector { return g.detectors }

// Objects returns the registered objects in registration order.
func (g *Grid) Objects() []Object { return g.objects }
