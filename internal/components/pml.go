package components

import (
	"fmt"
	"math"

	"github.com/san-kum/fdtd/internal/grid"
)

// PML is a convolutional perfectly-matched absorbing layer along one axis.
// It keeps split-field auxiliary tensors (psi recursions, one per driven
// polarization and field kind) that are advanced in the pre-update hooks
// from the previous field snapshot and applied as a correction right after
// the corresponding field update.
//
// Place it with a range key covering the layer on the absorbing axis, e.g.
// g.Place(pml, grid.Range(grid.Index(0), grid.Index(10))) for a low-side x
// layer. The layer must touch the grid edge.
type PML struct {
	attachment

	name string

	// Kappa and Alpha are the usual CPML stretching parameters.
	Kappa float64
	Alpha float64

	axis      int
	low       bool
	thickness int
	offset    int

	// Per-depth recursion coefficients, strongest at the outer edge.
	bE, cE []float64
	bH, cH []float64

	// psiE holds the E-update accumulators for the two transverse
	// polarizations; psiH the mirrored H accumulators.
	psiE *grid.Field
	psiH *grid.Field
}

// NewPML builds a PML boundary with the conventional parameter defaults.
func NewPML(name string) *PML {
	return &PML{name: name, Kappa: 1.0, Alpha: 1e-8}
}

func (b *PML) Name() string { return b.name }

// Register determines the absorbing axis and side from the region, allocates
// the auxiliary state and precomputes the recursion coefficients.
func (b *PML) Register(g *grid.Grid, x, y, z grid.Selection) error {
	nx, ny, nz := g.Shape()
	axes := [3]int{nx, ny, nz}
	sels := [3]grid.Selection{x, y, z}

	b.axis = -1
	for a, sel := range sels {
		lo, hi := sel.Bounds()
		if hi-lo == axes[a] {
			continue
		}
		if b.axis != -1 {
			return fmt.Errorf("boundary %q: the layer must span all but one axis", b.name)
		}
		b.axis = a
		b.offset = lo
		b.thickness = hi - lo
		switch {
		case lo == 0:
			b.low = true
		case hi == axes[a]:
			b.low = false
		default:
			return fmt.Errorf("boundary %q: the layer must touch the grid edge", b.name)
		}
	}
	if b.axis == -1 || b.thickness < 1 {
		return fmt.Errorf("boundary %q: absorbing layer needs a strict sub-range on one axis", b.name)
	}
	if b.thickness >= axes[b.axis] {
		return fmt.Errorf("boundary %q: layer thickness %d fills the whole axis", b.name, b.thickness)
	}
	if err := b.bind(b.name, g, x, y, z); err != nil {
		return err
	}

	b.computeCoefficients(g.Courant())

	// Slab-shaped auxiliary tensors matching the layer region.
	sx, sy, sz := nx, ny, nz
	switch b.axis {
	case 0:
		sx = b.thickness
	case 1:
		sy = b.thickness
	default:
		sz = b.thickness
	}
	b.psiE = grid.NewField(sx, sy, sz)
	b.psiH = grid.NewField(sx, sy, sz)
	if g.E.IsComplex() {
		b.PromoteToComplex()
	}

	g.AttachBoundary(b)
	return nil
}

// computeCoefficients builds the graded conductivity profile and the
// per-depth recursion factors. The cubic profile sigma(d) = 40 d^3/(T+1)^4
// follows the reference photonic FDTD formulation.
func (b *PML) computeCoefficients(courant float64) {
	t := b.thickness
	b.bE = make([]float64, t)
	b.cE = make([]float64, t)
	b.bH = make([]float64, t)
	b.cH = make([]float64, t)

	denom := math.Pow(float64(t)+1, 4)
	sigma := func(depth float64) float64 {
		return 40 * depth * depth * depth / denom
	}

	for d := 0; d < t; d++ {
		// depth grows toward the outer edge; E and H samples sit half a
		// cell apart.
		var de, dh float64
		if b.low {
			de = float64(t - d)
			dh = float64(t-d) - 0.5
		} else {
			de = float64(d + 1)
			dh = float64(d) + 0.5
		}
		sE := sigma(de)
		sH := sigma(dh)

		b.bE[d] = math.Exp(-(sE/b.Kappa + b.Alpha) * courant)
		b.cE[d] = (b.bE[d] - 1) * sE / (sE*b.Kappa + b.Alpha*b.Kappa*b.Kappa)
		b.bH[d] = math.Exp(-(sH/b.Kappa + b.Alpha) * courant)
		b.cH[d] = (b.bH[d] - 1) * sH / (sH*b.Kappa + b.Alpha*b.Kappa*b.Kappa)
	}
}

// PreUpdateE advances the E-side psi recursion from the H field snapshot
// taken before the curl, accumulating the backward H differences along the
// absorbing axis.
func (b *PML) PreUpdateE(dx, dy, dz float64) {
	spacing := [3]float64{dx, dy, dz}[b.axis]
	h := b.grid.H
	b.eachSlabCell(func(si, sj, sk, gi, gj, gk, depth int) {
		// The two curl terms differenced along the absorbing axis drive
		// the two transverse polarizations.
		p1, p2 := transverse(b.axis)
		for _, p := range []int{p1, p2} {
			n := b.psiE.Idx(si, sj, sk, p)
			diff := b.backwardDiff(h, gi, gj, gk, other(b.axis, p)) / spacing
			b.psiE.Re[n] = b.bE[depth]*b.psiE.Re[n] + b.cE[depth]*diff
			if b.psiE.Im != nil {
				diffIm := b.backwardDiffIm(h, gi, gj, gk, other(b.axis, p)) / spacing
				b.psiE.Im[n] = b.bE[depth]*b.psiE.Im[n] + b.cE[depth]*diffIm
			}
		}
	})
}

// UpdateE applies the accumulated correction onto the shared E tensor with
// the same material scaling as the main update.
func (b *PML) UpdateE() {
	g := b.grid
	coef := grid.SpeedOfLight * g.TimeStep()
	b.eachSlabCell(func(si, sj, sk, gi, gj, gk, _ int) {
		p1, p2 := transverse(b.axis)
		for _, p := range []int{p1, p2} {
			sign := curlSign(b.axis, p)
			n := g.E.Idx(gi, gj, gk, p)
			s := b.psiE.Idx(si, sj, sk, p)
			g.E.Re[n] += sign * coef * g.InvPermittivity.Data[n] * b.psiE.Re[s]
			if g.E.Im != nil && b.psiE.Im != nil {
				g.E.Im[n] += sign * coef * g.InvPermittivity.Data[n] * b.psiE.Im[s]
			}
		}
	})
}

// PreUpdateH advances the H-side psi recursion from the E field snapshot,
// using forward differences along the absorbing axis.
func (b *PML) PreUpdateH(dx, dy, dz float64) {
	spacing := [3]float64{dx, dy, dz}[b.axis]
	e := b.grid.E
	b.eachSlabCell(func(si, sj, sk, gi, gj, gk, depth int) {
		p1, p2 := transverse(b.axis)
		for _, p := range []int{p1, p2} {
			n := b.psiH.Idx(si, sj, sk, p)
			diff := b.forwardDiff(e, gi, gj, gk, other(b.axis, p)) / spacing
			b.psiH.Re[n] = b.bH[depth]*b.psiH.Re[n] + b.cH[depth]*diff
			if b.psiH.Im != nil {
				diffIm := b.forwardDiffIm(e, gi, gj, gk, other(b.axis, p)) / spacing
				b.psiH.Im[n] = b.bH[depth]*b.psiH.Im[n] + b.cH[depth]*diffIm
			}
		}
	})
}

// UpdateH applies the mirrored correction onto the shared H tensor.
func (b *PML) UpdateH() {
	g := b.grid
	coef := grid.SpeedOfLight * g.TimeStep()
	b.eachSlabCell(func(si, sj, sk, gi, gj, gk, _ int) {
		p1, p2 := transverse(b.axis)
		for _, p := range []int{p1, p2} {
			sign := -curlSign(b.axis, p)
			n := g.H.Idx(gi, gj, gk, p)
			s := b.psiH.Idx(si, sj, sk, p)
			g.H.Re[n] += sign * coef * g.InvPermeability.Data[n] * b.psiH.Re[s]
			if g.H.Im != nil && b.psiH.Im != nil {
				g.H.Im[n] += sign * coef * g.InvPermeability.Data[n] * b.psiH.Im[s]
			}
		}
	})
}

// PromoteToComplex promotes the auxiliary tensors alongside the grid fields.
func (b *PML) PromoteToComplex() {
	b.psiE.PromoteToComplex()
	b.psiH.PromoteToComplex()
}

func (b *PML) String() string {
	side := "high"
	if b.low {
		side = "low"
	}
	return fmt.Sprintf("%s: pml axis=%d side=%s thickness=%d", b.name, b.axis, side, b.thickness)
}

// eachSlabCell visits the layer cells, handing both slab-local and global
// coordinates plus the depth index into the coefficient tables.
func (b *PML) eachSlabCell(fn func(si, sj, sk, gi, gj, gk, depth int)) {
	sx, sy, sz := b.psiE.Shape()
	for si := 0; si < sx; si++ {
		for sj := 0; sj < sy; sj++ {
			for sk := 0; sk < sz; sk++ {
				gi, gj, gk := si, sj, sk
				var depth int
				switch b.axis {
				case 0:
					gi += b.offset
					depth = si
				case 1:
					gj += b.offset
					depth = sj
				default:
					gk += b.offset
					depth = sk
				}
				fn(si, sj, sk, gi, gj, gk, depth)
			}
		}
	}
}

// backwardDiff computes f(i) - f(i-1) along the absorbing axis for
// polarization p, clamping at the grid edge.
func (b *PML) backwardDiff(f *grid.Field, i, j, k, p int) float64 {
	pi, pj, pk := i, j, k
	switch b.axis {
	case 0:
		pi--
	case 1:
		pj--
	default:
		pk--
	}
	if pi < 0 || pj < 0 || pk < 0 {
		return 0
	}
	return f.Re[f.Idx(i, j, k, p)] - f.Re[f.Idx(pi, pj, pk, p)]
}

func (b *PML) backwardDiffIm(f *grid.Field, i, j, k, p int) float64 {
	pi, pj, pk := i, j, k
	switch b.axis {
	case 0:
		pi--
	case 1:
		pj--
	default:
		pk--
	}
	if pi < 0 || pj < 0 || pk < 0 || f.Im == nil {
		return 0
	}
	return f.Im[f.Idx(i, j, k, p)] - f.Im[f.Idx(pi, pj, pk, p)]
}

// forwardDiff computes f(i+1) - f(i) along the absorbing axis for
// polarization p, clamping at the grid edge.
func (b *PML) forwardDiff(f *grid.Field, i, j, k, p int) float64 {
	nx, ny, nz := f.Shape()
	ni, nj, nk := i, j, k
	switch b.axis {
	case 0:
		ni++
	case 1:
		nj++
	default:
		nk++
	}
	if ni >= nx || nj >= ny || nk >= nz {
		return 0
	}
	return f.Re[f.Idx(ni, nj, nk, p)] - f.Re[f.Idx(i, j, k, p)]
}

func (b *PML) forwardDiffIm(f *grid.Field, i, j, k, p int) float64 {
	nx, ny, nz := f.Shape()
	ni, nj, nk := i, j, k
	switch b.axis {
	case 0:
		ni++
	case 1:
		nj++
	default:
		nk++
	}
	if ni >= nx || nj >= ny || nk >= nz || f.Im == nil {
		return 0
	}
	return f.Im[f.Idx(ni, nj, nk, p)] - f.Im[f.Idx(i, j, k, p)]
}

// transverse returns the two polarization axes perpendicular to the layer
// axis.
func transverse(axis int) (int, int) {
	switch axis {
	case 0:
		return 1, 2
	case 1:
		return 0, 2
	default:
		return 0, 1
	}
}

// other returns the polarization whose derivative along the layer axis
// drives polarization p in the curl: the axis orthogonal to both.
func other(axis, p int) int {
	return 3 - axis - p
}

// curlSign gives the sign of the d/d(axis) term driving polarization p in
// the right-handed curl.
func curlSign(axis, p int) float64 {
	// The curl term for component p contains +d(other)/d(axis) when
	// (axis, other, p) is an even permutation of (x, y, z).
	q := other(axis, p)
	if (axis+1)%3 == q%3 && (q+1)%3 == p%3 {
		return 1
	}
	return -1
}
