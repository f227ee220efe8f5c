package grid

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// SpeedOfLight is the vacuum propagation speed in m/s.
const SpeedOfLight = 299792458.0

// DefaultSpacing is the grid spacing used when none is configured.
const DefaultSpacing = 155e-9

var (
	// ErrCourant is returned when a configured courant number exceeds the
	// CFL bound for the grid's dimensionality.
	ErrCourant = errors.New("courant number exceeds CFL bound")

	// ErrZeroMaterial is returned when a permittivity or permeability of
	// zero would be inverted during construction.
	ErrZeroMaterial = errors.New("material coefficient must be nonzero")

	// ErrTooManyKeys is returned when a region request carries more than
	// three axis keys.
	ErrTooManyKeys = errors.New("a region takes at most 3 axis keys")
)

// Config holds the construction parameters of a Grid.
type Config struct {
	// Shape gives the three axis extents, each either a cell count
	// (Index) or a physical length (Pos).
	Shape [3]Key

	// Spacing is the uniform cell size in meters; SpacingX/Y/Z override it
	// per axis. Zero means DefaultSpacing.
	Spacing                      float64
	SpacingX, SpacingY, SpacingZ float64

	// Permittivity and Permeability set the scalar background material.
	// Zero means vacuum (1.0).
	Permittivity float64
	Permeability float64

	// PermittivityTensor and PermeabilityTensor optionally give a full
	// per-cell background, either Nx*Ny*Nz (isotropic) or Nx*Ny*Nz*3
	// (anisotropic) values.
	PermittivityTensor []float64
	PermeabilityTensor []float64

	// Courant overrides the default courant number 0.99/sqrt(D). Values
	// above the CFL bound are a configuration error.
	Courant float64

	// Folder is an opaque output location handed through to storage
	// collaborators; the engine itself never touches it.
	Folder string
}

// Shape builds the Shape field of a Config from plain cell counts.
func Shape(nx, ny, nz int) [3]Key {
	return [3]Key{Index(nx), Index(ny), Index(nz)}
}

// Grid is the aggregate root of a simulation: field tensors, material
// tensors, geometry, the time index, and the ordered component collections.
type Grid struct {
	Nx, Ny, Nz int

	// E and H are the edge-located electric and face-located magnetic
	// field tensors.
	E *Field
	H *Field

	// InvPermittivity and InvPermeability are the anisotropic reciprocal
	// material tensors folded into every field update.
	InvPermittivity *Tensor
	InvPermeability *Tensor

	d        int
	spacing  [3]float64
	courant  float64
	timeStep float64
	steps    int
	folder   string
	priority []int

	sources    []Source
	boundaries []Boundary
	detectors  []Detector
	objects    []Object
}

// New constructs a Grid. Construction validates the shape, the courant
// number against the CFL bound for the active dimensionality, and that no
// material coefficient of zero is inverted; it never partially succeeds.
func New(cfg Config) (*Grid, error) {
	spacing := cfg.Spacing
	if spacing == 0 {
		spacing = DefaultSpacing
	}
	sp := [3]float64{spacing, spacing, spacing}
	if cfg.SpacingX != 0 {
		sp[0] = cfg.SpacingX
	}
	if cfg.SpacingY != 0 {
		sp[1] = cfg.SpacingY
	}
	if cfg.SpacingZ != 0 {
		sp[2] = cfg.SpacingZ
	}
	for a, d := range sp {
		if d <= 0 {
			return nil, fmt.Errorf("grid spacing for axis %d must be positive, got %g", a, d)
		}
	}

	shapeConv := Converter{spacing: sp}
	var n [3]int
	for a, k := range cfg.Shape {
		i, err := shapeConv.DistanceToIndex(k, a)
		if err != nil {
			return nil, fmt.Errorf("invalid grid shape: %w", err)
		}
		if i < 1 {
			return nil, fmt.Errorf("invalid grid shape: axis %d has size %d", a, i)
		}
		n[a] = i
	}

	g := &Grid{
		Nx: n[0], Ny: n[1], Nz: n[2],
		spacing: sp,
		folder:  cfg.Folder,
	}
	g.d = btoi(g.Nx > 1) + btoi(g.Ny > 1) + btoi(g.Nz > 1)

	maxCourant := math.Pow(float64(g.d), -0.5)
	switch {
	case cfg.Courant == 0:
		g.courant = 0.99 * maxCourant
	case cfg.Courant > maxCourant:
		return nil, fmt.Errorf("%w: %g > %g for a %dD grid", ErrCourant, cfg.Courant, maxCourant, g.d)
	default:
		g.courant = cfg.Courant
	}

	// CFL-derived timestep over the active axes only; inactive axes do not
	// constrain stability.
	var sum float64
	for a, na := range n {
		if na > 1 {
			sum += 1 / (sp[a] * sp[a])
		}
	}
	if sum == 0 {
		sum = 1 / (sp[0] * sp[0])
	}
	g.timeStep = 0.99 / (SpeedOfLight * math.Sqrt(sum))

	g.E = NewField(g.Nx, g.Ny, g.Nz)
	g.H = NewField(g.Nx, g.Ny, g.Nz)
	g.priority = make([]int, g.Nx*g.Ny*g.Nz)

	var err error
	if g.InvPermittivity, err = invertMaterial(n, cfg.Permittivity, cfg.PermittivityTensor, "permittivity"); err != nil {
		return nil, err
	}
	if g.InvPermeability, err = invertMaterial(n, cfg.Permeability, cfg.PermeabilityTensor, "permeability"); err != nil {
		return nil, err
	}
	return g, nil
}

func invertMaterial(n [3]int, scalar float64, tensor []float64, what string) (*Tensor, error) {
	if scalar == 0 {
		scalar = 1
	}
	cells := n[0] * n[1] * n[2]
	t := NewTensor(n[0], n[1], n[2], 0)

	switch {
	case tensor == nil:
		inv := 1 / scalar
		for i := range t.Data {
			t.Data[i] = inv
		}
	case len(tensor) == cells:
		for c, v := range tensor {
			if v == 0 {
				return nil, fmt.Errorf("%w: %s tensor has a zero entry", ErrZeroMaterial, what)
			}
			for p := 0; p < 3; p++ {
				t.Data[c*3+p] = 1 / v
			}
		}
	case len(tensor) == cells*3:
		for i, v := range tensor {
			if v == 0 {
				return nil, fmt.Errorf("%w: %s tensor has a zero entry", ErrZeroMaterial, what)
			}
			t.Data[i] = 1 / v
		}
	default:
		return nil, fmt.Errorf("%s tensor has %d values, want %d or %d", what, len(tensor), cells, cells*3)
	}
	return t, nil
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Shape returns the cell counts per axis.
func (g *Grid) Shape() (nx, ny, nz int) { return g.Nx, g.Ny, g.Nz }

// D returns the number of active dimensions (axes with more than one cell).
func (g *Grid) D() int { return g.d }

// Courant returns the courant number of the simulation.
func (g *Grid) Courant() float64 { return g.courant }

// TimeStep returns the derived timestep in seconds.
func (g *Grid) TimeStep() float64 { return g.timeStep }

// Spacing returns the per-axis cell size in meters.
func (g *Grid) Spacing() (dx, dy, dz float64) {
	return g.spacing[0], g.spacing[1], g.spacing[2]
}

// SizeX returns the physical extent of the grid along x.
func (g *Grid) SizeX() float64 { return float64(g.Nx) * g.spacing[0] }

// SizeY returns the physical extent of the grid along y.
func (g *Grid) SizeY() float64 { return float64(g.Ny) * g.spacing[1] }

// SizeZ returns the physical extent of the grid along z.
func (g *Grid) SizeZ() float64 { return float64(g.Nz) * g.spacing[2] }

// StepsPassed returns the number of completed leapfrog steps.
func (g *Grid) StepsPassed() int { return g.steps }

// TimePassed returns the simulated physical time.
func (g *Grid) TimePassed() float64 { return float64(g.steps) * g.timeStep }

// Folder returns the opaque output location configured at construction.
func (g *Grid) Folder() string { return g.folder }

// Converter returns the unit converter bound to this grid's geometry.
func (g *Grid) Converter() Converter {
	return Converter{
		shape:    [3]int{g.Nx, g.Ny, g.Nz},
		spacing:  g.spacing,
		timeStep: g.timeStep,
	}
}

// Priority returns the identifier of the object owning cell (i, j, k), or
// zero for background.
func (g *Grid) Priority(i, j, k int) int {
	return g.priority[(i*g.Ny+j)*g.Nz+k]
}

// ClaimCell stamps an object's material into one cell if its priority is not
// below the current owner's. A strictly higher priority always wins; on a tie
// the later write wins. Reports whether the cell was claimed.
func (g *Grid) ClaimCell(i, j, k, priority int, invPermittivity, invPermeability [3]float64) bool {
	c := (i*g.Ny+j)*g.Nz + k
	if priority < g.priority[c] {
		return false
	}
	g.priority[c] = priority
	for p := 0; p < 3; p++ {
		g.InvPermittivity.Data[c*3+p] = invPermittivity[p]
		g.InvPermeability.Data[c*3+p] = invPermeability[p]
	}
	return true
}

// Reset zeroes the fields and the step counter. Geometry, material tensors
// and registered components are untouched.
func (g *Grid) Reset() {
	g.E.Zero()
	g.H.Zero()
	g.steps = 0
}

// PromoteToComplex reallocates E and H with imaginary planes and propagates
// the promotion to every boundary's auxiliary state. Needed before attaching
// phasor (frequency-domain) sources.
func (g *Grid) PromoteToComplex() {
	g.E.PromoteToComplex()
	g.H.PromoteToComplex()
	for _, b := range g.boundaries {
		b.PromoteToComplex()
	}
}

// String lists the geometry, courant number and every registered component by
// kind in registration order. Diagnostic only.
func (g *Grid) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Grid(shape=(%d,%d,%d), spacing=(%.2e,%.2e,%.2e), courant=%.4f)\n",
		g.Nx, g.Ny, g.Nz, g.spacing[0], g.spacing[1], g.spacing[2], g.courant)
	section := func(kind string, names []string) {
		if len(names) == 0 {
			return
		}
		fmt.Fprintf(&sb, "%s:\n", kind)
		for _, n := range names {
			fmt.Fprintf(&sb, "  %s\n", n)
		}
	}
	var names []string
	for _, s := range g.sources {
		names = append(names, s.Name())
	}
	section("sources", names)
	names = nil
	for _, b := range g.boundaries {
		names = append(names, b.Name())
	}
	section("boundaries", names)
	names = nil
	for _, d := range g.detectors {
		names = append(names, d.Name())
	}
	section("detectors", names)
	names = nil
	for _, o := range g.objects {
		names = append(names, o.Name())
	}
	section("objects", names)
	return sb.String()
}
