package components

import (
	"fmt"
	"math"

	"github.com/san-kum/fdtd/internal/grid"
)

// PointSource additively injects a sinusoidal excitation into every cell of
// its registered region on one polarization axis. On a complex-promoted grid
// it injects the full phasor exp(i(wt+phase)) instead of its real part.
type PointSource struct {
	attachment

	name string

	// Period is the oscillation period in seconds.
	Period float64
	// Amplitude scales the injected value. Zero means 1.
	Amplitude float64
	// Phase offsets the oscillation in radians.
	Phase float64
	// Polarization selects the driven field axis (PolX/PolY/PolZ).
	Polarization int
	// Pulse, when positive, multiplies the excitation by a Hanning window
	// over the first Pulse seconds and silences it afterwards.
	Pulse float64
}

// NewPointSource builds a source with the given name and period.
func NewPointSource(name string, period float64) *PointSource {
	return &PointSource{name: name, Period: period, Amplitude: 1, Polarization: PolZ}
}

func (s *PointSource) Name() string { return s.name }

func (s *PointSource) validate() error {
	if s.Period <= 0 {
		return fmt.Errorf("source %q: period must be positive, got %g", s.name, s.Period)
	}
	if s.Polarization < 0 || s.Polarization > 2 {
		return fmt.Errorf("source %q: invalid polarization %d", s.name, s.Polarization)
	}
	return nil
}

// Register binds the source to its grid and region.
func (s *PointSource) Register(g *grid.Grid, x, y, z grid.Selection) error {
	if err := s.validate(); err != nil {
		return err
	}
	if err := s.bind(s.name, g, x, y, z); err != nil {
		return err
	}
	g.AttachSource(s)
	return nil
}

// UpdateE injects the current excitation value.
func (s *PointSource) UpdateE() {
	t := s.grid.TimePassed()
	amp := s.Amplitude
	if amp == 0 {
		amp = 1
	}
	if s.Pulse > 0 {
		if t >= s.Pulse {
			return
		}
		// Hanning envelope over the pulse window.
		amp *= 0.5 * (1 - math.Cos(2*math.Pi*t/s.Pulse))
	}
	arg := 2*math.Pi*t/s.Period + s.Phase

	if s.grid.E.IsComplex() {
		v := complex(amp*math.Cos(arg), amp*math.Sin(arg))
		s.cells(func(i, j, k int) {
			s.grid.E.AddComplex(i, j, k, s.Polarization, v)
		})
		return
	}
	v := amp * math.Sin(arg)
	s.cells(func(i, j, k int) {
		s.grid.E.Add(i, j, k, s.Polarization, v)
	})
}

// UpdateH is a no-op; the source drives the electric field only.
func (s *PointSource) UpdateH() {}

func (s *PointSource) String() string {
	return fmt.Sprintf("%s: point source %s period=%g", s.name, s.regionString(), s.Period)
}

// LineSource spreads a sinusoidal excitation over a line (or plane) of
// cells, tapering the amplitude with a Hanning profile along the longest
// region axis so the injected beam has soft edges.
type LineSource struct {
	PointSource
}

// NewLineSource builds a line source with the given name and period.
func NewLineSource(name string, period float64) *LineSource {
	return &LineSource{PointSource: *NewPointSource(name, period)}
}

// Register binds the source to its grid and region.
func (s *LineSource) Register(g *grid.Grid, x, y, z grid.Selection) error {
	if err := s.validate(); err != nil {
		return err
	}
	if err := s.bind(s.name, g, x, y, z); err != nil {
		return err
	}
	g.AttachSource(s)
	return nil
}

// UpdateE injects the excitation with the spatial taper applied.
func (s *LineSource) UpdateE() {
	t := s.grid.TimePassed()
	amp := s.Amplitude
	if amp == 0 {
		amp = 1
	}
	if s.Pulse > 0 {
		if t >= s.Pulse {
			return
		}
		// Hanning envelope over the pulse window.
		amp *= 0.5 * (1 - math.Cos(2*math.Pi*t/s.Pulse))
	}
	arg := 2*math.Pi*t/s.Period + s.Phase

	axis, n := s.longestAxis()
	profile := func(pos int) float64 {
		if n <= 1 {
			return 1
		}
		return math.Sin(math.Pi * float64(pos) / float64(n-1))
	}

	complexGrid := s.grid.E.IsComplex()
	idxAlong := func(i, j, k int) int {
		switch axis {
		case 0:
			return indexOf(s.xs, i)
		case 1:
			return indexOf(s.ys, j)
		default:
			return indexOf(s.zs, k)
		}
	}
	s.cells(func(i, j, k int) {
		a := amp * profile(idxAlong(i, j, k))
		if complexGrid {
			s.grid.E.AddComplex(i, j, k, s.Polarization, complex(a*math.Cos(arg), a*math.Sin(arg)))
			return
		}
		s.grid.E.Add(i, j, k, s.Polarization, a*math.Sin(arg))
	})
}

func (s *LineSource) longestAxis() (axis, n int) {
	axis, n = 0, len(s.xs)
	if len(s.ys) > n {
		axis, n = 1, len(s.ys)
	}
	if len(s.zs) > n {
		axis, n = 2, len(s.zs)
	}
	return axis, n
}

func (s *LineSource) String() string {
	return fmt.Sprintf("%s: line source %s period=%g", s.name, s.regionString(), s.Period)
}

func indexOf(xs []int, x int) int {
	for n, v := range xs {
		if v == x {
			return n
		}
	}
	return 0
}
