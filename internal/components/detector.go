package components

import (
	"fmt"

	"github.com/san-kum/fdtd/internal/grid"
)

// LineDetector samples both fields over its registered cells after every
// update, accumulating one flattened reading (three polarizations per cell)
// per timestep and per field kind. Sampling is read-only. On a complex grid
// the real planes are recorded.
type LineDetector struct {
	attachment

	name string
	e    [][]float64
	h    [][]float64
}

// NewLineDetector builds a detector with the given name.
func NewLineDetector(name string) *LineDetector { return &LineDetector{name: name} }

func (d *LineDetector) Name() string { return d.name }

// Register binds the detector to its grid and region.
func (d *LineDetector) Register(g *grid.Grid, x, y, z grid.Selection) error {
	if err := d.bind(d.name, g, x, y, z); err != nil {
		return err
	}
	g.AttachDetector(d)
	return nil
}

// DetectE appends the current E values over the region.
func (d *LineDetector) DetectE() { d.e = append(d.e, d.sample(d.grid.E)) }

// DetectH appends the current H values over the region.
func (d *LineDetector) DetectH() { d.h = append(d.h, d.sample(d.grid.H)) }

func (d *LineDetector) sample(f *grid.Field) []float64 {
	out := make([]float64, 0, len(d.xs)*len(d.ys)*len(d.zs)*3)
	d.cells(func(i, j, k int) {
		for p := 0; p < 3; p++ {
			out = append(out, f.At(i, j, k, p))
		}
	})
	return out
}

// ReadingsE returns the accumulated electric series, one sample per step.
func (d *LineDetector) ReadingsE() [][]float64 { return d.e }

// ReadingsH returns the accumulated magnetic series, one sample per step.
func (d *LineDetector) ReadingsH() [][]float64 { return d.h }

func (d *LineDetector) String() string {
	return fmt.Sprintf("%s: line detector %s", d.name, d.regionString())
}

// BlockDetector records a single scalar per step and field kind: the summed
// squared field over its sub-volume. Useful as a cheap power monitor on
// larger regions where per-cell series would be wasteful.
type BlockDetector struct {
	attachment

	name string
	e    [][]float64
	h    [][]float64
}

// NewBlockDetector builds a block detector with the given name.
func NewBlockDetector(name string) *BlockDetector { return &BlockDetector{name: name} }

func (d *BlockDetector) Name() string { return d.name }

// Register binds the detector to its grid and region.
func (d *BlockDetector) Register(g *grid.Grid, x, y, z grid.Selection) error {
	if err := d.bind(d.name, g, x, y, z); err != nil {
		return err
	}
	g.AttachDetector(d)
	return nil
}

// DetectE appends the summed squared E over the block.
func (d *BlockDetector) DetectE() { d.e = append(d.e, []float64{d.power(d.grid.E)}) }

// DetectH appends the summed squared H over the block.
func (d *BlockDetector) DetectH() { d.h = append(d.h, []float64{d.power(d.grid.H)}) }

func (d *BlockDetector) power(f *grid.Field) float64 {
	var sum float64
	d.cells(func(i, j, k int) {
		for p := 0; p < 3; p++ {
			n := f.Idx(i, j, k, p)
			sum += f.Re[n] * f.Re[n]
			if f.Im != nil {
				sum += f.Im[n] * f.Im[n]
			}
		}
	})
	return sum
}

// ReadingsE returns the accumulated power series.
func (d *BlockDetector) ReadingsE() [][]float64 { return d.e }

// ReadingsH returns the accumulated power series.
func (d *BlockDetector) ReadingsH() [][]float64 { return d.h }

func (d *BlockDetector) String() string {
	return fmt.Sprintf("%s: block detector %s", d.name, d.regionString())
}
