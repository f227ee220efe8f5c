package storage

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/san-kum/fdtd/internal/grid"
)

// SaveFrame renders the z-polarized electric field on the grid's centre
// x-plane into frame_<step>.png. Intended as a sim.Runner frame hook.
func (s *Store) SaveFrame(g *grid.Grid, step int) error {
	if s.runDir == "" {
		return ErrNoFolder
	}
	nx, ny, nz := g.Shape()
	plane := nx / 2

	// Symmetric scale around zero so positive and negative lobes render
	// with equal weight.
	max := 0.0
	for j := 0; j < ny; j++ {
		for k := 0; k < nz; k++ {
			if v := math.Abs(g.E.At(plane, j, k, 2)); v > max {
				max = v
			}
		}
	}
	if max == 0 {
		max = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, ny, nz))
	for j := 0; j < ny; j++ {
		for k := 0; k < nz; k++ {
			img.Set(j, nz-1-k, diverging(g.E.At(plane, j, k, 2)/max))
		}
	}

	f, err := os.Create(filepath.Join(s.runDir, fmt.Sprintf("frame_%06d.png", step)))
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

// diverging maps [-1,1] to a blue/white/red ramp.
func diverging(v float64) color.RGBA {
	v = math.Max(-1, math.Min(1, v))
	if v >= 0 {
		c := uint8(255 * (1 - v))
		return color.RGBA{R: 255, G: c, B: c, A: 255}
	}
	c := uint8(255 * (1 + v))
	return color.RGBA{R: c, G: c, B: 255, A: 255}
}
