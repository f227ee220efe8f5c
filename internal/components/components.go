// Package components provides concrete sources, boundaries, detectors and
// material objects for the FDTD grid. Each type implements the hook subset
// its kind requires and is attached with [grid.Grid.Place].
package components

import (
	"fmt"

	"github.com/san-kum/fdtd/internal/grid"
)

// Polarization axes for sources and detectors.
const (
	PolX = 0
	PolY = 1
	PolZ = 2
)

// attachment carries the grid back-reference and the materialized region
// every component gets at registration. A component binds to exactly one
// grid; binding twice is a configuration error.
type attachment struct {
	grid       *grid.Grid
	x, y, z    grid.Selection
	xs, ys, zs []int
}

func (a *attachment) bind(name string, g *grid.Grid, x, y, z grid.Selection) error {
	if a.grid != nil {
		return fmt.Errorf("component %q is already registered to a grid", name)
	}
	a.grid = g
	a.x, a.y, a.z = x, y, z
	a.xs, a.ys, a.zs = x.Indices(), y.Indices(), z.Indices()
	return nil
}

// cells visits every cell of the registered region.
func (a *attachment) cells(fn func(i, j, k int)) {
	for _, i := range a.xs {
		for _, j := range a.ys {
			for _, k := range a.zs {
				fn(i, j, k)
			}
		}
	}
}

func (a *attachment) regionString() string {
	return fmt.Sprintf("[%s, %s, %s]", a.x, a.y, a.z)
}
