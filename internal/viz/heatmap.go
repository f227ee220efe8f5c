package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/fdtd/internal/grid"
)

// ramp is a blue-to-red ANSI palette for diverging field values.
var ramp = []lipgloss.Style{
	lipgloss.NewStyle().Foreground(lipgloss.Color("21")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("27")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("51")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("202")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
}

// Heatmap renders one polarization of the electric field on the grid's
// centre x-plane as a block-character heat map, at most maxW by maxH cells.
func Heatmap(g *grid.Grid, pol, maxW, maxH int) string {
	nx, ny, nz := g.Shape()
	plane := nx / 2

	stepY, stepZ := 1, 1
	if maxW > 0 && ny > maxW {
		stepY = (ny + maxW - 1) / maxW
	}
	if maxH > 0 && nz > maxH {
		stepZ = (nz + maxH - 1) / maxH
	}

	max := 0.0
	for j := 0; j < ny; j += stepY {
		for k := 0; k < nz; k += stepZ {
			if v := math.Abs(g.E.At(plane, j, k, pol)); v > max {
				max = v
			}
		}
	}
	if max == 0 {
		max = 1
	}

	var b strings.Builder
	for k := nz - 1; k >= 0; k -= stepZ {
		for j := 0; j < ny; j += stepY {
			v := g.E.At(plane, j, k, pol) / max
			bin := int((v + 1) / 2 * float64(len(ramp)-1))
			if bin < 0 {
				bin = 0
			}
			if bin >= len(ramp) {
				bin = len(ramp) - 1
			}
			b.WriteString(ramp[bin].Render("█"))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// EnergyChart plots a recent window of the energy series.
func EnergyChart(series []float64, width, height int) string {
	if len(series) < 2 {
		return ""
	}
	if len(series) > width*4 {
		series = series[len(series)-width*4:]
	}
	return asciigraph.Plot(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("field energy"))
}
