// Package export renders stored run data into standalone files.
package export

import (
	"fmt"
	"strings"
)

// SeriesToSVG plots a sampled time series as an SVG polyline. Sample index
// maps to the x axis; dt only scales the tick labels.
func SeriesToSVG(series []float64, dt float64, width, height int, strokeColor string) string {
	if len(series) < 2 {
		return ""
	}

	minV, maxV := series[0], series[0]
	for _, v := range series {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	rangeV := maxV - minV
	if rangeV == 0 {
		rangeV = 1
	}
	minV -= rangeV * 0.1
	maxV += rangeV * 0.1
	rangeV = maxV - minV

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<text x="4" y="14" fill="#888" font-size="11">t = 0 .. %.3g s</text>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, float64(len(series)-1)*dt, strokeColor))

	for i, v := range series {
		x := float64(i) / float64(len(series)-1) * float64(width)
		y := float64(height) - (v-minV)/rangeV*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
