package config

import (
	"fmt"
	"sort"
)

func intp(v int) *int { return &v }

// Presets are ready-to-run scenarios, keyed by name.
var Presets = map[string]*Config{
	"vacuum-pulse": {
		Grid: GridConfig{Nx: 1, Ny: 120, Nz: 120},
		Sources: []SourceConfig{{
			Name: "pulse", Kind: "point",
			Region:      Region{Y: Axis{At: intp(60)}, Z: Axis{At: intp(60)}},
			PeriodSteps: 20,
		}},
		Boundaries: []BoundaryConfig{
			{Name: "pml-ylow", Region: Region{Y: Axis{From: intp(0), To: intp(10)}}},
			{Name: "pml-yhigh", Region: Region{Y: Axis{From: intp(110), To: intp(120)}}},
			{Name: "pml-zlow", Region: Region{Z: Axis{From: intp(0), To: intp(10)}}},
			{Name: "pml-zhigh", Region: Region{Z: Axis{From: intp(110), To: intp(120)}}},
		},
		Detectors: []DetectorConfig{{
			Name: "probe", Kind: "line",
			Region: Region{Y: Axis{At: intp(90)}, Z: Axis{From: intp(40), To: intp(80)}},
		}},
		Run: RunConfig{Steps: 500, Interval: 50},
	},

	"waveguide": {
		Grid: GridConfig{Nx: 1, Ny: 200, Nz: 80},
		Objects: []ObjectConfig{
			{
				Name:         "clad-low",
				Region:       Region{Z: Axis{From: intp(0), To: intp(30)}},
				Permittivity: 2.1,
			},
			{
				Name:         "core",
				Region:       Region{Z: Axis{From: intp(30), To: intp(50)}},
				Permittivity: 12.1,
				Priority:     2,
			},
			{
				Name:         "clad-high",
				Region:       Region{Z: Axis{From: intp(50), To: intp(80)}},
				Permittivity: 2.1,
			},
		},
		Sources: []SourceConfig{{
			Name: "input", Kind: "line",
			Region:      Region{Y: Axis{At: intp(20)}, Z: Axis{From: intp(30), To: intp(50)}},
			PeriodSteps: 30,
		}},
		Boundaries: []BoundaryConfig{
			{Name: "pml-ylow", Region: Region{Y: Axis{From: intp(0), To: intp(10)}}},
			{Name: "pml-yhigh", Region: Region{Y: Axis{From: intp(190), To: intp(200)}}},
			{Name: "periodic-z", Kind: "periodic", Region: Region{Z: Axis{At: intp(0)}}},
		},
		Detectors: []DetectorConfig{{
			Name: "output", Kind: "block",
			Region: Region{Y: Axis{From: intp(170), To: intp(180)}, Z: Axis{From: intp(30), To: intp(50)}},
		}},
		Run: RunConfig{Steps: 1500, Interval: 100},
	},
}

// Preset returns a named scenario.
func Preset(name string) (*Config, error) {
	cfg, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q", name)
	}
	return cfg, nil
}

// PresetNames lists the available presets.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
