// Package config loads yaml scenario files and builds the grid and
// components they describe.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/fdtd/internal/components"
	"github.com/san-kum/fdtd/internal/grid"
)

const (
	DefaultSteps    = 1000
	DefaultInterval = 100
)

// Config is a complete simulation scenario.
type Config struct {
	Grid       GridConfig       `yaml:"grid"`
	Sources    []SourceConfig   `yaml:"sources"`
	Boundaries []BoundaryConfig `yaml:"boundaries"`
	Detectors  []DetectorConfig `yaml:"detectors"`
	Objects    []ObjectConfig   `yaml:"objects"`
	Run        RunConfig        `yaml:"run"`
	Save       SaveConfig       `yaml:"save"`
}

// GridConfig mirrors grid.Config in yaml form. Shape is in cells; spacing in
// meters.
type GridConfig struct {
	Nx           int     `yaml:"nx"`
	Ny           int     `yaml:"ny"`
	Nz           int     `yaml:"nz"`
	Spacing      float64 `yaml:"spacing"`
	SpacingX     float64 `yaml:"spacing_x"`
	SpacingY     float64 `yaml:"spacing_y"`
	SpacingZ     float64 `yaml:"spacing_z"`
	Permittivity float64 `yaml:"permittivity"`
	Permeability float64 `yaml:"permeability"`
	Courant      float64 `yaml:"courant"`
	Complex      bool    `yaml:"complex"`
}

// Region selects cells per axis: a single index, an explicit list, or a
// half-open from/to range. Unset axes select everything.
type Region struct {
	X Axis `yaml:"x"`
	Y Axis `yaml:"y"`
	Z Axis `yaml:"z"`
}

// Axis is one axis of a Region.
type Axis struct {
	At   *int  `yaml:"at"`
	From *int  `yaml:"from"`
	To   *int  `yaml:"to"`
	List []int `yaml:"list"`
}

// Key converts the axis selector to a grid key.
func (a Axis) Key() (grid.Key, error) {
	switch {
	case a.At != nil:
		if a.From != nil || a.To != nil || len(a.List) > 0 {
			return grid.Key{}, fmt.Errorf("axis mixes 'at' with other selectors")
		}
		return grid.Index(*a.At), nil
	case len(a.List) > 0:
		if a.From != nil || a.To != nil {
			return grid.Key{}, fmt.Errorf("axis mixes 'list' with a range")
		}
		return grid.List(a.List...), nil
	case a.From != nil || a.To != nil:
		if a.From == nil || a.To == nil {
			return grid.Key{}, fmt.Errorf("range needs both 'from' and 'to'")
		}
		return grid.Range(grid.Index(*a.From), grid.Index(*a.To)), nil
	default:
		return grid.All(), nil
	}
}

func (r Region) keys() ([]grid.Key, error) {
	out := make([]grid.Key, 0, 3)
	for _, a := range []Axis{r.X, r.Y, r.Z} {
		k, err := a.Key()
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, nil
}

// SourceConfig describes one source. Period is in seconds; a zero
// PeriodSteps alternative expresses it in timesteps.
type SourceConfig struct {
	Name         string  `yaml:"name"`
	Kind         string  `yaml:"kind"` // point | line
	Region       Region  `yaml:"region"`
	Period       float64 `yaml:"period"`
	PeriodSteps  int     `yaml:"period_steps"`
	Amplitude    float64 `yaml:"amplitude"`
	Phase        float64 `yaml:"phase"`
	Polarization string  `yaml:"polarization"` // x | y | z
	Pulse        float64 `yaml:"pulse"`
}

// BoundaryConfig describes one boundary.
type BoundaryConfig struct {
	Name   string `yaml:"name"`
	Kind   string `yaml:"kind"` // pml | periodic
	Region Region `yaml:"region"`
}

// DetectorConfig describes one detector.
type DetectorConfig struct {
	Name   string `yaml:"name"`
	Kind   string `yaml:"kind"` // line | block
	Region Region `yaml:"region"`
}

// ObjectConfig describes one material object.
type ObjectConfig struct {
	Name         string  `yaml:"name"`
	Region       Region  `yaml:"region"`
	Permittivity float64 `yaml:"permittivity"`
	Permeability float64 `yaml:"permeability"`
	Priority     int     `yaml:"priority"`
}

// RunConfig controls the run length and frame cadence.
type RunConfig struct {
	Steps    int     `yaml:"steps"`
	Time     float64 `yaml:"time"` // seconds; wins over Steps when set
	Interval int     `yaml:"interval"`
}

// SaveConfig controls the storage collaborator.
type SaveConfig struct {
	Folder string `yaml:"folder"`
	Name   string `yaml:"name"`
	Frames bool   `yaml:"frames"`
	Video  bool   `yaml:"video"`
}

// Default returns a runnable 2D vacuum scenario.
func Default() *Config {
	return &Config{
		Grid: GridConfig{Nx: 1, Ny: 100, Nz: 100},
		Run:  RunConfig{Steps: DefaultSteps, Interval: DefaultInterval},
	}
}

// Load reads a scenario file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the scenario to a yaml file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Build constructs the grid and registers every configured component on it,
// in file order within each kind.
func (c *Config) Build() (*grid.Grid, error) {
	g, err := grid.New(grid.Config{
		Shape:        grid.Shape(c.Grid.Nx, c.Grid.Ny, c.Grid.Nz),
		Spacing:      c.Grid.Spacing,
		SpacingX:     c.Grid.SpacingX,
		SpacingY:     c.Grid.SpacingY,
		SpacingZ:     c.Grid.SpacingZ,
		Permittivity: c.Grid.Permittivity,
		Permeability: c.Grid.Permeability,
		Courant:      c.Grid.Courant,
		Folder:       c.Save.Folder,
	})
	if err != nil {
		return nil, err
	}
	if c.Grid.Complex {
		g.PromoteToComplex()
	}

	// Objects first so boundaries and sources see final materials.
	for _, oc := range c.Objects {
		o := components.NewBrick(oc.Name, oc.Permittivity)
		if oc.Permeability != 0 {
			o.Permeability = oc.Permeability
		}
		if oc.Priority != 0 {
			o.Priority = oc.Priority
		}
		if err := place(g, o, oc.Region); err != nil {
			return nil, err
		}
	}
	for _, bc := range c.Boundaries {
		var b grid.Boundary
		switch bc.Kind {
		case "pml", "":
			b = components.NewPML(bc.Name)
		case "periodic":
			b = components.NewPeriodic(bc.Name)
		default:
			return nil, fmt.Errorf("boundary %q: unknown kind %q", bc.Name, bc.Kind)
		}
		if err := place(g, b, bc.Region); err != nil {
			return nil, err
		}
	}
	for _, sc := range c.Sources {
		period := sc.Period
		if period == 0 && sc.PeriodSteps > 0 {
			period = float64(sc.PeriodSteps) * g.TimeStep()
		}
		pol, err := polarization(sc.Polarization)
		if err != nil {
			return nil, fmt.Errorf("source %q: %w", sc.Name, err)
		}
		var s grid.Source
		switch sc.Kind {
		case "point", "":
			p := components.NewPointSource(sc.Name, period)
			p.Amplitude, p.Phase, p.Polarization, p.Pulse = sc.Amplitude, sc.Phase, pol, sc.Pulse
			s = p
		case "line":
			l := components.NewLineSource(sc.Name, period)
			l.Amplitude, l.Phase, l.Polarization, l.Pulse = sc.Amplitude, sc.Phase, pol, sc.Pulse
			s = l
		default:
			return nil, fmt.Errorf("source %q: unknown kind %q", sc.Name, sc.Kind)
		}
		if err := place(g, s, sc.Region); err != nil {
			return nil, err
		}
	}
	for _, dc := range c.Detectors {
		var d grid.Detector
		switch dc.Kind {
		case "line", "":
			d = components.NewLineDetector(dc.Name)
		case "block":
			d = components.NewBlockDetector(dc.Name)
		default:
			return nil, fmt.Errorf("detector %q: unknown kind %q", dc.Name, dc.Kind)
		}
		if err := place(g, d, dc.Region); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// TotalSteps resolves the run length against the grid timestep.
func (c *Config) TotalSteps(g *grid.Grid) int {
	if c.Run.Time > 0 {
		return g.Converter().TimeToSteps(c.Run.Time)
	}
	if c.Run.Steps > 0 {
		return c.Run.Steps
	}
	return DefaultSteps
}

func place(g *grid.Grid, comp grid.Component, r Region) error {
	keys, err := r.keys()
	if err != nil {
		return fmt.Errorf("component %q: %w", comp.Name(), err)
	}
	return g.Place(comp, keys...)
}

func polarization(s string) (int, error) {
	switch s {
	case "x":
		return components.PolX, nil
	case "y":
		return components.PolY, nil
	case "z", "":
		return components.PolZ, nil
	default:
		return 0, fmt.Errorf("unknown polarization %q", s)
	}
}
