package grid

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestNewDefaults(t *testing.T) {
	g, err := New(Config{Shape: Shape(10, 10, 10)})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if nx, ny, nz := g.Shape(); nx != 10 || ny != 10 || nz != 10 {
		t.Errorf("shape = (%d,%d,%d), want (10,10,10)", nx, ny, nz)
	}
	if g.D() != 3 {
		t.Errorf("D = %d, want 3", g.D())
	}
	want := 0.99 / math.Sqrt(3)
	if math.Abs(g.Courant()-want) > 1e-12 {
		t.Errorf("courant = %g, want %g", g.Courant(), want)
	}
	dx, dy, dz := g.Spacing()
	if dx != DefaultSpacing || dy != DefaultSpacing || dz != DefaultSpacing {
		t.Errorf("spacing = (%g,%g,%g), want uniform default", dx, dy, dz)
	}
	if g.StepsPassed() != 0 {
		t.Errorf("fresh grid has %d steps passed", g.StepsPassed())
	}
}

func TestNewTwoDimensionalScenario(t *testing.T) {
	// (1, 60, 60) at the default 155 nm spacing: D == 2, courant ~ 0.6999,
	// timestep matching 0.99 / (c * sqrt(2 / spacing^2)).
	g, err := New(Config{Shape: Shape(1, 60, 60)})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if g.D() != 2 {
		t.Fatalf("D = %d, want 2", g.D())
	}
	if math.Abs(g.Courant()-0.99/math.Sqrt2) > 1e-9 {
		t.Errorf("courant = %g, want %g", g.Courant(), 0.99/math.Sqrt2)
	}
	wantDt := 0.99 / (SpeedOfLight * math.Sqrt(2/(155e-9*155e-9)))
	if math.Abs(g.TimeStep()-wantDt) > wantDt*1e-12 {
		t.Errorf("timestep = %g, want %g", g.TimeStep(), wantDt)
	}
}

func TestNewCourantValidation(t *testing.T) {
	tests := []struct {
		name    string
		shape   [3]Key
		courant float64
		ok      bool
	}{
		{"3D at bound", Shape(4, 4, 4), 1 / math.Sqrt(3), true},
		{"3D above bound", Shape(4, 4, 4), 0.6, false},
		{"2D above bound", Shape(1, 4, 4), 0.8, false},
		{"1D at one", Shape(4, 1, 1), 1.0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(Config{Shape: tt.shape, Courant: tt.courant})
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok {
				if !errors.Is(err, ErrCourant) {
					t.Errorf("want ErrCourant, got %v", err)
				}
			}
		})
	}
}

func TestNewPhysicalShape(t *testing.T) {
	// A physical extent divides by the axis spacing, round half up.
	g, err := New(Config{
		Shape:   [3]Key{Pos(10e-6), Index(1), Index(1)},
		Spacing: 1e-6,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if g.Nx != 10 {
		t.Errorf("Nx = %d, want 10", g.Nx)
	}
}

func TestNewInvalidGeometry(t *testing.T) {
	if _, err := New(Config{Shape: Shape(0, 4, 4)}); err == nil {
		t.Error("zero-size axis should fail")
	}
	if _, err := New(Config{Shape: Shape(4, 4, 4), Spacing: -1e-9}); err == nil {
		t.Error("negative spacing should fail")
	}
	if _, err := New(Config{Shape: [3]Key{List(1, 2), Index(4), Index(4)}}); err == nil {
		t.Error("compound shape key should fail")
	}
}

func TestNewMaterialTensors(t *testing.T) {
	g, err := New(Config{Shape: Shape(2, 2, 2), Permittivity: 4.0, Permeability: 2.0})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if got := g.InvPermittivity.At(1, 1, 1, 0); got != 0.25 {
		t.Errorf("inverse permittivity = %g, want 0.25", got)
	}
	if got := g.InvPermeability.At(0, 0, 0, 2); got != 0.5 {
		t.Errorf("inverse permeability = %g, want 0.5", got)
	}
}

func TestNewFullGridMaterialTensor(t *testing.T) {
	eps := make([]float64, 8)
	for i := range eps {
		eps[i] = 2.0
	}
	g, err := New(Config{Shape: Shape(2, 2, 2), PermittivityTensor: eps})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if got := g.InvPermittivity.At(1, 0, 1, 1); got != 0.5 {
		t.Errorf("inverse permittivity = %g, want 0.5", got)
	}

	eps[3] = 0
	if _, err := New(Config{Shape: Shape(2, 2, 2), PermittivityTensor: eps}); !errors.Is(err, ErrZeroMaterial) {
		t.Errorf("zero entry: want ErrZeroMaterial, got %v", err)
	}

	if _, err := New(Config{Shape: Shape(2, 2, 2), PermittivityTensor: make([]float64, 5)}); err == nil {
		t.Error("wrong tensor length should fail")
	}
}

func TestReset(t *testing.T) {
	g, err := New(Config{Shape: Shape(4, 4, 4), Permittivity: 2.0})
	if err != nil {
		t.Fatal(err)
	}
	g.E.Set(1, 1, 1, 2, 3.0)
	g.Step()
	g.Step()

	g.Reset()

	if g.StepsPassed() != 0 {
		t.Errorf("steps passed = %d after reset", g.StepsPassed())
	}
	for n, v := range g.E.Re {
		if v != 0 {
			t.Fatalf("E not zeroed at %d: %g", n, v)
		}
	}
	for n, v := range g.H.Re {
		if v != 0 {
			t.Fatalf("H not zeroed at %d: %g", n, v)
		}
	}
	// Materials survive a reset.
	if got := g.InvPermittivity.At(0, 0, 0, 0); got != 0.5 {
		t.Errorf("material tensor changed by reset: %g", got)
	}
}

func TestPromoteToComplex(t *testing.T) {
	g, err := New(Config{Shape: Shape(4, 4, 4)})
	if err != nil {
		t.Fatal(err)
	}
	b := &stubBoundary{name: "b"}
	if err := g.Place(b); err != nil {
		t.Fatal(err)
	}

	g.PromoteToComplex()

	if !g.E.IsComplex() || !g.H.IsComplex() {
		t.Error("fields not promoted")
	}
	if !b.promoted {
		t.Error("promotion not propagated to boundary")
	}
	// Idempotent.
	g.PromoteToComplex()
	if len(g.E.Im) != len(g.E.Re) {
		t.Error("imaginary plane reallocated incorrectly")
	}
}

func TestAddComplexNeverPromotes(t *testing.T) {
	g, err := New(Config{Shape: Shape(8, 8, 8)})
	if err != nil {
		t.Fatal(err)
	}

	// A purely imaginary write on a real grid stores nothing and keeps
	// every tensor in the real domain, even across steps.
	g.E.AddComplex(4, 4, 4, 2, 0+1i)
	if g.E.IsComplex() {
		t.Fatal("writing to a real field must not promote it")
	}
	if got := g.E.At(4, 4, 4, 2); got != 0 {
		t.Fatalf("imaginary write leaked into the real plane: %g", got)
	}
	for i := 0; i < 10; i++ {
		g.Step()
	}
	if g.E.IsComplex() || g.H.IsComplex() {
		t.Fatal("grid changed numeric domain without PromoteToComplex")
	}

	// After the explicit grid-wide promotion the same write lands in the
	// imaginary plane.
	g.PromoteToComplex()
	g.E.AddComplex(4, 4, 4, 2, 3+1i)
	if got := g.E.At(4, 4, 4, 2); got != 3 {
		t.Errorf("real part not accumulated: %g", got)
	}
	if got := imag(g.E.AtComplex(4, 4, 4, 2)); got != 1 {
		t.Errorf("imaginary part not accumulated: %g", got)
	}
}

func TestClaimCellPriority(t *testing.T) {
	g, err := New(Config{Shape: Shape(3, 3, 3)})
	if err != nil {
		t.Fatal(err)
	}
	low := [3]float64{0.5, 0.5, 0.5}
	high := [3]float64{0.25, 0.25, 0.25}

	if !g.ClaimCell(1, 1, 1, 2, low, low) {
		t.Fatal("first claim refused")
	}
	if g.ClaimCell(1, 1, 1, 1, high, high) {
		t.Error("lower priority must not reclaim the cell")
	}
	if got := g.InvPermittivity.At(1, 1, 1, 0); got != 0.5 {
		t.Errorf("lower-priority claim overwrote material: %g", got)
	}
	// Equal priority: later write wins.
	if !g.ClaimCell(1, 1, 1, 2, high, high) {
		t.Error("equal priority should be last-writer-wins")
	}
	if got := g.InvPermittivity.At(1, 1, 1, 0); got != 0.25 {
		t.Errorf("tie-break did not apply new material: %g", got)
	}
	if g.Priority(1, 1, 1) != 2 {
		t.Errorf("priority = %d, want 2", g.Priority(1, 1, 1))
	}
}

func TestPlaceRejectsTooManyKeys(t *testing.T) {
	g, err := New(Config{Shape: Shape(4, 4, 4)})
	if err != nil {
		t.Fatal(err)
	}
	s := &stubSource{name: "s"}
	err = g.Place(s, Index(0), Index(0), Index(0), Index(0))
	if !errors.Is(err, ErrTooManyKeys) {
		t.Errorf("want ErrTooManyKeys, got %v", err)
	}
	if len(g.Sources()) != 0 {
		t.Error("failed placement must not mutate the grid")
	}
}

func TestStringListsComponentsInOrder(t *testing.T) {
	g, err := New(Config{Shape: Shape(4, 4, 4)})
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Place(&stubSource{name: "first"}, Index(1)); err != nil {
		t.Fatal(err)
	}
	if err := g.Place(&stubSource{name: "second"}, Index(2)); err != nil {
		t.Fatal(err)
	}
	if err := g.Place(&stubDetector{name: "probe"}, Index(3)); err != nil {
		t.Fatal(err)
	}

	s := g.String()
	if !strings.Contains(s, "shape=(4,4,4)") {
		t.Errorf("missing geometry in %q", s)
	}
	if strings.Index(s, "first") > strings.Index(s, "second") {
		t.Error("sources not listed in registration order")
	}
	if !strings.Contains(s, "detectors:\n  probe") {
		t.Errorf("missing detector section in %q", s)
	}
}

func TestTimePassed(t *testing.T) {
	g, err := New(Config{Shape: Shape(4, 1, 1)})
	if err != nil {
		t.Fatal(err)
	}
	g.Step()
	g.Step()
	g.Step()
	want := 3 * g.TimeStep()
	if math.Abs(g.TimePassed()-want) > 1e-30 {
		t.Errorf("time passed = %g, want %g", g.TimePassed(), want)
	}
}
