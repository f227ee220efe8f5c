package metrics

import (
	"context"
	"testing"

	"github.com/san-kum/fdtd/internal/grid"
	"github.com/san-kum/fdtd/internal/sim"
)

func TestTotalEnergy(t *testing.T) {
	g, err := grid.New(grid.Config{Shape: grid.Shape(4, 4, 4)})
	if err != nil {
		t.Fatal(err)
	}
	if e := TotalEnergy(g); e != 0 {
		t.Errorf("empty grid energy = %g, want 0", e)
	}

	g.E.Set(1, 1, 1, 0, 3.0)
	g.H.Set(2, 2, 2, 1, 4.0)
	if e := TotalEnergy(g); e != 25.0 {
		t.Errorf("energy = %g, want 25", e)
	}

	g.PromoteToComplex()
	g.E.Im[g.E.Idx(1, 1, 1, 0)] = 2.0
	if e := TotalEnergy(g); e != 29.0 {
		t.Errorf("complex energy = %g, want 29", e)
	}
}

func TestEnergyObserver(t *testing.T) {
	g, err := grid.New(grid.Config{Shape: grid.Shape(6, 6, 6)})
	if err != nil {
		t.Fatal(err)
	}
	g.E.Set(3, 3, 3, 2, 1.0)

	obs := NewEnergy()
	r := sim.New(g, nil)
	r.AddObserver(obs)
	if err := r.RunSteps(context.Background(), 10); err != nil {
		t.Fatal(err)
	}

	if len(obs.Series()) != 10 {
		t.Fatalf("series length = %d, want 10", len(obs.Series()))
	}
	if obs.Max() == 0 || obs.Last() == 0 {
		t.Error("expected nonzero energy throughout the run")
	}

	obs.Reset()
	if len(obs.Series()) != 0 {
		t.Error("reset did not clear the series")
	}
}
