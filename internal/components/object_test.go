package components

import (
	"errors"
	"testing"

	"github.com/san-kum/fdtd/internal/grid"
)

func placeBrick(t *testing.T, g *grid.Grid, b *Brick, lo, hi int) {
	t.Helper()
	err := g.Place(b,
		grid.Range(grid.Index(lo), grid.Index(hi)),
		grid.Range(grid.Index(lo), grid.Index(hi)),
		grid.Range(grid.Index(lo), grid.Index(hi)))
	if err != nil {
		t.Fatalf("Place(%s) failed: %v", b.Name(), err)
	}
}

func TestBrickStampsMaterialAndPriority(t *testing.T) {
	g := newTestGrid(t, 8, 8, 8)
	b := NewBrick("glass", 2.25)
	placeBrick(t, g, b, 2, 5)

	if got := g.InvPermittivity.At(3, 3, 3, 0); got != 1/2.25 {
		t.Errorf("inside inverse permittivity = %g, want %g", got, 1/2.25)
	}
	if got := g.InvPermittivity.At(0, 0, 0, 0); got != 1.0 {
		t.Errorf("outside inverse permittivity = %g, want 1", got)
	}
	if g.Priority(3, 3, 3) != 1 {
		t.Errorf("priority = %d, want 1", g.Priority(3, 3, 3))
	}
	if b.Claimed() != 27 {
		t.Errorf("claimed %d cells, want 27", b.Claimed())
	}
}

func TestBrickOverlapHigherPriorityWins(t *testing.T) {
	g := newTestGrid(t, 8, 8, 8)

	strong := NewBrick("strong", 4.0)
	strong.Priority = 5
	placeBrick(t, g, strong, 2, 5)

	weak := NewBrick("weak", 9.0)
	weak.Priority = 1
	placeBrick(t, g, weak, 3, 7)

	// Overlap cell keeps the high-priority material.
	if got := g.InvPermittivity.At(4, 4, 4, 0); got != 0.25 {
		t.Errorf("overlap cell = %g, want 0.25", got)
	}
	// Non-overlapping part of the weak brick is applied.
	if got := g.InvPermittivity.At(6, 6, 6, 0); got != 1.0/9.0 {
		t.Errorf("weak-only cell = %g, want %g", got, 1.0/9.0)
	}
	if g.Priority(4, 4, 4) != 5 {
		t.Errorf("overlap priority = %d, want 5", g.Priority(4, 4, 4))
	}
}

func TestBrickOverlapTieLaterWins(t *testing.T) {
	g := newTestGrid(t, 6, 6, 6)

	first := NewBrick("first", 2.0)
	placeBrick(t, g, first, 1, 4)
	second := NewBrick("second", 8.0)
	placeBrick(t, g, second, 2, 5)

	// Equal priority: the later registration owns the overlap.
	if got := g.InvPermittivity.At(3, 3, 3, 0); got != 0.125 {
		t.Errorf("tie overlap = %g, want 0.125", got)
	}
}

func TestBrickRejectsZeroMaterial(t *testing.T) {
	g := newTestGrid(t, 4, 4, 4)

	b := NewBrick("vacuum-hole", 0)
	err := g.Place(b, grid.Index(1))
	if !errors.Is(err, grid.ErrZeroMaterial) {
		t.Errorf("want ErrZeroMaterial, got %v", err)
	}
	if len(g.Objects()) != 0 {
		t.Error("failed registration must not attach the object")
	}
	// Grid materials untouched.
	if got := g.InvPermittivity.At(1, 1, 1, 0); got != 1.0 {
		t.Errorf("material mutated by failed registration: %g", got)
	}
}

func TestBrickRejectsNonPositivePriority(t *testing.T) {
	g := newTestGrid(t, 4, 4, 4)
	b := NewBrick("bg", 2.0)
	b.Priority = 0
	if err := g.Place(b, grid.Index(1)); err == nil {
		t.Error("zero priority must fail registration")
	}
}
