// Package grid implements the FDTD update engine: the Yee-grid field and
// material tensors, the discrete curl operators, the leapfrog step state
// machine, and the registration protocol that couples sources, boundaries,
// detectors and material objects into each step.
//
// A [Grid] owns all simulation state. Components are attached with
// [Grid.Place] using up to three axis [Key] values (integer indices or
// physical distances); after that the engine drives them through their hook
// methods once per [Grid.Step]:
//
//	g, _ := grid.New(grid.Config{Shape: grid.Shape(100, 100, 1)})
//	g.Place(src, grid.Index(50), grid.Index(50), grid.Index(0))
//	for i := 0; i < 1000; i++ {
//	    g.Step()
//	}
//
// The per-step ordering (boundary pre-update, curl+field update, boundary
// post-update, source injection, detector sampling; first for E, then
// mirrored for H) is a correctness requirement of the scheme and is never
// reordered.
package grid
