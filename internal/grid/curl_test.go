package grid

import (
	"math"
	"testing"
)

func TestCurlOfUniformFieldIsZero(t *testing.T) {
	e := NewField(6, 6, 6)
	for n := range e.Re {
		e.Re[n] = 2.5
	}

	for _, c := range []*Field{CurlE(e), CurlH(e)} {
		for n, v := range c.Re {
			if v != 0 {
				t.Fatalf("curl of constant field is nonzero at %d: %g", n, v)
			}
		}
	}
}

func TestCurlEEdgeTruncation(t *testing.T) {
	// A field varying along y in its z polarization drives only the x
	// component of curl_E; the last y layer has no forward neighbor and
	// must stay zero.
	nx, ny, nz := 4, 5, 4
	e := NewField(nx, ny, nz)
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			for k := 0; k < nz; k++ {
				e.Set(i, j, k, 2, float64(j))
			}
		}
	}

	c := CurlE(e)
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			for k := 0; k < nz; k++ {
				want := 1.0
				if j == ny-1 {
					want = 0
				}
				if got := c.At(i, j, k, 0); got != want {
					t.Fatalf("curl_E x at (%d,%d,%d) = %g, want %g", i, j, k, got, want)
				}
			}
		}
	}
}

func TestCurlHEdgeTruncation(t *testing.T) {
	// Mirror of the E case: backward differences leave the index-0 layer
	// untouched.
	nx, ny, nz := 4, 5, 4
	h := NewField(nx, ny, nz)
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			for k := 0; k < nz; k++ {
				h.Set(i, j, k, 2, float64(j))
			}
		}
	}

	c := CurlH(h)
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			for k := 0; k < nz; k++ {
				want := 1.0
				if j == 0 {
					want = 0
				}
				if got := c.At(i, j, k, 0); got != want {
					t.Fatalf("curl_H x at (%d,%d,%d) = %g, want %g", i, j, k, got, want)
				}
			}
		}
	}
}

func TestCurlOfGradientFieldVanishes(t *testing.T) {
	// E = grad(f) for f depending only on x has zero discrete circulation
	// at interior cells.
	nx, ny, nz := 6, 6, 6
	e := NewField(nx, ny, nz)
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			for k := 0; k < nz; k++ {
				e.Set(i, j, k, 0, float64(i*i))
			}
		}
	}

	c := CurlE(e)
	for n, v := range c.Re {
		if v != 0 {
			t.Fatalf("curl of gradient field nonzero at %d: %g", n, v)
		}
	}
}

func TestNonUniformMatchesScaledUniform(t *testing.T) {
	const d = 3.7e-7

	e := NewField(5, 5, 5)
	// Deterministic but non-trivial fill.
	for n := range e.Re {
		e.Re[n] = math.Sin(float64(n) * 0.37)
	}

	uni := CurlE(e)
	non := CurlENonUniform(e, d, d, d)
	for n := range uni.Re {
		want := uni.Re[n] / d
		if math.Abs(non.Re[n]-want) > 1e-9*math.Max(1, math.Abs(want)) {
			t.Fatalf("non-uniform curl_E differs at %d: %g vs %g", n, non.Re[n], want)
		}
	}

	uniH := CurlH(e)
	nonH := CurlHNonUniform(e, d, d, d)
	for n := range uniH.Re {
		want := uniH.Re[n] / d
		if math.Abs(nonH.Re[n]-want) > 1e-9*math.Max(1, math.Abs(want)) {
			t.Fatalf("non-uniform curl_H differs at %d: %g vs %g", n, nonH.Re[n], want)
		}
	}
}

func TestCurlPreservesComplexDomain(t *testing.T) {
	e := NewField(4, 4, 4)
	e.PromoteToComplex()
	e.Set(1, 2, 1, 2, 1.0)
	e.Im[e.Idx(1, 2, 1, 2)] = 0.5

	c := CurlE(e)
	if !c.IsComplex() {
		t.Fatal("curl of a complex field must be complex")
	}
	// Curl is linear: the imaginary plane is the curl of the imaginary
	// part, which here is half the real plane contribution.
	re := c.At(1, 1, 1, 0)
	im := c.Im[c.Idx(1, 1, 1, 0)]
	if re == 0 {
		t.Fatal("expected nonzero curl next to the excited cell")
	}
	if math.Abs(im-re/2) > 1e-12 {
		t.Errorf("imaginary plane not linear: re=%g im=%g", re, im)
	}
}
