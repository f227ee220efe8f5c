package grid

// Discrete curl operators on the staggered Yee grid. CurlE maps the
// edge-located E field onto cell faces with forward differences; CurlH maps
// the face-located H field back onto edges with backward differences. The
// edge layer missing a neighbor is left untouched: the far layer for CurlE,
// the index-0 layer for CurlH. There is no periodic wraparound.
//
// The uniform variants omit the spacing division (callers fold the spacing
// into their own scaling); the non-uniform variants divide each axis's
// difference by that axis's physical spacing.

// CurlE computes the uniform-spacing curl of an E-type field.
func CurlE(e *Field) *Field { return CurlENonUniform(e, 1, 1, 1) }

// CurlENonUniform computes the curl of an E-type field with per-axis
// physical spacing.
func CurlENonUniform(e *Field, dx, dy, dz float64) *Field {
	nx, ny, nz := e.Shape()
	curl := NewField(nx, ny, nz)
	if e.IsComplex() {
		curl.PromoteToComplex()
		curlEPlane(curl.Im, e.Im, nx, ny, nz, dx, dy, dz)
	}
	curlEPlane(curl.Re, e.Re, nx, ny, nz, dx, dy, dz)
	return curl
}

// CurlH computes the uniform-spacing curl of an H-type field.
func CurlH(h *Field) *Field { return CurlHNonUniform(h, 1, 1, 1) }

// CurlHNonUniform computes the curl of an H-type field with per-axis
// physical spacing.
func CurlHNonUniform(h *Field, dx, dy, dz float64) *Field {
	nx, ny, nz := h.Shape()
	curl := NewField(nx, ny, nz)
	if h.IsComplex() {
		curl.PromoteToComplex()
		curlHPlane(curl.Im, h.Im, nx, ny, nz, dx, dy, dz)
	}
	curlHPlane(curl.Re, h.Re, nx, ny, nz, dx, dy, dz)
	return curl
}

func curlEPlane(dst, e []float64, nx, ny, nz int, dx, dy, dz float64) {
	idx := func(i, j, k, p int) int { return ((i*ny+j)*nz+k)*3 + p }
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			for k := 0; k < nz; k++ {
				n := idx(i, j, k, 0)
				if j < ny-1 {
					dst[n] += (e[idx(i, j+1, k, 2)] - e[n+2]) / dy
					dst[n+2] -= (e[idx(i, j+1, k, 0)] - e[n]) / dy
				}
				if k < nz-1 {
					dst[n] -= (e[idx(i, j, k+1, 1)] - e[n+1]) / dz
					dst[n+1] += (e[idx(i, j, k+1, 0)] - e[n]) / dz
				}
				if i < nx-1 {
					dst[n+1] -= (e[idx(i+1, j, k, 2)] - e[n+2]) / dx
					dst[n+2] += (e[idx(i+1, j, k, 1)] - e[n+1]) / dx
				}
			}
		}
	}
}

func curlHPlane(dst, h []float64, nx, ny, nz int, dx, dy, dz float64) {
	idx := func(i, j, k, p int) int { return ((i*ny+j)*nz+k)*3 + p }
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			for k := 0; k < nz; k++ {
				n := idx(i, j, k, 0)
				if j > 0 {
					dst[n] += (h[n+2] - h[idx(i, j-1, k, 2)]) / dy
					dst[n+2] -= (h[n] - h[idx(i, j-1, k, 0)]) / dy
				}
				if k > 0 {
					dst[n] -= (h[n+1] - h[idx(i, j, k-1, 1)]) / dz
					dst[n+1] += (h[n] - h[idx(i, j, k-1, 0)]) / dz
				}
				if i > 0 {
					dst[n+1] -= (h[n+2] - h[idx(i-1, j, k, 2)]) / dx
					dst[n+2] += (h[n+1] - h[idx(i-1, j, k, 1)]) / dx
				}
			}
		}
	}
}
