package grid

// Field is an (Nx, Ny, Nz, 3) tensor stored as flat planes, indexed
// ((i*Ny+j)*Nz+k)*3+p. Re always holds the real plane; Im is nil while the
// field is real and is allocated by PromoteToComplex. All field allocations
// consult this tag, so a promoted grid never mixes numeric domains.
type Field struct {
	nx, ny, nz int

	Re []float64
	Im []float64
}

// NewField allocates a zero real-valued field of the given cell shape.
func NewField(nx, ny, nz int) *Field {
	return &Field{
		nx: nx, ny: ny, nz: nz,
		Re: make([]float64, nx*ny*nz*3),
	}
}

// Shape returns the cell dimensions of the field.
func (f *Field) Shape() (nx, ny, nz int) { return f.nx, f.ny, f.nz }

// Idx converts a (cell, polarization) coordinate to a flat offset.
func (f *Field) Idx(i, j, k, p int) int {
	return ((i*f.ny+j)*f.nz+k)*3 + p
}

// At returns the real part at (i, j, k, p).
func (f *Field) At(i, j, k, p int) float64 { return f.Re[f.Idx(i, j, k, p)] }

// Set stores v into the real plane at (i, j, k, p).
func (f *Field) Set(i, j, k, p int, v float64) { f.Re[f.Idx(i, j, k, p)] = v }

// Add accumulates v into the real plane at (i, j, k, p).
func (f *Field) Add(i, j, k, p int, v float64) { f.Re[f.Idx(i, j, k, p)] += v }

// AtComplex returns the value at (i, j, k, p) as a complex number. The
// imaginary part is zero for a real field.
func (f *Field) AtComplex(i, j, k, p int) complex128 {
	n := f.Idx(i, j, k, p)
	if f.Im == nil {
		return complex(f.Re[n], 0)
	}
	return complex(f.Re[n], f.Im[n])
}

// AddComplex accumulates v at (i, j, k, p).
// The numeric domain never changes here: on a real field only the real part
// is stored and the imaginary part is discarded. Callers that need complex
// fields must promote the whole grid through Grid.PromoteToComplex first, so
// E, H and every boundary's auxiliary state switch domains together.
func (f *Field) AddComplex(i, j, k, p int, v complex128) {
	n := f.Idx(i, j, k, p)
	f.Re[n] += real(v)
	if f.Im != nil {
		f.Im[n] += imag(v)
	}
}

// IsComplex reports whether the field carries an imaginary plane.
func (f *Field) IsComplex() bool { return f.Im != nil }

// PromoteToComplex allocates the imaginary plane. Promoting an already
// complex field is a no-op.
func (f *Field) PromoteToComplex() {
	if f.Im == nil {
		f.Im = make([]float64, len(f.Re))
	}
}

// Zero clears both planes without changing the numeric domain.
func (f *Field) Zero() {
	for n := range f.Re {
		f.Re[n] = 0
	}
	for n := range f.Im {
		f.Im[n] = 0
	}
}

// Clone returns a deep copy of the field.
func (f *Field) Clone() *Field {
	c := &Field{nx: f.nx, ny: f.ny, nz: f.nz, Re: append([]float64(nil), f.Re...)}
	if f.Im != nil {
		c.Im = append([]float64(nil), f.Im...)
	}
	return c
}

// Tensor is a real (Nx, Ny, Nz, 3) coefficient tensor with the same layout
// as Field. Used for the anisotropic inverse material coefficients, which
// stay real even after field promotion.
type Tensor struct {
	nx, ny, nz int
	Data       []float64
}

// NewTensor allocates a tensor with every entry set to fill.
func NewTensor(nx, ny, nz int, fill float64) *Tensor {
	t := &Tensor{nx: nx, ny: ny, nz: nz, Data: make([]float64, nx*ny*nz*3)}
	if fill != 0 {
		for n := range t.Data {
			t.Data[n] = fill
		}
	}
	return t
}

// Idx converts a (cell, polarization) coordinate to a flat offset.
func (t *Tensor) Idx(i, j, k, p int) int {
	return ((i*t.ny+j)*t.nz+k)*3 + p
}

// At returns the coefficient at (i, j, k, p).
func (t *Tensor) At(i, j, k, p int) float64 { return t.Data[t.Idx(i, j, k, p)] }

// Set stores v at (i, j, k, p).
func (t *Tensor) Set(i, j, k, p int, v float64) { t.Data[t.Idx(i, j, k, p)] = v }
