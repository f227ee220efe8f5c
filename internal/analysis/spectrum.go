// Package analysis post-processes detector time series.
package analysis

import (
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Spectrum holds the one-sided power spectrum of a real time series.
type Spectrum struct {
	// Freqs are the bin centers in Hz.
	Freqs []float64
	// Power is the squared coefficient magnitude per bin.
	Power []float64
}

// PowerSpectrum computes the one-sided power spectrum of a uniformly sampled
// series with the given sample interval in seconds.
func PowerSpectrum(series []float64, dt float64) (*Spectrum, error) {
	if len(series) < 2 {
		return nil, fmt.Errorf("series too short for a spectrum: %d samples", len(series))
	}
	if dt <= 0 {
		return nil, fmt.Errorf("sample interval must be positive, got %g", dt)
	}

	fft := fourier.NewFFT(len(series))
	coeffs := fft.Coefficients(nil, series)

	s := &Spectrum{
		Freqs: make([]float64, len(coeffs)),
		Power: make([]float64, len(coeffs)),
	}
	for i, c := range coeffs {
		s.Freqs[i] = fft.Freq(i) / dt
		a := cmplx.Abs(c)
		s.Power[i] = a * a
	}
	return s, nil
}

// Peak returns the frequency and power of the strongest non-DC bin.
func (s *Spectrum) Peak() (freq, power float64) {
	for i := 1; i < len(s.Power); i++ {
		if s.Power[i] > power {
			freq, power = s.Freqs[i], s.Power[i]
		}
	}
	return freq, power
}
