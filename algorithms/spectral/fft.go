// Package spectral provides frequency-domain primitives.
package spectral

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// DBFloor is the silence floor used when converting magnitudes to decibels
const DBFloor = -120.0

// FFT provides Fast Fourier Transform operations
type FFT struct{}

// NewFFT creates a new FFT calculator
func NewFFT() *FFT {
	return &FFT{}
}

// Compute computes the FFT of a real signal using mjibson/go-dsp, which
// handles all sizes efficiently, including non-power-of-2
func (f *FFT) Compute(signal []float64) []complex128 {
	return fft.FFTReal(signal)
}

// MagnitudeDB returns the single-sided magnitude spectrum of signal in
// decibels, bins 0..len(signal)/2. Zero magnitudes clamp to DBFloor.
func (f *FFT) MagnitudeDB(signal []float64) []float64 {
	if len(signal) == 0 {
		return nil
	}

	spectrum := fft.FFTReal(signal)
	half := len(signal)/2 + 1
	if half > len(spectrum) {
		half = len(spectrum)
	}

	mags := make([]float64, half)
	norm := float64(len(signal))
	for i := 0; i < half; i++ {
		m := cmplx.Abs(spectrum[i]) / norm
		if m <= 0 {
			mags[i] = DBFloor
			continue
		}

		db := 20 * math.Log10(m)
		if db < DBFloor {
			db = DBFloor
		}
		mags[i] = db
	}

	return mags
}
