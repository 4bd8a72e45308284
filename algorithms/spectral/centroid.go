package spectral

import "math"

// SpectralCentroid computes the magnitude-weighted mean frequency of a
// spectrum expressed in decibels. The dB bins are converted back to linear
// magnitude before weighting, so a flat noise floor contributes almost
// nothing.
type SpectralCentroid struct {
	binWidth float64
}

// NewSpectralCentroid creates a centroid calculator for spectra captured at
// sampleRate with the given FFT size
func NewSpectralCentroid(sampleRate, fftSize int) *SpectralCentroid {
	bw := 0.0
	if fftSize > 0 {
		bw = float64(sampleRate) / float64(fftSize)
	}
	return &SpectralCentroid{binWidth: bw}
}

// Compute calculates the spectral centroid in Hz for a dB magnitude
// spectrum. Returns 0 for empty or all-silent input.
func (sc *SpectralCentroid) Compute(magnitudesDB []float64) float64 {
	if len(magnitudesDB) == 0 || sc.binWidth == 0 {
		return 0.0
	}

	numerator := 0.0
	denominator := 0.0

	for i, db := range magnitudesDB {
		if db <= DBFloor {
			continue
		}

		mag := math.Pow(10, db/20)
		numerator += float64(i) * sc.binWidth * mag
		denominator += mag
	}

	if denominator == 0 {
		return 0.0
	}

	return numerator / denominator
}
