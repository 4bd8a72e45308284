// Package filters provides simple signal conditioning filters.
package filters

// PreEmphasis implements the first-order high-pass filter
//
//	y[n] = x[n] - α·x[n-1]
//
// used ahead of LPC analysis to flatten the natural spectral roll-off of
// speech. α is typically 0.95-0.97 for voice.
//
// References:
//   - L.R. Rabiner, R.W. Schafer, "Digital Processing of Speech Signals",
//     Prentice-Hall, 1978, Chapter 4
type PreEmphasis struct {
	coefficient float64
}

// DefaultPreEmphasisCoefficient is the standard coefficient for speech
const DefaultPreEmphasisCoefficient = 0.97

// NewPreEmphasis creates a pre-emphasis filter with the given coefficient α
// (0 < α < 1)
func NewPreEmphasis(coefficient float64) *PreEmphasis {
	if coefficient <= 0 || coefficient >= 1 {
		coefficient = DefaultPreEmphasisCoefficient
	}
	return &PreEmphasis{coefficient: coefficient}
}

// NewPreEmphasisDefault creates a pre-emphasis filter with the standard
// speech coefficient (0.97)
func NewPreEmphasisDefault() *PreEmphasis {
	return NewPreEmphasis(DefaultPreEmphasisCoefficient)
}

// Apply filters a single frame, returning a new slice. The filter is
// frame-local: the first output sample is passed through unchanged rather
// than differenced against a previous frame.
func (p *PreEmphasis) Apply(signal []float64) []float64 {
	if len(signal) == 0 {
		return nil
	}

	out := make([]float64, len(signal))
	out[0] = signal[0]
	for n := 1; n < len(signal); n++ {
		out[n] = signal[n] - p.coefficient*signal[n-1]
	}

	return out
}

// Coefficient returns the filter coefficient α
func (p *PreEmphasis) Coefficient() float64 {
	return p.coefficient
}
