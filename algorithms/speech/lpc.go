// Package speech implements Linear Predictive Coding and formant
// extraction. LPC models the vocal tract as an all-pole filter; the peaks
// of the filter's magnitude response approximate the formants.
package speech

import "math"

// errorFloor guards the Levinson-Durbin residual against ill-conditioned
// input driving it non-positive mid-recursion, which would propagate NaNs
// into the spectral envelope.
const errorFloor = 1e-10

// LPCResult holds the outcome of a Levinson-Durbin recursion
type LPCResult struct {
	// Coefficients are the all-pole filter coefficients a[0..order] with
	// a[0] == 1
	Coefficients []float64 `json:"coefficients"`

	// Error is the final prediction error energy, in [0, R[0]]
	Error float64 `json:"error"`

	Order int `json:"order"`
}

// LPCOrderFor returns the analysis order for a sample rate: round(sr/1000)+2
// capped at maxOrder for numerical stability.
func LPCOrderFor(sampleRate, maxOrder int) int {
	order := int(math.Round(float64(sampleRate)/1000.0)) + 2
	if order > maxOrder {
		order = maxOrder
	}
	if order < 2 {
		order = 2
	}
	return order
}

// LevinsonDurbin solves the Toeplitz system formed by the autocorrelation
// sequence r[0..order] for the LPC coefficients.
//
// References:
//   - Makhoul, J. (1975). "Linear prediction: A tutorial review"
//
// The function is total: zero-energy input (r[0] == 0) yields an identity
// filter with zero error, and a residual that would go non-positive is
// clamped to a small positive floor instead of producing NaN/Inf.
func LevinsonDurbin(r []float64) LPCResult {
	order := len(r) - 1
	if order < 1 {
		return LPCResult{Coefficients: []float64{1}, Error: 0, Order: 0}
	}

	a := make([]float64, order+1)
	a[0] = 1.0

	if r[0] <= 0 {
		return LPCResult{Coefficients: a, Error: 0, Order: order}
	}

	e := r[0]

	// Coefficients follow the error-filter convention
	// A(z) = 1 + a[1]z^-1 + ... + a[p]z^-p, so the spectral envelope is
	// simply -10·log10(|A|²).
	for i := 1; i <= order; i++ {
		acc := r[i]
		for j := 1; j < i; j++ {
			acc += a[j] * r[i-j]
		}

		k := -acc / e

		a[i] = k
		for j := 1; j <= i/2; j++ {
			tmp := a[j] + k*a[i-j]
			a[i-j] += k * a[j]
			a[j] = tmp
		}

		e *= 1 - k*k
		if e <= 0 {
			e = errorFloor
		}
	}

	if e > r[0] {
		e = r[0]
	}

	return LPCResult{Coefficients: a, Error: e, Order: order}
}

// SpectralEnvelopeDB evaluates the all-pole filter's magnitude response at
// `points` frequencies from 0 to Nyquist, returned in decibels as
// -10·log10(|A(e^jω)|²).
func SpectralEnvelopeDB(coefficients []float64, points int) []float64 {
	if points <= 0 {
		points = 512
	}

	envelope := make([]float64, points)

	for k := 0; k < points; k++ {
		omega := math.Pi * float64(k) / float64(points)

		realPart := 0.0
		imagPart := 0.0
		for i, a := range coefficients {
			angle := -float64(i) * omega
			realPart += a * math.Cos(angle)
			imagPart += a * math.Sin(angle)
		}

		power := realPart*realPart + imagPart*imagPart
		if power < errorFloor {
			power = errorFloor
		}

		envelope[k] = -10 * math.Log10(power)
	}

	return envelope
}
