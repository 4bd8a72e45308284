// Package stats provides the statistical signal primitives the analyzers
// build on.
package stats

import "fmt"

// AutoCorrelation computes short-lag autocorrelation sequences. LPC only
// needs lags up to the prediction order, so the direct time-domain sum is
// cheaper here than an FFT-based estimate.
type AutoCorrelation struct {
	maxLag int
}

// NewAutoCorrelation creates an autocorrelation calculator for lags
// 0..maxLag
func NewAutoCorrelation(maxLag int) *AutoCorrelation {
	if maxLag < 0 {
		maxLag = 0
	}
	return &AutoCorrelation{maxLag: maxLag}
}

// Compute returns the raw autocorrelation sequence r[0..maxLag] of signal,
// where r[k] = Σ x[n]·x[n+k]
func (ac *AutoCorrelation) Compute(signal []float64) ([]float64, error) {
	if len(signal) == 0 {
		return nil, fmt.Errorf("empty signal")
	}
	if ac.maxLag >= len(signal) {
		return nil, fmt.Errorf("max lag %d exceeds signal length %d", ac.maxLag, len(signal))
	}

	r := make([]float64, ac.maxLag+1)
	for k := 0; k <= ac.maxLag; k++ {
		sum := 0.0
		for n := 0; n < len(signal)-k; n++ {
			sum += signal[n] * signal[n+k]
		}
		r[k] = sum
	}

	return r, nil
}

// MaxLag returns the configured maximum lag
func (ac *AutoCorrelation) MaxLag() int {
	return ac.maxLag
}
