// Package pitch implements fundamental frequency estimation for voice.
package pitch

import (
	"math"

	"github.com/voxlumen/voicepillars/audio"
)

// Params contains tuning parameters for the YIN detector
type Params struct {
	// MinFreq and MaxFreq bound the search range in Hz. Voice pitch
	// outside this range is reported as unvoiced.
	MinFreq float64 `json:"min_freq"`
	MaxFreq float64 `json:"max_freq"`

	// ClarityThreshold is the YIN acceptance threshold expressed as a
	// clarity value: a lag is accepted once its normalized difference
	// drops below 1 - ClarityThreshold.
	ClarityThreshold float64 `json:"clarity_threshold"`

	// SilenceRMS gates frames whose RMS amplitude is below this value
	SilenceRMS float64 `json:"silence_rms"`
}

// DefaultParams returns the detector defaults used by the engine
func DefaultParams() Params {
	return Params{
		MinFreq:          50.0,
		MaxFreq:          500.0,
		ClarityThreshold: 0.7,
		SilenceRMS:       0.01,
	}
}

// Estimate is the per-frame pitch result. Voiced is false for silence,
// aperiodic input, or pitch outside the configured range; PitchHz and
// Clarity are only meaningful when Voiced is true.
type Estimate struct {
	PitchHz float64 `json:"pitch_hz"`
	Clarity float64 `json:"clarity"`
	Voiced  bool    `json:"voiced"`
}

// Detector estimates fundamental frequency from a time-domain frame using
// the YIN algorithm.
//
// References:
//   - de Cheveigné, A., Kawahara, H. (2002). "YIN, a fundamental frequency
//     estimator for speech and music"
//
// The detector is deterministic and side-effect free: any degenerate input
// yields an unvoiced estimate, never a panic or an error.
type Detector struct {
	params Params

	// scratch buffer reused across frames to avoid per-tick allocation
	diff []float64
}

// NewDetector creates a pitch detector with default parameters
func NewDetector() *Detector {
	return NewDetectorWithParams(DefaultParams())
}

// NewDetectorWithParams creates a pitch detector with custom parameters
func NewDetectorWithParams(params Params) *Detector {
	if params.MinFreq <= 0 || params.MaxFreq <= params.MinFreq {
		params.MinFreq = DefaultParams().MinFreq
		params.MaxFreq = DefaultParams().MaxFreq
	}
	if params.ClarityThreshold <= 0 || params.ClarityThreshold >= 1 {
		params.ClarityThreshold = DefaultParams().ClarityThreshold
	}

	return &Detector{params: params}
}

// Params returns the detector parameters
func (d *Detector) Params() Params {
	return d.params
}

// Detect estimates the fundamental frequency of frame. It returns an
// unvoiced estimate for empty, silent, or aperiodic frames.
func (d *Detector) Detect(frame *audio.AudioFrame) Estimate {
	unvoiced := Estimate{}

	if frame == nil || len(frame.Samples) == 0 || frame.SampleRate <= 0 {
		return unvoiced
	}
	if frame.RMS() < d.params.SilenceRMS {
		return unvoiced
	}

	samples := frame.Samples
	sr := float64(frame.SampleRate)

	minLag := int(sr / d.params.MaxFreq)
	maxLag := int(sr / d.params.MinFreq)

	halfLen := len(samples) / 2
	if maxLag >= halfLen {
		maxLag = halfLen - 1
	}
	if minLag < 2 {
		minLag = 2
	}
	if maxLag <= minLag {
		return unvoiced
	}

	cmndf := d.cumulativeMeanNormalizedDifference(samples, maxLag)

	tau, value, ok := d.pickLag(cmndf, minLag, maxLag)
	if !ok {
		return unvoiced
	}

	refined := parabolicInterpolation(cmndf, tau)
	if refined <= 0 {
		return unvoiced
	}

	hz := sr / refined
	if hz < d.params.MinFreq || hz > d.params.MaxFreq {
		return unvoiced
	}

	clarity := 1 - value
	if clarity < 0 {
		clarity = 0
	} else if clarity > 1 {
		clarity = 1
	}

	return Estimate{PitchHz: hz, Clarity: clarity, Voiced: true}
}

// cumulativeMeanNormalizedDifference computes the YIN difference function
// d(tau) and normalizes it by its cumulative mean, producing values near 1
// for aperiodic lags and dips toward 0 at period multiples.
func (d *Detector) cumulativeMeanNormalizedDifference(samples []float64, maxLag int) []float64 {
	if cap(d.diff) < maxLag+1 {
		d.diff = make([]float64, maxLag+1)
	}
	cmndf := d.diff[:maxLag+1]

	cmndf[0] = 1.0
	runningSum := 0.0

	for tau := 1; tau <= maxLag; tau++ {
		sum := 0.0
		for i := 0; i+tau < len(samples); i++ {
			delta := samples[i] - samples[i+tau]
			sum += delta * delta
		}

		runningSum += sum
		if runningSum == 0 {
			cmndf[tau] = 1.0
		} else {
			cmndf[tau] = sum * float64(tau) / runningSum
		}
	}

	return cmndf
}

// pickLag walks the search range accepting the first dip below the
// threshold, refined to its local minimum. If no lag clears the threshold
// the overall best lag is accepted only when it clears the relaxed bound
// 1 - ClarityThreshold/2.
func (d *Detector) pickLag(cmndf []float64, minLag, maxLag int) (int, float64, bool) {
	threshold := 1 - d.params.ClarityThreshold

	bestLag := -1
	bestValue := math.Inf(1)

	for tau := minLag; tau <= maxLag; tau++ {
		if cmndf[tau] < bestValue {
			bestValue = cmndf[tau]
			bestLag = tau
		}

		if cmndf[tau] < threshold {
			// descend to the bottom of this dip
			for tau+1 <= maxLag && cmndf[tau+1] < cmndf[tau] {
				tau++
			}
			return tau, cmndf[tau], true
		}
	}

	relaxed := 1 - d.params.ClarityThreshold*0.5
	if bestLag < 0 || bestValue >= relaxed {
		return 0, 0, false
	}

	return bestLag, bestValue, true
}

// parabolicInterpolation refines an integer lag to sub-sample accuracy by
// fitting a parabola through the difference values at tau-1, tau, tau+1
func parabolicInterpolation(cmndf []float64, tau int) float64 {
	if tau <= 0 || tau >= len(cmndf)-1 {
		return float64(tau)
	}

	s0 := cmndf[tau-1]
	s1 := cmndf[tau]
	s2 := cmndf[tau+1]

	denominator := 2 * (2*s1 - s0 - s2)
	if denominator == 0 {
		return float64(tau)
	}

	adjustment := (s2 - s0) / denominator
	if adjustment > 0.5 {
		adjustment = 0.5
	} else if adjustment < -0.5 {
		adjustment = -0.5
	}

	return float64(tau) + adjustment
}
