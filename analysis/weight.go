package analysis

import (
	"math"

	"github.com/voxlumen/voicepillars/algorithms/common"
	"github.com/voxlumen/voicepillars/audio"
)

// WeightParams tunes the vocal weight (lightness/breathiness) analyzer
type WeightParams struct {
	// Fundamental acceptance range in Hz; outside it the analyzer
	// reports no data
	MinFundamental float64 `json:"min_fundamental"`
	MaxFundamental float64 `json:"max_fundamental"`

	// MaxHarmonics caps how many harmonics are measured
	MaxHarmonics int `json:"max_harmonics"`

	// MaxHarmonicFreq stops the harmonic walk below this frequency
	MaxHarmonicFreq float64 `json:"max_harmonic_freq"`

	// SearchRadiusBins is the peak search radius around each expected
	// harmonic bin
	SearchRadiusBins int `json:"search_radius_bins"`

	// SilenceFloorDB rejects frames whose fundamental peak is quieter
	SilenceFloorDB float64 `json:"silence_floor_db"`

	// Score mapping ranges
	H1H2Range  [2]float64 `json:"h1h2_range"`  // dB, mapped 0..100
	SlopeRange [2]float64 `json:"slope_range"` // dB/harmonic, mapped 100..0

	// Composite blend weights
	H1H2Weight  float64 `json:"h1h2_weight"`
	SlopeWeight float64 `json:"slope_weight"`

	SmoothingAlpha float64 `json:"smoothing_alpha"`
}

// DefaultWeightParams returns the analyzer defaults
func DefaultWeightParams() WeightParams {
	return WeightParams{
		MinFundamental:   80,
		MaxFundamental:   400,
		MaxHarmonics:     6,
		MaxHarmonicFreq:  4000,
		SearchRadiusBins: 2,
		SilenceFloorDB:   -70,
		H1H2Range:        [2]float64{-5, 15},
		SlopeRange:       [2]float64{-12, -2},
		H1H2Weight:       0.6,
		SlopeWeight:      0.4,
		SmoothingAlpha:   0.3,
	}
}

// WeightResult is the per-tick vocal weight measurement
type WeightResult struct {
	// H1H2 is the amplitude difference between the first two harmonics
	// in dB; positive values indicate a breathier, lighter voice
	H1H2 float64 `json:"h1h2"`

	// SpectralSlope is the OLS regression slope of harmonic amplitude
	// against harmonic index, in dB per harmonic
	SpectralSlope float64 `json:"spectral_slope"`

	// Lightness is the smoothed 0-100 composite score
	Lightness float64 `json:"lightness"`

	// RawLightness is the pre-smoothing score for this tick
	RawLightness float64 `json:"raw_lightness"`

	// Harmonics are the measured harmonic amplitudes in dB, anchored to
	// the fundamental
	Harmonics []float64 `json:"harmonics"`
}

// VocalWeightAnalyzer measures how "heavy" or "light" a voice sounds from
// the relative strength of its harmonics. The only cross-tick state is the
// lightness smoother.
type VocalWeightAnalyzer struct {
	params   WeightParams
	smoother *Smoother
}

// NewVocalWeightAnalyzer creates an analyzer with default parameters
func NewVocalWeightAnalyzer() *VocalWeightAnalyzer {
	return NewVocalWeightAnalyzerWithParams(DefaultWeightParams())
}

// NewVocalWeightAnalyzerWithParams creates an analyzer with custom
// parameters
func NewVocalWeightAnalyzerWithParams(params WeightParams) *VocalWeightAnalyzer {
	return &VocalWeightAnalyzer{
		params:   params,
		smoother: NewSmoother(params.SmoothingAlpha),
	}
}

// Analyze measures harmonic structure for the given spectrum anchored at
// fundamentalHz. It returns nil when the tick carries no usable signal: an
// unvoiced frame, a fundamental outside the acceptance range, fewer than
// two resolvable harmonics, or a fundamental below the silence floor.
func (a *VocalWeightAnalyzer) Analyze(spectrum *audio.SpectrumFrame, fundamentalHz float64, voiced bool) *WeightResult {
	if spectrum == nil || len(spectrum.MagnitudesDB) == 0 || !voiced {
		return nil
	}
	if fundamentalHz < a.params.MinFundamental || fundamentalHz > a.params.MaxFundamental {
		return nil
	}

	harmonics := a.harmonicAmplitudes(spectrum, fundamentalHz)
	if len(harmonics) < 2 {
		return nil
	}
	if harmonics[0] < a.params.SilenceFloorDB {
		return nil
	}

	h1h2 := harmonics[0] - harmonics[1]
	slope := a.harmonicSlope(harmonics)

	h1h2Score := common.MapRange(h1h2, a.params.H1H2Range[0], a.params.H1H2Range[1], 0, 100)
	// Steeper negative slope means energy dies off faster up the series,
	// which reads as a lighter voice, so the mapping is inverted.
	slopeScore := common.MapRange(slope, a.params.SlopeRange[0], a.params.SlopeRange[1], 100, 0)

	raw := a.params.H1H2Weight*h1h2Score + a.params.SlopeWeight*slopeScore
	raw = common.Clamp(raw, 0, 100)

	return &WeightResult{
		H1H2:          h1h2,
		SpectralSlope: slope,
		Lightness:     a.smoother.Apply(raw),
		RawLightness:  raw,
		Harmonics:     harmonics,
	}
}

// Reset clears the smoothing state
func (a *VocalWeightAnalyzer) Reset() {
	a.smoother.Reset()
}

// harmonicAmplitudes peak-picks the spectrum within the search radius of
// each expected harmonic bin, stopping at the harmonic cap, the frequency
// cap, or the end of the spectrum
func (a *VocalWeightAnalyzer) harmonicAmplitudes(spectrum *audio.SpectrumFrame, fundamentalHz float64) []float64 {
	var amplitudes []float64

	for h := 1; h <= a.params.MaxHarmonics; h++ {
		freq := fundamentalHz * float64(h)
		if freq > a.params.MaxHarmonicFreq {
			break
		}

		bin := spectrum.FrequencyToBin(freq)
		lo := bin - a.params.SearchRadiusBins
		hi := bin + a.params.SearchRadiusBins
		if lo < 0 {
			lo = 0
		}
		if hi >= len(spectrum.MagnitudesDB) {
			break
		}

		peak := math.Inf(-1)
		for i := lo; i <= hi; i++ {
			if spectrum.MagnitudesDB[i] > peak {
				peak = spectrum.MagnitudesDB[i]
			}
		}

		amplitudes = append(amplitudes, peak)
	}

	return amplitudes
}

// harmonicSlope regresses harmonic amplitude (dB) against harmonic index
func (a *VocalWeightAnalyzer) harmonicSlope(harmonics []float64) float64 {
	x := make([]float64, len(harmonics))
	for i := range x {
		x[i] = float64(i + 1)
	}

	slope, _ := common.LinRegression(x, harmonics)
	return slope
}
