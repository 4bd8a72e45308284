package analysis

import (
	"github.com/voxlumen/voicepillars/algorithms/common"
	"github.com/voxlumen/voicepillars/algorithms/filters"
	"github.com/voxlumen/voicepillars/algorithms/spectral"
	"github.com/voxlumen/voicepillars/algorithms/speech"
	"github.com/voxlumen/voicepillars/algorithms/stats"
	"github.com/voxlumen/voicepillars/algorithms/windowing"
	"github.com/voxlumen/voicepillars/audio"
)

// ResonanceParams tunes the LPC formant pipeline
type ResonanceParams struct {
	SilenceRMS     float64 `json:"silence_rms"`
	PreEmphasis    float64 `json:"pre_emphasis"`
	MaxLPCOrder    int     `json:"max_lpc_order"`
	EnvelopePoints int     `json:"envelope_points"`

	// PeakProminenceDB is the minimum rise over both neighbors for an
	// envelope peak to qualify as a formant candidate. Worth revisiting
	// against real voice recordings; synthetic tones are forgiving.
	PeakProminenceDB float64 `json:"peak_prominence_db"`

	F1Band [2]float64 `json:"f1_band"`
	F2Band [2]float64 `json:"f2_band"`
	F3Band [2]float64 `json:"f3_band"`

	// F2ScoreRange maps F2 position onto the 0-100 resonance score
	F2ScoreRange [2]float64 `json:"f2_score_range"`

	SmoothingAlpha float64 `json:"smoothing_alpha"`
}

// DefaultResonanceParams returns the pipeline defaults
func DefaultResonanceParams() ResonanceParams {
	return ResonanceParams{
		SilenceRMS:       0.01,
		PreEmphasis:      filters.DefaultPreEmphasisCoefficient,
		MaxLPCOrder:      16,
		EnvelopePoints:   512,
		PeakProminenceDB: speech.DefaultPeakProminenceDB,
		F1Band:           speech.DefaultF1Band,
		F2Band:           speech.DefaultF2Band,
		F3Band:           speech.DefaultF3Band,
		F2ScoreRange:     [2]float64{800, 2800},
		SmoothingAlpha:   0.2,
	}
}

// ResonanceResult is the slow-tick resonance measurement. Formants and the
// score are nil when they could not be resolved; the spectral centroid is
// computed independently of the LPC path so the caller still gets feedback
// when formant extraction fails. Everything is nil on silence.
type ResonanceResult struct {
	F1               *float64 `json:"f1,omitempty"`
	F2               *float64 `json:"f2,omitempty"`
	F3               *float64 `json:"f3,omitempty"`
	ResonanceScore   *float64 `json:"resonance_score,omitempty"`
	SpectralCentroid *float64 `json:"spectral_centroid,omitempty"`
}

// ResonanceAnalyzer estimates vocal tract brightness from formant
// positions. The pipeline is the classical LPC chain: pre-emphasis, Hamming
// window, autocorrelation, Levinson-Durbin, all-pole envelope evaluation,
// prominence peak-picking, greedy band assignment. It is the most expensive
// analyzer and is intended to run on the slow tick only.
type ResonanceAnalyzer struct {
	params ResonanceParams

	pre *filters.PreEmphasis

	// lazily (re)built when the frame geometry changes
	window     *windowing.Hamming
	autocorr   *stats.AutoCorrelation
	centroid   *spectral.SpectralCentroid
	windowSize int
	lpcOrder   int
	sampleRate int
	fftSize    int

	f1Smoother       *Smoother
	f2Smoother       *Smoother
	f3Smoother       *Smoother
	scoreSmoother    *Smoother
	centroidSmoother *Smoother
}

// NewResonanceAnalyzer creates an analyzer with default parameters
func NewResonanceAnalyzer() *ResonanceAnalyzer {
	return NewResonanceAnalyzerWithParams(DefaultResonanceParams())
}

// NewResonanceAnalyzerWithParams creates an analyzer with custom parameters
func NewResonanceAnalyzerWithParams(params ResonanceParams) *ResonanceAnalyzer {
	return &ResonanceAnalyzer{
		params:           params,
		pre:              filters.NewPreEmphasis(params.PreEmphasis),
		f1Smoother:       NewSmoother(params.SmoothingAlpha),
		f2Smoother:       NewSmoother(params.SmoothingAlpha),
		f3Smoother:       NewSmoother(params.SmoothingAlpha),
		scoreSmoother:    NewSmoother(params.SmoothingAlpha),
		centroidSmoother: NewSmoother(params.SmoothingAlpha),
	}
}

// Analyze runs the LPC pipeline over one time-domain frame, with the
// matching dB spectrum used for the independent centroid measurement
func (ra *ResonanceAnalyzer) Analyze(frame *audio.AudioFrame, spectrum *audio.SpectrumFrame) ResonanceResult {
	var result ResonanceResult

	if frame == nil || len(frame.Samples) == 0 || frame.SampleRate <= 0 {
		return result
	}
	if frame.RMS() < ra.params.SilenceRMS {
		return result
	}

	ra.prepare(frame, spectrum)

	// Centroid first: it survives LPC failure.
	if spectrum != nil && ra.centroid != nil {
		if c := ra.centroid.Compute(spectrum.MagnitudesDB); c > 0 {
			result.SpectralCentroid = Float(ra.centroidSmoother.Apply(c))
		}
	}

	emphasized := ra.pre.Apply(frame.Samples)
	if err := ra.window.ApplyInPlace(emphasized); err != nil {
		return result
	}

	r, err := ra.autocorr.Compute(emphasized)
	if err != nil {
		return result
	}

	lpc := speech.LevinsonDurbin(r)
	envelope := speech.SpectralEnvelopeDB(lpc.Coefficients, ra.params.EnvelopePoints)

	nyquist := float64(frame.SampleRate) / 2
	binWidth := nyquist / float64(len(envelope))

	peaks := speech.FindEnvelopePeaks(envelope, binWidth, ra.params.PeakProminenceDB)
	formants := speech.AssignFormantsInBands(peaks, ra.params.F1Band, ra.params.F2Band, ra.params.F3Band)

	if formants.F1 != nil {
		result.F1 = Float(ra.f1Smoother.Apply(*formants.F1))
	}
	if formants.F2 != nil {
		result.F2 = Float(ra.f2Smoother.Apply(*formants.F2))

		score := common.MapRange(*formants.F2, ra.params.F2ScoreRange[0], ra.params.F2ScoreRange[1], 0, 100)
		result.ResonanceScore = Float(ra.scoreSmoother.Apply(score))
	}
	if formants.F3 != nil {
		result.F3 = Float(ra.f3Smoother.Apply(*formants.F3))
	}

	return result
}

// Reset clears all smoothing state
func (ra *ResonanceAnalyzer) Reset() {
	ra.f1Smoother.Reset()
	ra.f2Smoother.Reset()
	ra.f3Smoother.Reset()
	ra.scoreSmoother.Reset()
	ra.centroidSmoother.Reset()
}

// prepare rebuilds the size-dependent components when frame geometry
// changes between sessions
func (ra *ResonanceAnalyzer) prepare(frame *audio.AudioFrame, spectrum *audio.SpectrumFrame) {
	if ra.window == nil || ra.windowSize != len(frame.Samples) {
		ra.windowSize = len(frame.Samples)
		ra.window = windowing.NewHamming(ra.windowSize)
	}

	order := speech.LPCOrderFor(frame.SampleRate, ra.params.MaxLPCOrder)
	if ra.autocorr == nil || ra.lpcOrder != order {
		ra.lpcOrder = order
		ra.autocorr = stats.NewAutoCorrelation(order)
	}

	if spectrum != nil && (ra.centroid == nil || ra.sampleRate != spectrum.SampleRate || ra.fftSize != spectrum.FFTSize) {
		ra.sampleRate = spectrum.SampleRate
		ra.fftSize = spectrum.FFTSize
		ra.centroid = spectral.NewSpectralCentroid(spectrum.SampleRate, spectrum.FFTSize)
	}
}
