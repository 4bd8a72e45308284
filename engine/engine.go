// Package engine wires the pillar analyzers into the two-cadence tick
// loop the capture layer drives: a fast tick (~60 Hz) for pitch, weight,
// intonation and scoring, and a slow tick (~8 Hz) for the LPC resonance
// pipeline. Everything is single-threaded and bounded; a tick never
// blocks, errors, or panics on bad input.
package engine

import (
	"github.com/voxlumen/voicepillars/algorithms/pitch"
	"github.com/voxlumen/voicepillars/analysis"
	"github.com/voxlumen/voicepillars/audio"
	"github.com/voxlumen/voicepillars/calibration"
	"github.com/voxlumen/voicepillars/logging"
)

// Config holds the engine's analyzer parameters
type Config struct {
	Pitch      pitch.Params              `json:"pitch"`
	Weight     analysis.WeightParams     `json:"weight"`
	Resonance  analysis.ResonanceParams  `json:"resonance"`
	Intonation analysis.IntonationParams `json:"intonation"`
	Weights    analysis.Weights          `json:"weights"`
}

// DefaultConfig returns the default engine configuration
func DefaultConfig() *Config {
	return &Config{
		Pitch:      pitch.DefaultParams(),
		Weight:     analysis.DefaultWeightParams(),
		Resonance:  analysis.DefaultResonanceParams(),
		Intonation: analysis.DefaultIntonationParams(),
		Weights:    analysis.DefaultWeights(),
	}
}

// Snapshot is the externally visible metrics record produced once per fast
// tick. Nil fields mean "no data this tick", never zero.
type Snapshot struct {
	TimeMs int64 `json:"time_ms"`

	// Fast path
	PitchHz    *float64 `json:"pitch_hz,omitempty"`
	Clarity    float64  `json:"clarity"`
	PitchRange string   `json:"pitch_range,omitempty"`

	Lightness     *float64 `json:"lightness,omitempty"`
	H1H2          *float64 `json:"h1h2,omitempty"`
	SpectralSlope *float64 `json:"spectral_slope,omitempty"`

	// Slow path, reused between slow ticks. May lag the fast-path
	// fields by up to the slow-tick interval.
	ResonanceScore   *float64 `json:"resonance_score,omitempty"`
	F1               *float64 `json:"f1,omitempty"`
	F2               *float64 `json:"f2,omitempty"`
	F3               *float64 `json:"f3,omitempty"`
	SpectralCentroid *float64 `json:"spectral_centroid,omitempty"`

	VariabilityScore *float64                 `json:"variability_score,omitempty"`
	CurrentContour   analysis.Contour         `json:"current_contour,omitempty"`
	PhraseHistory    []analysis.PhraseSegment `json:"phrase_history,omitempty"`

	// Fused output, after calibration mapping
	CompositeScore *int               `json:"composite_score,omitempty"`
	Breakdown      map[string]float64 `json:"breakdown,omitempty"`
	WeightsUsed    map[string]float64 `json:"weights_used,omitempty"`

	// RawPillars are the pre-calibration scores that fed the composite
	RawPillars analysis.PillarScores `json:"raw_pillars"`
}

// Engine owns the analyzers and the cross-tick staleness state
type Engine struct {
	config *Config

	pitchDetector *pitch.Detector
	weight        *analysis.VocalWeightAnalyzer
	resonance     *analysis.ResonanceAnalyzer
	intonation    *analysis.IntonationTracker
	scorer        *analysis.CompositeScorer
	calib         *calibration.Manager

	// lastResonance holds the most recent slow-tick output; fast ticks
	// read it without recomputing. This staleness is part of the
	// contract, not an accident.
	lastResonance analysis.ResonanceResult

	warnedFFTSize bool
	logger        logging.Logger
}

// New creates an engine. A nil config uses defaults; a nil store leaves
// calibration in-memory only.
func New(config *Config, store calibration.Store) *Engine {
	if config == nil {
		config = DefaultConfig()
	}

	return &Engine{
		config:        config,
		pitchDetector: pitch.NewDetectorWithParams(config.Pitch),
		weight:        analysis.NewVocalWeightAnalyzerWithParams(config.Weight),
		resonance:     analysis.NewResonanceAnalyzerWithParams(config.Resonance),
		intonation:    analysis.NewIntonationTrackerWithParams(config.Intonation),
		scorer:        analysis.NewCompositeScorerWithWeights(config.Weights),
		calib:         calibration.NewManager(store),
		logger: logging.WithFields(logging.Fields{
			"component": "engine",
		}),
	}
}

// Calibration exposes the calibration manager for capture flows
func (e *Engine) Calibration() *calibration.Manager {
	return e.calib
}

// TickFast runs the frame-rate analysis path and returns the tick's
// metrics snapshot
func (e *Engine) TickFast(frame *audio.AudioFrame, spectrum *audio.SpectrumFrame, timeMs int64) *Snapshot {
	snapshot := &Snapshot{TimeMs: timeMs}

	e.checkFrameGeometry(frame)

	estimate := e.pitchDetector.Detect(frame)
	if estimate.Voiced {
		snapshot.PitchHz = analysis.Float(estimate.PitchHz)
		snapshot.Clarity = estimate.Clarity
		snapshot.PitchRange = pitch.ClassifyRange(estimate.PitchHz).String()
	}

	if weight := e.weight.Analyze(spectrum, estimate.PitchHz, estimate.Voiced); weight != nil {
		snapshot.Lightness = analysis.Float(weight.Lightness)
		snapshot.H1H2 = analysis.Float(weight.H1H2)
		snapshot.SpectralSlope = analysis.Float(weight.SpectralSlope)
	}

	view := e.intonation.AddPitch(estimate.PitchHz, estimate.Voiced, timeMs)
	snapshot.VariabilityScore = view.VariabilityScore
	snapshot.CurrentContour = view.CurrentContour
	snapshot.PhraseHistory = view.History

	// Resonance fields come from the last slow tick.
	snapshot.ResonanceScore = e.lastResonance.ResonanceScore
	snapshot.F1 = e.lastResonance.F1
	snapshot.F2 = e.lastResonance.F2
	snapshot.F3 = e.lastResonance.F3
	snapshot.SpectralCentroid = e.lastResonance.SpectralCentroid

	raw := analysis.PillarScores{
		Lightness:   snapshot.Lightness,
		Resonance:   snapshot.ResonanceScore,
		Variability: snapshot.VariabilityScore,
	}
	if estimate.Voiced {
		raw.Pitch = analysis.Float(analysis.PitchToScore(estimate.PitchHz))
	}
	snapshot.RawPillars = raw

	e.calib.AddFrame(raw)

	composite := e.scorer.Score(e.calib.Apply(raw))
	snapshot.CompositeScore = composite.Score
	snapshot.Breakdown = composite.Breakdown
	snapshot.WeightsUsed = composite.WeightsUsed

	return snapshot
}

// TickSlow runs the LPC resonance pipeline and caches its output for the
// fast path. Intended cadence is ~125 ms.
func (e *Engine) TickSlow(frame *audio.AudioFrame, spectrum *audio.SpectrumFrame) {
	e.lastResonance = e.resonance.Analyze(frame, spectrum)
}

// Reset clears all smoothing, phrase, and staleness state so a new session
// starts clean. The calibration profile survives; it belongs to the user,
// not the session.
func (e *Engine) Reset() {
	e.weight.Reset()
	e.resonance.Reset()
	e.intonation.Reset()
	e.lastResonance = analysis.ResonanceResult{}
	e.warnedFFTSize = false
}

// FlushPhrase finalizes any in-progress phrase, for session end
func (e *Engine) FlushPhrase() analysis.IntonationView {
	return e.intonation.Flush()
}

func (e *Engine) checkFrameGeometry(frame *audio.AudioFrame) {
	if frame == nil || e.warnedFFTSize {
		return
	}
	if frame.FFTSize > 0 && frame.FFTSize < audio.MinFFTSize {
		e.logger.Warn("FFT size below minimum, harmonic analysis may not resolve individual harmonics", logging.Fields{
			"fft_size": frame.FFTSize,
			"minimum":  audio.MinFFTSize,
		})
		e.warnedFFTSize = true
	}
}
