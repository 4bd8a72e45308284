package engine

import (
	"github.com/voxlumen/voicepillars/algorithms/common"
	"github.com/voxlumen/voicepillars/algorithms/pitch"
)

// SessionSummary aggregates snapshots over a session for reporting. It is
// what an offline driver (or a session recorder) prints when the stream
// ends.
type SessionSummary struct {
	Ticks       int `json:"ticks"`
	VoicedTicks int `json:"voiced_ticks"`

	MeanPitchHz     float64 `json:"mean_pitch_hz"`
	PitchRange      string  `json:"pitch_range,omitempty"`
	MeanLightness   float64 `json:"mean_lightness"`
	MeanResonance   float64 `json:"mean_resonance"`
	MeanVariability float64 `json:"mean_variability"`
	MeanComposite   float64 `json:"mean_composite"`

	PhraseCount int `json:"phrase_count"`
}

// SummaryBuilder accumulates snapshots into a SessionSummary
type SummaryBuilder struct {
	pitches     []float64
	lightness   []float64
	resonance   []float64
	variability []float64
	composite   []float64

	ticks       int
	voicedTicks int
	phraseCount int
}

// NewSummaryBuilder creates an empty builder
func NewSummaryBuilder() *SummaryBuilder {
	return &SummaryBuilder{}
}

// Add folds one snapshot into the running aggregates
func (b *SummaryBuilder) Add(s *Snapshot) {
	if s == nil {
		return
	}

	b.ticks++

	if s.PitchHz != nil {
		b.voicedTicks++
		b.pitches = append(b.pitches, *s.PitchHz)
	}
	if s.Lightness != nil {
		b.lightness = append(b.lightness, *s.Lightness)
	}
	if s.ResonanceScore != nil {
		b.resonance = append(b.resonance, *s.ResonanceScore)
	}
	if s.VariabilityScore != nil {
		b.variability = append(b.variability, *s.VariabilityScore)
	}
	if s.CompositeScore != nil {
		b.composite = append(b.composite, float64(*s.CompositeScore))
	}
	if len(s.PhraseHistory) > b.phraseCount {
		b.phraseCount = len(s.PhraseHistory)
	}
}

// Build produces the final summary
func (b *SummaryBuilder) Build() SessionSummary {
	summary := SessionSummary{
		Ticks:           b.ticks,
		VoicedTicks:     b.voicedTicks,
		MeanPitchHz:     common.Mean(b.pitches),
		MeanLightness:   common.Mean(b.lightness),
		MeanResonance:   common.Mean(b.resonance),
		MeanVariability: common.Mean(b.variability),
		MeanComposite:   common.Mean(b.composite),
		PhraseCount:     b.phraseCount,
	}

	if len(b.pitches) > 0 {
		summary.PitchRange = pitch.ClassifyRange(summary.MeanPitchHz).String()
	}

	return summary
}
