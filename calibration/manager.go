// Package calibration personalizes raw pillar scores against a user's own
// measured baseline and ceiling reference points.
package calibration

import (
	"encoding/json"
	"time"

	"github.com/voxlumen/voicepillars/algorithms/common"
	"github.com/voxlumen/voicepillars/analysis"
	"github.com/voxlumen/voicepillars/logging"
)

// Phase identifies which reference recording a capture is for
type Phase string

const (
	PhaseBaseline Phase = "baseline"
	PhaseCeiling  Phase = "ceiling"
)

// Personal-scale anchor points: a user's measured baseline maps to 20 and
// their ceiling to 70, not 0/100, so the starting point counts for
// something and there is always room to grow. Tests depend on these
// exact constants.
const (
	BaselineAnchor = 20.0
	CeilingAnchor  = 70.0
)

// MinCaptureSamples is the sample count below which a capture is
// considered too thin to calibrate from; callers should warn the user
const MinCaptureSamples = 30

// Anchor is one pillar's personalization pair
type Anchor struct {
	Baseline float64 `json:"baseline"`
	Ceiling  float64 `json:"ceiling"`
}

// Profile is the persisted calibration state. A nil entry for a pillar
// means that pillar stays on the raw pass-through scale.
type Profile struct {
	Pillars    map[string]*Anchor `json:"pillars"`
	CapturedAt time.Time          `json:"captured_at"`
}

// CaptureResult summarizes one finished capture phase
type CaptureResult struct {
	// Medians holds the per-pillar median of the captured raw scores,
	// nil for pillars that never produced data
	Medians analysis.PillarScores `json:"medians"`

	// SampleCount is the number of frames where at least one pillar had
	// data
	SampleCount int `json:"sample_count"`
}

// Manager owns the calibration profile and the capture buffers. It is the
// only analyzer-side component with persistent state across sessions.
type Manager struct {
	store   Store
	profile *Profile

	capturing bool
	phase     Phase
	samples   map[string][]float64
	frames    int

	logger logging.Logger
}

// NewManager creates a manager and loads any persisted profile from store.
// A corrupted or unreadable blob degrades to the uncalibrated pass-through
// state, never to a failure.
func NewManager(store Store) *Manager {
	m := &Manager{
		store: store,
		logger: logging.WithFields(logging.Fields{
			"component": "calibration_manager",
		}),
	}

	m.load()
	return m
}

func (m *Manager) load() {
	if m.store == nil {
		return
	}

	data, err := m.store.Load()
	if err != nil {
		m.logger.Warn("failed to load calibration profile, starting uncalibrated", logging.Fields{
			"error": err.Error(),
		})
		return
	}
	if len(data) == 0 {
		return
	}

	var profile Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		m.logger.Warn("calibration profile is corrupt, starting uncalibrated", logging.Fields{
			"error": err.Error(),
		})
		return
	}

	m.profile = &profile
}

// Calibrated reports whether any pillar has a stored profile
func (m *Manager) Calibrated() bool {
	if m.profile == nil {
		return false
	}
	for _, a := range m.profile.Pillars {
		if a != nil {
			return true
		}
	}
	return false
}

// Profile returns the current profile, nil when uncalibrated
func (m *Manager) Profile() *Profile {
	return m.profile
}

// StartCapture begins accumulating raw pillar scores for a phase,
// discarding any capture already in progress
func (m *Manager) StartCapture(phase Phase) {
	m.capturing = true
	m.phase = phase
	m.samples = make(map[string][]float64)
	m.frames = 0
}

// Capturing reports whether a capture phase is active, and which
func (m *Manager) Capturing() (Phase, bool) {
	return m.phase, m.capturing
}

// AddFrame appends one tick's raw pillar scores to the capture buffer.
// No-op outside a capture phase.
func (m *Manager) AddFrame(raw analysis.PillarScores) {
	if !m.capturing {
		return
	}

	any := false
	for _, name := range analysis.PillarNames() {
		if v := raw.ByName(name); v != nil {
			m.samples[name] = append(m.samples[name], *v)
			any = true
		}
	}

	if any {
		m.frames++
	}
}

// EndCapture closes the active phase and returns per-pillar medians of the
// captured samples
func (m *Manager) EndCapture() CaptureResult {
	result := CaptureResult{SampleCount: m.frames}

	for _, name := range analysis.PillarNames() {
		values := m.samples[name]
		if len(values) == 0 {
			continue
		}

		median := common.Median(values)
		switch name {
		case analysis.PillarLightness:
			result.Medians.Lightness = &median
		case analysis.PillarResonance:
			result.Medians.Resonance = &median
		case analysis.PillarVariability:
			result.Medians.Variability = &median
		case analysis.PillarPitch:
			result.Medians.Pitch = &median
		}
	}

	m.capturing = false
	m.samples = nil
	m.frames = 0

	return result
}

// SaveCalibration builds a profile from the two capture phases and
// persists it. A pillar gets an anchor only when both phases produced a
// median and the two differ; otherwise that pillar stays pass-through
// (identical medians would divide by zero in the mapping).
func (m *Manager) SaveCalibration(baseline, ceiling CaptureResult) error {
	profile := &Profile{
		Pillars:    make(map[string]*Anchor),
		CapturedAt: time.Now().UTC(),
	}

	for _, name := range analysis.PillarNames() {
		b := baseline.Medians.ByName(name)
		c := ceiling.Medians.ByName(name)

		if b == nil || c == nil || *b == *c {
			profile.Pillars[name] = nil
			continue
		}

		profile.Pillars[name] = &Anchor{Baseline: *b, Ceiling: *c}
	}

	m.profile = profile

	if m.store == nil {
		return nil
	}

	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}

	if err := m.store.Save(data); err != nil {
		// Persistence is fire-and-forget: in-memory calibration still
		// applies for the rest of the session.
		m.logger.Warn("failed to persist calibration profile", logging.Fields{
			"error": err.Error(),
		})
	}

	return nil
}

// RawToPersonalized maps a raw 0-100 score onto the user's personal scale:
// baseline lands on 20, ceiling on 70. The mapping extrapolates beyond the
// calibration interval, so improvement past the ceiling keeps earning, but
// the result is clamped to [0, 100]. Uncalibrated pillars pass through
// unchanged; nil stays nil.
func (m *Manager) RawToPersonalized(pillar string, raw *float64) *float64 {
	if raw == nil {
		return nil
	}

	if m.profile == nil {
		return raw
	}
	anchor := m.profile.Pillars[pillar]
	if anchor == nil || anchor.Ceiling == anchor.Baseline {
		return raw
	}

	t := (*raw - anchor.Baseline) / (anchor.Ceiling - anchor.Baseline)
	mapped := BaselineAnchor + t*(CeilingAnchor-BaselineAnchor)
	mapped = common.Clamp(mapped, 0, 100)

	return &mapped
}

// Apply personalizes all four pillar scores
func (m *Manager) Apply(raw analysis.PillarScores) analysis.PillarScores {
	return analysis.PillarScores{
		Lightness:   m.RawToPersonalized(analysis.PillarLightness, raw.Lightness),
		Resonance:   m.RawToPersonalized(analysis.PillarResonance, raw.Resonance),
		Variability: m.RawToPersonalized(analysis.PillarVariability, raw.Variability),
		Pitch:       m.RawToPersonalized(analysis.PillarPitch, raw.Pitch),
	}
}

// Recalibrate clears the in-memory and persisted profile, returning the
// manager to the uncalibrated pass-through state
func (m *Manager) Recalibrate() {
	m.profile = nil
	m.capturing = false
	m.samples = nil
	m.frames = 0

	if m.store == nil {
		return
	}
	if err := m.store.Clear(); err != nil {
		m.logger.Warn("failed to clear persisted calibration", logging.Fields{
			"error": err.Error(),
		})
	}
}
