package analysis

import (
	"github.com/voxlumen/voicepillars/algorithms/common"
)

// Contour classifies the pitch shape of a completed phrase
type Contour string

const (
	ContourNone     Contour = ""
	ContourMonotone Contour = "monotone"
	ContourRising   Contour = "rising"
	ContourFalling  Contour = "falling"
	ContourRiseFall Contour = "rise-fall"
	ContourVaried   Contour = "varied"
)

// IntonationParams tunes phrase segmentation and scoring
type IntonationParams struct {
	// GapMs finalizes the current phrase once this much time passes
	// without a voiced sample
	GapMs int64 `json:"gap_ms"`

	// MinPhrasePoints discards phrases too short to characterize
	MinPhrasePoints int `json:"min_phrase_points"`

	// HistorySize bounds the rolling phrase history
	HistorySize int `json:"history_size"`

	// Contour classification thresholds
	MonotoneStdDevHz float64 `json:"monotone_stddev_hz"`
	MonotoneRangeHz  float64 `json:"monotone_range_hz"`
	VariedChangeFrac float64 `json:"varied_change_frac"`
	VariedMinChanges int     `json:"varied_min_changes"`
	RiseFallFrac     float64 `json:"rise_fall_frac"`
	TrendFrac        float64 `json:"trend_frac"`

	// Score mapping caps
	StdDevScoreMax  float64 `json:"stddev_score_max"`   // Hz
	RangeScoreMax   float64 `json:"range_score_max"`    // Hz
	DirRateScoreMax float64 `json:"dir_rate_score_max"` // changes/sec

	// Score blend weights
	StdDevWeight  float64 `json:"stddev_weight"`
	RangeWeight   float64 `json:"range_weight"`
	DirRateWeight float64 `json:"dir_rate_weight"`
}

// DefaultIntonationParams returns the tracker defaults
func DefaultIntonationParams() IntonationParams {
	return IntonationParams{
		GapMs:            200,
		MinPhrasePoints:  4,
		HistorySize:      10,
		MonotoneStdDevHz: 3,
		MonotoneRangeHz:  5,
		VariedChangeFrac: 0.15,
		VariedMinChanges: 4,
		RiseFallFrac:     0.20,
		TrendFrac:        0.30,
		StdDevScoreMax:   30,
		RangeScoreMax:    80,
		DirRateScoreMax:  8,
		StdDevWeight:     0.4,
		RangeWeight:      0.3,
		DirRateWeight:    0.3,
	}
}

// PhraseSegment is a completed run of voiced pitch samples bounded by
// silence gaps. Immutable once created.
type PhraseSegment struct {
	StartMs          int64   `json:"start_ms"`
	EndMs            int64   `json:"end_ms"`
	PointCount       int     `json:"point_count"`
	MeanHz           float64 `json:"mean_hz"`
	StdDevHz         float64 `json:"stddev_hz"`
	RangeHz          float64 `json:"range_hz"`
	DirChangesPerSec float64 `json:"dir_changes_per_sec"`
	Contour          Contour `json:"contour"`
	Score            float64 `json:"score"`
}

// IntonationView is the rolling state reported after each tick
type IntonationView struct {
	// VariabilityScore is the mean of the history's per-phrase scores,
	// nil until the first phrase completes
	VariabilityScore *float64 `json:"variability_score,omitempty"`

	// CurrentContour is the contour of the most recently completed
	// phrase
	CurrentContour Contour `json:"current_contour"`

	// History holds the last completed phrases, oldest first
	History []PhraseSegment `json:"history"`

	// ActivePoints is the number of voiced samples in the phrase being
	// built
	ActivePoints int `json:"active_points"`
}

type pitchPoint struct {
	hz float64
	ms int64
}

// IntonationTracker segments the pitch stream into phrases and scores their
// melodic variability. It is the only analyzer with real cross-tick state:
// the phrase buffer and the rolling history.
type IntonationTracker struct {
	params IntonationParams

	current      []pitchPoint
	lastVoicedMs int64
	history      []PhraseSegment
}

// NewIntonationTracker creates a tracker with default parameters
func NewIntonationTracker() *IntonationTracker {
	return NewIntonationTrackerWithParams(DefaultIntonationParams())
}

// NewIntonationTrackerWithParams creates a tracker with custom parameters
func NewIntonationTrackerWithParams(params IntonationParams) *IntonationTracker {
	return &IntonationTracker{
		params:       params,
		lastVoicedMs: -1,
	}
}

// AddPitch consumes one fast-tick pitch estimate. An unvoiced tick, or a
// voiced tick arriving after more than GapMs of silence, finalizes the
// phrase being built.
func (t *IntonationTracker) AddPitch(hz float64, voiced bool, timeMs int64) IntonationView {
	gapExceeded := t.lastVoicedMs >= 0 && timeMs-t.lastVoicedMs > t.params.GapMs

	if gapExceeded {
		t.finalizePhrase()
		t.lastVoicedMs = -1
	}

	if voiced {
		t.current = append(t.current, pitchPoint{hz: hz, ms: timeMs})
		t.lastVoicedMs = timeMs
	}

	return t.view()
}

// Flush finalizes any in-progress phrase, for session end
func (t *IntonationTracker) Flush() IntonationView {
	t.finalizePhrase()
	t.lastVoicedMs = -1
	return t.view()
}

// Reset clears the phrase buffer and history
func (t *IntonationTracker) Reset() {
	t.current = nil
	t.lastVoicedMs = -1
	t.history = nil
}

func (t *IntonationTracker) view() IntonationView {
	view := IntonationView{
		ActivePoints: len(t.current),
		History:      t.history,
	}

	if len(t.history) > 0 {
		view.CurrentContour = t.history[len(t.history)-1].Contour

		sum := 0.0
		for _, p := range t.history {
			sum += p.Score
		}
		view.VariabilityScore = Float(sum / float64(len(t.history)))
	}

	return view
}

// finalizePhrase characterizes and stores the current phrase buffer.
// Phrases below the minimum point count are discarded silently.
func (t *IntonationTracker) finalizePhrase() {
	points := t.current
	t.current = nil

	if len(points) < t.params.MinPhrasePoints {
		return
	}

	pitches := make([]float64, len(points))
	minHz, maxHz := points[0].hz, points[0].hz
	for i, p := range points {
		pitches[i] = p.hz
		if p.hz < minHz {
			minHz = p.hz
		}
		if p.hz > maxHz {
			maxHz = p.hz
		}
	}

	stdDev := common.StandardDeviation(pitches)
	rangeHz := maxHz - minHz

	dirChanges := directionChanges(pitches)
	durationSec := float64(points[len(points)-1].ms-points[0].ms) / 1000.0
	dirRate := 0.0
	if durationSec > 0 {
		dirRate = float64(dirChanges) / durationSec
	}

	segment := PhraseSegment{
		StartMs:          points[0].ms,
		EndMs:            points[len(points)-1].ms,
		PointCount:       len(points),
		MeanHz:           common.Mean(pitches),
		StdDevHz:         stdDev,
		RangeHz:          rangeHz,
		DirChangesPerSec: dirRate,
		Contour:          t.classifyContour(pitches, stdDev, rangeHz, dirChanges),
		Score:            t.scorePhrase(stdDev, rangeHz, dirRate),
	}

	t.history = append(t.history, segment)
	if len(t.history) > t.params.HistorySize {
		t.history = t.history[len(t.history)-t.params.HistorySize:]
	}
}

// classifyContour buckets a phrase's pitch shape. Checks run in priority
// order; anything unclassified falls back to varied.
func (t *IntonationTracker) classifyContour(pitches []float64, stdDev, rangeHz float64, dirChanges int) Contour {
	n := len(pitches)

	if stdDev < t.params.MonotoneStdDevHz || rangeHz < t.params.MonotoneRangeHz {
		return ContourMonotone
	}

	if dirChanges >= t.params.VariedMinChanges && float64(dirChanges) > t.params.VariedChangeFrac*float64(n) {
		return ContourVaried
	}

	third := n / 3
	if third >= 1 {
		rise := pitches[third] - pitches[0]
		fall := pitches[third] - pitches[n-1]
		if rise > t.params.RiseFallFrac*rangeHz && fall > t.params.RiseFallFrac*rangeHz {
			return ContourRiseFall
		}
	}

	net := pitches[n-1] - pitches[0]
	if net > t.params.TrendFrac*rangeHz {
		return ContourRising
	}
	if -net > t.params.TrendFrac*rangeHz {
		return ContourFalling
	}

	return ContourVaried
}

// scorePhrase maps the three variability measures onto 0-100 and blends
// them
func (t *IntonationTracker) scorePhrase(stdDev, rangeHz, dirRate float64) float64 {
	stdScore := common.MapRange(stdDev, 0, t.params.StdDevScoreMax, 0, 100)
	rangeScore := common.MapRange(rangeHz, 0, t.params.RangeScoreMax, 0, 100)
	dirScore := common.MapRange(dirRate, 0, t.params.DirRateScoreMax, 0, 100)

	score := t.params.StdDevWeight*stdScore + t.params.RangeWeight*rangeScore + t.params.DirRateWeight*dirScore
	return common.Clamp(score, 0, 100)
}

// directionChanges counts sign changes in consecutive pitch deltas
func directionChanges(pitches []float64) int {
	changes := 0
	prevSign := 0

	for i := 1; i < len(pitches); i++ {
		delta := pitches[i] - pitches[i-1]
		sign := 0
		if delta > 0 {
			sign = 1
		} else if delta < 0 {
			sign = -1
		}

		if sign != 0 && prevSign != 0 && sign != prevSign {
			changes++
		}
		if sign != 0 {
			prevSign = sign
		}
	}

	return changes
}
