package analysis

import (
	"math"

	"github.com/voxlumen/voicepillars/algorithms/common"
	"github.com/voxlumen/voicepillars/logging"
)

// Weights are the relative contributions of each pillar to the composite
// score. They must sum to 1.
type Weights struct {
	Lightness   float64 `json:"lightness"`
	Resonance   float64 `json:"resonance"`
	Variability float64 `json:"variability"`
	Pitch       float64 `json:"pitch"`
}

// DefaultWeights returns the product-default pillar weighting
func DefaultWeights() Weights {
	return Weights{
		Lightness:   0.35,
		Resonance:   0.30,
		Variability: 0.20,
		Pitch:       0.15,
	}
}

// ByName returns the named pillar's weight
func (w Weights) ByName(name string) float64 {
	switch name {
	case PillarLightness:
		return w.Lightness
	case PillarResonance:
		return w.Resonance
	case PillarVariability:
		return w.Variability
	case PillarPitch:
		return w.Pitch
	default:
		return 0
	}
}

// Sum returns the total of all four weights
func (w Weights) Sum() float64 {
	return w.Lightness + w.Resonance + w.Variability + w.Pitch
}

// CompositeResult is the fused per-tick score. Score is nil when every
// pillar is absent; "no data" must stay distinguishable from "worst score".
type CompositeResult struct {
	Score *int `json:"score,omitempty"`

	// Breakdown maps pillar name to its contribution (renormalized
	// weight x value) for pillars that had data this tick
	Breakdown map[string]float64 `json:"breakdown,omitempty"`

	// WeightsUsed maps pillar name to the renormalized weight applied
	WeightsUsed map[string]float64 `json:"weights_used,omitempty"`
}

// CompositeScorer fuses the four pillar scores into one 0-100 composite,
// redistributing weight proportionally around absent pillars
type CompositeScorer struct {
	weights Weights
}

// NewCompositeScorer creates a scorer with default weights
func NewCompositeScorer() *CompositeScorer {
	return NewCompositeScorerWithWeights(DefaultWeights())
}

// NewCompositeScorerWithWeights creates a scorer with custom weights.
// Weights not summing to 1 fall back to the defaults rather than failing.
func NewCompositeScorerWithWeights(weights Weights) *CompositeScorer {
	if math.Abs(weights.Sum()-1.0) > 1e-6 {
		logging.Warn("pillar weights do not sum to 1, using defaults", logging.Fields{
			"component": "composite_scorer",
			"sum":       weights.Sum(),
		})
		weights = DefaultWeights()
	}

	return &CompositeScorer{weights: weights}
}

// Weights returns the configured weights
func (cs *CompositeScorer) Weights() Weights {
	return cs.weights
}

// Score fuses the given pillar scores. Pillars with nil values are excluded
// and the remaining weights renormalized to sum to 1, so a tick with a
// single live pillar scores exactly that pillar's value.
func (cs *CompositeScorer) Score(pillars PillarScores) CompositeResult {
	present := make(map[string]float64)
	weightTotal := 0.0

	for _, name := range PillarNames() {
		if v := pillars.ByName(name); v != nil {
			present[name] = *v
			weightTotal += cs.weights.ByName(name)
		}
	}

	if len(present) == 0 || weightTotal <= 0 {
		return CompositeResult{}
	}

	breakdown := make(map[string]float64, len(present))
	weightsUsed := make(map[string]float64, len(present))
	sum := 0.0

	for name, value := range present {
		w := cs.weights.ByName(name) / weightTotal
		contribution := w * value

		weightsUsed[name] = w
		breakdown[name] = contribution
		sum += contribution
	}

	score := int(math.Round(common.Clamp(sum, 0, 100)))

	return CompositeResult{
		Score:       &score,
		Breakdown:   breakdown,
		WeightsUsed: weightsUsed,
	}
}

// PitchToScore maps a fundamental frequency onto a 0-100 pillar score.
// The mapping is deliberately non-monotonic above 250 Hz: an unnaturally
// high pitch reads as strained rather than more feminine, so it scores
// slightly lower than the 215-250 Hz sweet spot.
func PitchToScore(hz float64) float64 {
	switch {
	case hz < 100:
		return 0
	case hz < 180:
		return common.MapRange(hz, 100, 180, 0, 50)
	case hz < 215:
		return common.MapRange(hz, 180, 215, 50, 80)
	case hz < 250:
		return common.MapRange(hz, 215, 250, 80, 100)
	case hz < 300:
		return common.MapRange(hz, 250, 300, 100, 90)
	default:
		return 90
	}
}
