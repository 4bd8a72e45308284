// Package analysis contains the four vocal-quality pillar analyzers and the
// composite scorer. All per-tick results model "no signal" as nil pointers:
// downstream consumers must treat absent as a first-class state distinct
// from zero.
package analysis

// Pillar names used in score maps and calibration profiles
const (
	PillarLightness   = "lightness"
	PillarResonance   = "resonance"
	PillarVariability = "variability"
	PillarPitch       = "pitch"
)

// PillarScores carries the four raw (or calibrated) pillar scores, each
// 0-100, nil when the pillar has no data this tick
type PillarScores struct {
	Lightness   *float64 `json:"lightness,omitempty"`
	Resonance   *float64 `json:"resonance,omitempty"`
	Variability *float64 `json:"variability,omitempty"`
	Pitch       *float64 `json:"pitch,omitempty"`
}

// ByName returns the named pillar's value, or nil
func (p PillarScores) ByName(name string) *float64 {
	switch name {
	case PillarLightness:
		return p.Lightness
	case PillarResonance:
		return p.Resonance
	case PillarVariability:
		return p.Variability
	case PillarPitch:
		return p.Pitch
	default:
		return nil
	}
}

// PillarNames lists the pillars in canonical order
func PillarNames() []string {
	return []string{PillarLightness, PillarResonance, PillarVariability, PillarPitch}
}

// Float returns a pointer to v, for building optional score values
func Float(v float64) *float64 {
	return &v
}
