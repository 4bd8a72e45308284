package calibration

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxlumen/voicepillars/analysis"
)

// capture runs a full phase over the given lightness values
func capture(m *Manager, phase Phase, lightness []float64) CaptureResult {
	m.StartCapture(phase)
	for _, v := range lightness {
		m.AddFrame(analysis.PillarScores{Lightness: analysis.Float(v)})
	}
	return m.EndCapture()
}

func TestManagerUncalibratedPassesThrough(t *testing.T) {
	m := NewManager(NewMemoryStore())

	assert.False(t, m.Calibrated())
	assert.Nil(t, m.Profile())

	raw := analysis.Float(55)
	out := m.RawToPersonalized(analysis.PillarLightness, raw)
	require.NotNil(t, out)
	assert.Equal(t, 55.0, *out)

	assert.Nil(t, m.RawToPersonalized(analysis.PillarLightness, nil))
}

func TestManagerAnchorMapping(t *testing.T) {
	m := NewManager(NewMemoryStore())

	baseline := capture(m, PhaseBaseline, []float64{30, 30, 30, 30})
	ceiling := capture(m, PhaseCeiling, []float64{60, 60, 60, 60})
	require.NoError(t, m.SaveCalibration(baseline, ceiling))
	require.True(t, m.Calibrated())

	tests := []struct {
		raw  float64
		want float64
	}{
		{30, BaselineAnchor}, // baseline lands on 20
		{60, CeilingAnchor},  // ceiling lands on 70
		{45, 45},             // midpoint lands midway between anchors
		{90, 100},            // extrapolates past the ceiling, then clamps
		{0, 0},               // clamps at the floor
	}

	for _, tt := range tests {
		out := m.RawToPersonalized(analysis.PillarLightness, analysis.Float(tt.raw))
		require.NotNil(t, out, "raw %v", tt.raw)
		assert.InDelta(t, tt.want, *out, 1e-9, "raw %v", tt.raw)
	}
}

func TestManagerExtrapolationBeyondCeiling(t *testing.T) {
	m := NewManager(NewMemoryStore())

	baseline := capture(m, PhaseBaseline, []float64{40})
	ceiling := capture(m, PhaseCeiling, []float64{60})
	require.NoError(t, m.SaveCalibration(baseline, ceiling))

	// 20 raw points above the ceiling extend the 50-point anchor span
	// proportionally: 70 + 50 = 120, clamped to 100.
	out := m.RawToPersonalized(analysis.PillarLightness, analysis.Float(80))
	require.NotNil(t, out)
	assert.Equal(t, 100.0, *out)

	// A little past the ceiling still earns unclamped credit
	out = m.RawToPersonalized(analysis.PillarLightness, analysis.Float(64))
	require.NotNil(t, out)
	assert.InDelta(t, 80.0, *out, 1e-9)
}

func TestManagerCaptureMedians(t *testing.T) {
	m := NewManager(NewMemoryStore())

	m.StartCapture(PhaseBaseline)
	phase, active := m.Capturing()
	assert.True(t, active)
	assert.Equal(t, PhaseBaseline, phase)

	// Even-length capture: the median averages the middle pair
	for _, v := range []float64{10, 40, 20, 30} {
		m.AddFrame(analysis.PillarScores{
			Lightness: analysis.Float(v),
			Pitch:     analysis.Float(v + 1),
		})
	}
	// Frames with no pillar data do not count as samples
	m.AddFrame(analysis.PillarScores{})

	result := m.EndCapture()
	assert.Equal(t, 4, result.SampleCount)

	require.NotNil(t, result.Medians.Lightness)
	assert.Equal(t, 25.0, *result.Medians.Lightness)
	require.NotNil(t, result.Medians.Pitch)
	assert.Equal(t, 26.0, *result.Medians.Pitch)
	assert.Nil(t, result.Medians.Resonance)
	assert.Nil(t, result.Medians.Variability)

	_, active = m.Capturing()
	assert.False(t, active)
}

func TestManagerAddFrameOutsideCaptureIsNoOp(t *testing.T) {
	m := NewManager(NewMemoryStore())
	m.AddFrame(analysis.PillarScores{Lightness: analysis.Float(50)})

	result := m.EndCapture()
	assert.Zero(t, result.SampleCount)
	assert.Nil(t, result.Medians.Lightness)
}

func TestManagerEqualMediansStayPassThrough(t *testing.T) {
	m := NewManager(NewMemoryStore())

	baseline := capture(m, PhaseBaseline, []float64{50})
	ceiling := capture(m, PhaseCeiling, []float64{50})
	require.NoError(t, m.SaveCalibration(baseline, ceiling))

	// Identical anchors would divide by zero; the pillar stays raw.
	assert.False(t, m.Calibrated())
	out := m.RawToPersonalized(analysis.PillarLightness, analysis.Float(65))
	require.NotNil(t, out)
	assert.Equal(t, 65.0, *out)
}

func TestManagerMissingPhaseDataStaysPassThrough(t *testing.T) {
	m := NewManager(NewMemoryStore())

	baseline := capture(m, PhaseBaseline, []float64{30})
	ceiling := capture(m, PhaseCeiling, nil)
	require.NoError(t, m.SaveCalibration(baseline, ceiling))

	out := m.RawToPersonalized(analysis.PillarLightness, analysis.Float(42))
	require.NotNil(t, out)
	assert.Equal(t, 42.0, *out)
}

func TestManagerProfileRoundTrip(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "profile.json"))

	first := NewManager(store)
	baseline := capture(first, PhaseBaseline, []float64{30})
	ceiling := capture(first, PhaseCeiling, []float64{60})
	require.NoError(t, first.SaveCalibration(baseline, ceiling))

	// A fresh manager over the same store applies the same mapping.
	second := NewManager(store)
	require.True(t, second.Calibrated())

	for _, raw := range []float64{0, 25, 45, 60, 95} {
		a := first.RawToPersonalized(analysis.PillarLightness, analysis.Float(raw))
		b := second.RawToPersonalized(analysis.PillarLightness, analysis.Float(raw))
		require.NotNil(t, a)
		require.NotNil(t, b)
		assert.InDelta(t, *a, *b, 1e-9, "raw %v", raw)
	}
}

func TestManagerCorruptProfileDegradesToUncalibrated(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Save([]byte("{not json")))

	m := NewManager(store)
	assert.False(t, m.Calibrated())

	out := m.RawToPersonalized(analysis.PillarLightness, analysis.Float(33))
	require.NotNil(t, out)
	assert.Equal(t, 33.0, *out)
}

func TestManagerRecalibrate(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store)

	baseline := capture(m, PhaseBaseline, []float64{30})
	ceiling := capture(m, PhaseCeiling, []float64{60})
	require.NoError(t, m.SaveCalibration(baseline, ceiling))
	require.True(t, m.Calibrated())

	m.Recalibrate()
	assert.False(t, m.Calibrated())

	data, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, data)

	// The cleared state survives a reload
	assert.False(t, NewManager(store).Calibrated())
}

func TestManagerApply(t *testing.T) {
	m := NewManager(NewMemoryStore())

	baseline := capture(m, PhaseBaseline, []float64{30})
	ceiling := capture(m, PhaseCeiling, []float64{60})
	require.NoError(t, m.SaveCalibration(baseline, ceiling))

	out := m.Apply(analysis.PillarScores{
		Lightness: analysis.Float(45),
		Pitch:     analysis.Float(50),
	})

	require.NotNil(t, out.Lightness)
	assert.InDelta(t, 45.0, *out.Lightness, 1e-9)

	// Pitch never produced capture data, so it passes through raw
	require.NotNil(t, out.Pitch)
	assert.Equal(t, 50.0, *out.Pitch)

	assert.Nil(t, out.Resonance)
	assert.Nil(t, out.Variability)
}

func TestManagerNilStore(t *testing.T) {
	m := NewManager(nil)

	baseline := capture(m, PhaseBaseline, []float64{30})
	ceiling := capture(m, PhaseCeiling, []float64{60})
	require.NoError(t, m.SaveCalibration(baseline, ceiling))

	// In-memory calibration still applies for the session
	assert.True(t, m.Calibrated())
	out := m.RawToPersonalized(analysis.PillarLightness, analysis.Float(60))
	require.NotNil(t, out)
	assert.InDelta(t, CeilingAnchor, *out, 1e-9)

	m.Recalibrate()
	assert.False(t, m.Calibrated())
}
