package main

import (
	"github.com/voxlumen/voicepillars/algorithms/spectral"
	"github.com/voxlumen/voicepillars/algorithms/windowing"
	"github.com/voxlumen/voicepillars/audio"
	appconfig "github.com/voxlumen/voicepillars/config"
	"github.com/voxlumen/voicepillars/engine"
)

// runSession replays decoded PCM through the engine at the live tick
// cadences: one fast tick per hop, one slow tick per slow-tick interval.
// It stands in for the real-time capture layer.
func runSession(eng *engine.Engine, audioCfg appconfig.AudioConfig, pcm []float64) engine.SessionSummary {
	fftSize := audioCfg.FFTSize
	hop := audioCfg.HopSize
	sr := audioCfg.SampleRate

	fft := spectral.NewFFT()
	window := windowing.NewHamming(fftSize)
	builder := engine.NewSummaryBuilder()

	slowIntervalSamples := sr * audioCfg.SlowTickMs / 1000
	nextSlow := 0

	for start := 0; start+fftSize <= len(pcm); start += hop {
		samples := pcm[start : start+fftSize]

		frame := &audio.AudioFrame{
			Samples:    samples,
			SampleRate: sr,
			FFTSize:    fftSize,
		}
		spectrum := &audio.SpectrumFrame{
			MagnitudesDB: fft.MagnitudeDB(window.Apply(samples)),
			SampleRate:   sr,
			FFTSize:      fftSize,
		}

		if start >= nextSlow {
			eng.TickSlow(frame, spectrum)
			nextSlow += slowIntervalSamples
		}

		timeMs := int64(start) * 1000 / int64(sr)
		builder.Add(eng.TickFast(frame, spectrum, timeMs))
	}

	// A phrase still in progress at end of audio counts toward the
	// session total.
	final := eng.FlushPhrase()

	summary := builder.Build()
	if len(final.History) > summary.PhraseCount {
		summary.PhraseCount = len(final.History)
	}

	return summary
}
