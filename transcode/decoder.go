// Package transcode decodes audio files to mono float64 PCM for the
// offline driver, shelling out to ffmpeg like every other tool in this
// space. Live capture does not go through this package.
package transcode

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os/exec"
	"time"

	"github.com/voxlumen/voicepillars/logging"
)

// AudioData represents decoded audio
type AudioData struct {
	PCM        []float64     `json:"-"`
	SampleRate int           `json:"sample_rate"`
	Duration   time.Duration `json:"duration"`
}

// DecoderConfig holds decoder settings
type DecoderConfig struct {
	TargetSampleRate int           `json:"target_sample_rate"`
	FFmpegPath       string        `json:"ffmpeg_path"`
	Timeout          time.Duration `json:"timeout"`
}

// DefaultDecoderConfig returns the default decoder configuration
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		TargetSampleRate: 44100,
		FFmpegPath:       "ffmpeg", // assume in PATH
		Timeout:          60 * time.Second,
	}
}

// Decoder decodes audio files via ffmpeg
type Decoder struct {
	config *DecoderConfig
	logger logging.Logger
}

// NewDecoder creates a decoder. A nil config uses defaults.
func NewDecoder(config *DecoderConfig) *Decoder {
	if config == nil {
		config = DefaultDecoderConfig()
	}

	return &Decoder{
		config: config,
		logger: logging.WithFields(logging.Fields{
			"component": "decoder",
		}),
	}
}

// DecodeFile decodes path to mono float64 PCM at the target sample rate
func (d *Decoder) DecodeFile(ctx context.Context, path string) (*AudioData, error) {
	ctx, cancel := context.WithTimeout(ctx, d.config.Timeout)
	defer cancel()

	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-i", path,
		"-ac", "1",
		"-ar", fmt.Sprintf("%d", d.config.TargetSampleRate),
		"-f", "f64le",
		"-",
	}

	cmd := exec.CommandContext(ctx, d.config.FFmpegPath, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	d.logger.Debug("decoding audio file", logging.Fields{
		"path":        path,
		"sample_rate": d.config.TargetSampleRate,
	})

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg failed for %s: %w (%s)", path, err, stderr.String())
	}

	pcm, err := parseF64LE(stdout.Bytes())
	if err != nil {
		return nil, fmt.Errorf("parsing ffmpeg output for %s: %w", path, err)
	}
	if len(pcm) == 0 {
		return nil, fmt.Errorf("no audio decoded from %s", path)
	}

	duration := time.Duration(float64(len(pcm)) / float64(d.config.TargetSampleRate) * float64(time.Second))

	return &AudioData{
		PCM:        pcm,
		SampleRate: d.config.TargetSampleRate,
		Duration:   duration,
	}, nil
}

// parseF64LE converts raw little-endian float64 bytes to samples, dropping
// any trailing partial sample and any non-finite values ffmpeg might emit
func parseF64LE(data []byte) ([]float64, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("output too short: %d bytes", len(data))
	}

	n := len(data) / 8
	pcm := make([]float64, 0, n)

	for i := 0; i < n; i++ {
		bits := binary.LittleEndian.Uint64(data[i*8 : i*8+8])
		sample := math.Float64frombits(bits)
		if math.IsNaN(sample) || math.IsInf(sample, 0) {
			sample = 0
		}
		pcm = append(pcm, sample)
	}

	return pcm, nil
}
