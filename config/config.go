// Package config loads the application configuration for the CLI driver.
// The library itself is configured through the engine's Params structs;
// this package only layers file/env/flag values on top of those defaults.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/voxlumen/voicepillars/analysis"
	"github.com/voxlumen/voicepillars/engine"
)

// Config represents the application configuration
type Config struct {
	Verbose      bool   `mapstructure:"verbose"`
	LogLevel     string `mapstructure:"log_level"`
	OutputFormat string `mapstructure:"output_format"` // "text" or "json"

	Audio       AudioConfig       `mapstructure:"audio"`
	Scoring     ScoringConfig     `mapstructure:"scoring"`
	Calibration CalibrationConfig `mapstructure:"calibration"`
}

// AudioConfig contains frame geometry for the offline driver
type AudioConfig struct {
	SampleRate int `mapstructure:"sample_rate"`
	FFTSize    int `mapstructure:"fft_size"`

	// HopSize is the fast-tick hop in samples (735 @ 44.1 kHz ≈ 60 Hz)
	HopSize int `mapstructure:"hop_size"`

	// SlowTickMs is the resonance analysis interval
	SlowTickMs int `mapstructure:"slow_tick_ms"`

	FFmpegPath string `mapstructure:"ffmpeg_path"`
}

// ScoringConfig overrides the composite pillar weights
type ScoringConfig struct {
	LightnessWeight   float64 `mapstructure:"lightness_weight"`
	ResonanceWeight   float64 `mapstructure:"resonance_weight"`
	VariabilityWeight float64 `mapstructure:"variability_weight"`
	PitchWeight       float64 `mapstructure:"pitch_weight"`
}

// CalibrationConfig locates the persisted calibration profile
type CalibrationConfig struct {
	ProfilePath string `mapstructure:"profile_path"`
}

// SetDefaults registers all configuration defaults on a viper instance
func SetDefaults(v *viper.Viper) {
	v.SetDefault("verbose", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("output_format", "text")

	v.SetDefault("audio.sample_rate", 44100)
	v.SetDefault("audio.fft_size", 4096)
	v.SetDefault("audio.hop_size", 735)
	v.SetDefault("audio.slow_tick_ms", 125)
	v.SetDefault("audio.ffmpeg_path", "ffmpeg")

	defaults := analysis.DefaultWeights()
	v.SetDefault("scoring.lightness_weight", defaults.Lightness)
	v.SetDefault("scoring.resonance_weight", defaults.Resonance)
	v.SetDefault("scoring.variability_weight", defaults.Variability)
	v.SetDefault("scoring.pitch_weight", defaults.Pitch)

	v.SetDefault("calibration.profile_path", "voicepillars-calibration.json")
}

// Load unmarshals and validates the configuration from a viper instance
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration for values the driver cannot work with
func (c *Config) Validate() error {
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("audio.sample_rate must be positive, got %d", c.Audio.SampleRate)
	}
	if c.Audio.FFTSize <= 0 {
		return fmt.Errorf("audio.fft_size must be positive, got %d", c.Audio.FFTSize)
	}
	if c.Audio.HopSize <= 0 || c.Audio.HopSize > c.Audio.FFTSize {
		return fmt.Errorf("audio.hop_size must be in (0, fft_size], got %d", c.Audio.HopSize)
	}
	if c.Audio.SlowTickMs <= 0 {
		return fmt.Errorf("audio.slow_tick_ms must be positive, got %d", c.Audio.SlowTickMs)
	}
	if c.OutputFormat != "text" && c.OutputFormat != "json" {
		return fmt.Errorf("output_format must be text or json, got %q", c.OutputFormat)
	}
	return nil
}

// EngineConfig builds the engine configuration with the scoring overrides
// applied. Invalid weights are left to the scorer's own fallback.
func (c *Config) EngineConfig() *engine.Config {
	cfg := engine.DefaultConfig()
	cfg.Weights = analysis.Weights{
		Lightness:   c.Scoring.LightnessWeight,
		Resonance:   c.Scoring.ResonanceWeight,
		Variability: c.Scoring.VariabilityWeight,
		Pitch:       c.Scoring.PitchWeight,
	}
	return cfg
}
