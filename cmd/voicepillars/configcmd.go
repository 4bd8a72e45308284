package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configOutPath string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration helpers",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file with the current effective values",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := yaml.Marshal(configFileContent())
		if err != nil {
			return err
		}
		fmt.Print(string(out))
		return nil
	},
}

func init() {
	configInitCmd.Flags().StringVar(&configOutPath, "path", "voicepillars.yaml", "where to write the config file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(configOutPath); err == nil {
		return fmt.Errorf("%s already exists, refusing to overwrite", configOutPath)
	}

	out, err := yaml.Marshal(configFileContent())
	if err != nil {
		return err
	}

	if err := os.WriteFile(configOutPath, out, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	fmt.Printf("Wrote %s\n", configOutPath)
	return nil
}

// configFileContent mirrors the mapstructure layout of config.Config so the
// emitted YAML round-trips through viper
func configFileContent() map[string]any {
	return map[string]any{
		"verbose":       cfg.Verbose,
		"log_level":     cfg.LogLevel,
		"output_format": cfg.OutputFormat,
		"audio": map[string]any{
			"sample_rate":  cfg.Audio.SampleRate,
			"fft_size":     cfg.Audio.FFTSize,
			"hop_size":     cfg.Audio.HopSize,
			"slow_tick_ms": cfg.Audio.SlowTickMs,
			"ffmpeg_path":  cfg.Audio.FFmpegPath,
		},
		"scoring": map[string]any{
			"lightness_weight":   cfg.Scoring.LightnessWeight,
			"resonance_weight":   cfg.Scoring.ResonanceWeight,
			"variability_weight": cfg.Scoring.VariabilityWeight,
			"pitch_weight":       cfg.Scoring.PitchWeight,
		},
		"calibration": map[string]any{
			"profile_path": cfg.Calibration.ProfilePath,
		},
	}
}
