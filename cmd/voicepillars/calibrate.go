package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/voxlumen/voicepillars/calibration"
	"github.com/voxlumen/voicepillars/engine"
	"github.com/voxlumen/voicepillars/transcode"
)

var (
	baselineFile string
	ceilingFile  string
	resetProfile bool
)

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Record a personal calibration profile",
	Long: `Runs the two-phase calibration capture over two recordings: one of
your normal (baseline) voice and one of your best-effort (ceiling) voice.
The per-pillar medians become the anchors of your personal scale: baseline
scores map to 20, ceiling scores to 70, with room to grow past both.`,
	RunE: runCalibrate,
}

func init() {
	calibrateCmd.Flags().StringVar(&baselineFile, "baseline", "", "recording of your normal voice")
	calibrateCmd.Flags().StringVar(&ceilingFile, "ceiling", "", "recording of your best-effort voice")
	calibrateCmd.Flags().BoolVar(&resetProfile, "reset", false, "clear the saved profile instead of capturing")
	rootCmd.AddCommand(calibrateCmd)
}

func runCalibrate(cmd *cobra.Command, args []string) error {
	store := calibration.NewFileStore(cfg.Calibration.ProfilePath)

	if resetProfile {
		eng := engine.New(cfg.EngineConfig(), store)
		eng.Calibration().Recalibrate()
		fmt.Println("Calibration profile cleared.")
		return nil
	}

	if baselineFile == "" || ceilingFile == "" {
		return fmt.Errorf("both --baseline and --ceiling recordings are required")
	}

	decoderCfg := transcode.DefaultDecoderConfig()
	decoderCfg.TargetSampleRate = cfg.Audio.SampleRate
	decoderCfg.FFmpegPath = cfg.Audio.FFmpegPath
	decoder := transcode.NewDecoder(decoderCfg)

	eng := engine.New(cfg.EngineConfig(), store)

	baseline, err := capturePhase(cmd, decoder, eng, calibration.PhaseBaseline, baselineFile)
	if err != nil {
		return err
	}

	// Fresh smoothing state between phases so the ceiling capture does
	// not inherit the baseline's averages.
	eng.Reset()

	ceiling, err := capturePhase(cmd, decoder, eng, calibration.PhaseCeiling, ceilingFile)
	if err != nil {
		return err
	}

	if err := eng.Calibration().SaveCalibration(baseline, ceiling); err != nil {
		return fmt.Errorf("saving calibration: %w", err)
	}

	fmt.Printf("Calibration saved to %s\n", cfg.Calibration.ProfilePath)
	return nil
}

func capturePhase(cmd *cobra.Command, decoder *transcode.Decoder, eng *engine.Engine, phase calibration.Phase, path string) (calibration.CaptureResult, error) {
	data, err := decoder.DecodeFile(cmd.Context(), path)
	if err != nil {
		return calibration.CaptureResult{}, fmt.Errorf("%s capture: %w", phase, err)
	}

	eng.Calibration().StartCapture(phase)
	runSession(eng, cfg.Audio, data.PCM)
	result := eng.Calibration().EndCapture()

	if result.SampleCount < calibration.MinCaptureSamples {
		fmt.Fprintf(os.Stderr, "Warning: %s capture has only %d usable frames (want at least %d); record a longer sample for a reliable profile.\n",
			phase, result.SampleCount, calibration.MinCaptureSamples)
	}

	return result, nil
}
