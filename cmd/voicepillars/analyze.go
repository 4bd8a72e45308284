package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/voxlumen/voicepillars/calibration"
	"github.com/voxlumen/voicepillars/engine"
	"github.com/voxlumen/voicepillars/transcode"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a voice recording",
	Long: `Decodes a recording, replays it through the analysis engine at the
live tick cadences, and prints a session summary. A saved calibration
profile, if present, personalizes the pillar scores.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	decoderCfg := transcode.DefaultDecoderConfig()
	decoderCfg.TargetSampleRate = cfg.Audio.SampleRate
	decoderCfg.FFmpegPath = cfg.Audio.FFmpegPath

	decoder := transcode.NewDecoder(decoderCfg)
	data, err := decoder.DecodeFile(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	store := calibration.NewFileStore(cfg.Calibration.ProfilePath)
	eng := engine.New(cfg.EngineConfig(), store)

	summary := runSession(eng, cfg.Audio, data.PCM)

	return printSummary(summary, eng)
}

func printSummary(summary engine.SessionSummary, eng *engine.Engine) error {
	if cfg.OutputFormat == "json" {
		out, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("Session: %d ticks, %d voiced (%.0f%%)\n",
		summary.Ticks, summary.VoicedTicks, voicedPercent(summary))

	if summary.VoicedTicks == 0 {
		fmt.Println("No voiced audio detected.")
		return nil
	}

	fmt.Printf("Pitch:       %.1f Hz (%s)\n", summary.MeanPitchHz, summary.PitchRange)
	fmt.Printf("Lightness:   %.1f\n", summary.MeanLightness)
	fmt.Printf("Resonance:   %.1f\n", summary.MeanResonance)
	fmt.Printf("Variability: %.1f (%d phrases)\n", summary.MeanVariability, summary.PhraseCount)
	fmt.Printf("Composite:   %.1f\n", summary.MeanComposite)

	if eng.Calibration().Calibrated() {
		fmt.Println("Scores personalized from saved calibration profile.")
	} else {
		fmt.Fprintln(os.Stderr, "No calibration profile; scores are on the raw scale. Run `voicepillars calibrate` to personalize.")
	}

	return nil
}

func voicedPercent(summary engine.SessionSummary) float64 {
	if summary.Ticks == 0 {
		return 0
	}
	return 100 * float64(summary.VoicedTicks) / float64(summary.Ticks)
}
