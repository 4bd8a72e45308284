package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	appconfig "github.com/voxlumen/voicepillars/config"
	"github.com/voxlumen/voicepillars/logging"
)

var (
	configFile   string
	verbose      bool
	outputFormat string

	cfg *appconfig.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "voicepillars",
	Short: "Voice feminization analysis engine",
	Long: `voicepillars analyzes voice recordings across four vocal-quality
pillars - pitch, vocal weight, resonance, and intonation - and fuses them
into a single personalized composite score.

The analyze command runs a full session over a recording; calibrate records
a personal baseline/ceiling profile that rescales future sessions.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default voicepillars.yaml in . or $HOME/.voicepillars)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format: text or json")
}

func initializeConfig(cmd *cobra.Command) error {
	v := viper.New()
	appconfig.SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("voicepillars")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.voicepillars")
	}

	v.SetEnvPrefix("VOICEPILLARS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("reading config file: %w", err)
		}
	}

	// Flags beat config file values when set explicitly.
	bindFlag(v, cmd.Flags(), "verbose", "verbose")
	bindFlag(v, cmd.Flags(), "output", "output_format")

	loaded, err := appconfig.Load(v)
	if err != nil {
		return err
	}
	cfg = loaded

	if cfg.Verbose {
		logging.SetLevel(logging.DebugLevel)
	} else {
		logging.SetLevel(logging.ParseLevel(cfg.LogLevel))
	}

	return nil
}

func bindFlag(v *viper.Viper, flags *pflag.FlagSet, flagName, key string) {
	if f := flags.Lookup(flagName); f != nil && f.Changed {
		v.Set(key, f.Value.String())
	}
}
