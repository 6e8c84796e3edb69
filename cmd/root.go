package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"shortform-studio/config"
	"shortform-studio/logger"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "shortform-studio",
	Short: "Conversational short-form video creation pipeline",
	Long: `shortform-studio turns a theme into a finished short vertical video
through a staged, approval-gated workflow: theme definition, script
refinement, then fully automatic asset generation and assembly.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "path to the YAML config file")
}

// setup loads .env, the config file, and the logger. A missing config file is
// not an error; defaults cover everything.
func setup() (*config.Config, zerolog.Logger, error) {
	_ = godotenv.Load()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		if os.IsNotExist(err) {
			cfg = config.Default()
		} else {
			return nil, zerolog.Logger{}, fmt.Errorf("load config: %w", err)
		}
	}

	log, err := logger.Init(cfg.Log)
	if err != nil {
		return nil, zerolog.Logger{}, err
	}
	return cfg, log, nil
}
