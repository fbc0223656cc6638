package cmd

import (
	"fmt"
	"os"

	"github.com/dt-pm-tools/tracker-port/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	appConfig config.Config
	version   = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:     "tracker-port",
	Short:   "Migrate Bitbucket/Google Code issue exports to GitHub",
	Long:    `A CLI tool that converts issue-tracker export JSON into a line-oriented directive format, and submits directive files to GitHub's issue-import API. The directive text is the durable interchange artifact between the two steps.`,
	Version: version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.tracker-port.yaml)")
}

// loadConfig loads and validates configuration. Commands that need GitHub access call this.
func loadConfig() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w\nRun 'tracker-port config' to set up credentials", err)
	}
	appConfig = cfg
	return nil
}
