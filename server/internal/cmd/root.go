// Package cmd wires the triage service and its offline tools into a CLI.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var projectRoot string

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "triage",
	Short: "Score patient-reported outcome surveys into clinical triage reports",
	Long: `triage serves the survey scoring API and offers offline tools to score
answer files and validate survey catalogs.

Configuration is read from <root>/config/config.yaml and TRIAGE_* environment
variables.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.PersistentFlags().StringVar(&projectRoot, "root", ".", "project root holding the config directory")
}
