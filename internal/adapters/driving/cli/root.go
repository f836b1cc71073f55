// Package cli provides the coursefind command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/coursefind-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "coursefind",
	Short: "Semantic search over a course catalogue",
	Long: `coursefind scrapes a course catalogue, builds a local vector index
over it, and answers natural-language questions about the courses using
retrieval-augmented generation.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default ~/.coursefind/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
