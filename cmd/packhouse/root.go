package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/packhouse/packhouse/internal/adapters/logging"
	"github.com/packhouse/packhouse/internal/ports"
)

var (
	// Global flags
	settingsFile string
	verbose      bool
	jsonLogs     bool
)

var rootCmd = &cobra.Command{
	Use:   "packhouse",
	Short: "Repository management server tooling",
	Long: `Packhouse manages content repositories and the importer/distributor
plugins that move content in and out of them.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&settingsFile, "settings", "", "settings file (default: /etc/packhouse/packhouse.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "log in JSON format")

	rootCmd.AddCommand(versionCmd)
}

// buildLogger creates the CLI logger from global flags.
func buildLogger() ports.Logger {
	level := ports.LevelWarn
	if verbose {
		level = ports.LevelDebug
	}
	return logging.NewConsoleLogger(
		logging.WithLevel(level),
		logging.WithJSONFormat(jsonLogs),
	)
}
