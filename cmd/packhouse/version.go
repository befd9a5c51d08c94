package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// serverVersion is set at build time via -ldflags.
var serverVersion = "0.1.0-dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the packhouse version",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("packhouse %s\n", serverVersion)
	},
}
