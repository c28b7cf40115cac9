package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// These variables are set at build time using -ldflags
var (
	version   = "dev"
	buildDate = "unknown"
	gitCommit = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("codeinsight %s\n", version)
		fmt.Printf("  go:         %s\n", runtime.Version())
		fmt.Printf("  build date: %s\n", buildDate)
		if gitCommit != "" {
			fmt.Printf("  commit:     %s\n", gitCommit)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
