package cmd

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "codeinsight",
	Short: "LLM-powered repository analysis",
	Long: `CodeInsight clones a repository, builds an embedding index over its
source files, and uses a Large Language Model to produce an analysis
report, answers to questions about the codebase, generated documentation,
and refactoring suggestions.

Available commands:
  analyze  - Run the analysis pipeline against a repository
  version  - Print version information

Typical usage: codeinsight analyze --repo https://github.com/org/project`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
