package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var noColor bool

var rootCmd = &cobra.Command{
	Use:     "apexcoach",
	Short:   "Conversational spreadsheet mock-interview coach",
	Version: version,
	Long: `apexcoach runs AI-driven mock interviews for spreadsheet skills:
it asks scenario questions, scores each answer against a skill rubric,
tracks running averages, and collects submitted workbook artifacts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(rubricCmd)
	rootCmd.AddCommand(artifactsCmd)

	if err := rootCmd.Execute(); err != nil {
		printError("%v", err)
		os.Exit(1)
	}
}
