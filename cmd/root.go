package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pixengine",
	Short: "Adaptive assessment engine",
	Long: `pixengine runs adaptive assessments over an item bank: it picks the next
challenge (flash or smart-random), estimates the user's level and scores
certification tests.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides PIXENGINE_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("log-mode", "", "Log mode: dev or prod (overrides config)")

	rootCmd.AddCommand(bankCmd)
	rootCmd.AddCommand(assessmentCmd)
	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(certifyCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(versionCmd)
}
