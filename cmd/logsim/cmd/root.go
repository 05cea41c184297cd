package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "logsim",
	Short: "A cycle-accurate digital logic simulator",
	Long:  `logsim compiles a circuit definition file and simulates it cycle by cycle.`,
}

// Execute runs the root command, exiting with a non-zero status on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
}
