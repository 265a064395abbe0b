package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vitacheck",
	Short: "Healthcare candidate assessment client",
	Long:  "VitaCheck — terminal client for the timed multi-level healthcare readiness assessment.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: ~/.config/vitacheck/config.yaml)")

	rootCmd.AddCommand(assessCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(versionCmd)
}
