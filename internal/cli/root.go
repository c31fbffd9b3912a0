package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "keepsake",
	Short: "A one-memory-a-day photo journal",
	Long:  "Keepsake records one memory (photo, mood, reflection) per calendar day, paced by a 24-hour cooldown, and keeps your streak. Single Go binary, local storage.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(timelineCmd)
	rootCmd.AddCommand(cardCmd)
}
