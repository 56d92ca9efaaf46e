package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play <file>",
	Short: "Open the heist on a document",
	Long:  "Ingest the given document (PDF or plain text) and launch straight into the heist.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("target document: %w", err)
		}
		return runApp(cmd, path)
	},
}
