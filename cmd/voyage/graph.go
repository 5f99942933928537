package main

import (
	"os"

	"github.com/aretw0/voyage/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [session-id]",
	Short: "Export the conversation graph visualization",
	Long: `Outputs a Mermaid diagram (graph TD) of the conversation states.
With a session ID, the states it visited and its current state are highlighted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		var sessionID string
		if len(args) > 0 {
			sessionID = args[0]
		}
		return cli.PrintGraph(cmd.Context(), app.Store, sessionID, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
