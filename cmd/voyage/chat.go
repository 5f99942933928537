package main

import (
	"os"

	"github.com/aretw0/voyage/internal/cli"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Plan a trip interactively in the terminal",
	Long: `Starts (or resumes, with --session) a planning conversation.
Type /help during the chat for commands. Use --json for line-delimited JSON IO.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		sessionID, _ := cmd.Flags().GetString("session")
		jsonMode, _ := cmd.Flags().GetBool("json")
		noColor, _ := cmd.Flags().GetBool("no-color")

		return cli.RunChat(cmd.Context(), app, cli.ChatOptions{
			SessionID: sessionID,
			JSON:      jsonMode,
			NoColor:   noColor,
		}, os.Stdin, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringP("session", "s", "", "Session ID to create or resume")
	chatCmd.Flags().Bool("json", false, "Read and write JSON lines instead of text")
	chatCmd.Flags().Bool("no-color", false, "Disable the banner and markdown rendering")
}
