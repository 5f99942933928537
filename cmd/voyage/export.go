package main

import (
	"os"

	"github.com/aretw0/voyage/internal/cli"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <session-id>",
	Short: "Write a session's travel plan to a text file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		dir := app.Config.ExportDir
		if cmd.Flags().Changed("dir") {
			dir, _ = cmd.Flags().GetString("dir")
		}
		stdout, _ := cmd.Flags().GetBool("stdout")

		_, err = cli.ExportPlan(cmd.Context(), app.Engine, args[0], dir, stdout, os.Stdout)
		return err
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().String("dir", ".", "Directory to write the plan to (overrides config)")
	exportCmd.Flags().Bool("stdout", false, "Print the plan instead of writing a file")
}
