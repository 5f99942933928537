package main

import (
	"fmt"
	"os"

	"github.com/aretw0/voyage/internal/cli"
	"github.com/aretw0/voyage/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "voyage",
	Short: "Voyage is a conversational travel planner",
	Long: `Voyage asks five questions about your trip, suggests three destinations
and writes a day-by-day itinerary for the one you pick, using OpenAI or Gemini.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("store", "", "Session store: memory, file or redis (overrides config)")
}

// loadConfig reads the configuration selected by the persistent flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	var opts []config.Option
	if path != "" {
		opts = append(opts, config.WithFile(path))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		return nil, err
	}

	if kind, _ := cmd.Flags().GetString("store"); kind != "" {
		cfg.Store.Kind = kind
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// loadApp wires the application for a command. Callers must Close it.
func loadApp(cmd *cobra.Command) (*cli.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	debug, _ := cmd.Flags().GetBool("debug")
	return cli.NewApp(cfg, cli.WithDebug(debug))
}
