package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/voyage"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of voyage",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("voyage version %s\n", strings.TrimSpace(voyage.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
