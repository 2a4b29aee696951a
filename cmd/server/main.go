// Package main is the entry point for the rpg-campaign server and tools
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-campaign/cmd/server/client"
)

var rootCmd = &cobra.Command{
	Use:   "rpg-campaign",
	Short: "RPG Campaign battle server",
	Long: `RPG Campaign resolves battle rounds: timed status effects on participants,
their decay, and the initiative and mana they change.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(scenarioCmd)
	rootCmd.AddCommand(contentCmd)
	rootCmd.AddCommand(client.ClientCmd)
}
