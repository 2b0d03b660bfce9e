// Package main provides simd, the meme token market simulator:
// - run: live scheduler with HTTP status, metrics and market feed
// - simulate: offline run on a fake clock with an in-memory market
// - migrate: apply schema migrations for the configured backend
// - export: write a token's price history or trades as CSV
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"memelaunch-sim/internal/config"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "simd",
		Short: "Meme token launch market simulator",
		Long: `simd simulates a market of freshly launched meme tokens.

Each token trades on an exponential bonding curve against a population of
scripted agents, while a per-token event timeline steers it toward its
pre-drawn destiny: death, rug pull, survival or graduation.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (defaults plus MEMESIM_* env when empty)")

	// Add subcommands
	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newSimulateCmd(),
		newMigrateCmd(),
		newExportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "simd version %s\n", version)
		},
	}
}

// loadConfig loads the config named by the --config flag.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
