package commands

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	memoryStore bool
	verbose     bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "contractdesk",
	Short: "contractdesk - client and contract dashboard for energy and telephony agencies",
	Long: `contractdesk unified CLI

Stores clients and their supply contracts and computes the dashboard:
commission totals, contracts about to expire, provider tallies and the
six-month new-client trend.

Usage:
  go run ./cmd/contractdesk [command]

Examples:
  go run ./cmd/contractdesk migrate up
  go run ./cmd/contractdesk api
  go run ./cmd/contractdesk report --year 2024 --month 3
  go run ./cmd/contractdesk search rossi`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if memoryStore {
			os.Setenv("STORE", "memory")
		}
		if verbose {
			os.Setenv("LOG_LEVEL", "debug")
		}
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&memoryStore, "memory", false, "use the in-memory store instead of PostgreSQL")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
