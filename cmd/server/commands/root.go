package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Portfolio valuation and performance service",
	Long: `Portfolio backend

Tracks an owner's assets and reports valuation, performance ranking
and allocation over REST and gRPC.

Examples:
  go run ./cmd/server serve
  go run ./cmd/server migrate
  go run ./cmd/server token --owner 00000000-0000-0000-0000-00000000d3e0`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and runs it
func Execute() error {
	return rootCmd.Execute()
}
