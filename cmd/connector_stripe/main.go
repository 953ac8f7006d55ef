package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "connector-stripe",
	Short: "Read-only Stripe billing connector",
	Long: `connector-stripe exposes read-only views of a Stripe account over HTTP:
balance, charges, customers, payouts with their remitted charges, the
unremitted funds report and invoice matched charges per project.

Running it without a subcommand starts the HTTP server.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

var configName string

func init() {
	rootCmd.PersistentFlags().StringVar(&configName, "config", "connector_stripe", "Base name of the .env file looked up in ./configs and .")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}
