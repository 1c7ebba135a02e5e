package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "stratum",
		Short: "Server-driven layer composition for web views",
		Long: `Stratum swaps named content layers in and out of container
elements. The server owns the document tree, fetches HTML fragments on the
client's behalf, reconciles them into containers, and mirrors activations
into browser history. The browser runs only a thin client.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
