package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "flowcore",
	Short: "flowcore compiles and runs cross-chain stablecoin payment workflows",
	Long:  `flowcore turns a workflow graph of financial operations into an executable on-chain action sequence, simulates it against the payment controller, and tracks resumable execution runs.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("wallet", "", "Wallet address used for compilation context")
}
