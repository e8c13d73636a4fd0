// Package main provides the command-line interface for ipvsim.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ipvsim",
	Short: "ipvsim runs address traces through a set-associative cache model",
	Long: `ipvsim runs address traces through a set-associative cache model ` +
		`and reports hit, miss, and eviction statistics. The cache can use ` +
		`the IPV (Insertion/Promotion Vector) replacement policy or plain ` +
		`LRU.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
