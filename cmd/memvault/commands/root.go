// Package commands implements the memvault CLI using cobra.
package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command with all subcommands registered.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "memvault",
		Short: "memvault - personal memory with semantic recall",
		Long: `memvault stores free-text notes and answers natural-language
questions about them, grounded in the most relevant notes.

Examples:
  memvault add "Finished quarterly report"
  memvault ask "what did I finish recently"
  memvault serve
  memvault reconcile`,
		Version: version,
	}

	rootCmd.AddCommand(
		newAddCmd(),
		newAskCmd(),
		newServeCmd(),
		newReconcileCmd(),
	)

	rootCmd.PersistentFlags().StringP("config", "c", "", "path to the configuration file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	return rootCmd
}
