package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newReconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Re-index notes missing from the semantic index",
		Long: `Scan the notes database and re-embed any note that is missing
from the semantic index. This repairs notes left unsearchable by an
embedding or indexing failure during storage, and rebuilds the whole
index from scratch when it is not persisted.`,
		RunE: runReconcile,
	}
}

func runReconcile(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd)

	coord, cleanup, err := buildCoordinator(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	repaired, err := coord.Reconcile(cmd.Context())
	if err != nil {
		return fmt.Errorf("reconcile stopped after %d notes: %w", repaired, err)
	}

	if repaired == 0 {
		fmt.Println("Index is complete; nothing to do.")
	} else {
		fmt.Printf("Re-indexed %d notes.\n", repaired)
	}
	return nil
}
