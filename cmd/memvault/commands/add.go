package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pfranklin/memvault/memory"
)

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <text>",
		Short: "Store a note",
		Long: `Store a free-text note. The note is persisted immediately and
indexed for semantic retrieval.

Examples:
  memvault add "Finished quarterly report"
  memvault add Started budget review`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAdd,
	}
}

func runAdd(cmd *cobra.Command, args []string) error {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return fmt.Errorf("note text must not be empty")
	}

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

	id, err := coord.StoreNote(cmd.Context(), text)
	var partial *memory.PartialStoreError
	if errors.As(err, &partial) {
		fmt.Printf("Stored %s, but indexing failed: %v\nRun `memvault reconcile` once the embedding service is back.\n",
			partial.NoteID, partial.Cause)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("Stored %s\n", id)
	return nil
}
