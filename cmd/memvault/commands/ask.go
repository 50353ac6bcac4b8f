package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pfranklin/memvault/memory"
)

func newAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question grounded in your notes",
		Long: `Ask a natural-language question. The most relevant notes are
retrieved and handed to the completion model for a grounded answer.

Examples:
  memvault ask "what did I finish recently"
  memvault ask --top-k 10 "what happened this week"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAsk,
	}
	cmd.Flags().IntP("top-k", "k", memory.DefaultTopK, "how many notes to retrieve for grounding")
	cmd.Flags().Bool("sources", false, "print the retrieved notes after the answer")
	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return fmt.Errorf("question must not be empty")
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

	topK, _ := cmd.Flags().GetInt("top-k")
	res, err := coord.QueryNotes(cmd.Context(), query, memory.WithTopK(topK))
	if err != nil {
		return err
	}

	fmt.Println(res.Answer)

	if showSources, _ := cmd.Flags().GetBool("sources"); showSources && len(res.Sources) > 0 {
		fmt.Println("\nSources:")
		for _, n := range res.Sources {
			fmt.Printf("  [%s] %s\n", n.Timestamp, n.Content)
		}
	}
	return nil
}
