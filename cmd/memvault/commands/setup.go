package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/cobra"

	"github.com/pfranklin/memvault/config"
	"github.com/pfranklin/memvault/memory"
	"github.com/pfranklin/memvault/memory/archive/sqlite"
	anthropiccompleter "github.com/pfranklin/memvault/memory/completer/anthropic"
	openaicompleter "github.com/pfranklin/memvault/memory/completer/openai"
	"github.com/pfranklin/memvault/memory/embedder/cached"
	openaiembedder "github.com/pfranklin/memvault/memory/embedder/openai"
	"github.com/pfranklin/memvault/memory/index/chromem"
)

func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Root().PersistentFlags().GetString("config")
	return config.Load(path)
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// buildCoordinator wires the archive, index, and gateways from config.
// The returned cleanup closes the archive.
func buildCoordinator(cfg config.Config, logger *slog.Logger) (*memory.Coordinator, func(), error) {
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, nil, fmt.Errorf("create data dir: %w", err)
	}

	archive, err := sqlite.Open(filepath.Join(cfg.DataDir, "notes.db"))
	if err != nil {
		return nil, nil, err
	}

	var index *chromem.Index
	if cfg.PersistIndex {
		index, err = chromem.NewPersistent(filepath.Join(cfg.DataDir, "index"))
	} else {
		index, err = chromem.New()
	}
	if err != nil {
		archive.Close()
		return nil, nil, err
	}

	embedder, err := cached.New(openaiembedder.New(openaiembedder.Config{
		BaseURL:    cfg.Embedding.BaseURL,
		APIKey:     cfg.Embedding.APIKey,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Logger:     logger,
	}), int64(cfg.Embedding.CacheMB)<<20)
	if err != nil {
		archive.Close()
		return nil, nil, fmt.Errorf("embedding cache: %w", err)
	}

	completer, err := buildCompleter(cfg.Completion, logger)
	if err != nil {
		archive.Close()
		return nil, nil, err
	}

	coord := memory.NewCoordinator(archive, index, embedder, completer)
	return coord, func() { archive.Close() }, nil
}

func buildCompleter(cfg config.CompletionConfig, logger *slog.Logger) (memory.Completer, error) {
	switch cfg.Provider {
	case "", "openai":
		return openaicompleter.New(openaicompleter.Config{
			BaseURL:     cfg.BaseURL,
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			Logger:      logger,
		}), nil
	case "anthropic":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("completion provider anthropic requires ANTHROPIC_API_KEY")
		}
		client := anthropic.NewClient(option.WithAPIKey(cfg.APIKey))
		return anthropiccompleter.New(&client, cfg.Model, int64(cfg.MaxTokens)), nil
	default:
		return nil, fmt.Errorf("unknown completion provider %q", cfg.Provider)
	}
}
