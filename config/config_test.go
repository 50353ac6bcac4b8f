package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pfranklin/memvault/config"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()

	if cfg.Listen != ":5050" {
		t.Errorf("Listen = %q", cfg.Listen)
	}
	if cfg.Embedding.BaseURL != "http://localhost:1234/v1" {
		t.Errorf("Embedding.BaseURL = %q", cfg.Embedding.BaseURL)
	}
	if cfg.Completion.Provider != "openai" {
		t.Errorf("Completion.Provider = %q", cfg.Completion.Provider)
	}
	if cfg.Embedding.Dimensions != 384 {
		t.Errorf("Embedding.Dimensions = %d", cfg.Embedding.Dimensions)
	}
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memvault.yaml")
	yaml := `
listen: ":9090"
persist_index: true
embedding:
  base_url: "http://models.internal:8000/v1"
  dimensions: 768
completion:
  provider: anthropic
  model: claude-sonnet-4-20250514
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Listen != ":9090" {
		t.Errorf("Listen = %q", cfg.Listen)
	}
	if !cfg.PersistIndex {
		t.Error("PersistIndex not set")
	}
	if cfg.Embedding.BaseURL != "http://models.internal:8000/v1" {
		t.Errorf("Embedding.BaseURL = %q", cfg.Embedding.BaseURL)
	}
	if cfg.Embedding.Dimensions != 768 {
		t.Errorf("Embedding.Dimensions = %d", cfg.Embedding.Dimensions)
	}
	if cfg.Completion.Provider != "anthropic" {
		t.Errorf("Completion.Provider = %q", cfg.Completion.Provider)
	}
	// Fields absent from the file keep their defaults.
	if cfg.Completion.Temperature != 0.7 {
		t.Errorf("Completion.Temperature = %v, want default", cfg.Completion.Temperature)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memvault.yaml")
	if err := os.WriteFile(path, []byte("listen: \":9090\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("MEMVAULT_LISTEN", ":7070")
	t.Setenv("MEMVAULT_DATA_DIR", "/tmp/memvault-test")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Listen != ":7070" {
		t.Errorf("Listen = %q, env must win over file", cfg.Listen)
	}
	if cfg.DataDir != "/tmp/memvault-test" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
}

func TestLoad_AnthropicKeyOnlyForAnthropicProvider(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// Default provider is openai; the anthropic key must not leak in.
	if cfg.Completion.APIKey == "sk-ant-test" {
		t.Error("anthropic key applied to non-anthropic provider")
	}
}

func TestLoad_MissingFileErrors(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for explicit missing config file")
	}
}
