// Package config loads memvault configuration from a YAML file, a .env
// file, and environment variables, in increasing precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EmbeddingConfig configures the embedding gateway.
type EmbeddingConfig struct {
	BaseURL    string `yaml:"base_url"`
	APIKey     string `yaml:"api_key"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
	CacheMB    int    `yaml:"cache_mb"`
}

// CompletionConfig configures the completion gateway.
type CompletionConfig struct {
	// Provider selects the gateway: "openai" (any OpenAI-compatible
	// endpoint, LM Studio included) or "anthropic".
	Provider    string  `yaml:"provider"`
	BaseURL     string  `yaml:"base_url"`
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// Config is the full memvault configuration.
type Config struct {
	// DataDir holds the notes database and, when PersistIndex is set,
	// the vector index.
	DataDir string `yaml:"data_dir"`

	// Listen is the serve address, e.g. ":5050".
	Listen string `yaml:"listen"`

	// PersistIndex writes the vector index to disk instead of keeping
	// it in memory. Either way the index can be rebuilt from the notes
	// database with the reconcile command.
	PersistIndex bool `yaml:"persist_index"`

	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Completion CompletionConfig `yaml:"completion"`
}

// Default returns the configuration used when nothing is set: a local
// LM Studio style endpoint for both gateways and data under ~/.memvault.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DataDir: filepath.Join(home, ".memvault"),
		Listen:  ":5050",
		Embedding: EmbeddingConfig{
			BaseURL:    "http://localhost:1234/v1",
			Model:      "local-model", // LM Studio ignores the name
			Dimensions: 384,
			CacheMB:    64,
		},
		Completion: CompletionConfig{
			Provider:    "openai",
			BaseURL:     "http://localhost:1234/v1",
			Temperature: 0.7,
			MaxTokens:   1024,
		},
	}
}

// Load reads configuration. A .env in the working directory is loaded
// first (missing is fine), then the YAML file at path (or ./memvault.yaml
// when path is empty and that file exists), then environment overrides.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		if _, err := os.Stat("memvault.yaml"); err == nil {
			path = "memvault.yaml"
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("MEMVAULT_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("MEMVAULT_LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("MEMVAULT_EMBEDDING_URL"); v != "" {
		cfg.Embedding.BaseURL = v
	}
	if v := os.Getenv("MEMVAULT_COMPLETION_URL"); v != "" {
		cfg.Completion.BaseURL = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		if cfg.Embedding.APIKey == "" {
			cfg.Embedding.APIKey = v
		}
		if cfg.Completion.APIKey == "" {
			cfg.Completion.APIKey = v
		}
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" && cfg.Completion.Provider == "anthropic" {
		cfg.Completion.APIKey = v
	}
}
