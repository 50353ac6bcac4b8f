// Package openai implements the embedding gateway against an
// OpenAI-compatible /embeddings endpoint. LM Studio, Ollama, llama.cpp
// and the hosted OpenAI API all speak this format.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pfranklin/memvault/memory"
)

// Config configures the embedding gateway.
type Config struct {
	// BaseURL is the API root, e.g. "http://localhost:1234/v1".
	BaseURL string

	// APIKey is sent as a bearer token when set. Local servers usually
	// ignore it.
	APIKey string

	// Model is the embedding model name. LM Studio ignores it.
	Model string

	// Dimensions is the vector size the model produces.
	Dimensions int

	// HTTPClient overrides the default client (120s timeout).
	HTTPClient *http.Client

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// Embedder is the OpenAI-compatible implementation of memory.Embedder.
type Embedder struct {
	baseURL string
	apiKey  string
	model   string
	dims    int
	client  *http.Client
	logger  *slog.Logger
}

// New creates an embedding gateway from cfg.
func New(cfg Config) *Embedder {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:1234/v1"
	}
	model := cfg.Model
	if model == "" {
		model = "local-model"
	}
	dims := cfg.Dimensions
	if dims <= 0 {
		dims = 384
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Embedder{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   model,
		dims:    dims,
		client:  client,
		logger:  logger.With("component", "embedder"),
	}
}

type embeddingRequest struct {
	Input string `json:"input"`
	Model string `json:"model"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Embed requests an embedding for text. All failure modes, network,
// non-2xx status, and malformed payloads, wrap memory.ErrEmbeddingService.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embeddingRequest{Input: text, Model: e.model})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", memory.ErrEmbeddingService, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", memory.ErrEmbeddingService, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", memory.ErrEmbeddingService, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", memory.ErrEmbeddingService, err)
	}

	var parsed embeddingResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response (status %d): %v", memory.ErrEmbeddingService, resp.StatusCode, err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("%w: %s", memory.ErrEmbeddingService, parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", memory.ErrEmbeddingService, resp.StatusCode)
	}
	if len(parsed.Data) == 0 || len(parsed.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: empty embedding in response", memory.ErrEmbeddingService)
	}

	embedding := parsed.Data[0].Embedding
	if len(embedding) != e.dims {
		// Dimensionality is a configuration property; the index rejects
		// mismatched vectors, so surface the misconfiguration loudly.
		e.logger.Warn("embedding size differs from configured dimensions",
			"got", len(embedding), "configured", e.dims)
	}
	return embedding, nil
}

// Dimensions returns the configured embedding size.
func (e *Embedder) Dimensions() int {
	return e.dims
}
