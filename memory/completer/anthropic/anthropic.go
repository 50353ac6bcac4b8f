// Package anthropic implements the completion gateway on the Anthropic
// Messages API.
package anthropic

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/pfranklin/memvault/memory"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "claude-sonnet-4-20250514"

// Completer is the Anthropic implementation of memory.Completer.
type Completer struct {
	client    *anthropic.Client
	model     string
	maxTokens int64
}

// New creates a Completer over an existing Anthropic client. An empty
// model selects DefaultModel; a non-positive maxTokens defaults to 1024.
func New(client *anthropic.Client, model string, maxTokens int64) *Completer {
	if model == "" {
		model = DefaultModel
	}
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &Completer{client: client, model: model, maxTokens: maxTokens}
}

// Complete sends the prompt as a single user message and returns the
// concatenated text blocks of the response.
func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: %v", memory.ErrCompletionService, err)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return "", fmt.Errorf("%w: response contained no text", memory.ErrCompletionService)
	}
	return text, nil
}
