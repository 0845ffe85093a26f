// Package llm provides completion and embedding clients for
// OpenAI-compatible and Anthropic endpoints.
package llm

import (
	"context"
)

// CompletionClient is the black-box prompt-to-text capability used by the
// SQL generator. Use this interface for dependency injection to enable
// mocking in tests.
type CompletionClient interface {
	// Complete generates a chat completion for the given system prompt
	// and user text. Temperature 0 gives deterministic sampling.
	Complete(ctx context.Context, systemPrompt, userText string, temperature float64) (string, error)

	// GetModel returns the configured model name.
	GetModel() string
}

// EmbeddingClient is the black-box text-to-vector capability used by the
// reason indexer and the semantic search engine.
type EmbeddingClient interface {
	// CreateEmbedding generates an embedding vector for one input.
	CreateEmbedding(ctx context.Context, input string) ([]float32, error)

	// CreateEmbeddings generates embeddings for multiple inputs in one
	// call, in input order.
	CreateEmbeddings(ctx context.Context, inputs []string) ([][]float32, error)
}

// Compile-time interface checks.
var (
	_ CompletionClient = (*Client)(nil)
	_ EmbeddingClient  = (*Client)(nil)
	_ CompletionClient = (*AnthropicClient)(nil)
)
