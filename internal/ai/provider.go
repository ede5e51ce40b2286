package ai

import (
	"context"
)

// Provider defines the interface for content analysis backends
type Provider interface {
	// Name returns the provider name (e.g., "gemini", "openai", "ollama")
	Name() string

	// Complete performs a single text completion
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// ValidateConfig validates the provider configuration
	ValidateConfig() error

	// Close cleans up provider resources
	Close() error
}
