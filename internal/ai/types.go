package ai

import (
	"context"
	"time"
)

// CompletionRequest represents a request for text completion
type CompletionRequest struct {
	// Prompt is the input text for completion
	Prompt string `json:"prompt"`

	// Context provides additional context for the completion
	Context string `json:"context,omitempty"`

	// SystemPrompt provides system-level instructions
	SystemPrompt string `json:"system_prompt,omitempty"`

	// Model specifies which model to use (provider-specific)
	Model string `json:"model,omitempty"`

	// MaxTokens limits the response length
	MaxTokens int `json:"max_tokens,omitempty"`

	// Temperature controls randomness (0.0 to 2.0), 0 selects the provider default
	Temperature float64 `json:"temperature,omitempty"`

	// JSONMode asks the provider to constrain output to a JSON object
	JSONMode bool `json:"json_mode,omitempty"`

	// RequestID for request tracking
	RequestID string `json:"request_id,omitempty"`
}

// CompletionResponse represents the response from a completion request
type CompletionResponse struct {
	// Content is the generated text
	Content string `json:"content"`

	// FinishReason indicates why the completion finished
	FinishReason string `json:"finish_reason"`

	// Usage contains token usage information
	Usage *TokenUsage `json:"usage"`

	// Model indicates which model was used
	Model string `json:"model"`

	// RequestID matches the original request
	RequestID string `json:"request_id,omitempty"`

	// CreatedAt timestamp
	CreatedAt time.Time `json:"created_at"`
}

// TokenUsage tracks token consumption
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// RetryConfig defines retry behavior shared by the providers
type RetryConfig struct {
	// MaxRetries is the number of attempts after the first one
	MaxRetries int `json:"max_retries"`

	// InitialDelay is the delay before the first retry
	InitialDelay time.Duration `json:"initial_delay"`

	// MaxDelay caps the exponential backoff
	MaxDelay time.Duration `json:"max_delay"`
}

// DefaultRetryConfig returns three retries starting at one second
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:   3,
		InitialDelay: time.Second,
		MaxDelay:     10 * time.Second,
	}
}

// Backoff returns the delay before retry number attempt (0-based)
func (c RetryConfig) Backoff(attempt int) time.Duration {
	delay := c.InitialDelay
	for i := 0; i < attempt; i++ {
		delay *= 2
		if c.MaxDelay > 0 && delay >= c.MaxDelay {
			return c.MaxDelay
		}
	}
	return delay
}

// Retry calls fn until it succeeds, returns a non-retryable error, or the
// attempts are used up. A RateLimitError with RetryAfter overrides the backoff.
func Retry(ctx context.Context, cfg RetryConfig, fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt >= cfg.MaxRetries || !IsRetryableError(err) {
			return err
		}

		delay := cfg.Backoff(attempt)
		if after := retryAfter(err); after > 0 {
			delay = after
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// ValidateCompletionRequest checks the fields every provider relies on
func ValidateCompletionRequest(req *CompletionRequest) error {
	if req == nil {
		return NewValidationError("request", "nil", "completion request is required")
	}
	if req.Prompt == "" {
		return NewValidationError("prompt", req.Prompt, "prompt cannot be empty")
	}
	if req.MaxTokens < 0 {
		return NewValidationError("max_tokens", "negative", "max_tokens cannot be negative")
	}
	if req.Temperature < 0 || req.Temperature > 2 {
		return NewValidationError("temperature", "out of range", "temperature must be between 0 and 2")
	}
	return nil
}
