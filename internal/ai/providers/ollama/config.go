package ollama

import (
	"time"

	"github.com/yildizm/QRStudio/internal/ai"
)

// Config holds Ollama-specific configuration
type Config struct {
	// BaseURL is the Ollama API endpoint
	BaseURL string `json:"base_url"`

	// DefaultModel is the default model to use if none specified
	DefaultModel string `json:"default_model"`

	// Timeout for HTTP requests
	Timeout time.Duration `json:"timeout"`

	// DefaultTemperature for requests
	DefaultTemperature float64 `json:"default_temperature"`

	// RetryAttempts for failed requests
	RetryAttempts int `json:"retry_attempts"`

	// RetryDelay before the first retry, doubled on each attempt
	RetryDelay time.Duration `json:"retry_delay"`
}

// DefaultConfig returns a default Ollama configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL:            "http://localhost:11434",
		DefaultModel:       "llama3.2",
		Timeout:            30 * time.Second,
		DefaultTemperature: 0.2,
		RetryAttempts:      3,
		RetryDelay:         1 * time.Second,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ai.NewConfigurationError("ollama", "base_url", "base URL is required")
	}

	if c.DefaultModel == "" {
		return ai.NewConfigurationError("ollama", "default_model", "default model is required")
	}

	if c.Timeout <= 0 {
		return ai.NewConfigurationError("ollama", "timeout", "timeout must be positive")
	}

	if c.DefaultTemperature < 0 || c.DefaultTemperature > 2 {
		return ai.NewConfigurationError("ollama", "default_temperature", "temperature must be between 0 and 2")
	}

	if c.RetryAttempts < 0 {
		return ai.NewConfigurationError("ollama", "retry_attempts", "retry attempts cannot be negative")
	}

	return nil
}

// retryConfig converts the retry settings into the shared backoff policy
func (c *Config) retryConfig() ai.RetryConfig {
	return ai.RetryConfig{
		MaxRetries:   c.RetryAttempts,
		InitialDelay: c.RetryDelay,
		MaxDelay:     10 * c.RetryDelay,
	}
}
