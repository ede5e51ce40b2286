package gemini

import (
	"fmt"
	"net/url"
	"time"

	"github.com/yildizm/QRStudio/internal/ai"
)

const (
	DefaultModel      = "gemini-3-flash-preview"
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 3
	DefaultRetryDelay = time.Second
)

// Config holds Gemini API settings
type Config struct {
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url,omitempty"` // empty selects the public endpoint

	DefaultModel string        `json:"default_model"`
	Temperature  float64       `json:"temperature,omitempty"` // 0 leaves the model default
	Timeout      time.Duration `json:"timeout"`
	MaxRetries   int           `json:"max_retries"`
	RetryDelay   time.Duration `json:"retry_delay"`
}

// DefaultConfig returns a default Gemini configuration
func DefaultConfig() *Config {
	return &Config{
		DefaultModel: DefaultModel,
		Timeout:      DefaultTimeout,
		MaxRetries:   DefaultMaxRetries,
		RetryDelay:   DefaultRetryDelay,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ai.NewConfigurationError("gemini", "api_key", "API key is required (set GEMINI_API_KEY)")
	}

	if c.BaseURL != "" {
		if _, err := url.Parse(c.BaseURL); err != nil {
			return ai.NewConfigurationError("gemini", "base_url", fmt.Sprintf("invalid base URL: %v", err))
		}
	}

	if c.DefaultModel == "" {
		return ai.NewConfigurationError("gemini", "default_model", "default model is required")
	}

	if c.Temperature < 0 || c.Temperature > 2 {
		return ai.NewConfigurationError("gemini", "temperature", "temperature must be between 0 and 2")
	}

	if c.Timeout <= 0 {
		return ai.NewConfigurationError("gemini", "timeout", "timeout must be positive")
	}

	if c.MaxRetries < 0 {
		return ai.NewConfigurationError("gemini", "max_retries", "max retries cannot be negative")
	}

	return nil
}

func (c *Config) retryConfig() ai.RetryConfig {
	return ai.RetryConfig{
		MaxRetries:   c.MaxRetries,
		InitialDelay: c.RetryDelay,
		MaxDelay:     30 * time.Second,
	}
}
