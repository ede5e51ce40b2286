package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/yildizm/QRStudio/internal/ai"
	"github.com/yildizm/QRStudio/internal/ai/providers/gemini"
	"github.com/yildizm/QRStudio/internal/ai/providers/ollama"
	"github.com/yildizm/QRStudio/internal/ai/providers/openai"
	"github.com/yildizm/QRStudio/internal/analyzer"
	"github.com/yildizm/QRStudio/internal/config"
	"github.com/yildizm/QRStudio/internal/i18n"
	"github.com/yildizm/QRStudio/internal/logger"
)

// healthChecker is implemented by providers that can check their endpoint
type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

// newAnalyzer builds the content analyzer for cfg. A provider that cannot
// be created is logged and left out, so every analysis falls back instead
// of failing. The returned func releases the provider.
func newAnalyzer(ctx context.Context, cfg *config.Config, log *logger.Logger) (*analyzer.Analyzer, func()) {
	provider, err := createAIProvider(ctx, &cfg.AI)
	if err != nil {
		log.WarnWithFields("AI provider unavailable, analysis will fall back", []logger.Field{
			logger.F("provider", cfg.AI.Provider),
			logger.Error(err),
		})
		// reset so the analyzer sees an untyped nil
		provider = nil
	}

	opts := analyzer.Options{
		Provider:    provider,
		Translator:  i18n.New(cfg.Analysis.Language),
		Logger:      log.WithComponent("analyzer"),
		Model:       cfg.AI.Model,
		Temperature: cfg.AI.Temperature,
		Timeout:     cfg.AI.Timeout,
	}

	closeFn := func() {
		if provider == nil {
			return
		}
		if err := provider.Close(); err != nil {
			log.Debug("failed to close provider: %v", err)
		}
	}

	return analyzer.New(opts), closeFn
}

// createAIProvider creates an AI provider based on configuration.
func createAIProvider(ctx context.Context, aiConfig *config.AIConfig) (ai.Provider, error) {
	switch strings.ToLower(aiConfig.Provider) {
	case "", "gemini":
		return createGeminiProvider(ctx, aiConfig)
	case "openai":
		return createOpenAIProvider(aiConfig)
	case "ollama":
		return createOllamaProvider(aiConfig)
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", aiConfig.Provider)
	}
}

// createGeminiProvider creates a Gemini provider with configuration.
func createGeminiProvider(ctx context.Context, aiConfig *config.AIConfig) (ai.Provider, error) {
	geminiConfig := gemini.DefaultConfig()
	geminiConfig.APIKey = aiConfig.APIKey
	geminiConfig.BaseURL = aiConfig.Endpoint
	geminiConfig.MaxRetries = aiConfig.MaxRetries
	geminiConfig.Temperature = aiConfig.Temperature

	// Apply overrides only when configured
	if aiConfig.Model != "" {
		geminiConfig.DefaultModel = aiConfig.Model
	}
	if aiConfig.Timeout > 0 {
		geminiConfig.Timeout = aiConfig.Timeout
	}

	return gemini.New(ctx, geminiConfig)
}

// createOpenAIProvider creates an OpenAI provider with configuration.
func createOpenAIProvider(aiConfig *config.AIConfig) (ai.Provider, error) {
	openaiConfig := openai.DefaultConfig()
	openaiConfig.APIKey = aiConfig.APIKey
	openaiConfig.MaxRetries = aiConfig.MaxRetries

	// Apply overrides only when configured
	if aiConfig.Endpoint != "" {
		openaiConfig.BaseURL = aiConfig.Endpoint
	}
	if aiConfig.Model != "" {
		openaiConfig.DefaultModel = aiConfig.Model
	}
	if aiConfig.Timeout > 0 {
		openaiConfig.Timeout = aiConfig.Timeout
	}
	if aiConfig.Temperature > 0 {
		openaiConfig.DefaultTemperature = aiConfig.Temperature
	}

	return openai.New(openaiConfig)
}

// createOllamaProvider creates an Ollama provider with configuration.
func createOllamaProvider(aiConfig *config.AIConfig) (ai.Provider, error) {
	ollamaConfig := ollama.DefaultConfig()
	ollamaConfig.RetryAttempts = aiConfig.MaxRetries

	// Apply overrides only when configured
	if aiConfig.Endpoint != "" {
		ollamaConfig.BaseURL = aiConfig.Endpoint
	}
	if aiConfig.Model != "" {
		ollamaConfig.DefaultModel = aiConfig.Model
	}
	if aiConfig.Timeout > 0 {
		ollamaConfig.Timeout = aiConfig.Timeout
	}
	if aiConfig.Temperature > 0 {
		ollamaConfig.DefaultTemperature = aiConfig.Temperature
	}

	return ollama.New(ollamaConfig)
}

// checkProvider checks the configured provider when it supports a health check
func checkProvider(ctx context.Context, aiConfig *config.AIConfig) error {
	provider, err := createAIProvider(ctx, aiConfig)
	if err != nil {
		return err
	}
	defer func() { _ = provider.Close() }()

	checker, ok := provider.(healthChecker)
	if !ok {
		return nil
	}
	return checker.HealthCheck(ctx)
}
