// Package gemini implements the analysis provider on the Google Gen AI SDK.
package gemini

import (
	"context"
	"errors"
	"net/http"
	"time"

	"google.golang.org/genai"

	"github.com/yildizm/QRStudio/internal/ai"
)

// Provider calls models.generateContent through genai.Client
type Provider struct {
	config *Config
	client *genai.Client
}

// New creates a Gemini provider. The client is built eagerly so that a
// malformed configuration fails before the first keystroke is analyzed.
func New(ctx context.Context, config *Config) (*Provider, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     config.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: config.Timeout},
	}
	if config.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: config.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeConfiguration, "failed to create Gemini client", "gemini", err)
	}

	return &Provider{config: config, client: client}, nil
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "gemini"
}

// Complete sends one generateContent call, retrying transient failures
func (p *Provider) Complete(ctx context.Context, req *ai.CompletionRequest) (*ai.CompletionResponse, error) {
	if err := ai.ValidateCompletionRequest(req); err != nil {
		return nil, err
	}

	model := req.Model
	if model == "" {
		model = p.config.DefaultModel
	}

	prompt := req.Prompt
	if req.Context != "" {
		prompt = "Context: " + req.Context + "\n\n" + prompt
	}

	genConfig := p.buildConfig(req)
	start := time.Now()

	var resp *genai.GenerateContentResponse
	err := ai.Retry(ctx, p.config.retryConfig(), func() error {
		var genErr error
		resp, genErr = p.client.Models.GenerateContent(ctx, model, genai.Text(prompt), genConfig)
		return classify(ctx, genErr)
	})
	if err != nil {
		return nil, err
	}

	return toCompletionResponse(resp, model, req.RequestID, start), nil
}

// ValidateConfig validates the provider configuration
func (p *Provider) ValidateConfig() error {
	return p.config.Validate()
}

// Close is a no-op; genai.Client holds no resources beyond its HTTP client
func (p *Provider) Close() error {
	return nil
}

func (p *Provider) buildConfig(req *ai.CompletionRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}

	if req.SystemPrompt != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}
	if req.JSONMode {
		cfg.ResponseMIMEType = "application/json"
	}

	temperature := req.Temperature
	if temperature == 0 {
		temperature = p.config.Temperature
	}
	if temperature > 0 {
		cfg.Temperature = genai.Ptr(float32(temperature))
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}

	return cfg
}

func toCompletionResponse(resp *genai.GenerateContentResponse, model, requestID string, start time.Time) *ai.CompletionResponse {
	out := &ai.CompletionResponse{
		Model:     model,
		RequestID: requestID,
		CreatedAt: start,
	}
	if resp == nil {
		return out
	}

	out.Content = resp.Text()
	if resp.ModelVersion != "" {
		out.Model = resp.ModelVersion
	}
	if len(resp.Candidates) > 0 && resp.Candidates[0] != nil {
		out.FinishReason = string(resp.Candidates[0].FinishReason)
	}
	if u := resp.UsageMetadata; u != nil {
		out.Usage = &ai.TokenUsage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}

	return out
}

// classify maps SDK errors onto provider errors so ai.Retry can decide
func classify(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		pe := ai.NewHTTPError("gemini", apiErr.Code, apiErr.Message)
		pe.Cause = err
		return pe
	}

	return ai.NewProviderErrorWithCause(ai.ErrTypeNetwork, "request failed", "gemini", err)
}
