package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/yildizm/QRStudio/internal/ai"
)

// Provider talks to any OpenAI-compatible chat completion API
type Provider struct {
	config *Config
	client openaisdk.Client
}

func New(config *Config) (*Provider, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithBaseURL(baseURL(config.BaseURL)),
		option.WithHTTPClient(&http.Client{Timeout: config.Timeout}),
		// ai.Retry owns retries so the error taxonomy decides what is retried
		option.WithMaxRetries(0),
	}
	if config.OrganizationID != "" {
		opts = append(opts, option.WithOrganization(config.OrganizationID))
	}

	return &Provider{
		config: config,
		client: openaisdk.NewClient(opts...),
	}, nil
}

// baseURL ensures the trailing slash the client resolves paths against
func baseURL(s string) string {
	if strings.HasSuffix(s, "/") {
		return s
	}
	return s + "/"
}

func (p *Provider) Name() string {
	return "openai"
}

func (p *Provider) Complete(ctx context.Context, req *ai.CompletionRequest) (*ai.CompletionResponse, error) {
	if err := ai.ValidateCompletionRequest(req); err != nil {
		return nil, err
	}

	params := p.buildChatParams(req)

	var completion *openaisdk.ChatCompletion
	err := ai.Retry(ctx, p.config.retryConfig(), func() error {
		var sendErr error
		completion, sendErr = p.client.Chat.Completions.New(ctx, params)
		if sendErr != nil {
			return convertError(ctx, sendErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toAIResponse(completion, req.RequestID), nil
}

func (p *Provider) ValidateConfig() error {
	return p.config.Validate()
}

func (p *Provider) Close() error {
	return nil
}

// HealthCheck verifies the API key against the models endpoint
func (p *Provider) HealthCheck(ctx context.Context) error {
	if _, err := p.client.Models.List(ctx); err != nil {
		return convertError(ctx, err)
	}
	return nil
}

func (p *Provider) buildChatParams(req *ai.CompletionRequest) openaisdk.ChatCompletionNewParams {
	model := req.Model
	if model == "" {
		model = p.config.DefaultModel
	}

	temperature := req.Temperature
	if temperature == 0 {
		temperature = p.config.DefaultTemperature
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}

	params := openaisdk.ChatCompletionNewParams{
		Model:       openaisdk.ChatModel(model),
		Messages:    buildMessages(req.SystemPrompt, req.Prompt, req.Context),
		MaxTokens:   openaisdk.Int(int64(maxTokens)),
		Temperature: openaisdk.Float(temperature),
	}
	if req.RequestID != "" {
		params.User = openaisdk.String(req.RequestID)
	}
	if req.JSONMode {
		params.ResponseFormat = openaisdk.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	return params
}

// convertError maps client failures onto the shared error taxonomy
func convertError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	var apiErr *openaisdk.Error
	if !errors.As(err, &apiErr) {
		return ai.NewProviderErrorWithCause(ai.ErrTypeNetwork, "request failed", "openai", err)
	}

	message := apiErr.Message
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", apiErr.StatusCode)
	}

	pe := ai.NewHTTPError("openai", apiErr.StatusCode, message)
	pe.Cause = err
	if apiErr.StatusCode == http.StatusTooManyRequests && apiErr.Response != nil {
		if seconds, convErr := strconv.Atoi(apiErr.Response.Header.Get("Retry-After")); convErr == nil {
			pe.RetryAfter = seconds
		}
	}
	return pe
}
