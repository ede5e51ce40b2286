// Package analyzer turns QR content into a safety verdict and a short
// suggestion using an AI provider. Analyze never fails: provider errors
// collapse into a localized fallback result.
package analyzer

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/yildizm/go-promptfmt"

	"github.com/yildizm/QRStudio/internal/ai"
	"github.com/yildizm/QRStudio/internal/common"
	"github.com/yildizm/QRStudio/internal/i18n"
	"github.com/yildizm/QRStudio/internal/logger"
)

// ErrNoProvider is reported by AnalyzeDetailed when no provider is configured
var ErrNoProvider = errors.New("no AI provider configured")

// Options configures an Analyzer
type Options struct {
	Provider    ai.Provider
	Translator  *i18n.Translator
	Logger      *logger.Logger
	Model       string        // empty selects the provider default
	Temperature float64       // 0 selects the provider default
	Timeout     time.Duration // per call; 0 means no extra deadline
}

// Report is the detailed outcome of one analysis
type Report struct {
	Content    string          `json:"content"`
	Result     common.AIResult `json:"result"`
	Provider   string          `json:"provider"`
	Model      string          `json:"model,omitempty"`
	Usage      *ai.TokenUsage  `json:"usage,omitempty"`
	Duration   time.Duration   `json:"duration"`
	AnalyzedAt time.Time       `json:"analyzed_at"`
	Raw        string          `json:"-"`
}

// Analyzer classifies QR content
type Analyzer struct {
	opts Options
}

// New creates an analyzer. A nil provider is allowed: every call then
// returns the fallback result.
func New(opts Options) *Analyzer {
	if opts.Translator == nil {
		opts.Translator = i18n.New("")
	}
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}
	return &Analyzer{opts: opts}
}

// Analyze returns the provider's verdict, or the fallback result when the
// call fails for any reason
func (a *Analyzer) Analyze(ctx context.Context, content string) common.AIResult {
	report, err := a.AnalyzeDetailed(ctx, content)
	if err != nil {
		a.opts.Logger.WarnWithFields("content analysis failed", []logger.Field{
			logger.Error(err),
			logger.ContentLength(content),
		})
		return a.Fallback()
	}
	return report.Result
}

// Fallback is the result shown when analysis is impossible
func (a *Analyzer) Fallback() common.AIResult {
	return common.AIResult{
		Suggestion: a.opts.Translator.T(i18n.KeyAnalysisFailed),
		IsSafe:     true,
	}
}

// AnalyzeDetailed runs one provider call and reports metadata alongside the
// result. Errors are returned rather than folded into the fallback.
func (a *Analyzer) AnalyzeDetailed(ctx context.Context, content string) (*Report, error) {
	if a.opts.Provider == nil {
		return nil, ErrNoProvider
	}

	if a.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.Timeout)
		defer cancel()
	}

	prompt := ContentReview().
		WithContent(content).
		WithLanguage(a.opts.Translator.LanguageName()).
		Build()

	req := &ai.CompletionRequest{
		Prompt:       prompt.String(),
		SystemPrompt: prompt.SystemPrompt,
		Model:        a.opts.Model,
		Temperature:  a.opts.Temperature,
		MaxTokens:    256,
		JSONMode:     true,
	}

	start := time.Now()
	a.opts.Logger.DebugWithFields("requesting content analysis", []logger.Field{
		logger.F("provider", a.opts.Provider.Name()),
		logger.ContentLength(content),
	})

	resp, err := a.opts.Provider.Complete(ctx, req)
	if err != nil {
		return nil, err
	}

	result, err := a.parse(resp.Content)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Content:    content,
		Result:     result,
		Provider:   a.opts.Provider.Name(),
		Model:      resp.Model,
		Usage:      resp.Usage,
		Duration:   time.Since(start),
		AnalyzedAt: start,
		Raw:        resp.Content,
	}

	a.opts.Logger.DebugWithFields("content analysis finished", []logger.Field{
		logger.F("is_safe", result.IsSafe),
		logger.Duration(report.Duration),
	})

	return report, nil
}

// parse decodes the model output. An empty reply yields the fixed
// "Error analyzing content" result; unparseable text is an error.
func (a *Analyzer) parse(content string) (common.AIResult, error) {
	text := stripCodeFence(content)
	if text == "" {
		return common.AIResult{
			Suggestion: a.opts.Translator.T(i18n.KeyEmptyResponse),
			IsSafe:     true,
		}, nil
	}

	var decoded contentReviewResponse
	parsed := promptfmt.NewResponse(text).TryParseJSON(&decoded)
	if !parsed.Success {
		return common.AIResult{}, ai.NewProviderError(ai.ErrTypeProvider, "response is not the expected JSON object", a.opts.Provider.Name())
	}

	result := common.AIResult{
		Suggestion: strings.TrimSpace(decoded.Suggestion),
		IsSafe:     true,
	}
	if decoded.IsSafe != nil {
		result.IsSafe = *decoded.IsSafe
	}
	if result.Suggestion == "" {
		result.Suggestion = a.opts.Translator.T(i18n.KeyEmptyResponse)
	}

	return result, nil
}

// stripCodeFence removes a surrounding ```json ... ``` block
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
