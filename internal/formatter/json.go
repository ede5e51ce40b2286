package formatter

import (
	"encoding/json"
	"time"

	"github.com/yildizm/QRStudio/internal/analyzer"
	"github.com/yildizm/QRStudio/internal/common"
)

// jsonFormatter formats output as JSON
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

// JSONOutput is the document written by the json format. The result
// object keeps the wire shape the analysis service returns.
type JSONOutput struct {
	Content    string          `json:"content"`
	Result     common.AIResult `json:"result"`
	Verdict    string          `json:"verdict"`
	Provider   string          `json:"provider,omitempty"`
	Model      string          `json:"model,omitempty"`
	Usage      *UsageOutput    `json:"usage,omitempty"`
	DurationMS int64           `json:"duration_ms"`
	AnalyzedAt time.Time       `json:"analyzed_at"`
}

// UsageOutput represents token accounting
type UsageOutput struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

func (f *jsonFormatter) Format(report *analyzer.Report) ([]byte, error) {
	output := &JSONOutput{
		Content:    report.Content,
		Result:     report.Result,
		Verdict:    verdict(report.Result.IsSafe),
		Provider:   report.Provider,
		Model:      report.Model,
		DurationMS: report.Duration.Milliseconds(),
		AnalyzedAt: report.AnalyzedAt,
	}
	if report.Usage != nil {
		output.Usage = &UsageOutput{
			PromptTokens:     report.Usage.PromptTokens,
			CompletionTokens: report.Usage.CompletionTokens,
			TotalTokens:      report.Usage.TotalTokens,
		}
	}

	return json.MarshalIndent(output, "", "  ")
}
