package formatter

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/yildizm/QRStudio/internal/ai"
	"github.com/yildizm/QRStudio/internal/analyzer"
	"github.com/yildizm/QRStudio/internal/common"
	"github.com/yildizm/QRStudio/internal/emoji"
)

func sampleReport(safe bool) *analyzer.Report {
	return &analyzer.Report{
		Content:    "https://example.com/path",
		Result:     common.AIResult{Suggestion: "নিরাপদ লিংক", IsSafe: safe},
		Provider:   "gemini",
		Model:      "gemini-3-flash-preview",
		Usage:      &ai.TokenUsage{PromptTokens: 40, CompletionTokens: 12, TotalTokens: 52},
		Duration:   1234 * time.Millisecond,
		AnalyzedAt: time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestNew(t *testing.T) {
	for _, format := range []string{"", "text", "json", "markdown", "md"} {
		if _, err := New(format, false); err != nil {
			t.Errorf("New(%q) failed: %v", format, err)
		}
	}
	if _, err := New("csv", false); err == nil {
		t.Error("Expected error for csv")
	}
}

func TestTerminalFormat(t *testing.T) {
	emoji.SetEmojiDisabled(true)
	defer emoji.SetEmojiDisabled(false)

	out, err := NewTerminal(false).Format(sampleReport(false))
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	text := string(out)

	for _, want := range []string{"QR Content Analysis", "[WARN] UNSAFE", "নিরাপদ লিংক", "https://example.com/path", "gemini (gemini-3-flash-preview)", "40 prompt / 12 completion", "1.234s"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestTerminalFormatNil(t *testing.T) {
	if _, err := NewTerminal(false).Format(nil); err == nil {
		t.Error("Expected error for nil report")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("unexpected %q", got)
	}
	if got := truncate("কিউআর কোড কন্টেন্ট", 5); got != "কিউআ…" {
		t.Errorf("unexpected %q", got)
	}
}

func TestJSONFormat(t *testing.T) {
	out, err := NewJSON().Format(sampleReport(true))
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	var decoded struct {
		Content string `json:"content"`
		Result  struct {
			Suggestion string `json:"suggestion"`
			IsSafe     bool   `json:"isSafe"`
		} `json:"result"`
		Verdict    string `json:"verdict"`
		DurationMS int64  `json:"duration_ms"`
		Usage      struct {
			TotalTokens int `json:"total_tokens"`
		} `json:"usage"`
	}
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}

	if decoded.Result.Suggestion != "নিরাপদ লিংক" || !decoded.Result.IsSafe {
		t.Errorf("unexpected result %+v", decoded.Result)
	}
	if decoded.Verdict != "safe" || decoded.DurationMS != 1234 || decoded.Usage.TotalTokens != 52 {
		t.Errorf("unexpected metadata %+v", decoded)
	}
}

func TestJSONFormatWithoutUsage(t *testing.T) {
	report := sampleReport(true)
	report.Usage = nil
	out, err := NewJSON().Format(report)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if strings.Contains(string(out), "usage") {
		t.Error("usage should be omitted when unknown")
	}
}

func TestMarkdownFormat(t *testing.T) {
	out, err := NewMarkdown().Format(sampleReport(false))
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	text := string(out)

	for _, want := range []string{"# QR Content Analysis", "Generated: 2025-06-10 12:00:00", "| **Verdict** | ⚠️ Unsafe |", "| **Tokens** | 52 |", "> নিরাপদ লিংক", "```\nhttps://example.com/path\n```"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestEscapeCell(t *testing.T) {
	if got := escapeCell("a|b"); got != `a\|b` {
		t.Errorf("unexpected %q", got)
	}
}
