package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/yildizm/QRStudio/internal/analyzer"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct{}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown() Formatter {
	return &markdownFormatter{}
}

func (f *markdownFormatter) Format(report *analyzer.Report) ([]byte, error) {
	var b strings.Builder

	b.WriteString("# QR Content Analysis\n\n")
	if !report.AnalyzedAt.IsZero() {
		fmt.Fprintf(&b, "Generated: %s\n\n", report.AnalyzedAt.Format("2006-01-02 15:04:05"))
	}

	f.writeSummaryTable(&b, report)

	b.WriteString("## Suggestion\n\n")
	b.WriteString("> " + report.Result.Suggestion + "\n\n")

	b.WriteString("## Content\n\n")
	b.WriteString("```\n" + report.Content + "\n```\n")

	return []byte(b.String()), nil
}

// writeSummaryTable writes the verdict and call metadata
func (f *markdownFormatter) writeSummaryTable(b *strings.Builder, report *analyzer.Report) {
	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")

	status := "✅ Safe"
	if !report.Result.IsSafe {
		status = "⚠️ Unsafe"
	}
	fmt.Fprintf(b, "| **Verdict** | %s |\n", status)
	fmt.Fprintf(b, "| **Characters** | %d |\n", len([]rune(report.Content)))
	if report.Provider != "" {
		fmt.Fprintf(b, "| **Provider** | %s |\n", escapeCell(report.Provider))
	}
	if report.Model != "" {
		fmt.Fprintf(b, "| **Model** | %s |\n", escapeCell(report.Model))
	}
	if report.Usage != nil {
		fmt.Fprintf(b, "| **Tokens** | %d |\n", report.Usage.TotalTokens)
	}
	fmt.Fprintf(b, "| **Duration** | %s |\n\n", report.Duration.Round(time.Millisecond))
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
