package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/yildizm/go-termfmt"

	"github.com/yildizm/QRStudio/internal/analyzer"
	"github.com/yildizm/QRStudio/internal/emoji"
)

// terminalFormatter formats output as plain text for terminal display using go-termfmt
type terminalFormatter struct {
	opts *termfmt.TerminalOptions
}

// NewTerminal creates a new terminal formatter with optional color support
func NewTerminal(color bool) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = !emoji.IsEmojiDisabled()
	return &terminalFormatter{opts: opts}
}

func (f *terminalFormatter) Format(report *analyzer.Report) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("nothing to format")
	}

	var b strings.Builder
	f.writeHeader(&b)
	f.writeVerdict(&b, report)
	f.writeDetails(&b, report)

	return []byte(b.String()), nil
}

// writeHeader writes the boxed title
func (f *terminalFormatter) writeHeader(b *strings.Builder) {
	header := "QR Content Analysis"
	headerLen := len(header)

	b.WriteString("╔" + strings.Repeat("═", headerLen+2) + "╗\n")
	b.WriteString("║ " + header + " ║\n")
	b.WriteString("╚" + strings.Repeat("═", headerLen+2) + "╝\n\n")
}

// writeVerdict writes the safety indicator and the suggestion
func (f *terminalFormatter) writeVerdict(b *strings.Builder, report *analyzer.Report) {
	fmt.Fprintf(b, "%s %s\n", emoji.ForSafety(report.Result.IsSafe), strings.ToUpper(verdict(report.Result.IsSafe)))
	fmt.Fprintf(b, "%s %s\n\n", emoji.GetEmoji("sparkles"), report.Result.Suggestion)
}

// writeDetails writes request metadata as a tree
func (f *terminalFormatter) writeDetails(b *strings.Builder, report *analyzer.Report) {
	b.WriteString(emoji.GetEmoji("target") + " Details\n")

	items := []termfmt.TreeItem{
		{Label: "Content", Value: truncate(report.Content, 60)},
		{Label: "Characters", Value: fmt.Sprintf("%d", len([]rune(report.Content)))},
	}
	if report.Provider != "" {
		provider := report.Provider
		if report.Model != "" {
			provider += " (" + report.Model + ")"
		}
		items = append(items, termfmt.TreeItem{Label: "Provider", Value: provider})
	}
	if report.Usage != nil {
		items = append(items, termfmt.TreeItem{
			Label: "Tokens",
			Value: fmt.Sprintf("%d prompt / %d completion", report.Usage.PromptTokens, report.Usage.CompletionTokens),
		})
	}
	items = append(items, termfmt.TreeItem{Label: "Duration", Value: report.Duration.Round(time.Millisecond).String()})
	items[len(items)-1].Last = true

	tree := termfmt.TreeViewWithOptions(items, f.opts)
	b.WriteString(tree + "\n")
}

// truncate shortens s to max runes, marking the cut with an ellipsis
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
