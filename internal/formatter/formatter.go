package formatter

import (
	"fmt"

	"github.com/yildizm/QRStudio/internal/analyzer"
)

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(report *analyzer.Report) ([]byte, error)
}

// New returns the formatter for a format name (text, json or markdown)
func New(format string, color bool) (Formatter, error) {
	switch format {
	case "", "text", "terminal":
		return NewTerminal(color), nil
	case "json":
		return NewJSON(), nil
	case "markdown", "md":
		return NewMarkdown(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// verdict returns the plain-language safety label
func verdict(safe bool) string {
	if safe {
		return "safe"
	}
	return "unsafe"
}
