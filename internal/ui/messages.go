package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yildizm/QRStudio/internal/common"
	"github.com/yildizm/QRStudio/internal/export"
	"github.com/yildizm/QRStudio/internal/render"
)

// analysisTickMsg is delivered when the debounce window of an edit elapses
type analysisTickMsg struct {
	gen uint64
}

// analysisResultMsg carries the outcome of one analysis call
type analysisResultMsg struct {
	gen     uint64
	content string
	result  common.AIResult
}

// copyDoneMsg reports a clipboard write
type copyDoneMsg struct {
	value string
	err   error
}

// copyResetMsg lowers the copied flag for one copy generation
type copyResetMsg struct {
	gen uint64
}

// exportKind selects the artifact format
type exportKind int

const (
	exportPNG exportKind = iota
	exportPDF
)

func (k exportKind) String() string {
	if k == exportPDF {
		return "pdf"
	}
	return "png"
}

// exportDoneMsg reports a finished export
type exportDoneMsg struct {
	kind     exportKind
	artifact *export.Artifact
	err      error
}

// spinnerMsg advances the analyzing indicator
type spinnerMsg time.Time

// AnalyzeFunc performs one content analysis. It must not fail: errors are
// expected to be folded into a fallback result.
type AnalyzeFunc func(ctx context.Context, content string) common.AIResult

func scheduleAnalysis(delay time.Duration, gen uint64) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return analysisTickMsg{gen: gen}
	})
}

func analyzeCmd(ctx context.Context, analyze AnalyzeFunc, gen uint64, content string) tea.Cmd {
	return func() tea.Msg {
		return analysisResultMsg{
			gen:     gen,
			content: content,
			result:  analyze(ctx, content),
		}
	}
}

func copyResetCmd(delay time.Duration, gen uint64) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return copyResetMsg{gen: gen}
	})
}

func exportCmd(exporter *export.Exporter, kind exportKind, surface *render.Surface, value string) tea.Cmd {
	return func() tea.Msg {
		var (
			artifact *export.Artifact
			err      error
		)
		switch kind {
		case exportPDF:
			artifact, err = exporter.ExportPDF(surface, value)
		default:
			artifact, err = exporter.ExportPNG(surface)
		}
		return exportDoneMsg{kind: kind, artifact: artifact, err: err}
	}
}

func spinnerTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return spinnerMsg(t)
	})
}
