package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/QRStudio/internal/emoji"
	"github.com/yildizm/QRStudio/internal/i18n"
	"github.com/yildizm/QRStudio/internal/render"
)

// Spinner characters
var spinnerChars = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const (
	leftColumnWidth = 48
	cursor          = "▏"
)

// View renders the studio
func (m *Model) View() string {
	if m.quitting {
		return m.styles.render(m.styles.Safe, m.tr.T(i18n.KeyGoodbye)) + "\n"
	}

	header := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.render(m.styles.Title, emoji.GetEmoji("qr")+" "+m.tr.T(i18n.KeyTitle)),
		m.styles.render(m.styles.Tagline, m.tr.T(i18n.KeyTagline)),
	)

	left := []string{m.renderContent(), m.renderCustomize()}
	if m.opts.ShowTips {
		left = append(left, m.renderTips())
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.JoinVertical(lipgloss.Left, left...),
		"  ",
		m.renderPreview(),
	)

	parts := []string{header, "", body}
	if m.notice != "" {
		style := m.styles.Notice
		if m.noticeIsErr {
			style = m.styles.Error
		}
		parts = append(parts, m.styles.render(style, m.notice))
	}
	parts = append(parts, m.styles.render(m.styles.Help, m.tr.T(i18n.KeyHelp)))

	return lipgloss.JoinVertical(lipgloss.Left, parts...) + "\n"
}

// fieldBox frames a field, highlighting it when focused
func (m *Model) fieldBox(f Field, text string) string {
	style := m.styles.Field
	if m.focus == f {
		style = m.styles.FocusedField
		text += cursor
	}
	return style.Width(leftColumnWidth).Render(text)
}

func (m *Model) renderContent() string {
	cfg := m.store.Snapshot()

	lines := []string{
		m.styles.render(m.styles.Label, m.tr.T(i18n.KeyContentLabel)),
		m.fieldBox(FieldContent, cfg.Value),
		m.styles.render(m.styles.Muted, m.tr.T(i18n.KeyCharCount, utf8.RuneCountInString(cfg.Value))),
	}

	if m.trigger.Running() {
		spinner := spinnerChars[m.frame%len(spinnerChars)]
		lines = append(lines, m.styles.render(m.styles.Working, spinner+" "+m.tr.T(i18n.KeyAnalyzing)))
	} else if result := m.trigger.Result(); result != nil {
		lines = append(lines, m.renderResult(result.Suggestion, result.IsSafe))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
}

// renderResult shows the suggestion in the safe or unsafe style
func (m *Model) renderResult(suggestion string, safe bool) string {
	style, verdict := m.styles.Safe, m.tr.T(i18n.KeySafe)
	if !safe {
		style, verdict = m.styles.Unsafe, m.tr.T(i18n.KeyUnsafe)
	}

	head := fmt.Sprintf("%s %s · %s", emoji.ForSafety(safe), m.tr.T(i18n.KeySuggestion), verdict)
	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.render(style, head),
		lipgloss.NewStyle().Width(leftColumnWidth).Render(suggestion),
	)
}

func (m *Model) renderCustomize() string {
	cfg := m.store.Snapshot()

	margin := "[ ]"
	if cfg.IncludeMargin {
		margin = "[x]"
	}

	lines := []string{
		m.styles.render(m.styles.Label, emoji.GetEmoji("palette")+" "+m.tr.T(i18n.KeyCustomize)),
		m.tr.T(i18n.KeyForeground),
		m.fieldBox(FieldForeground, displayHex(cfg.FgColor, m.focus == FieldForeground)),
		m.tr.T(i18n.KeyBackground),
		m.fieldBox(FieldBackground, displayHex(cfg.BgColor, m.focus == FieldBackground)),
		fmt.Sprintf("%s: %s", m.tr.T(i18n.KeyLevel), cfg.Level.Label()),
		fmt.Sprintf("%s %s", margin, m.tr.T(i18n.KeyMargin)),
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
}

func (m *Model) renderTips() string {
	text := emoji.GetEmoji("tip") + " " + m.tr.T(i18n.KeyTipsTitle) + "\n" + m.tr.T(i18n.KeyTips)
	return m.styles.Panel.Width(leftColumnWidth).Render(text)
}

func (m *Model) renderPreview() string {
	cfg := m.store.Snapshot()

	var symbol string
	if m.surface == nil {
		msg := ""
		if m.renderErr != nil {
			msg = m.renderErr.Error()
		}
		symbol = m.styles.render(m.styles.Error, m.tr.T(i18n.KeyRenderError, msg))
	} else {
		symbol = m.renderSymbol(m.surface)
	}

	copyLabel := emoji.GetEmoji("clipboard") + " ctrl+y " + m.tr.T(i18n.KeyCopy)
	if m.Copied() {
		copyLabel = m.styles.render(m.styles.Safe, emoji.GetEmoji("success")+" "+m.tr.T(i18n.KeyCopied))
	}

	// the encoder enlarges images too small for the symbol
	size := cfg.Size
	if m.surface != nil && m.surface.Image != nil {
		size = m.surface.Image.Bounds().Dx()
	}

	lines := []string{
		m.styles.render(m.styles.Label, m.tr.T(i18n.KeyPreview)),
		symbol,
		m.styles.render(m.styles.Muted, m.tr.T(i18n.KeyCanvasSize, size, size)),
		"",
		emoji.GetEmoji("image") + " ctrl+s " + m.tr.T(i18n.KeyDownloadPNG),
		emoji.GetEmoji("document") + " ctrl+p " + m.tr.T(i18n.KeyDownloadPDF),
		copyLabel,
	}

	return m.styles.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// renderSymbol draws the symbol with half blocks in its own colors
func (m *Model) renderSymbol(surface *render.Surface) string {
	rows := surface.Preview()
	if IsColorDisabled() {
		return strings.Join(rows, "\n")
	}

	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(render.NormalizeHex(surface.Config.FgColor))).
		Background(lipgloss.Color(render.NormalizeHex(surface.Config.BgColor)))

	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = style.Render(row)
	}
	return strings.Join(out, "\n")
}

// displayHex shows valid colors in upper case and leaves text being typed alone
func displayHex(s string, editing bool) string {
	if editing {
		return s
	}
	if _, err := render.ParseColor(s); err != nil {
		return s
	}
	return render.NormalizeHex(s)
}
