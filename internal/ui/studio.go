// Package ui implements the interactive QR studio on Bubble Tea.
package ui

import (
	"context"
	"errors"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/yildizm/QRStudio/internal/clipboard"
	"github.com/yildizm/QRStudio/internal/common"
	"github.com/yildizm/QRStudio/internal/export"
	"github.com/yildizm/QRStudio/internal/i18n"
	"github.com/yildizm/QRStudio/internal/logger"
	"github.com/yildizm/QRStudio/internal/render"
	"github.com/yildizm/QRStudio/internal/store"
	"github.com/yildizm/QRStudio/internal/trigger"
)

// Field is an editable input of the studio
type Field int

const (
	FieldContent Field = iota
	FieldForeground
	FieldBackground
	fieldCount
)

const (
	sizeStep = 32
	minSize  = 32
	maxSize  = 4096
)

// Options configures a studio session
type Options struct {
	Context    context.Context
	Config     common.QRConfig
	Analyze    AnalyzeFunc // nil disables analysis
	Trigger    trigger.Options
	Exporter   *export.Exporter
	Clipboard  *clipboard.Helper
	Translator *i18n.Translator
	Logger     *logger.Logger
	ShowTips   bool
}

// Model is the studio state. The store, trigger and surface are only
// touched from Update.
type Model struct {
	opts    Options
	store   *store.Store
	trigger *trigger.Trigger
	styles  *Styles
	tr      *i18n.Translator
	log     *logger.Logger

	surface   *render.Surface
	renderErr error

	focus       Field
	notice      string
	noticeIsErr bool
	spinning    bool
	frame       int

	width    int
	height   int
	quitting bool
}

// New creates a studio model and renders the initial configuration
func New(opts Options) *Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Translator == nil {
		opts.Translator = i18n.New("")
	}
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.NewHelper(clipboard.NewOSC52(), clipboard.CopiedDuration)
	}

	m := &Model{
		opts:    opts,
		store:   store.New(opts.Config),
		trigger: trigger.New(opts.Trigger),
		styles:  GetStyles(),
		tr:      opts.Translator,
		log:     opts.Logger.WithComponent("studio"),
	}
	m.rerender(m.store.Snapshot())
	return m
}

// Init kicks off analysis of the initial content, as if it had been typed
func (m *Model) Init() tea.Cmd {
	return m.contentChanged(m.store.Snapshot().Value)
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case analysisTickMsg:
		return m, m.handleAnalysisTick(msg)

	case analysisResultMsg:
		m.handleAnalysisResult(msg)
		return m, nil

	case spinnerMsg:
		if !m.trigger.Running() {
			m.spinning = false
			return m, nil
		}
		m.frame = (m.frame + 1) % len(spinnerChars)
		return m, spinnerTick()

	case copyDoneMsg:
		return m, m.handleCopyDone(msg)

	case copyResetMsg:
		m.opts.Clipboard.Reset(msg.gen)
		return m, nil

	case exportDoneMsg:
		m.handleExportDone(msg)
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	case "tab":
		m.focus = (m.focus + 1) % fieldCount
		return m, nil
	case "shift+tab":
		m.focus = (m.focus + fieldCount - 1) % fieldCount
		return m, nil
	case "ctrl+e":
		cfg := m.store.Snapshot()
		m.rerender(m.store.SetLevel(cfg.Level.Next()))
		return m, nil
	case "ctrl+t":
		cfg := m.store.Snapshot()
		m.rerender(m.store.SetIncludeMargin(!cfg.IncludeMargin))
		return m, nil
	case "pgup":
		m.rerender(m.store.SetSize(clampSize(m.store.Snapshot().Size + sizeStep)))
		return m, nil
	case "pgdown":
		m.rerender(m.store.SetSize(clampSize(m.store.Snapshot().Size - sizeStep)))
		return m, nil
	case "ctrl+s":
		return m, m.startExport(exportPNG)
	case "ctrl+p":
		return m, m.startExport(exportPDF)
	case "ctrl+y":
		return m, m.startCopy()
	case "ctrl+r":
		return m, m.analyzeNow()
	case "ctrl+u":
		return m, m.setField(m.focus, "")
	case "backspace":
		current := m.fieldValue(m.focus)
		if current == "" {
			return m, nil
		}
		_, size := utf8.DecodeLastRuneInString(current)
		return m, m.setField(m.focus, current[:len(current)-size])
	case "enter":
		if m.focus == FieldContent {
			return m, m.setField(m.focus, m.fieldValue(m.focus)+"\n")
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyRunes:
		return m, m.setField(m.focus, m.fieldValue(m.focus)+string(msg.Runes))
	case tea.KeySpace:
		return m, m.setField(m.focus, m.fieldValue(m.focus)+" ")
	}

	return m, nil
}

// fieldValue returns the text of an editable field
func (m *Model) fieldValue(f Field) string {
	cfg := m.store.Snapshot()
	switch f {
	case FieldForeground:
		return cfg.FgColor
	case FieldBackground:
		return cfg.BgColor
	default:
		return cfg.Value
	}
}

// setField writes one field, re-renders, and schedules analysis when the
// content changed
func (m *Model) setField(f Field, text string) tea.Cmd {
	m.notice = ""
	switch f {
	case FieldForeground:
		m.rerender(m.store.SetFgColor(text))
		return nil
	case FieldBackground:
		m.rerender(m.store.SetBgColor(text))
		return nil
	default:
		if text == m.store.Snapshot().Value {
			return nil
		}
		m.rerender(m.store.SetValue(text))
		return m.contentChanged(text)
	}
}

// rerender draws cfg synchronously. A failed render keeps no surface.
func (m *Model) rerender(cfg common.QRConfig) {
	surface, err := render.Render(cfg)
	if err != nil {
		m.surface = nil
		m.renderErr = err
		m.log.Debug("render failed: %v", err)
		return
	}
	m.surface = surface
	m.renderErr = nil
}

// contentChanged records the edit with the trigger and arms its timer
func (m *Model) contentChanged(content string) tea.Cmd {
	if m.opts.Analyze == nil {
		return nil
	}
	gen := m.trigger.Edit(content)
	return scheduleAnalysis(m.trigger.Delay(), gen)
}

func (m *Model) handleAnalysisTick(msg analysisTickMsg) tea.Cmd {
	content, ok := m.trigger.Fire(msg.gen)
	if !ok {
		return nil
	}
	return m.startAnalysis(msg.gen, content)
}

// analyzeNow skips the debounce window for the current content
func (m *Model) analyzeNow() tea.Cmd {
	if m.opts.Analyze == nil {
		return nil
	}
	content := m.store.Snapshot().Value
	gen, ok := m.trigger.Now(content)
	if !ok {
		return nil
	}
	return m.startAnalysis(gen, content)
}

func (m *Model) startAnalysis(gen uint64, content string) tea.Cmd {
	m.log.DebugWithFields("analysis started", []logger.Field{
		logger.F("generation", gen),
		logger.ContentLength(content),
	})

	cmds := []tea.Cmd{analyzeCmd(m.opts.Context, m.opts.Analyze, gen, content)}
	if !m.spinning {
		m.spinning = true
		cmds = append(cmds, spinnerTick())
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleAnalysisResult(msg analysisResultMsg) {
	if !m.trigger.Complete(msg.gen, msg.result) {
		m.log.Debug("discarded stale analysis result for generation %d", msg.gen)
		return
	}
	m.log.DebugWithFields("analysis published", []logger.Field{
		logger.F("generation", msg.gen),
		logger.F("is_safe", msg.result.IsSafe),
	})
}

func (m *Model) startCopy() tea.Cmd {
	value := m.store.Snapshot().Value
	helper := m.opts.Clipboard
	return func() tea.Msg {
		return copyDoneMsg{value: value, err: helper.CopyOnly(value)}
	}
}

func (m *Model) handleCopyDone(msg copyDoneMsg) tea.Cmd {
	if msg.err != nil {
		m.log.Warn("copy failed: %v", msg.err)
		m.setNotice(m.tr.T(i18n.KeyCopyFailed), true)
		return nil
	}
	gen := m.opts.Clipboard.Mark()
	return copyResetCmd(m.opts.Clipboard.Duration(), gen)
}

func (m *Model) startExport(kind exportKind) tea.Cmd {
	if m.opts.Exporter == nil {
		m.setNotice(m.tr.T(i18n.KeyExportFailed, "no export directory"), true)
		return nil
	}
	if m.surface == nil {
		m.setNotice(m.tr.T(i18n.KeyNoSurface), true)
		return nil
	}
	return exportCmd(m.opts.Exporter, kind, m.surface, m.store.Snapshot().Value)
}

func (m *Model) handleExportDone(msg exportDoneMsg) {
	switch {
	case errors.Is(msg.err, export.ErrNoSurface):
		m.setNotice(m.tr.T(i18n.KeyNoSurface), true)
	case msg.err != nil:
		m.log.Error("%s export failed: %v", msg.kind, msg.err)
		m.setNotice(m.tr.T(i18n.KeyExportFailed, msg.err.Error()), true)
	default:
		m.log.InfoWithFields("exported", []logger.Field{
			logger.F("format", msg.kind.String()),
			logger.F("path", msg.artifact.Path),
			logger.F("bytes", msg.artifact.Size),
		})
		m.setNotice(m.tr.T(i18n.KeySaved, msg.artifact.Path, humanize.Bytes(uint64(msg.artifact.Size))), false)
	}
}

func (m *Model) setNotice(text string, isErr bool) {
	m.notice = text
	m.noticeIsErr = isErr
}

// Config returns the current configuration snapshot
func (m *Model) Config() common.QRConfig {
	return m.store.Snapshot()
}

// Surface returns the current rendered symbol, nil after a failed render
func (m *Model) Surface() *render.Surface {
	return m.surface
}

// Result returns the published analysis result, nil before the first one
func (m *Model) Result() *common.AIResult {
	return m.trigger.Result()
}

// AnalysisState reports the trigger state
func (m *Model) AnalysisState() trigger.State {
	return m.trigger.State()
}

// Copied reports whether the copied indicator is on
func (m *Model) Copied() bool {
	return m.opts.Clipboard.Copied()
}

// Notice returns the last status line message
func (m *Model) Notice() string {
	return m.notice
}

func clampSize(size int) int {
	if size < minSize {
		return minSize
	}
	if size > maxSize {
		return maxSize
	}
	return size
}
