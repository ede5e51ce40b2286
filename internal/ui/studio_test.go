package ui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yildizm/QRStudio/internal/clipboard"
	"github.com/yildizm/QRStudio/internal/common"
	"github.com/yildizm/QRStudio/internal/export"
	"github.com/yildizm/QRStudio/internal/i18n"
	"github.com/yildizm/QRStudio/internal/trigger"
)

type fakeAnalyzer struct {
	mu     sync.Mutex
	calls  []string
	result common.AIResult
}

func (f *fakeAnalyzer) analyze(_ context.Context, content string) common.AIResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, content)
	return f.result
}

func (f *fakeAnalyzer) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type memoryClipboard struct {
	mu    sync.Mutex
	value string
}

func (c *memoryClipboard) Copy(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = text
	return nil
}

type testEnv struct {
	model    *Model
	analyzer *fakeAnalyzer
	clip     *memoryClipboard
	saver    *export.MemorySaver
}

func newTestEnv(t *testing.T, value string) *testEnv {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	cfg := common.DefaultQRConfig()
	cfg.Value = value

	env := &testEnv{
		analyzer: &fakeAnalyzer{result: common.AIResult{Suggestion: "নিরাপদ লিংক", IsSafe: true}},
		clip:     &memoryClipboard{},
		saver:    export.NewMemorySaver(),
	}
	env.model = New(Options{
		Config:     cfg,
		Analyze:    env.analyzer.analyze,
		Trigger:    trigger.Options{Delay: 10 * time.Millisecond, MinLength: 5},
		Exporter:   export.New(env.saver, export.WithClock(func() time.Time { return time.UnixMilli(1718000000000) })),
		Clipboard:  clipboard.NewHelper(env.clip, 20*time.Millisecond),
		Translator: i18n.New("en"),
		ShowTips:   true,
	})
	return env
}

// run executes cmd, flattening batches, and returns the messages produced
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, run(c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

// send delivers msg and every message its commands produce, once
func (e *testEnv) send(msg tea.Msg) []tea.Msg {
	_, cmd := e.model.Update(msg)
	return run(cmd)
}

// settle delivers msg and keeps feeding produced messages back until no
// command is left, skipping the spinner
func (e *testEnv) settle(msg tea.Msg) {
	queue := []tea.Msg{msg}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if _, ok := next.(spinnerMsg); ok {
			continue
		}
		queue = append(queue, e.send(next)...)
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func TestNewRendersInitialConfig(t *testing.T) {
	env := newTestEnv(t, "https://google.com")

	surface := env.model.Surface()
	if surface == nil {
		t.Fatal("expected an initial surface")
	}
	if b := surface.Image.Bounds(); b.Dx() != 256 {
		t.Errorf("Expected 256px surface, got %d", b.Dx())
	}
	if env.model.AnalysisState() != trigger.StateIdle {
		t.Errorf("Expected idle before Init, got %s", env.model.AnalysisState())
	}
}

func TestInitAnalyzesInitialContent(t *testing.T) {
	env := newTestEnv(t, "https://google.com")

	for _, msg := range run(env.model.Init()) {
		env.settle(msg)
	}

	calls := env.analyzer.Calls()
	if len(calls) != 1 || calls[0] != "https://google.com" {
		t.Errorf("Expected one call for the initial content, got %v", calls)
	}
}

func TestTypingEditsFocusedField(t *testing.T) {
	env := newTestEnv(t, "")

	env.model.Update(runes("hé"))
	env.model.Update(key(tea.KeySpace))
	env.model.Update(runes("x"))
	env.model.Update(key(tea.KeyBackspace))
	if got := env.model.Config().Value; got != "hé " {
		t.Errorf("Expected content %q, got %q", "hé ", got)
	}

	env.model.Update(key(tea.KeyTab))
	env.model.Update(key(tea.KeyCtrlU))
	env.model.Update(runes("#f00"))
	if got := env.model.Config().FgColor; got != "#f00" {
		t.Errorf("Expected foreground #f00, got %q", got)
	}

	env.model.Update(key(tea.KeyTab))
	env.model.Update(key(tea.KeyBackspace))
	if got := env.model.Config().BgColor; got != "#fffff" {
		t.Errorf("Expected background #fffff, got %q", got)
	}

	env.model.Update(key(tea.KeyTab))
	env.model.Update(runes("!"))
	if got := env.model.Config().Value; got != "hé !" {
		t.Errorf("focus should wrap back to content, got %q", got)
	}
}

func TestColorEditsDoNotTriggerAnalysis(t *testing.T) {
	env := newTestEnv(t, "https://google.com")

	env.model.Update(key(tea.KeyTab))
	if msgs := env.send(runes("0")); len(msgs) != 0 {
		t.Errorf("color edit should not schedule analysis, got %v", msgs)
	}
}

func TestShortContentNeverAnalyzed(t *testing.T) {
	env := newTestEnv(t, "")

	for _, r := range "hi" {
		for _, msg := range env.send(runes(string(r))) {
			env.settle(msg)
		}
	}

	if calls := env.analyzer.Calls(); len(calls) != 0 {
		t.Errorf("short content must never be analyzed, got %v", calls)
	}
	if env.model.AnalysisState() != trigger.StateIdle {
		t.Errorf("Expected idle, got %s", env.model.AnalysisState())
	}
}

func TestBurstAnalyzesLastEditOnly(t *testing.T) {
	env := newTestEnv(t, "")

	var ticks []tea.Msg
	for _, r := range "https://example.com/path" {
		ticks = append(ticks, env.send(runes(string(r)))...)
	}
	for _, tick := range ticks {
		env.settle(tick)
	}

	calls := env.analyzer.Calls()
	if len(calls) != 1 || calls[0] != "https://example.com/path" {
		t.Fatalf("Expected exactly one call with the literal content, got %v", calls)
	}

	result := env.model.Result()
	if result == nil || result.Suggestion != "নিরাপদ লিংক" || !result.IsSafe {
		t.Errorf("result should be published verbatim, got %+v", result)
	}
	if env.model.AnalysisState() != trigger.StateIdle {
		t.Errorf("Expected idle after completion, got %s", env.model.AnalysisState())
	}
}

func TestAnalyzeNow(t *testing.T) {
	env := newTestEnv(t, "https://google.com")

	for _, msg := range env.send(key(tea.KeyCtrlR)) {
		env.settle(msg)
	}
	if calls := env.analyzer.Calls(); len(calls) != 1 {
		t.Errorf("Expected immediate analysis, got %v", calls)
	}

	env.model.Update(key(tea.KeyCtrlU))
	if msgs := env.send(key(tea.KeyCtrlR)); len(msgs) != 0 {
		t.Error("analyze now must respect the length threshold")
	}
}

func TestRunningShowsIndicator(t *testing.T) {
	env := newTestEnv(t, "https://google.com")

	_, cmd := env.model.Update(key(tea.KeyCtrlR))
	if cmd == nil {
		t.Fatal("expected an analysis command")
	}
	if env.model.AnalysisState() != trigger.StateRunning {
		t.Errorf("Expected running, got %s", env.model.AnalysisState())
	}
	if !strings.Contains(env.model.View(), "AI is analyzing content...") {
		t.Error("view should show the analyzing indicator while running")
	}
}

func TestLevelMarginAndSize(t *testing.T) {
	env := newTestEnv(t, "https://google.com")

	env.model.Update(key(tea.KeyCtrlE))
	if got := env.model.Config().Level; got != common.LevelQuartile {
		t.Errorf("Expected Q after M, got %s", got)
	}

	env.model.Update(key(tea.KeyCtrlT))
	if env.model.Config().IncludeMargin {
		t.Error("ctrl+t should toggle the margin off")
	}

	env.model.Update(key(tea.KeyPgUp))
	if got := env.model.Config().Size; got != 288 {
		t.Errorf("Expected 288, got %d", got)
	}
	for i := 0; i < 20; i++ {
		env.model.Update(key(tea.KeyPgDown))
	}
	if got := env.model.Config().Size; got != minSize {
		t.Errorf("size should stop at %d, got %d", minSize, got)
	}
}

func TestCopyTwiceKeepsFlagForSecond(t *testing.T) {
	env := newTestEnv(t, "first value")

	done1 := env.send(key(tea.KeyCtrlY))
	env.model.Update(key(tea.KeyCtrlU))
	env.model.Update(runes("second value"))
	done2 := env.send(key(tea.KeyCtrlY))

	_, reset1 := env.model.Update(done1[0])
	_, reset2 := env.model.Update(done2[0])

	if env.clip.value != "second value" {
		t.Errorf("clipboard should hold the second value, got %q", env.clip.value)
	}
	if !env.model.Copied() {
		t.Fatal("flag should be raised")
	}

	env.model.Update(reset1())
	if !env.model.Copied() {
		t.Error("the first copy's reset must not lower the flag")
	}
	env.model.Update(reset2())
	if env.model.Copied() {
		t.Error("the second copy's reset should lower the flag")
	}
}

func TestExportPNGAndPDF(t *testing.T) {
	env := newTestEnv(t, "Contact: 555-1234")

	env.settle(key(tea.KeyCtrlS))
	if _, ok := env.saver.File("qr-code-1718000000000.png"); !ok {
		t.Error("PNG was not exported")
	}
	if !strings.Contains(env.model.Notice(), "qr-code-1718000000000.png") {
		t.Errorf("notice should name the file, got %q", env.model.Notice())
	}

	env.settle(key(tea.KeyCtrlP))
	if _, ok := env.saver.File("qr-code-1718000000000.pdf"); !ok {
		t.Error("PDF was not exported")
	}
}

func TestExportWithoutSurface(t *testing.T) {
	env := newTestEnv(t, "https://google.com")

	env.model.Update(key(tea.KeyTab))
	env.model.Update(key(tea.KeyCtrlU))
	env.model.Update(runes("nope"))
	if env.model.Surface() != nil {
		t.Fatal("invalid color should leave no surface")
	}

	if msgs := env.send(key(tea.KeyCtrlS)); len(msgs) != 0 {
		t.Error("no export should be attempted")
	}
	if env.model.Notice() != "No QR code to export yet" {
		t.Errorf("unexpected notice %q", env.model.Notice())
	}
	if env.saver.Len() != 0 {
		t.Error("nothing should be saved")
	}
	if !strings.Contains(env.model.View(), "Cannot render QR code") {
		t.Error("preview should show the render error")
	}
}

func TestView(t *testing.T) {
	env := newTestEnv(t, "https://google.com")
	view := env.model.View()

	for _, want := range []string{"QR Pro Studio", "18 characters", "Canvas size: 256x256px", "#000000", "#FFFFFF", "Medium (15%)", "[x] Add margin", "Tips"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestViewShowsRenderedCanvasSize(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	cfg := common.DefaultQRConfig()
	cfg.Value = "https://example.com/a/long/path/that/needs/a/bigger/symbol"
	cfg.Size = 16

	model := New(Options{Config: cfg, Translator: i18n.New("en"), Clipboard: clipboard.NewHelper(&memoryClipboard{}, time.Millisecond)})
	surface := model.Surface()
	if surface == nil {
		t.Fatal("Expected a surface")
	}
	width := surface.Image.Bounds().Dx()
	if width <= cfg.Size {
		t.Fatalf("Expected the encoder to enlarge the image, got %dpx", width)
	}

	view := model.View()
	if want := fmt.Sprintf("Canvas size: %dx%dpx", width, width); !strings.Contains(view, want) {
		t.Errorf("view missing %q", want)
	}
	if strings.Contains(view, "Canvas size: 16x16px") {
		t.Error("view reports the requested size instead of the rendered one")
	}
}

func TestQuit(t *testing.T) {
	env := newTestEnv(t, "https://google.com")

	_, cmd := env.model.Update(key(tea.KeyEsc))
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("esc should quit")
	}
	if !strings.Contains(env.model.View(), "Thanks for using QR Pro Studio!") {
		t.Error("expected goodbye view")
	}
}
