package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yildizm/QRStudio/internal/ai/providers/ollama"
	"github.com/yildizm/QRStudio/internal/common"
	"github.com/yildizm/QRStudio/internal/config"
	"github.com/yildizm/QRStudio/internal/export"
	"github.com/yildizm/QRStudio/internal/formatter"
	"github.com/yildizm/QRStudio/internal/logger"
	"github.com/yildizm/QRStudio/internal/render"
	"github.com/yildizm/QRStudio/internal/trigger"
)

// writeConfig writes a config file so runs never read the user's own config
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "qrstudio.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

// execute runs the root command with args and returns its stdout
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	t.Cleanup(func() { globalConfig = nil })

	cmd := NewRootCommand("1.2.3", "abc123", "2026-01-01")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// ollamaServer answers /api/generate with reply, or with status when it is not 200
func ollamaServer(t *testing.T, status int, reply string) string {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(ollama.ErrorResponse{Error: "model not found"})
			return
		}
		_ = json.NewEncoder(w).Encode(ollama.GenerateResponse{
			Model:           "llama3.2",
			Response:        reply,
			Done:            true,
			PromptEvalCount: 40,
			EvalCount:       12,
		})
	}))
	t.Cleanup(server.Close)
	return server.URL
}

func ollamaConfig(t *testing.T, endpoint string) string {
	return writeConfig(t, "ai:\n  provider: ollama\n  endpoint: "+endpoint+"\n  max_retries: 0\nanalysis:\n  language: en\n")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version", "--config", writeConfig(t, "version: \"1.0\"\n"))
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out, "QRStudio 1.2.3 (abc123) built on 2026-01-01") {
		t.Errorf("unexpected version output: %q", out)
	}
}

func TestUnsupportedLanguageFlag(t *testing.T) {
	_, err := execute(t, "", "version", "--lang", "fr", "--config", writeConfig(t, "version: \"1.0\"\n"))
	if err == nil || !strings.Contains(err.Error(), "unsupported language") {
		t.Errorf("Expected language error, got %v", err)
	}
}

func TestRenderPreview(t *testing.T) {
	out, err := execute(t, "", "render", "hello world", "--config", writeConfig(t, "qr:\n  level: L\n"))
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) < 10 {
		t.Fatalf("Expected a multi-line symbol, got %d lines", len(lines))
	}
	if !strings.ContainsAny(out, "█▀▄") {
		t.Error("preview has no dark modules")
	}
}

func TestRenderExport(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "", "render", "Contact: 555-1234", "--png", "--pdf", "--out", dir, "--no-emoji",
		"--config", writeConfig(t, "export:\n  compress_pdf: false\n"))
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var exts []string
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "qr-code-") {
			t.Errorf("unexpected artifact name %s", e.Name())
		}
		exts = append(exts, filepath.Ext(e.Name()))
	}
	if len(exts) != 2 || exts[0] == exts[1] {
		t.Errorf("Expected one PNG and one PDF, got %v", exts)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || !strings.HasSuffix(strings.Fields(lines[0])[1], ".png") {
		t.Errorf("Expected PNG reported before PDF, got %q", out)
	}
	if !strings.HasPrefix(out, "[OK] ") {
		t.Errorf("Expected emoji fallback marker, got %q", out)
	}
}

func TestRenderConfig(t *testing.T) {
	t.Cleanup(func() {
		renderFg, renderBg, renderSize, renderLevel, renderNoMargin = "", "", 0, "", false
	})
	base := common.DefaultQRConfig()

	renderFg, renderSize, renderLevel, renderNoMargin = "#1e40af", 512, "h", true
	qr, err := renderConfig(base, "hello")
	if err != nil {
		t.Fatalf("renderConfig failed: %v", err)
	}
	if qr.Value != "hello" || qr.FgColor != "#1e40af" || qr.Size != 512 {
		t.Errorf("flags not applied: %+v", qr)
	}
	if qr.BgColor != base.BgColor {
		t.Errorf("unset flag changed bg to %s", qr.BgColor)
	}
	if qr.Level != common.LevelHigh || qr.IncludeMargin {
		t.Errorf("unexpected level/margin: %s %v", qr.Level, qr.IncludeMargin)
	}

	renderLevel = "Z"
	if _, err := renderConfig(base, "hello"); err == nil {
		t.Error("Expected error for invalid level")
	}
}

func TestExportAll(t *testing.T) {
	surface, err := render.Render(common.DefaultQRConfig())
	if err != nil {
		t.Fatal(err)
	}
	saver := export.NewMemorySaver()
	exporter := export.New(saver, export.WithClock(func() time.Time { return time.UnixMilli(1718000000000) }))

	tests := []struct {
		name     string
		png, pdf bool
		want     []string
	}{
		{"both", true, true, []string{"qr-code-1718000000000.png", "qr-code-1718000000000.pdf"}},
		{"png only", true, false, []string{"qr-code-1718000000000.png"}},
		{"pdf only", false, true, []string{"qr-code-1718000000000.pdf"}},
		{"none", false, false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			artifacts, err := exportAll(context.Background(), exporter, surface, "https://google.com", tt.png, tt.pdf)
			if err != nil {
				t.Fatalf("exportAll failed: %v", err)
			}
			if len(artifacts) != len(tt.want) {
				t.Fatalf("Expected %d artifacts, got %d", len(tt.want), len(artifacts))
			}
			for i, a := range artifacts {
				if a.Name != tt.want[i] {
					t.Errorf("artifact %d: expected %s, got %s", i, tt.want[i], a.Name)
				}
			}
		})
	}

	if _, err := exportAll(context.Background(), exporter, nil, "", true, false); err == nil {
		t.Error("Expected error without a surface")
	}
}

func TestPDFFontPrefersConfiguredFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.ttf")
	want := []byte("not a real font")
	if err := os.WriteFile(path, want, 0o600); err != nil {
		t.Fatal(err)
	}
	if got := pdfFont(path); !bytes.Equal(got, want) {
		t.Errorf("pdfFont(%q) returned %d bytes, want the configured file", path, len(got))
	}

	_, system, found := export.SystemFont()
	got := pdfFont(filepath.Join(t.TempDir(), "missing.ttf"))
	if !found && got != nil {
		t.Error("missing font with no system font should keep the embedded default")
	}
	if found && len(got) == 0 {
		t.Errorf("expected system font %s", system)
	}
}

func TestReadContent(t *testing.T) {
	tests := []struct {
		name  string
		arg   string
		stdin string
		want  string
	}{
		{"argument", "https://example.com", "ignored", "https://example.com"},
		{"stdin", "-", "WIFI:S:home;;\n", "WIFI:S:home;;"},
		{"stdin crlf", "-", "line one\nline two\r\n", "line one\nline two"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readContent(tt.arg, strings.NewReader(tt.stdin))
			if err != nil {
				t.Fatalf("readContent failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestAnalyzeCommand(t *testing.T) {
	endpoint := ollamaServer(t, http.StatusOK, `{"suggestion":"A link to an example site.","isSafe":true}`)

	out, err := execute(t, "", "analyze", "https://example.com/path", "-o", "json", "--config", ollamaConfig(t, endpoint))
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	var doc formatter.JSONOutput
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if doc.Result.Suggestion != "A link to an example site." || !doc.Result.IsSafe {
		t.Errorf("unexpected result: %+v", doc.Result)
	}
	if doc.Provider != "ollama" || doc.Usage == nil || doc.Usage.TotalTokens != 52 {
		t.Errorf("unexpected metadata: provider=%s usage=%+v", doc.Provider, doc.Usage)
	}
}

func TestAnalyzeStdin(t *testing.T) {
	endpoint := ollamaServer(t, http.StatusOK, `{"suggestion":"Shares Wi-Fi credentials.","isSafe":false}`)

	out, err := execute(t, "WIFI:S:home;T:WPA;P:secret;;\n", "analyze", "-", "-o", "markdown", "--config", ollamaConfig(t, endpoint))
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if !strings.Contains(out, "Unsafe") || !strings.Contains(out, "WIFI:S:home;T:WPA;P:secret;;") {
		t.Errorf("unexpected markdown output:\n%s", out)
	}
}

func TestAnalyzeFallback(t *testing.T) {
	endpoint := ollamaServer(t, http.StatusNotFound, "")

	out, err := execute(t, "", "analyze", "https://example.com/path", "-o", "json", "--config", ollamaConfig(t, endpoint))
	if err != nil {
		t.Fatalf("analyze should fall back, got %v", err)
	}
	var doc formatter.JSONOutput
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if doc.Result.Suggestion != "Could not analyze the content." || !doc.Result.IsSafe {
		t.Errorf("Expected fallback result, got %+v", doc.Result)
	}

	if _, err := execute(t, "", "analyze", "https://example.com/path", "--strict", "--config", ollamaConfig(t, endpoint)); err == nil {
		t.Error("Expected --strict to fail")
	}
}

func TestAnalyzeWritesFile(t *testing.T) {
	endpoint := ollamaServer(t, http.StatusOK, `{"suggestion":"Plain text.","isSafe":true}`)
	path := filepath.Join(t.TempDir(), "report.json")

	out, err := execute(t, "", "analyze", "just some text", "-o", "json", "-f", path, "--config", ollamaConfig(t, endpoint))
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if out != "" {
		t.Errorf("Expected nothing on stdout, got %q", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"suggestion": "Plain text."`) {
		t.Errorf("unexpected file content: %s", data)
	}
}

func TestCreateAIProvider(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.AIConfig
		wantErr string
	}{
		{"unsupported", config.AIConfig{Provider: "anthropic"}, "unsupported ai provider"},
		{"openai without key", config.AIConfig{Provider: "openai"}, "api"},
		{"gemini without key", config.AIConfig{Provider: "gemini"}, "api"},
		{"ollama", config.AIConfig{Provider: "ollama", Endpoint: "http://localhost:11434"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := createAIProvider(context.Background(), &tt.cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if provider.Name() != tt.cfg.Provider {
					t.Errorf("Expected %s, got %s", tt.cfg.Provider, provider.Name())
				}
				_ = provider.Close()
				return
			}
			if err == nil || !strings.Contains(strings.ToLower(err.Error()), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestNewAnalyzerFallsBackWithoutProvider(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.AI.Provider = "openai"
	cfg.Analysis.Language = "en"

	a, closeFn := newAnalyzer(context.Background(), cfg, logger.Discard())
	defer closeFn()

	got := a.Analyze(context.Background(), "https://example.com")
	if got.Suggestion != "Could not analyze the content." || !got.IsSafe {
		t.Errorf("Expected fallback result, got %+v", got)
	}
}

func TestIsConfigCommand(t *testing.T) {
	root := NewRootCommand("dev", "none", "unknown")

	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"config", "show"}, true},
		{[]string{"config"}, true},
		{[]string{"render"}, false},
		{[]string{"version"}, false},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			cmd, _, err := root.Find(tt.args)
			if err != nil {
				t.Fatal(err)
			}
			if got := isConfigCommand(cmd); got != tt.want {
				t.Errorf("isConfigCommand(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "qrstudio.yaml")

	out, err := execute(t, "", "config", "init", "--output", path, "--no-emoji")
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !strings.Contains(out, "[OK] Configuration file created at: "+path) {
		t.Errorf("unexpected init output: %q", out)
	}

	if _, err := execute(t, "", "config", "init", "--output", path); err == nil {
		t.Error("Expected init to refuse an existing file")
	}

	out, err = execute(t, "", "config", "validate", "--config", path, "--no-emoji")
	if err != nil {
		t.Fatalf("config validate failed: %v", err)
	}
	for _, want := range []string{"Configuration is valid", "AI Provider: gemini", "Language: bn", "Debounce: 1.5s"} {
		if !strings.Contains(out, want) {
			t.Errorf("validate output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigValidateRejectsBadFile(t *testing.T) {
	out, err := execute(t, "", "config", "validate", "--config", writeConfig(t, "qr:\n  level: Z\n"), "--no-emoji")
	if err == nil {
		t.Fatal("Expected validation error")
	}
	if !strings.Contains(out, "[ERR] Configuration validation failed") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestConfigValidateCheckProvider(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(ollama.TagsResponse{Models: []ollama.Model{{Name: "llama3.2"}}})
	}))
	defer server.Close()

	out, err := execute(t, "", "config", "validate", "--check-provider", "--config", ollamaConfig(t, server.URL))
	if err != nil {
		t.Fatalf("validate failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Provider ollama is reachable") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestConfigShowHidesAPIKey(t *testing.T) {
	path := writeConfig(t, "ai:\n  provider: openai\n  api_key: sk-very-secret\n")

	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			out, err := execute(t, "", "config", "show", "--config", path, "--format", format)
			if err != nil {
				t.Fatalf("config show failed: %v", err)
			}
			if strings.Contains(out, "sk-very-secret") {
				t.Errorf("API key leaked in %s output", format)
			}
			if !strings.Contains(out, "openai") {
				t.Errorf("provider missing from %s output", format)
			}
		})
	}

	if _, err := execute(t, "", "config", "show", "--config", path, "--format", "toml"); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

// recordingOutput is an io.Writer safe for the debouncer goroutine
type recordingOutput struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (r *recordingOutput) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Write(p)
}

func (r *recordingOutput) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.String()
}

func TestWatchSession(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "link.txt")
	if err := os.WriteFile(path, []byte("https://example.com/first\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	var (
		mu       sync.Mutex
		analyzed []string
	)
	analyze := func(ctx context.Context, content string) common.AIResult {
		mu.Lock()
		analyzed = append(analyzed, content)
		mu.Unlock()
		return common.AIResult{Suggestion: "Looks fine.", IsSafe: true}
	}

	out := &recordingOutput{}
	saver := export.NewMemorySaver()
	var tick int64
	clock := func() time.Time {
		tick++
		return time.UnixMilli(1718000000000 + tick)
	}
	session := &watchSession{
		path:     path,
		qr:       common.DefaultQRConfig(),
		exporter: export.New(saver, export.WithClock(clock)),
		log:      logger.Discard(),
		out:      out,
	}
	session.debouncer = trigger.NewDebouncer(context.Background(),
		trigger.New(trigger.Options{Delay: 200 * time.Millisecond, MinLength: 5}), analyze, session.printResult)
	defer session.debouncer.Close()

	session.reload()
	// unchanged content is not a new edit
	session.reload()

	if err := os.WriteFile(path, []byte("https://example.com/second\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	handleWatchEvent(fsnotify.Event{Name: filepath.Join(dir, "other.txt"), Op: fsnotify.Write}, session)
	handleWatchEvent(fsnotify.Event{Name: path, Op: fsnotify.Write}, session)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && !strings.Contains(out.String(), "Looks fine.") {
		time.Sleep(10 * time.Millisecond)
	}

	mu.Lock()
	got := append([]string(nil), analyzed...)
	mu.Unlock()
	if len(got) != 1 || got[0] != "https://example.com/second" {
		t.Errorf("Expected only the last content analyzed, got %v", got)
	}
	if !strings.Contains(out.String(), "https://example.com/second: Looks fine.") {
		t.Errorf("unexpected watch output: %q", out.String())
	}
	if saver.Len() != 2 {
		t.Errorf("Expected a PNG per change, got %d files", saver.Len())
	}
}

func TestValidateWatchFilePath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "link.txt")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	dotted := filepath.Join(dir, "notes..txt")
	if err := os.WriteFile(dotted, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"file", file, false},
		{"empty", " ", true},
		{"directory", dir, true},
		{"missing", filepath.Join(dir, "absent.txt"), true},
		{"traversal", "../../etc/passwd", true},
		{"double dot in name", dotted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateWatchFilePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateWatchFilePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}
