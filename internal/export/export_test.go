package export

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"
	"unicode/utf16"

	"github.com/yildizm/QRStudio/internal/common"
	"github.com/yildizm/QRStudio/internal/render"
)

var fixedTime = time.UnixMilli(1718000000000)

func fixedClock() time.Time { return fixedTime }

func testSurface(t *testing.T, value string) *render.Surface {
	t.Helper()
	cfg := common.DefaultQRConfig()
	cfg.Value = value
	surface, err := render.Render(cfg)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return surface
}

func TestArtifactName(t *testing.T) {
	if got := ArtifactName(fixedTime, "png"); got != "qr-code-1718000000000.png" {
		t.Errorf("unexpected name %s", got)
	}
	if got := ArtifactName(fixedTime, "pdf"); got != "qr-code-1718000000000.pdf" {
		t.Errorf("unexpected name %s", got)
	}
}

func TestExportPNG(t *testing.T) {
	saver := NewMemorySaver()
	exporter := New(saver, WithClock(fixedClock))

	artifact, err := exporter.ExportPNG(testSurface(t, "https://google.com"))
	if err != nil {
		t.Fatalf("ExportPNG failed: %v", err)
	}
	if artifact.Name != "qr-code-1718000000000.png" {
		t.Errorf("unexpected name %s", artifact.Name)
	}

	data, ok := saver.File(artifact.Name)
	if !ok {
		t.Fatal("artifact was not saved")
	}
	if artifact.Size != len(data) {
		t.Errorf("Expected size %d, got %d", len(data), artifact.Size)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("saved file is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 256 || b.Dy() != 256 {
		t.Errorf("Expected 256x256, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestExportPDF(t *testing.T) {
	saver := NewMemorySaver()
	exporter := New(saver, WithClock(fixedClock), WithCompression(false))

	artifact, err := exporter.ExportPDF(testSurface(t, "Contact: 555-1234"), "Contact: 555-1234")
	if err != nil {
		t.Fatalf("ExportPDF failed: %v", err)
	}
	if artifact.Name != "qr-code-1718000000000.pdf" {
		t.Errorf("unexpected name %s", artifact.Name)
	}

	data, _ := saver.File(artifact.Name)
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatal("output does not start with a PDF header")
	}
	for _, want := range []string{"(Generated QR Code) Tj", "(Content: Contact: 555-1234) Tj", "/Subtype /Image"} {
		if !bytes.Contains(data, []byte(want)) {
			t.Errorf("PDF does not contain %q", want)
		}
	}
}

// pdfUTF16 is how fpdf writes text set in a TrueType font
func pdfUTF16(s string) []byte {
	var out []byte
	for _, unit := range utf16.Encode([]rune(s)) {
		out = append(out, byte(unit>>8), byte(unit))
	}
	return out
}

func TestExportPDFUnicodeCaption(t *testing.T) {
	value := "বাংলা লিংক https://x.y"
	saver := NewMemorySaver()
	exporter := New(saver, WithClock(fixedClock), WithCompression(false))

	artifact, err := exporter.ExportPDF(testSurface(t, value), value)
	if err != nil {
		t.Fatalf("ExportPDF failed: %v", err)
	}
	data, _ := saver.File(artifact.Name)

	caption := append(append([]byte("("), pdfUTF16("Content: "+value)...), []byte(") Tj")...)
	if !bytes.Contains(data, caption) {
		t.Error("caption was not written as UTF-16 text")
	}
	if !bytes.Contains(data, append(pdfUTF16("Generated QR Code"), []byte(") Tj")...)) {
		t.Error("title should share the unicode font")
	}
	if bytes.Contains(data, []byte("(Content: ..")) {
		t.Error("caption runes were replaced")
	}
	for _, want := range []string{"/Encoding /Identity-H", "/FontFile2"} {
		if !bytes.Contains(data, []byte(want)) {
			t.Errorf("PDF does not contain %q", want)
		}
	}
}

func TestNeedsUnicode(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"Contact: 555-1234", false},
		{"Café €5", false},
		{"", false},
		{"বাংলা", true},
		{"Привет", true},
	}
	for _, tt := range tests {
		if got := needsUnicode(tt.input); got != tt.want {
			t.Errorf("needsUnicode(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestWithFontIgnoresEmpty(t *testing.T) {
	exporter := New(NewMemorySaver(), WithFont(nil))
	if !bytes.Equal(exporter.font, unicodeFont) {
		t.Error("empty font should keep the embedded default")
	}
	if len(unicodeFont) == 0 {
		t.Error("embedded font is empty")
	}
}

func TestLoadFont(t *testing.T) {
	path := filepath.Join(t.TempDir(), "font.ttf")
	if err := os.WriteFile(path, unicodeFont, 0o600); err != nil {
		t.Fatal(err)
	}
	data, err := LoadFont(path)
	if err != nil {
		t.Fatalf("LoadFont failed: %v", err)
	}
	if len(data) != len(unicodeFont) {
		t.Errorf("read %d bytes, want %d", len(data), len(unicodeFont))
	}
	if _, err := LoadFont(filepath.Join(t.TempDir(), "missing.ttf")); err == nil {
		t.Error("expected error for missing font")
	}
}

func TestExportPDFDeterministic(t *testing.T) {
	surface := testSurface(t, "https://google.com")
	exporter := New(NewMemorySaver(), WithClock(fixedClock))

	first, err := exporter.EncodePDF(surface, "https://google.com", fixedTime)
	if err != nil {
		t.Fatalf("EncodePDF failed: %v", err)
	}
	second, err := exporter.EncodePDF(surface, "https://google.com", fixedTime)
	if err != nil {
		t.Fatalf("EncodePDF failed: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("same surface and clock should produce identical documents")
	}
}

func TestExportCustomText(t *testing.T) {
	saver := NewMemorySaver()
	exporter := New(saver, WithClock(fixedClock), WithCompression(false), WithText("My Code", "Value = %s"))

	artifact, err := exporter.ExportPDF(testSurface(t, "hello"), "hello")
	if err != nil {
		t.Fatalf("ExportPDF failed: %v", err)
	}
	data, _ := saver.File(artifact.Name)
	if !bytes.Contains(data, []byte("(My Code) Tj")) || !bytes.Contains(data, []byte("(Value = hello) Tj")) {
		t.Error("custom title and caption were not used")
	}
}

func TestExportNoSurface(t *testing.T) {
	saver := NewMemorySaver()
	exporter := New(saver, WithClock(fixedClock))

	if _, err := exporter.ExportPNG(nil); !errors.Is(err, ErrNoSurface) {
		t.Errorf("ExportPNG(nil) = %v, want ErrNoSurface", err)
	}
	if _, err := exporter.ExportPDF(nil, "x"); !errors.Is(err, ErrNoSurface) {
		t.Errorf("ExportPDF(nil) = %v, want ErrNoSurface", err)
	}
	if _, err := exporter.ExportPNG(&render.Surface{}); !errors.Is(err, ErrNoSurface) {
		t.Errorf("ExportPNG(empty) = %v, want ErrNoSurface", err)
	}
	if saver.Len() != 0 {
		t.Error("nothing should be saved without a surface")
	}
}

func TestDirSaver(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "exports")
	exporter := New(DirSaver{Dir: dir}, WithClock(fixedClock))

	artifact, err := exporter.ExportPNG(testSurface(t, "https://google.com"))
	if err != nil {
		t.Fatalf("ExportPNG failed: %v", err)
	}
	if artifact.Path != filepath.Join(dir, "qr-code-1718000000000.png") {
		t.Errorf("unexpected path %s", artifact.Path)
	}
	info, err := os.Stat(artifact.Path)
	if err != nil {
		t.Fatalf("file not written: %v", err)
	}
	if int(info.Size()) != artifact.Size {
		t.Errorf("Expected %d bytes on disk, got %d", artifact.Size, info.Size())
	}
}

type failingSaver struct{}

func (failingSaver) Save(string, []byte) (string, error) { return "", errors.New("disk full") }

func TestExportSaverError(t *testing.T) {
	exporter := New(failingSaver{}, WithClock(fixedClock))
	_, err := exporter.ExportPNG(testSurface(t, "x"))
	if err == nil || err.Error() != "failed to save qr-code-1718000000000.png: disk full" {
		t.Errorf("unexpected error %v", err)
	}
}
