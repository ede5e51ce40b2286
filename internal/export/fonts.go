package export

import (
	_ "embed"
	"fmt"
	"os"

	"golang.org/x/text/encoding/charmap"
)

// unicodeFont covers Latin, Greek and Cyrillic beyond cp1252. Scripts it
// lacks, such as Bengali, need a font from WithFont or SystemFont.
//
//go:embed fonts/DejaVuSansCondensed.ttf
var unicodeFont []byte

const pdfUnicodeFamily = "QRStudioUnicode"

// SystemFontPaths lists TrueType fonts with Bengali coverage in the order
// SystemFont tries them
var SystemFontPaths = []string{
	"/usr/share/fonts/truetype/noto/NotoSansBengali-Regular.ttf",
	"/usr/share/fonts/noto/NotoSansBengali-Regular.ttf",
	"/usr/share/fonts/google-noto/NotoSansBengali-Regular.ttf",
	"/usr/share/fonts/truetype/lohit-bengali/Lohit-Bengali.ttf",
	"/usr/share/fonts/truetype/freefont/FreeSans.ttf",
	"/usr/share/fonts/gnu-free/FreeSans.ttf",
	"/Library/Fonts/NotoSansBengali-Regular.ttf",
	`C:\Windows\Fonts\Nirmala.ttf`,
}

// WithFont sets the TrueType font used when the PDF text leaves cp1252
func WithFont(ttf []byte) Option {
	return func(e *Exporter) {
		if len(ttf) > 0 {
			e.font = ttf
		}
	}
}

// LoadFont reads a TrueType font file for WithFont
func LoadFont(path string) ([]byte, error) {
	// #nosec G304 - path comes from configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font %s: %w", path, err)
	}
	return data, nil
}

// SystemFont returns the first installed font from SystemFontPaths
func SystemFont() ([]byte, string, bool) {
	for _, path := range SystemFontPaths {
		if data, err := os.ReadFile(path); err == nil && len(data) > 0 {
			return data, path, true
		}
	}
	return nil, "", false
}

// needsUnicode reports whether s has runes the core fonts cannot encode
func needsUnicode(s string) bool {
	for _, r := range s {
		if _, ok := charmap.Windows1252.EncodeRune(r); !ok {
			return true
		}
	}
	return false
}
