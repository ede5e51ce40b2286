// Package render encodes a QRConfig into a raster image and module bitmap.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/skip2/go-qrcode"

	"github.com/yildizm/QRStudio/internal/common"
)

var (
	// ErrCapacityExceeded is returned when the content does not fit in the
	// largest symbol version at the requested level
	ErrCapacityExceeded = errors.New("content too long for a QR code at this level")

	// ErrInvalidColor is returned for colors that do not parse as hex
	ErrInvalidColor = errors.New("invalid color")

	// ErrInvalidSize is returned for non-positive sizes
	ErrInvalidSize = errors.New("size must be positive")
)

// emptyContent is encoded in place of an empty value
const emptyContent = " "

// Surface is a rendered symbol
type Surface struct {
	Image  image.Image
	Bitmap [][]bool // true is a dark module, quiet zone included when enabled
	Config common.QRConfig
}

// Render draws cfg. It is deterministic: equal configs give equal pixels.
func Render(cfg common.QRConfig) (*Surface, error) {
	if cfg.Size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, cfg.Size)
	}

	fg, err := ParseColor(cfg.FgColor)
	if err != nil {
		return nil, fmt.Errorf("foreground: %w", err)
	}
	bg, err := ParseColor(cfg.BgColor)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}

	content := cfg.Value
	if content == "" {
		content = emptyContent
	}

	code, err := qrcode.New(content, recoveryLevel(cfg.Level))
	if err != nil {
		return nil, fmt.Errorf("%w: %d bytes at level %s", ErrCapacityExceeded, len(content), levelOrDefault(cfg.Level))
	}
	code.ForegroundColor = fg
	code.BackgroundColor = bg
	code.DisableBorder = !cfg.IncludeMargin

	return &Surface{
		Image:  code.Image(cfg.Size),
		Bitmap: code.Bitmap(),
		Config: cfg,
	}, nil
}

// ParseColor parses a #rgb or #rrggbb hex color
func ParseColor(s string) (color.Color, error) {
	c, err := colorful.Hex(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w %q: want #rrggbb", ErrInvalidColor, s)
	}
	return c, nil
}

// NormalizeHex returns the color as upper-case #RRGGBB, or s unchanged when
// it does not parse
func NormalizeHex(s string) string {
	c, err := colorful.Hex(strings.TrimSpace(s))
	if err != nil {
		return s
	}
	return strings.ToUpper(c.Hex())
}

func recoveryLevel(l common.Level) qrcode.RecoveryLevel {
	switch l {
	case common.LevelLow:
		return qrcode.Low
	case common.LevelQuartile:
		return qrcode.High
	case common.LevelHigh:
		return qrcode.Highest
	default:
		return qrcode.Medium
	}
}

func levelOrDefault(l common.Level) common.Level {
	if l.Valid() {
		return l
	}
	return common.DefaultLevel
}
