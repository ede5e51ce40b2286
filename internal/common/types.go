package common

import (
	"fmt"
	"strings"
)

// Level is the QR error-correction level
type Level string

const (
	LevelLow      Level = "L"
	LevelMedium   Level = "M"
	LevelQuartile Level = "Q"
	LevelHigh     Level = "H"
)

// Levels lists all error-correction levels in ascending order of redundancy
var Levels = []Level{LevelLow, LevelMedium, LevelQuartile, LevelHigh}

// String returns the single-letter level code
func (l Level) String() string {
	return string(l)
}

// Valid reports whether l is one of L, M, Q or H
func (l Level) Valid() bool {
	switch l {
	case LevelLow, LevelMedium, LevelQuartile, LevelHigh:
		return true
	default:
		return false
	}
}

// Recovery returns the approximate share of damaged modules the level can recover
func (l Level) Recovery() int {
	switch l {
	case LevelLow:
		return 7
	case LevelMedium:
		return 15
	case LevelQuartile:
		return 25
	case LevelHigh:
		return 30
	default:
		return 0
	}
}

// Label returns a human readable label such as "Medium (15%)"
func (l Level) Label() string {
	switch l {
	case LevelLow:
		return "Low (7%)"
	case LevelMedium:
		return "Medium (15%)"
	case LevelQuartile:
		return "Quartile (25%)"
	case LevelHigh:
		return "High (30%)"
	default:
		return string(l)
	}
}

// Next returns the following level, wrapping from H back to L
func (l Level) Next() Level {
	for i, lv := range Levels {
		if lv == l {
			return Levels[(i+1)%len(Levels)]
		}
	}
	return LevelMedium
}

// ParseLevel parses a level code or name, case-insensitively
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l", "low":
		return LevelLow, nil
	case "m", "medium":
		return LevelMedium, nil
	case "q", "quartile":
		return LevelQuartile, nil
	case "h", "high":
		return LevelHigh, nil
	default:
		return "", fmt.Errorf("invalid error correction level: %s (must be one of: L, M, Q, H)", s)
	}
}

// UnmarshalText lets YAML and env decoding accept "medium" as well as "M"
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// MarshalText encodes the level as its single-letter code
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l), nil
}

// QRConfig holds everything the renderer needs to draw a symbol
type QRConfig struct {
	Value         string `yaml:"value" json:"value"`
	FgColor       string `yaml:"fg_color" json:"fgColor"`
	BgColor       string `yaml:"bg_color" json:"bgColor"`
	Size          int    `yaml:"size" json:"size"`
	Level         Level  `yaml:"level" json:"level"`
	IncludeMargin bool   `yaml:"include_margin" json:"includeMargin"`
}

// Default QR settings
const (
	DefaultValue   = "https://google.com"
	DefaultFgColor = "#000000"
	DefaultBgColor = "#ffffff"
	DefaultSize    = 256
	DefaultLevel   = LevelMedium
)

// DefaultQRConfig returns the configuration a fresh session starts with
func DefaultQRConfig() QRConfig {
	return QRConfig{
		Value:         DefaultValue,
		FgColor:       DefaultFgColor,
		BgColor:       DefaultBgColor,
		Size:          DefaultSize,
		Level:         DefaultLevel,
		IncludeMargin: true,
	}
}

// AIResult is the outcome of one content analysis
type AIResult struct {
	Suggestion string `json:"suggestion"`
	IsSafe     bool   `json:"isSafe"`
}
