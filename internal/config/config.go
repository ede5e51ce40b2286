package config

import (
	"fmt"
	"os"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/yildizm/QRStudio/internal/common"
	"github.com/yildizm/QRStudio/internal/i18n"
)

// Config holds the complete application configuration
type Config struct {
	Version  string         `yaml:"version" json:"version" env:"VERSION"`
	QR       QRConfig       `yaml:"qr" json:"qr" envPrefix:"QR_"`
	AI       AIConfig       `yaml:"ai" json:"ai" envPrefix:"AI_"`
	Analysis AnalysisConfig `yaml:"analysis" json:"analysis" envPrefix:"ANALYSIS_"`
	Export   ExportConfig   `yaml:"export" json:"export" envPrefix:"EXPORT_"`
	Output   OutputConfig   `yaml:"output" json:"output" envPrefix:"OUTPUT_"`
	UI       UIConfig       `yaml:"ui" json:"ui" envPrefix:"UI_"`
}

// QRConfig holds the symbol settings a session starts with
type QRConfig struct {
	Value         string       `yaml:"value" json:"value" env:"VALUE"`
	FgColor       string       `yaml:"fg_color" json:"fg_color" env:"FG_COLOR"`
	BgColor       string       `yaml:"bg_color" json:"bg_color" env:"BG_COLOR"`
	Size          int          `yaml:"size" json:"size" env:"SIZE"`
	Level         common.Level `yaml:"level" json:"level" env:"LEVEL"`
	IncludeMargin bool         `yaml:"include_margin" json:"include_margin" env:"INCLUDE_MARGIN"`
}

// AIConfig configures AI provider settings
type AIConfig struct {
	Provider    string        `yaml:"provider" json:"provider" env:"PROVIDER"`          // gemini|openai|ollama
	Model       string        `yaml:"model" json:"model" env:"MODEL"`                   // empty selects the provider default
	Endpoint    string        `yaml:"endpoint" json:"endpoint" env:"ENDPOINT"`          // API base URL override
	APIKey      string        `yaml:"api_key" json:"-" env:"API_KEY"`                   // never echoed by config show --format json
	Timeout     time.Duration `yaml:"timeout" json:"timeout" env:"TIMEOUT"`             // per-call timeout
	MaxRetries  int           `yaml:"max_retries" json:"max_retries" env:"MAX_RETRIES"` // retry count
	Temperature float64       `yaml:"temperature" json:"temperature" env:"TEMPERATURE"` // 0 selects the provider default
}

// AnalysisConfig configures the debounced content analysis
type AnalysisConfig struct {
	Enabled      bool          `yaml:"enabled" json:"enabled" env:"ENABLED"`
	Debounce     time.Duration `yaml:"debounce" json:"debounce" env:"DEBOUNCE"`
	MinLength    int           `yaml:"min_length" json:"min_length" env:"MIN_LENGTH"`
	DiscardStale bool          `yaml:"discard_stale" json:"discard_stale" env:"DISCARD_STALE"`
	Language     string        `yaml:"language" json:"language" env:"LANGUAGE"`
}

// ExportConfig configures PNG and PDF artifacts
type ExportConfig struct {
	Directory   string `yaml:"directory" json:"directory" env:"DIRECTORY"` // empty selects the user's download dir
	CompressPDF bool   `yaml:"compress_pdf" json:"compress_pdf" env:"COMPRESS_PDF"`
	FontFile    string `yaml:"font_file" json:"font_file" env:"FONT_FILE"` // TrueType font for PDF text outside cp1252
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format" env:"DEFAULT_FORMAT"` // text|json|markdown
	ColorMode     string `yaml:"color_mode" json:"color_mode" env:"COLOR_MODE"`             // auto|always|never
	Verbose       bool   `yaml:"verbose" json:"verbose" env:"VERBOSE"`
	LogFile       string `yaml:"log_file" json:"log_file" env:"LOG_FILE"` // TUI log target, empty selects the XDG state dir
}

// UIConfig configures the interactive studio
type UIConfig struct {
	Theme    string `yaml:"theme" json:"theme" env:"THEME"`
	ShowTips bool   `yaml:"show_tips" json:"show_tips" env:"SHOW_TIPS"`
}

// Supported values
var (
	validProviders   = []string{"gemini", "openai", "ollama"}
	validFormats     = []string{"text", "json", "markdown"}
	validColorModes  = []string{"auto", "always", "never"}
	validThemes      = []string{"default", "high-contrast", "minimal"}
	maxSymbolSize    = 4096
	defaultAITimeout = 30 * time.Second
)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	qr := common.DefaultQRConfig()
	return &Config{
		Version: "1.0",
		QR: QRConfig{
			Value:         qr.Value,
			FgColor:       qr.FgColor,
			BgColor:       qr.BgColor,
			Size:          qr.Size,
			Level:         qr.Level,
			IncludeMargin: qr.IncludeMargin,
		},
		AI: AIConfig{
			Provider:   "gemini",
			Timeout:    defaultAITimeout,
			MaxRetries: 3,
		},
		Analysis: AnalysisConfig{
			Enabled:   true,
			Debounce:  1500 * time.Millisecond,
			MinLength: 5,
			Language:  "bn",
		},
		Export: ExportConfig{
			CompressPDF: true,
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			ColorMode:     "auto",
		},
		UI: UIConfig{
			Theme:    "default",
			ShowTips: true,
		},
	}
}

// ToQRConfig converts the startup section into the render model
func (q QRConfig) ToQRConfig() common.QRConfig {
	return common.QRConfig{
		Value:         q.Value,
		FgColor:       q.FgColor,
		BgColor:       q.BgColor,
		Size:          q.Size,
		Level:         q.Level,
		IncludeMargin: q.IncludeMargin,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateQRConfig(); err != nil {
		return err
	}
	if err := c.validateAIConfig(); err != nil {
		return err
	}
	if err := c.validateAnalysisConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	if err := c.validateUIConfig(); err != nil {
		return err
	}
	return nil
}

// Warnings returns problems that do not stop the studio from starting.
// Colors are checked here only; the renderer reports them itself.
func (c *Config) Warnings() []string {
	var warnings []string
	if _, err := colorful.Hex(c.QR.FgColor); err != nil {
		warnings = append(warnings, fmt.Sprintf("fg_color %q is not a #rrggbb color", c.QR.FgColor))
	}
	if _, err := colorful.Hex(c.QR.BgColor); err != nil {
		warnings = append(warnings, fmt.Sprintf("bg_color %q is not a #rrggbb color", c.QR.BgColor))
	}
	if c.AI.Provider != "ollama" && c.AI.APIKey == "" {
		warnings = append(warnings, fmt.Sprintf("no API key configured for %s: analysis will fall back", c.AI.Provider))
	}
	if c.Export.FontFile != "" {
		if _, err := os.Stat(c.Export.FontFile); err != nil {
			warnings = append(warnings, fmt.Sprintf("font_file %q is not readable: PDFs use the embedded font", c.Export.FontFile))
		}
	}
	return warnings
}

// validateQRConfig validates the startup symbol settings
func (c *Config) validateQRConfig() error {
	if c.QR.Level != "" && !c.QR.Level.Valid() {
		return fmt.Errorf("invalid error correction level: %s (must be one of: L, M, Q, H)", c.QR.Level)
	}
	if c.QR.Size < 1 || c.QR.Size > maxSymbolSize {
		return fmt.Errorf("size must be between 1 and %d", maxSymbolSize)
	}
	return nil
}

// validateAIConfig validates AI-related configuration
func (c *Config) validateAIConfig() error {
	if c.AI.Provider != "" && !contains(validProviders, c.AI.Provider) {
		return fmt.Errorf("invalid AI provider: %s (must be one of: gemini, openai, ollama)", c.AI.Provider)
	}
	if c.AI.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative")
	}
	if c.AI.Timeout < 0 {
		return fmt.Errorf("ai timeout must be non-negative")
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	return nil
}

// validateAnalysisConfig validates analysis-related configuration
func (c *Config) validateAnalysisConfig() error {
	if c.Analysis.Debounce <= 0 {
		return fmt.Errorf("debounce must be greater than 0")
	}
	if c.Analysis.MinLength < 0 {
		return fmt.Errorf("min_length must be non-negative")
	}
	if c.Analysis.Language != "" && !i18n.Supported(c.Analysis.Language) {
		return fmt.Errorf("unsupported language: %s (must be one of: bn, en)", c.Analysis.Language)
	}
	return nil
}

// validateOutputConfig validates output-related configuration
func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" && !contains(validFormats, c.Output.DefaultFormat) {
		return fmt.Errorf("invalid output format: %s (must be one of: text, json, markdown)", c.Output.DefaultFormat)
	}
	if c.Output.ColorMode != "" && !contains(validColorModes, c.Output.ColorMode) {
		return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
	}
	return nil
}

// validateUIConfig validates studio settings
func (c *Config) validateUIConfig() error {
	if c.UI.Theme != "" && !contains(validThemes, c.UI.Theme) {
		return fmt.Errorf("invalid theme: %s (must be one of: default, high-contrast, minimal)", c.UI.Theme)
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
