package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/yildizm/QRStudio/internal/clipboard"
	"github.com/yildizm/QRStudio/internal/config"
	"github.com/yildizm/QRStudio/internal/export"
	"github.com/yildizm/QRStudio/internal/i18n"
	"github.com/yildizm/QRStudio/internal/trigger"
	"github.com/yildizm/QRStudio/internal/ui"
)

func newStudioCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "studio [text]",
		Short: "Open the interactive QR studio",
		Long: `Open the interactive studio. The optional argument replaces the
configured starting content.

Keys:
  tab / shift+tab   move between content, foreground and background
  ctrl+e            cycle error correction L → M → Q → H
  ctrl+t            toggle the quiet-zone margin
  pgup / pgdown     grow or shrink the canvas by 32px
  ctrl+s / ctrl+p   export PNG / PDF
  ctrl+y            copy the content
  ctrl+r            analyze now
  esc / ctrl+c      quit`,
		Example: `  qrstudio studio
  qrstudio studio "https://example.com" --lang en`,
		Args: cobra.MaximumNArgs(1),
		RunE: runStudio,
	}
}

func runStudio(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()

	// stderr belongs to the terminal UI, so logs go to a file
	logOut, closeLog, err := openStudioLog(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	log := GetLogger("studio")
	log.SetOutput(logOut)
	for _, w := range cfg.Warnings() {
		log.Warn("%s", w)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	qr := cfg.QR.ToQRConfig()
	if len(args) == 1 {
		qr.Value = args[0]
	}

	opts := ui.Options{
		Context: ctx,
		Config:  qr,
		Trigger: trigger.Options{
			Delay:        cfg.Analysis.Debounce,
			MinLength:    cfg.Analysis.MinLength,
			DiscardStale: cfg.Analysis.DiscardStale,
		},
		Exporter:   newExporter(cfg),
		Clipboard:  clipboard.NewHelper(clipboard.NewOSC52(), clipboard.CopiedDuration),
		Translator: i18n.New(cfg.Analysis.Language),
		Logger:     log,
		ShowTips:   cfg.UI.ShowTips,
	}

	if cfg.Analysis.Enabled {
		contentAnalyzer, closeAnalyzer := newAnalyzer(ctx, cfg, log)
		defer closeAnalyzer()
		opts.Analyze = contentAnalyzer.Analyze
	}

	program := tea.NewProgram(ui.New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("studio failed: %w", err)
	}
	return nil
}

// newExporter writes artifacts into the configured or default directory
func newExporter(cfg *config.Config) *export.Exporter {
	dir := cfg.Export.Directory
	if dir == "" {
		dir = config.DefaultExportDir()
	}

	tr := i18n.New(cfg.Analysis.Language)
	return export.New(
		export.DirSaver{Dir: dir},
		export.WithCompression(cfg.Export.CompressPDF),
		export.WithText(tr.T(i18n.KeyPDFTitle), tr.T(i18n.KeyPDFCaption, "%s")),
		export.WithFont(pdfFont(cfg.Export.FontFile)),
	)
}

// pdfFont prefers the configured font, then an installed Bengali font.
// nil keeps the exporter's embedded font; config validate reports a bad path.
func pdfFont(path string) []byte {
	if path != "" {
		if data, err := export.LoadFont(path); err == nil {
			return data
		}
	}
	if data, _, ok := export.SystemFont(); ok {
		return data
	}
	return nil
}

// openStudioLog opens the studio log file, falling back to discarding
// output when no location can be created
func openStudioLog(cfg *config.Config) (io.Writer, func(), error) {
	path := cfg.Output.LogFile
	if path == "" {
		var err error
		path, err = config.DefaultLogFile()
		if err != nil {
			return io.Discard, func() {}, nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// #nosec G304 - path comes from configuration
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return file, func() { _ = file.Close() }, nil
}
