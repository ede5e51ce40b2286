package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/yildizm/QRStudio/internal/common"
	"github.com/yildizm/QRStudio/internal/emoji"
	"github.com/yildizm/QRStudio/internal/export"
	"github.com/yildizm/QRStudio/internal/render"
)

var (
	renderPNG      bool
	renderPDF      bool
	renderFg       string
	renderBg       string
	renderSize     int
	renderLevel    string
	renderNoMargin bool
	renderOutDir   string
)

func newRenderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <text>",
		Short: "Render a QR code without the studio",
		Long: `Render a QR code and export it as PNG and/or PDF. Without --png or
--pdf the symbol is printed to the terminal.

Unset flags fall back to the qr section of the configuration.`,
		Example: `  qrstudio render "https://example.com"
  qrstudio render "Contact: 555-1234" --png --pdf --level H --out ./codes
  qrstudio render "hello" --png --fg "#1e40af" --bg "#f8fafc" --size 512`,
		Args: cobra.ExactArgs(1),
		RunE: runRender,
	}

	cmd.Flags().BoolVar(&renderPNG, "png", false, "export a PNG image")
	cmd.Flags().BoolVar(&renderPDF, "pdf", false, "export a PDF document")
	cmd.Flags().StringVar(&renderFg, "fg", "", "foreground color (#rrggbb)")
	cmd.Flags().StringVar(&renderBg, "bg", "", "background color (#rrggbb)")
	cmd.Flags().IntVar(&renderSize, "size", 0, "image edge length in pixels")
	cmd.Flags().StringVarP(&renderLevel, "level", "l", "", "error correction level (L, M, Q, H)")
	cmd.Flags().BoolVar(&renderNoMargin, "no-margin", false, "omit the quiet zone")
	cmd.Flags().StringVar(&renderOutDir, "out", "", "export directory (default: configured or download dir)")

	return cmd
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()

	qr, err := renderConfig(cfg.QR.ToQRConfig(), args[0])
	if err != nil {
		return err
	}

	surface, err := render.Render(qr)
	if err != nil {
		return fmt.Errorf("failed to render: %w", err)
	}

	out := cmd.OutOrStdout()
	if !renderPNG && !renderPDF {
		fmt.Fprintln(out, strings.Join(surface.Preview(), "\n"))
		return nil
	}

	if renderOutDir != "" {
		cfg.Export.Directory = renderOutDir
	}
	artifacts, err := exportAll(cmd.Context(), newExporter(cfg), surface, qr.Value, renderPNG, renderPDF)
	if err != nil {
		return err
	}

	for _, a := range artifacts {
		fmt.Fprintf(out, "%s %s (%s)\n", emoji.GetEmoji("success"), a.Path, humanize.Bytes(uint64(a.Size)))
	}
	return nil
}

// renderConfig applies the command flags to base
func renderConfig(base common.QRConfig, value string) (common.QRConfig, error) {
	qr := base
	qr.Value = value

	if renderFg != "" {
		qr.FgColor = renderFg
	}
	if renderBg != "" {
		qr.BgColor = renderBg
	}
	if renderSize != 0 {
		qr.Size = renderSize
	}
	if renderLevel != "" {
		level, err := common.ParseLevel(renderLevel)
		if err != nil {
			return qr, err
		}
		qr.Level = level
	}
	if renderNoMargin {
		qr.IncludeMargin = false
	}

	return qr, nil
}

// exportAll writes the requested formats concurrently. The result keeps
// PNG before PDF regardless of which finished first.
func exportAll(ctx context.Context, exporter *export.Exporter, surface *render.Surface, value string, png, pdf bool) ([]*export.Artifact, error) {
	var pngArtifact, pdfArtifact *export.Artifact

	g, _ := errgroup.WithContext(ctx)
	if png {
		g.Go(func() error {
			a, err := exporter.ExportPNG(surface)
			if err != nil {
				return fmt.Errorf("PNG export failed: %w", err)
			}
			pngArtifact = a
			return nil
		})
	}
	if pdf {
		g.Go(func() error {
			a, err := exporter.ExportPDF(surface, value)
			if err != nil {
				return fmt.Errorf("PDF export failed: %w", err)
			}
			pdfArtifact = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var artifacts []*export.Artifact
	for _, a := range []*export.Artifact{pngArtifact, pdfArtifact} {
		if a != nil {
			artifacts = append(artifacts, a)
		}
	}
	return artifacts, nil
}
