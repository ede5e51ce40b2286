// Package export writes rendered symbols as PNG images and A4 PDF documents.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/yildizm/QRStudio/internal/render"
)

// ErrNoSurface is returned when there is nothing rendered to export
var ErrNoSurface = errors.New("no rendered QR code to export")

// PDF layout in millimetres on an A4 portrait page
const (
	pdfCenterX      = 105.0
	pdfTitleY       = 20.0
	pdfTitleSize    = 20.0
	pdfImageX       = 40.0
	pdfImageY       = 40.0
	pdfImageSide    = 130.0
	pdfCaptionY     = 180.0
	pdfCaptionSize  = 10.0
	pdfCaptionGray  = 100
	pdfImageName    = "qr-code"
	pdfFontFamily   = "Helvetica"
	defaultTitle    = "Generated QR Code"
	defaultCaptionF = "Content: %s"
)

// Artifact describes a saved export
type Artifact struct {
	Name string // e.g. qr-code-1718000000000.png
	Path string // where the saver put it
	Size int    // bytes
}

// Option configures an Exporter
type Option func(*Exporter)

// WithClock replaces time.Now, which names artifacts and dates PDFs
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) {
		e.now = now
	}
}

// WithCompression toggles PDF stream compression
func WithCompression(compress bool) Option {
	return func(e *Exporter) {
		e.compress = compress
	}
}

// WithText overrides the PDF title and caption format (one %s verb)
func WithText(title, captionFormat string) Option {
	return func(e *Exporter) {
		if title != "" {
			e.title = title
		}
		if captionFormat != "" {
			e.captionFormat = captionFormat
		}
	}
}

// Exporter turns surfaces into saved artifacts
type Exporter struct {
	saver         Saver
	now           func() time.Time
	compress      bool
	title         string
	captionFormat string
	font          []byte
}

// New creates an exporter that hands files to saver
func New(saver Saver, opts ...Option) *Exporter {
	e := &Exporter{
		saver:         saver,
		now:           time.Now,
		compress:      true,
		title:         defaultTitle,
		captionFormat: defaultCaptionF,
		font:          unicodeFont,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ArtifactName returns qr-code-<ms-epoch>.<ext>
func ArtifactName(at time.Time, ext string) string {
	return fmt.Sprintf("qr-code-%d.%s", at.UnixMilli(), ext)
}

// ExportPNG saves the surface as qr-code-<ms>.png
func (e *Exporter) ExportPNG(surface *render.Surface) (*Artifact, error) {
	if surface == nil || surface.Image == nil {
		return nil, ErrNoSurface
	}

	data, err := EncodePNG(surface)
	if err != nil {
		return nil, err
	}

	return e.save(ArtifactName(e.now(), "png"), data)
}

// ExportPDF saves a one-page document with a title, the symbol and a
// caption naming value
func (e *Exporter) ExportPDF(surface *render.Surface, value string) (*Artifact, error) {
	if surface == nil || surface.Image == nil {
		return nil, ErrNoSurface
	}

	at := e.now()
	data, err := e.EncodePDF(surface, value, at)
	if err != nil {
		return nil, err
	}

	return e.save(ArtifactName(at, "pdf"), data)
}

// EncodePNG encodes the surface image
func EncodePNG(surface *render.Surface) ([]byte, error) {
	if surface == nil || surface.Image == nil {
		return nil, ErrNoSurface
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, surface.Image); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodePDF lays out the document. at is used for both PDF dates so the
// output is reproducible.
func (e *Exporter) EncodePDF(surface *render.Surface, value string, at time.Time) ([]byte, error) {
	img, err := EncodePNG(surface)
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(e.compress)
	pdf.SetCreationDate(at)
	pdf.SetModificationDate(at)
	pdf.SetTitle(e.title, true)
	pdf.SetCreator("QRStudio", true)
	pdf.AddPage()

	title := e.title
	caption := fmt.Sprintf(e.captionFormat, value)

	// core fonts are cp1252; anything else switches both lines to the
	// embedded TrueType font so the caption keeps the literal value
	family := pdfFontFamily
	if needsUnicode(title) || needsUnicode(caption) {
		pdf.AddUTF8FontFromBytes(pdfUnicodeFamily, "", e.font)
		family = pdfUnicodeFamily
	} else {
		tr := pdf.UnicodeTranslatorFromDescriptor("")
		title = tr(title)
		caption = tr(caption)
	}

	pdf.SetFont(family, "", pdfTitleSize)
	pdf.Text(pdfCenterX-pdf.GetStringWidth(title)/2, pdfTitleY, title)

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(pdfImageName, opts, bytes.NewReader(img))
	pdf.ImageOptions(pdfImageName, pdfImageX, pdfImageY, pdfImageSide, pdfImageSide, false, opts, 0, "")

	pdf.SetFont(family, "", pdfCaptionSize)
	pdf.SetTextColor(pdfCaptionGray, pdfCaptionGray, pdfCaptionGray)
	pdf.Text(pdfCenterX-pdf.GetStringWidth(caption)/2, pdfCaptionY, caption)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *Exporter) save(name string, data []byte) (*Artifact, error) {
	path, err := e.saver.Save(name, data)
	if err != nil {
		return nil, fmt.Errorf("failed to save %s: %w", name, err)
	}
	return &Artifact{Name: name, Path: path, Size: len(data)}, nil
}
