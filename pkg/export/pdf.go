package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"

	"tableflip.dev/dailyreport/pkg/datekey"
	"tableflip.dev/dailyreport/pkg/store"
)

type rgb struct{ r, g, b int }

var (
	colorHeaderBg = rgb{13, 27, 38}
	colorTitle    = rgb{156, 213, 255}
	colorSubtitle = rgb{122, 170, 206}
	colorBand     = rgb{53, 88, 114}
	colorBandText = rgb{247, 248, 240}
	colorLabel    = rgb{122, 170, 206}
	colorValue    = rgb{40, 40, 40}
	colorBody     = rgb{60, 70, 80}
	colorEmpty    = rgb{150, 150, 150}
)

const fontFamily = "Helvetica"

// Document is a rendered PDF ready to be saved.
type Document struct {
	Filename string
	Plan     Plan
	data     []byte
}

// Bytes returns the PDF contents.
func (d *Document) Bytes() []byte {
	return d.data
}

// WriteTo writes the PDF contents to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(d.data)
	return int64(n), err
}

// Save writes the document into dir under its Filename and returns the path.
func (d *Document) Save(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("export: ensure output directory: %w", err)
	}
	path := filepath.Join(dir, d.Filename)
	if err := os.WriteFile(path, d.data, 0o644); err != nil {
		return "", fmt.Errorf("export: write %s: %w", path, err)
	}
	return path, nil
}

// Renderer turns reports into PDF documents.
type Renderer struct {
	Options Options
}

// NewRenderer returns a Renderer with the given title block options.
func NewRenderer(opts Options) *Renderer {
	return &Renderer{Options: opts}
}

// Render is shorthand for NewRenderer(opts).Export(reports, filter).
func Render(reports store.Reports, filter *datekey.Key, opts Options) (*Document, error) {
	return NewRenderer(opts).Export(reports, filter)
}

// Export renders the entry for filter, or all entries when filter is nil.
// Text is drawn with the core Helvetica font in cp1252, so characters outside
// that code page (Tamil, emoji and the like) appear as substitutes in the PDF.
func (r *Renderer) Export(reports store.Reports, filter *datekey.Key) (*Document, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(!r.Options.Uncompressed)
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.SetMargins(bandX, marginTop, bandX)
	pdf.SetCreator("dailyreport", true)
	pdf.SetTitle(orDefault(r.Options.Title, defaultTitle), true)
	if r.Options.Author != "" {
		pdf.SetAuthor(r.Options.Author, true)
	}

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	plan := Layout(reports, filter, &fpdfMeasurer{pdf: pdf, tr: tr}, r.Options)

	for _, page := range plan.Pages {
		pdf.AddPage()
		for _, op := range page.Ops {
			draw(pdf, tr, op)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("export: render pdf: %w", err)
	}
	return &Document{Filename: plan.Filename, Plan: plan, data: buf.Bytes()}, nil
}

func draw(pdf *fpdf.Fpdf, tr func(string) string, op Op) {
	switch op.Kind {
	case OpHeaderBand:
		fill(pdf, colorHeaderBg)
		pdf.Rect(op.X, op.Y, op.W, op.H, "F")
	case OpTitle:
		text(pdf, colorTitle, "B", 18)
		pdf.Text(op.X, op.Y, tr(op.Text))
	case OpSubtitle:
		text(pdf, colorSubtitle, "", 9)
		pdf.Text(op.X, op.Y, tr(op.Text))
	case OpEmpty:
		text(pdf, colorEmpty, "", 12)
		pdf.Text(op.X, op.Y, tr(op.Text))
	case OpDateBand:
		fill(pdf, colorBand)
		pdf.RoundedRect(op.X, op.Y, op.W, op.H, 2, "1234", "F")
		text(pdf, colorBandText, "B", 11)
		pdf.Text(textX, op.Y+7, tr(op.Text))
	case OpLabel:
		text(pdf, colorLabel, "B", 9)
		pdf.Text(op.X, op.Y, tr(op.Text))
	case OpValue:
		text(pdf, colorValue, "", 9)
		pdf.Text(op.X, op.Y, tr(op.Text))
	case OpBody:
		text(pdf, colorBody, "", 9)
		pdf.Text(op.X, op.Y, tr(op.Text))
	case OpRule:
		pdf.SetDrawColor(colorBand.r, colorBand.g, colorBand.b)
		pdf.SetLineWidth(0.3)
		pdf.Line(op.X, op.Y, op.X+op.W, op.Y)
	}
}

func fill(pdf *fpdf.Fpdf, c rgb) {
	pdf.SetFillColor(c.r, c.g, c.b)
}

func text(pdf *fpdf.Fpdf, c rgb, style string, size float64) {
	pdf.SetTextColor(c.r, c.g, c.b)
	pdf.SetFont(fontFamily, style, size)
}

// fpdfMeasurer measures body text with the core Helvetica metrics.
type fpdfMeasurer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (m *fpdfMeasurer) Width(s string) float64 {
	m.pdf.SetFont(fontFamily, "", 9)
	return m.pdf.GetStringWidth(m.tr(s))
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
