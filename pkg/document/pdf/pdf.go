package pdf

import (
	"context"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/scansoal/scansoal/pkg/document"
)

var _ document.Renderer = (*Renderer)(nil)

type Renderer struct {
	compress bool
	created  time.Time

	font     string
	fontSize float64
}

type Option func(*Renderer)

func WithCompression(compress bool) Option {
	return func(r *Renderer) {
		r.compress = compress
	}
}

func WithCreationDate(t time.Time) Option {
	return func(r *Renderer) {
		r.created = t
	}
}

func New(options ...Option) *Renderer {
	r := &Renderer{
		compress: true,

		font:     "Helvetica",
		fontSize: 11,
	}

	for _, option := range options {
		option(r)
	}

	return r
}

func (r *Renderer) ContentType() string {
	return "application/pdf"
}

func (r *Renderer) Extension() string {
	return ".pdf"
}

// Render writes an A4 document. Every page break of the document starts a
// new PDF page.
func (r *Renderer) Render(ctx context.Context, w io.Writer, doc *document.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.compress)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	// core fonts only cover cp1252
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTitle(tr(doc.Title), false)

	if !r.created.IsZero() {
		pdf.SetCreationDate(r.created)
		pdf.SetModificationDate(r.created)
	}

	pdf.AddPage()

	lineHeight := r.fontSize * 0.5

	for _, b := range doc.Blocks {
		switch b.Kind {
		case document.KindHeading:
			pdf.SetFont(r.font, "B", r.fontSize+7)
			pdf.MultiCell(0, lineHeight+4, tr(b.Text), "", "L", false)
			pdf.Ln(2)

		case document.KindSubheading:
			pdf.Ln(2)
			pdf.SetFont(r.font, "B", r.fontSize+2)
			pdf.MultiCell(0, lineHeight+2, tr(b.Text), "", "L", false)
			pdf.Ln(1)

		case document.KindParagraph:
			pdf.SetFont(r.font, "", r.fontSize)
			pdf.MultiCell(0, lineHeight, tr(b.Text), "", "L", false)
			pdf.Ln(1)

		case document.KindPageBreak:
			pdf.AddPage()
		}

		if pdf.Err() {
			return pdf.Error()
		}
	}

	return pdf.Output(w)
}
