package html

import (
	"bytes"
	"context"
	"html"
	"io"

	"github.com/yuin/goldmark"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/scansoal/scansoal/pkg/document"
	"github.com/scansoal/scansoal/pkg/document/markdown"
)

var _ document.Renderer = (*Renderer)(nil)

// Renderer writes a printable HTML page. Each document page becomes a
// section, later sections start on a new printed page.
type Renderer struct {
	markdown *markdown.Renderer
	goldmark goldmark.Markdown
}

func New() *Renderer {
	return &Renderer{
		markdown: markdown.New(),

		goldmark: goldmark.New(
			goldmark.WithRendererOptions(
				gmhtml.WithXHTML(),
			),
		),
	}
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Extension() string {
	return ".html"
}

func (r *Renderer) Render(ctx context.Context, w io.Writer, doc *document.Document) error {
	var buf bytes.Buffer

	buf.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	buf.WriteString("<title>" + html.EscapeString(doc.Title) + "</title>\n")
	buf.WriteString("<style>section + section { page-break-before: always; }</style>\n")
	buf.WriteString("</head>\n<body>\n")

	for _, page := range doc.Pages() {
		var source bytes.Buffer

		if err := r.markdown.Render(ctx, &source, &document.Document{Blocks: page}); err != nil {
			return err
		}

		buf.WriteString("<section>\n")

		if err := r.goldmark.Convert(source.Bytes(), &buf); err != nil {
			return err
		}

		buf.WriteString("</section>\n")
	}

	buf.WriteString("</body>\n</html>\n")

	_, err := w.Write(buf.Bytes())
	return err
}
