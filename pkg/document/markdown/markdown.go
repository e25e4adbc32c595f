package markdown

import (
	"bufio"
	"context"
	"io"
	"regexp"
	"strings"

	"github.com/scansoal/scansoal/pkg/document"
)

var _ document.Renderer = (*Renderer)(nil)

// PageSeparator marks a hard page break in the markdown output.
const PageSeparator = "---"

var (
	escaper = strings.NewReplacer(
		`\`, `\\`,
		"`", "\\`",
		"*", `\*`,
		"_", `\_`,
		"#", `\#`,
		"[", `\[`,
		"]", `\]`,
		"<", `\<`,
		">", `\>`,
	)

	orderedMarker = regexp.MustCompile(`^(\d+)([.)])(\s|$)`)
	bulletMarker  = regexp.MustCompile(`^([-+=])`)
)

type Renderer struct {
}

func New() *Renderer {
	return &Renderer{}
}

func (r *Renderer) ContentType() string {
	return "text/markdown; charset=utf-8"
}

func (r *Renderer) Extension() string {
	return ".md"
}

func (r *Renderer) Render(ctx context.Context, w io.Writer, doc *document.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)

	for i, b := range doc.Blocks {
		if i > 0 {
			bw.WriteString("\n")
		}

		switch b.Kind {
		case document.KindHeading:
			bw.WriteString("# " + Escape(b.Text) + "\n")

		case document.KindSubheading:
			bw.WriteString("## " + Escape(b.Text) + "\n")

		case document.KindParagraph:
			bw.WriteString(paragraph(b.Text) + "\n")

		case document.KindPageBreak:
			bw.WriteString(PageSeparator + "\n")
		}
	}

	return bw.Flush()
}

// paragraph escapes every line and joins them with hard line breaks.
func paragraph(text string) string {
	lines := strings.Split(text, "\n")

	for i, line := range lines {
		lines[i] = Escape(strings.TrimSpace(line))
	}

	return strings.Join(lines, "\\\n")
}

// Escape keeps OCR text literal, so "1. a" stays a paragraph instead of
// turning into a list.
func Escape(s string) string {
	s = escaper.Replace(s)
	s = orderedMarker.ReplaceAllString(s, `$1\$2$3`)
	s = bulletMarker.ReplaceAllString(s, `\$1`)

	return s
}
