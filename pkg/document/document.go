package document

import (
	"context"
	"io"

	"github.com/scansoal/scansoal/pkg/partition"
	"github.com/scansoal/scansoal/pkg/structure"
)

const (
	DefaultTitle = "Soal dan Jawaban"

	HeadingQuestions = "Questions"
	HeadingAnswers   = "Answers"

	SubheadingMultipleChoice = "Multiple Choice"
	SubheadingEssay          = "Essay"

	// Basename is the file name of every download, without extension.
	Basename = "soal-jawaban"
)

type Kind int

const (
	KindHeading Kind = iota
	KindSubheading
	KindParagraph
	KindPageBreak
)

func (k Kind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	case KindSubheading:
		return "subheading"
	case KindParagraph:
		return "paragraph"
	case KindPageBreak:
		return "pagebreak"
	default:
		return "unknown"
	}
}

type Block struct {
	Kind Kind
	Text string
}

type Document struct {
	Title  string
	Blocks []Block
}

// Pages groups the blocks between page breaks.
func (d *Document) Pages() [][]Block {
	var pages [][]Block
	var page []Block

	for _, b := range d.Blocks {
		if b.Kind == KindPageBreak {
			pages = append(pages, page)
			page = nil
			continue
		}

		page = append(page, b)
	}

	return append(pages, page)
}

type Renderer interface {
	Render(ctx context.Context, w io.Writer, doc *Document) error

	ContentType() string
	Extension() string
}

func Filename(r Renderer) string {
	return Basename + r.Extension()
}

// Assemble lays out the questions, a page break, then the answers. With
// sections each part is split into multiple choice and essay groups.
func Assemble(title string, answer structure.Answer, sections *partition.Sections) *Document {
	if title == "" {
		title = DefaultTitle
	}

	d := &Document{
		Title: title,
	}

	d.heading(HeadingQuestions)

	if sections != nil {
		d.group(sections.PGSoal, sections.EssaySoal)
	} else {
		d.paragraphs(answer.SoalLines())
	}

	d.Blocks = append(d.Blocks, Block{Kind: KindPageBreak})

	d.heading(HeadingAnswers)

	if sections != nil {
		d.group(sections.PGJawaban, sections.EssayJawaban)
	} else {
		d.paragraphs(answer.JawabanLines())
	}

	return d
}

func (d *Document) heading(text string) {
	d.Blocks = append(d.Blocks, Block{Kind: KindHeading, Text: text})
}

func (d *Document) group(pg, essay []string) {
	d.Blocks = append(d.Blocks, Block{Kind: KindSubheading, Text: SubheadingMultipleChoice})
	d.paragraphs(pg)

	d.Blocks = append(d.Blocks, Block{Kind: KindSubheading, Text: SubheadingEssay})
	d.paragraphs(essay)
}

func (d *Document) paragraphs(lines []string) {
	for _, line := range lines {
		d.Blocks = append(d.Blocks, Block{Kind: KindParagraph, Text: line})
	}
}
