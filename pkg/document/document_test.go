package document

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scansoal/scansoal/pkg/partition"
	"github.com/scansoal/scansoal/pkg/structure"
)

func TestAssemble(t *testing.T) {
	d := Assemble("", structure.Answer{
		Soal:    "1. What is 2+2? A.3 B.4\n2. Capital of Indonesia?",
		Jawaban: "1. B\n2. Jakarta",
	}, nil)

	require.Equal(t, DefaultTitle, d.Title)
	require.Equal(t, []Block{
		{Kind: KindHeading, Text: "Questions"},
		{Kind: KindParagraph, Text: "1. What is 2+2? A.3 B.4"},
		{Kind: KindParagraph, Text: "2. Capital of Indonesia?"},
		{Kind: KindPageBreak},
		{Kind: KindHeading, Text: "Answers"},
		{Kind: KindParagraph, Text: "1. B"},
		{Kind: KindParagraph, Text: "2. Jakarta"},
	}, d.Blocks)
}

func TestAssembleSections(t *testing.T) {
	d := Assemble("Ujian", structure.Answer{}, &partition.Sections{
		PGSoal:       []string{"1. a", "2. b"},
		EssaySoal:    []string{"3. c"},
		PGJawaban:    []string{"A", "B"},
		EssayJawaban: nil,
	})

	require.Equal(t, "Ujian", d.Title)
	require.Equal(t, []Block{
		{Kind: KindHeading, Text: "Questions"},
		{Kind: KindSubheading, Text: "Multiple Choice"},
		{Kind: KindParagraph, Text: "1. a"},
		{Kind: KindParagraph, Text: "2. b"},
		{Kind: KindSubheading, Text: "Essay"},
		{Kind: KindParagraph, Text: "3. c"},
		{Kind: KindPageBreak},
		{Kind: KindHeading, Text: "Answers"},
		{Kind: KindSubheading, Text: "Multiple Choice"},
		{Kind: KindParagraph, Text: "A"},
		{Kind: KindParagraph, Text: "B"},
		{Kind: KindSubheading, Text: "Essay"},
	}, d.Blocks)
}

func TestPages(t *testing.T) {
	d := Assemble("", structure.Answer{Soal: "q", Jawaban: "a"}, nil)

	pages := d.Pages()
	require.Len(t, pages, 2)
	require.Equal(t, "Questions", pages[0][0].Text)
	require.Equal(t, "Answers", pages[1][0].Text)
}
