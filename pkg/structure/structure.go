package structure

import (
	"github.com/scansoal/scansoal/pkg/text"
)

// FallbackAnswer is used as jawaban whenever the reply cannot be decoded.
const FallbackAnswer = "Jawaban tidak dapat ditentukan"

// Counts are the requested number of multiple choice (PG) and essay items.
type Counts struct {
	PG    int
	Essay int
}

// NewCounts returns nil when neither count is given. A missing count is 0.
func NewCounts(pg, essay *int) *Counts {
	if pg == nil && essay == nil {
		return nil
	}

	c := &Counts{}

	if pg != nil {
		c.PG = max(*pg, 0)
	}

	if essay != nil {
		c.Essay = max(*essay, 0)
	}

	return c
}

// Answer is the structured result: questions (soal) and answers (jawaban).
type Answer struct {
	Soal    string
	Jawaban string

	// SoalItems and JawabanItems hold the entries of an array reply, one per
	// question or answer. Entries may span several lines or be blank. Both
	// are nil for string replies.
	SoalItems    []string
	JawabanItems []string
}

func (a Answer) SoalLines() []string {
	return text.Lines(a.Soal)
}

func (a Answer) JawabanLines() []string {
	return text.Lines(a.Jawaban)
}

// SoalEntries returns one entry per question: the array items when the
// reply had them, the non-blank lines of Soal otherwise.
func (a Answer) SoalEntries() []string {
	if a.SoalItems != nil {
		return a.SoalItems
	}

	return a.SoalLines()
}

// JawabanEntries is SoalEntries for the answers.
func (a Answer) JawabanEntries() []string {
	if a.JawabanItems != nil {
		return a.JawabanItems
	}

	return a.JawabanLines()
}
