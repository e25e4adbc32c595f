package partition

import (
	"github.com/scansoal/scansoal/pkg/structure"
)

// Sections holds questions and answers split into multiple choice (PG) and
// essay groups.
type Sections struct {
	PGSoal    []string
	EssaySoal []string

	PGJawaban    []string
	EssayJawaban []string
}

// Split assigns the first pg lines to the first group and the next essay
// lines to the second. Fewer lines than requested give shorter groups,
// lines beyond pg+essay are dropped. Negative counts count as zero.
func Split(lines []string, pg, essay int) ([]string, []string) {
	pg = max(pg, 0)
	essay = max(essay, 0)

	pgEnd := min(pg, len(lines))
	essayEnd := min(pgEnd+essay, len(lines))

	first := make([]string, pgEnd)
	copy(first, lines[:pgEnd])

	second := make([]string, essayEnd-pgEnd)
	copy(second, lines[pgEnd:essayEnd])

	return first, second
}

// Apply splits questions and answers independently. Array replies are split
// by item, so an entry spanning several lines or a blank answer still counts
// as one item. String replies are split by line.
func Apply(answer structure.Answer, counts structure.Counts) *Sections {
	pgSoal, essaySoal := Split(answer.SoalEntries(), counts.PG, counts.Essay)
	pgJawaban, essayJawaban := Split(answer.JawabanEntries(), counts.PG, counts.Essay)

	return &Sections{
		PGSoal:    pgSoal,
		EssaySoal: essaySoal,

		PGJawaban:    pgJawaban,
		EssayJawaban: essayJawaban,
	}
}
