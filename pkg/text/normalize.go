package text

import (
	"regexp"
	"strings"
)

var (
	newlineRuns    = regexp.MustCompile(`\n{2,}`)
	// every rune unicode.IsSpace accepts, NBSP included
	whitespaceRuns = regexp.MustCompile(`[\s\v\p{Zs}\x{85}\x{2028}\x{2029}]{2,}`)
)

// Normalize cleans raw OCR output. Runs of newlines collapse to one, vertical
// bars left over from table borders are dropped, remaining whitespace runs
// collapse to a single space and the result is trimmed.
//
// Normalize(Normalize(s)) == Normalize(s) for every s.
func Normalize(text string) string {
	text = newlineRuns.ReplaceAllString(text, "\n")

	text = strings.ReplaceAll(text, "|", "")

	text = whitespaceRuns.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}

// Lines splits text into trimmed, non-blank lines in their original order.
func Lines(text string) []string {
	var result []string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)

		if line == "" {
			continue
		}

		result = append(result, line)
	}

	return result
}
