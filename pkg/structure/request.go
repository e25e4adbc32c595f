package structure

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/scansoal/scansoal/pkg/provider"
)

const (
	DefaultTemperature     float32 = 0.1
	DefaultMaxPromptTokens         = 16000

	bytesPerToken = 4
)

const systemPrompt = `You format exam text into questions and answers.
The text was recognized from photos of an exam sheet and may contain OCR noise.
Keep the wording and numbering of the questions, fix obvious recognition errors only.
When the sheet carries no answer key, answer each question yourself.
Reply with a single JSON object and nothing else.`

type Request struct {
	Messages []provider.Message
	Options  *provider.CompleteOptions

	// Truncated reports whether the text was cut to fit the prompt budget.
	Truncated bool
}

type RequestOption func(*requestOptions)

type requestOptions struct {
	temperature     float32
	maxTokens       int
	maxPromptTokens int
}

func WithTemperature(t float32) RequestOption {
	return func(o *requestOptions) {
		o.temperature = t
	}
}

func WithMaxTokens(n int) RequestOption {
	return func(o *requestOptions) {
		o.maxTokens = n
	}
}

func WithMaxPromptTokens(n int) RequestOption {
	return func(o *requestOptions) {
		o.maxPromptTokens = n
	}
}

// NewRequest builds the completion request for a normalized exam text. With
// counts the reply is requested as arrays of items.
func NewRequest(normalized string, counts *Counts, options ...RequestOption) *Request {
	o := &requestOptions{
		temperature:     DefaultTemperature,
		maxPromptTokens: DefaultMaxPromptTokens,
	}

	for _, option := range options {
		option(o)
	}

	body, truncated := Truncate(normalized, o.maxPromptTokens)

	lines := counts != nil
	schema := Schema(lines)

	var prompt strings.Builder

	prompt.WriteString("Exam text:\n<<<\n")
	prompt.WriteString(body)
	prompt.WriteString("\n>>>\n\n")

	if lines {
		fmt.Fprintf(&prompt, "The exam has exactly %d multiple choice (PG) questions followed by %d essay questions.\n", counts.PG, counts.Essay)
		fmt.Fprintf(&prompt, "Return %q and %q as arrays with one entry per item: the %d multiple choice items first, then the %d essay items.\n\n", KeySoal, KeyJawaban, counts.PG, counts.Essay)
	} else {
		fmt.Fprintf(&prompt, "Put all questions into %q and all answers into %q, one item per line.\n\n", KeySoal, KeyJawaban)
	}

	prompt.WriteString("The reply must be a JSON object matching this schema exactly:\n")
	prompt.WriteString(indent(schema))

	strict := true

	completeOptions := &provider.CompleteOptions{
		Temperature: &o.temperature,

		Schema: &provider.Schema{
			Name:        "exam",
			Description: "Exam questions (soal) and answers (jawaban)",

			Strict: &strict,
			Schema: schema,
		},
	}

	if o.maxTokens > 0 {
		completeOptions.MaxTokens = &o.maxTokens
	}

	return &Request{
		Messages: []provider.Message{
			provider.SystemMessage(systemPrompt),
			provider.UserMessage(prompt.String()),
		},

		Options: completeOptions,

		Truncated: truncated,
	}
}

// EstimateTokens approximates the token count as ceil(bytes/4).
func EstimateTokens(s string) int {
	return (len(s) + bytesPerToken - 1) / bytesPerToken
}

// Truncate cuts s to at most maxTokens estimated tokens on a rune boundary.
// A non-positive budget leaves s unchanged.
func Truncate(s string, maxTokens int) (string, bool) {
	if maxTokens <= 0 || EstimateTokens(s) <= maxTokens {
		return s, false
	}

	n := maxTokens * bytesPerToken

	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}

	return s[:n], true
}

func indent(v any) string {
	data, _ := json.MarshalIndent(v, "", "  ")
	return string(data)
}
