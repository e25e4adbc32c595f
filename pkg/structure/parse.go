package structure

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type Outcome int

const (
	OutcomeDecoded Outcome = iota
	OutcomeFallback
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDecoded:
		return "decoded"
	case OutcomeFallback:
		return "fallback"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result always carries a usable answer. Reason explains a fallback.
type Result struct {
	Outcome Outcome
	Answer  Answer

	Reason string
}

func (r Result) Fallback() bool {
	return r.Outcome == OutcomeFallback
}

var (
	errNotObject  = errors.New("reply is not a JSON object")
	errBlankSoal  = errors.New("soal is blank")
	errFieldShape = errors.New("field is neither a string nor a list of strings")
)

// Parse decodes a language model reply. Any reply that does not hold the
// expected object yields the fallback answer built from normalized.
func Parse(reply, normalized string) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = fallback(normalized, fmt.Errorf("panic: %v", r))
		}
	}()

	answer, err := decode(reply)

	if err != nil {
		return fallback(normalized, err)
	}

	return Result{
		Outcome: OutcomeDecoded,
		Answer:  answer,
	}
}

func fallback(normalized string, err error) Result {
	return Result{
		Outcome: OutcomeFallback,

		Answer: Answer{
			Soal:    normalized,
			Jawaban: FallbackAnswer,
		},

		Reason: err.Error(),
	}
}

func decode(reply string) (Answer, error) {
	data := stripFence(reply)

	var value any

	if err := json.Unmarshal([]byte(data), &value); err != nil {
		return Answer{}, err
	}

	object, ok := value.(map[string]any)

	if !ok {
		return Answer{}, errNotObject
	}

	if err := resolvedReply.Validate(object); err != nil {
		return Answer{}, err
	}

	soal, soalItems, err := field(object, KeySoal)

	if err != nil {
		return Answer{}, err
	}

	jawaban, jawabanItems, err := field(object, KeyJawaban)

	if err != nil {
		return Answer{}, err
	}

	if strings.TrimSpace(soal) == "" {
		return Answer{}, errBlankSoal
	}

	return Answer{
		Soal:    soal,
		Jawaban: jawaban,

		SoalItems:    soalItems,
		JawabanItems: jawabanItems,
	}, nil
}

// field reads a string or a list of strings. For a list the trimmed items are
// returned as well, blank ones included, and the text joins them by newline.
func field(object map[string]any, key string) (string, []string, error) {
	switch v := object[key].(type) {
	case string:
		return v, nil, nil

	case []any:
		items := make([]string, 0, len(v))

		for _, item := range v {
			s, ok := item.(string)

			if !ok {
				return "", nil, fmt.Errorf("%s: %w", key, errFieldShape)
			}

			items = append(items, strings.TrimSpace(s))
		}

		return strings.Join(items, "\n"), items, nil

	default:
		return "", nil, fmt.Errorf("%s: %w", key, errFieldShape)
	}
}

// stripFence removes one surrounding markdown code fence such as ```json.
func stripFence(s string) string {
	s = strings.TrimSpace(s)

	if !strings.HasPrefix(s, "```") {
		return s
	}

	body := strings.TrimPrefix(s, "```")

	if i := strings.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	} else {
		return s
	}

	body = strings.TrimSpace(body)
	body = strings.TrimSuffix(body, "```")

	return strings.TrimSpace(body)
}
