package structure

import (
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
)

const (
	KeySoal    = "soal"
	KeyJawaban = "jawaban"
)

// reply schema when the whole text is returned as one string per key
const textSchema = `{
  "type": "object",
  "properties": {
    "soal": {
      "type": "string",
      "description": "All questions in original order, including their answer options."
    },
    "jawaban": {
      "type": "string",
      "description": "The answers in the same order as the questions."
    }
  },
  "required": ["soal", "jawaban"],
  "additionalProperties": false
}`

// reply schema when section counts are requested
const linesSchema = `{
  "type": "object",
  "properties": {
    "soal": {
      "type": "array",
      "items": { "type": "string" },
      "description": "One entry per question, multiple choice first, then essay."
    },
    "jawaban": {
      "type": "array",
      "items": { "type": "string" },
      "description": "One entry per answer, in the same order as soal."
    }
  },
  "required": ["soal", "jawaban"],
  "additionalProperties": false
}`

// accepted on the way back in: either form per key, extra keys ignored
const replySchema = `{
  "type": "object",
  "properties": {
    "soal": {
      "type": ["string", "array"],
      "items": { "type": "string" }
    },
    "jawaban": {
      "type": ["string", "array"],
      "items": { "type": "string" }
    }
  },
  "required": ["soal", "jawaban"]
}`

var resolvedReply = mustResolve(replySchema)

// Schema returns the reply schema as sent to the language model.
func Schema(lines bool) map[string]any {
	source := textSchema

	if lines {
		source = linesSchema
	}

	var result map[string]any

	if err := json.Unmarshal([]byte(source), &result); err != nil {
		panic(err)
	}

	return result
}

func mustResolve(source string) *jsonschema.Resolved {
	schema := new(jsonschema.Schema)

	if err := schema.UnmarshalJSON([]byte(source)); err != nil {
		panic(err)
	}

	resolved, err := schema.Resolve(nil)

	if err != nil {
		panic(err)
	}

	return resolved
}
