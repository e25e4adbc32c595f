package structure

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	const normalized = "1. Berapa 2+2? A.3 B.4"

	tests := []struct {
		name    string
		reply   string
		outcome Outcome
		answer  Answer
	}{
		{
			name:    "object",
			reply:   `{"soal":"1. What is 2+2? A.3 B.4","jawaban":"B"}`,
			outcome: OutcomeDecoded,
			answer:  Answer{Soal: "1. What is 2+2? A.3 B.4", Jawaban: "B"},
		},
		{
			name:    "fenced",
			reply:   "```json\n{\"soal\":\"1. a\",\"jawaban\":\"1. b\"}\n```",
			outcome: OutcomeDecoded,
			answer:  Answer{Soal: "1. a", Jawaban: "1. b"},
		},
		{
			name:    "arrays",
			reply:   `{"soal":["1. a","2. b"],"jawaban":["A","B"]}`,
			outcome: OutcomeDecoded,
			answer: Answer{
				Soal:    "1. a\n2. b",
				Jawaban: "A\nB",

				SoalItems:    []string{"1. a", "2. b"},
				JawabanItems: []string{"A", "B"},
			},
		},
		{
			name:    "multi line items",
			reply:   `{"soal":["1. What is 2+2?\nA. 3\nB. 4"," 2. Essay "],"jawaban":["B",""]}`,
			outcome: OutcomeDecoded,
			answer: Answer{
				Soal:    "1. What is 2+2?\nA. 3\nB. 4\n2. Essay",
				Jawaban: "B\n",

				SoalItems:    []string{"1. What is 2+2?\nA. 3\nB. 4", "2. Essay"},
				JawabanItems: []string{"B", ""},
			},
		},
		{
			name:    "mixed forms",
			reply:   `{"soal":["1. a"],"jawaban":"A"}`,
			outcome: OutcomeDecoded,
			answer: Answer{
				Soal:    "1. a",
				Jawaban: "A",

				SoalItems: []string{"1. a"},
			},
		},
		{
			name:    "extra keys",
			reply:   `{"soal":"1. a","jawaban":"A","catatan":"x"}`,
			outcome: OutcomeDecoded,
			answer:  Answer{Soal: "1. a", Jawaban: "A"},
		},
		{
			name:    "empty answer",
			reply:   `{"soal":"1. a","jawaban":""}`,
			outcome: OutcomeDecoded,
			answer:  Answer{Soal: "1. a", Jawaban: ""},
		},
		{
			name:    "not json",
			reply:   "not json",
			outcome: OutcomeFallback,
		},
		{
			name:    "empty",
			reply:   "",
			outcome: OutcomeFallback,
		},
		{
			name:    "missing key",
			reply:   `{"soal":"1. a"}`,
			outcome: OutcomeFallback,
		},
		{
			name:    "wrong type",
			reply:   `{"soal":1,"jawaban":"A"}`,
			outcome: OutcomeFallback,
		},
		{
			name:    "mixed array",
			reply:   `{"soal":["1. a",2],"jawaban":"A"}`,
			outcome: OutcomeFallback,
		},
		{
			name:    "blank soal",
			reply:   `{"soal":"  ","jawaban":"A"}`,
			outcome: OutcomeFallback,
		},
		{
			name:    "array root",
			reply:   `[{"soal":"1. a","jawaban":"A"}]`,
			outcome: OutcomeFallback,
		},
		{
			name:    "trailing text",
			reply:   `{"soal":"1. a","jawaban":"A"} thanks`,
			outcome: OutcomeFallback,
		},
		{
			name:    "null",
			reply:   `null`,
			outcome: OutcomeFallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Parse(tt.reply, normalized)

			require.Equal(t, tt.outcome, result.Outcome)

			if tt.outcome == OutcomeFallback {
				require.True(t, result.Fallback())
				require.NotEmpty(t, result.Reason)
				require.Equal(t, Answer{Soal: normalized, Jawaban: FallbackAnswer}, result.Answer)
				return
			}

			require.False(t, result.Fallback())
			require.Empty(t, result.Reason)
			require.Equal(t, tt.answer, result.Answer)
		})
	}
}

func TestStripFence(t *testing.T) {
	require.Equal(t, `{"a":1}`, stripFence("```json\n{\"a\":1}\n```"))
	require.Equal(t, `{"a":1}`, stripFence("```\n{\"a\":1}```"))
	require.Equal(t, `{"a":1}`, stripFence(`  {"a":1}  `))
	require.Equal(t, "```", stripFence("```"))
}

func TestOutcomeString(t *testing.T) {
	require.Equal(t, "decoded", OutcomeDecoded.String())
	require.Equal(t, "fallback", OutcomeFallback.String())
}

func FuzzParseTotal(f *testing.F) {
	f.Add(`{"soal":"1. a","jawaban":"A"}`, "text")
	f.Add("not json", "text")
	f.Add("```json\n{\"soal\":[\"1\"],\"jawaban\":[]}\n```", "")
	f.Add(`{"soal":{},"jawaban":null}`, "x")

	f.Fuzz(func(t *testing.T, reply, normalized string) {
		result := Parse(reply, normalized)

		switch result.Outcome {
		case OutcomeDecoded:
			require.NotEmpty(t, result.Answer.Soal)
		case OutcomeFallback:
			require.Equal(t, normalized, result.Answer.Soal)
			require.Equal(t, FallbackAnswer, result.Answer.Jawaban)
		default:
			t.Fatalf("unexpected outcome %v", result.Outcome)
		}
	})
}
