package structure

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scansoal/scansoal/pkg/provider"
)

func TestNewRequest(t *testing.T) {
	r := NewRequest("1. Berapa 2+2? A.3 B.4", nil)

	require.Len(t, r.Messages, 2)
	require.Equal(t, provider.MessageRoleSystem, r.Messages[0].Role)
	require.Contains(t, r.Messages[0].Text(), "format exam text into questions and answers")

	user := r.Messages[1].Text()
	require.Equal(t, provider.MessageRoleUser, r.Messages[1].Role)
	require.Contains(t, user, "1. Berapa 2+2? A.3 B.4")
	require.Contains(t, user, `"additionalProperties": false`)
	require.NotContains(t, user, "multiple choice (PG)")

	require.NotNil(t, r.Options.Temperature)
	require.Equal(t, DefaultTemperature, *r.Options.Temperature)
	require.Nil(t, r.Options.MaxTokens)
	require.True(t, *r.Options.Schema.Strict)

	properties := r.Options.Schema.Schema["properties"].(map[string]any)
	require.Equal(t, "string", properties["soal"].(map[string]any)["type"])
	require.Equal(t, false, r.Options.Schema.Schema["additionalProperties"])
	require.False(t, r.Truncated)
}

func TestNewRequestWithCounts(t *testing.T) {
	r := NewRequest("soal", &Counts{PG: 2, Essay: 1}, WithTemperature(0), WithMaxTokens(1024))

	user := r.Messages[1].Text()
	require.Contains(t, user, "exactly 2 multiple choice (PG) questions followed by 1 essay questions")
	require.Contains(t, user, `"type": "array"`)

	properties := r.Options.Schema.Schema["properties"].(map[string]any)
	require.Equal(t, "array", properties["jawaban"].(map[string]any)["type"])

	require.Equal(t, float32(0), *r.Options.Temperature)
	require.Equal(t, 1024, *r.Options.MaxTokens)
}

func TestNewRequestTruncates(t *testing.T) {
	long := strings.Repeat("soal ", 100)

	r := NewRequest(long, nil, WithMaxPromptTokens(10))

	require.True(t, r.Truncated)
	require.Contains(t, r.Messages[1].Text(), long[:40]+"\n>>>")
}

func TestTruncate(t *testing.T) {
	s, ok := Truncate("abcdefgh", 2)
	require.False(t, ok)
	require.Equal(t, "abcdefgh", s)

	s, ok = Truncate("abcdefghi", 2)
	require.True(t, ok)
	require.Equal(t, "abcdefgh", s)

	s, ok = Truncate("abcdefghi", 0)
	require.False(t, ok)
	require.Equal(t, "abcdefghi", s)

	// "é" spans bytes 7 and 8 and must not be split
	s, ok = Truncate("abcdefgéz", 2)
	require.True(t, ok)
	require.Equal(t, "abcdefg", s)
}

func TestEstimateTokens(t *testing.T) {
	require.Equal(t, 0, EstimateTokens(""))
	require.Equal(t, 1, EstimateTokens("a"))
	require.Equal(t, 1, EstimateTokens("abcd"))
	require.Equal(t, 2, EstimateTokens("abcde"))
}

func TestNewCounts(t *testing.T) {
	two := 2
	negative := -1

	require.Nil(t, NewCounts(nil, nil))
	require.Equal(t, &Counts{PG: 2}, NewCounts(&two, nil))
	require.Equal(t, &Counts{Essay: 2}, NewCounts(&negative, &two))
}

func TestAnswerLines(t *testing.T) {
	a := Answer{Soal: "1. a\n\n 2. b ", Jawaban: "A"}

	require.Equal(t, []string{"1. a", "2. b"}, a.SoalLines())
	require.Equal(t, []string{"A"}, a.JawabanLines())
}
