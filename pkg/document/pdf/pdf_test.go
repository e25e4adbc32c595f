package pdf

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/scansoal/scansoal/pkg/document"
	"github.com/scansoal/scansoal/pkg/structure"
)

func TestRender(t *testing.T) {
	d := document.Assemble("", structure.Answer{
		Soal:    "1. What is 2+2? A.3 B.4",
		Jawaban: "B",
	}, nil)

	r := New(WithCompression(false), WithCreationDate(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)))

	var buf bytes.Buffer
	require.NoError(t, r.Render(context.Background(), &buf, d))

	out := buf.String()

	require.True(t, strings.HasPrefix(out, "%PDF-"))
	require.Equal(t, 2, strings.Count(out, "/Type /Page\n"))

	questions := strings.Index(out, "(Questions) Tj")
	answers := strings.Index(out, "(Answers) Tj")

	require.Greater(t, questions, 0)
	require.Greater(t, answers, questions)
}

func TestFilename(t *testing.T) {
	require.Equal(t, "soal-jawaban.pdf", document.Filename(New()))
	require.Equal(t, "application/pdf", New().ContentType())
}
