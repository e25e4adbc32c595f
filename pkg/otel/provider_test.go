package otel

import (
	"context"
	"errors"
	"iter"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scansoal/scansoal/pkg/auth"
	"github.com/scansoal/scansoal/pkg/extractor"
	"github.com/scansoal/scansoal/pkg/provider"
)

type stubCompleter struct {
	err error
}

func (s *stubCompleter) Complete(ctx context.Context, messages []provider.Message, options *provider.CompleteOptions) iter.Seq2[*provider.Completion, error] {
	return func(yield func(*provider.Completion, error) bool) {
		if s.err != nil {
			yield(nil, s.err)
			return
		}

		message := provider.AssistantMessage(`{"soal":"1. a","jawaban":"1. b"}`)

		yield(&provider.Completion{
			Model:   "stub-1",
			Message: &message,
			Usage:   &provider.Usage{InputTokens: 10, OutputTokens: 5},
		}, nil)
	}
}

type stubExtractor struct {
	err error
}

func (s *stubExtractor) Extract(ctx context.Context, file extractor.File, options *extractor.ExtractOptions) (*extractor.Document, error) {
	if s.err != nil {
		return nil, s.err
	}

	return &extractor.Document{Text: "soal"}, nil
}

func TestCompleterPassesThrough(t *testing.T) {
	c := NewCompleter("openai", "stub", &stubCompleter{})

	result, err := provider.Collect(c.Complete(context.Background(), nil, nil))
	require.NoError(t, err)
	require.Equal(t, "stub-1", result.Model)
	require.Equal(t, 10, result.Usage.InputTokens)

	cause := errors.New("boom")
	c = NewCompleter("openai", "stub", &stubCompleter{err: cause})

	_, err = provider.Collect(c.Complete(context.Background(), nil, nil))
	require.ErrorIs(t, err, cause)
}

func TestExtractorPassesThrough(t *testing.T) {
	e := NewExtractor("tesseract", "ind+eng", &stubExtractor{})

	result, err := e.Extract(context.Background(), extractor.File{Name: "a.png"}, &extractor.ExtractOptions{Language: "ind"})
	require.NoError(t, err)
	require.Equal(t, "soal", result.Text)

	cause := errors.New("boom")
	e = NewExtractor("tesseract", "ind+eng", &stubExtractor{err: cause})

	_, err = e.Extract(context.Background(), extractor.File{Name: "a.png"}, nil)
	require.ErrorIs(t, err, cause)
}

func TestEndUserAttrs(t *testing.T) {
	require.Empty(t, EndUserAttrs(context.Background()))

	ctx := context.WithValue(context.Background(), auth.UserContextKey, "guru")
	ctx = context.WithValue(ctx, auth.EmailContextKey, "guru@sekolah.id")

	attrs := EndUserAttrs(ctx)
	require.Len(t, attrs, 2)
	require.Equal(t, "guru", attrs[0].Value.AsString())
}
