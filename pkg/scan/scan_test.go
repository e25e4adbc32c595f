package scan

import (
	"bytes"
	"context"
	"errors"
	"iter"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/scansoal/scansoal/pkg/document/markdown"
	"github.com/scansoal/scansoal/pkg/extractor"
	"github.com/scansoal/scansoal/pkg/ocr"
	"github.com/scansoal/scansoal/pkg/provider"
	"github.com/scansoal/scansoal/pkg/store"
	"github.com/scansoal/scansoal/pkg/store/memory"
	"github.com/scansoal/scansoal/pkg/structure"
	"github.com/scansoal/scansoal/pkg/upload"
)

var pngData = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 16)...)

type fakeExtractor struct {
	text  string
	calls atomic.Int64
}

func (f *fakeExtractor) Extract(ctx context.Context, file extractor.File, options *extractor.ExtractOptions) (*extractor.Document, error) {
	f.calls.Add(1)
	return &extractor.Document{Text: f.text}, nil
}

type fakeCompleter struct {
	reply string
	err   error
	delay time.Duration

	calls    atomic.Int64
	messages []provider.Message
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []provider.Message, options *provider.CompleteOptions) iter.Seq2[*provider.Completion, error] {
	return func(yield func(*provider.Completion, error) bool) {
		f.calls.Add(1)
		f.messages = messages

		if f.delay > 0 {
			select {
			case <-time.After(f.delay):
			case <-ctx.Done():
				yield(nil, ctx.Err())
				return
			}
		}

		if f.err != nil {
			yield(nil, f.err)
			return
		}

		message := provider.AssistantMessage(f.reply)
		yield(&provider.Completion{Message: &message}, nil)
	}
}

type failingStore struct {
	store.Provider
}

func (failingStore) Put(ctx context.Context, object *store.Object) error {
	return errors.New("disk full")
}

func newBatch(t *testing.T, images int) *upload.Batch {
	t.Helper()

	s, err := upload.NewSpool(t.TempDir())
	require.NoError(t, err)

	batch := &upload.Batch{}

	for range images {
		image, err := s.Save("page.png", "image/png", bytes.NewReader(pngData))
		require.NoError(t, err)

		batch.Images = append(batch.Images, image)
	}

	t.Cleanup(func() { batch.Release() })

	return batch
}

func newPipeline(e extractor.Provider, c provider.Completer, s store.Provider, options ...Option) *Pipeline {
	return New(ocr.New(e), c, markdown.New(), s, options...)
}

func TestProcess(t *testing.T) {
	e := &fakeExtractor{text: "1. What is 2+2? A.3 B.4"}
	c := &fakeCompleter{reply: `{"soal":"1. What is 2+2? A.3 B.4","jawaban":"B"}`}
	s := memory.New()

	p := newPipeline(e, c, s)

	result, err := p.Process(context.Background(), newBatch(t, 1))
	require.NoError(t, err)

	require.Equal(t, structure.OutcomeDecoded, result.Outcome)
	require.False(t, result.Fallback())
	require.Equal(t, "1. What is 2+2? A.3 B.4", result.Answer.Soal)
	require.Equal(t, "B", result.Answer.Jawaban)
	require.Nil(t, result.Sections)
	require.Equal(t, 1, result.Images)
	require.Equal(t, 0, result.Failed)

	require.Contains(t, c.messages[1].Text(), "--- Gambar 1 ---\n1. What is 2+2? A.3 B.4")

	object, err := p.Download(context.Background(), result.ID)
	require.NoError(t, err)
	require.Equal(t, "soal-jawaban.md", object.Name)
	require.Equal(t, result.ExpiresAt, object.ExpiresAt)

	content := string(object.Content)
	require.Less(t, strings.Index(content, "# Questions"), strings.Index(content, "# Answers"))
}

func TestProcessFallback(t *testing.T) {
	e := &fakeExtractor{text: "1. What  is 2+2? | A.3 B.4"}
	c := &fakeCompleter{reply: "not json"}

	result, err := newPipeline(e, c, memory.New()).Process(context.Background(), newBatch(t, 1))
	require.NoError(t, err)

	require.True(t, result.Fallback())
	require.NotEmpty(t, result.Reason)
	require.Equal(t, "--- Gambar 1 ---\n1. What is 2+2? A.3 B.4", result.Answer.Soal)
	require.Equal(t, structure.FallbackAnswer, result.Answer.Jawaban)
}

func TestProcessPartitioned(t *testing.T) {
	e := &fakeExtractor{text: "soal"}
	c := &fakeCompleter{reply: `{"soal":["1. a","2. b"],"jawaban":["A","B"]}`}

	pg, essay := 2, 1

	batch := newBatch(t, 1)
	batch.PGCount = &pg
	batch.EssayCount = &essay

	result, err := newPipeline(e, c, memory.New()).Process(context.Background(), batch)
	require.NoError(t, err)

	require.NotNil(t, result.Sections)
	require.Equal(t, []string{"1. a", "2. b"}, result.Sections.PGSoal)
	require.Empty(t, result.Sections.EssaySoal)
	require.Equal(t, []string{"A", "B"}, result.Sections.PGJawaban)
	require.Empty(t, result.Sections.EssayJawaban)

	require.Contains(t, c.messages[1].Text(), "exactly 2 multiple choice (PG) questions followed by 1 essay")
}

func TestProcessNoImages(t *testing.T) {
	e := &fakeExtractor{text: "soal"}
	c := &fakeCompleter{}

	_, err := newPipeline(e, c, memory.New()).Process(context.Background(), &upload.Batch{})

	require.Equal(t, KindInputInvalid, KindOf(err))
	require.EqualValues(t, 0, e.calls.Load())
	require.EqualValues(t, 0, c.calls.Load())
}

func TestProcessOCREmpty(t *testing.T) {
	e := &fakeExtractor{text: "   "}
	c := &fakeCompleter{}

	_, err := newPipeline(e, c, memory.New()).Process(context.Background(), newBatch(t, 2))

	require.Equal(t, KindOCREmpty, KindOf(err))
	require.ErrorIs(t, err, ocr.ErrEmpty)
	require.EqualValues(t, 2, e.calls.Load())
	require.EqualValues(t, 0, c.calls.Load())
}

func TestProcessAIUnavailable(t *testing.T) {
	e := &fakeExtractor{text: "soal"}
	c := &fakeCompleter{err: errors.New("401 unauthorized")}

	_, err := newPipeline(e, c, memory.New()).Process(context.Background(), newBatch(t, 1))

	require.Equal(t, KindAIUnavailable, KindOf(err))
	require.True(t, KindOf(err).Retryable())
}

func TestProcessCompletionTimeout(t *testing.T) {
	e := &fakeExtractor{text: "soal"}
	c := &fakeCompleter{reply: "{}", delay: time.Second}

	p := newPipeline(e, c, memory.New(), WithCompletionTimeout(10*time.Millisecond))

	_, err := p.Process(context.Background(), newBatch(t, 1))

	require.Equal(t, KindAIUnavailable, KindOf(err))
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestProcessWriteFailure(t *testing.T) {
	e := &fakeExtractor{text: "soal"}
	c := &fakeCompleter{reply: `{"soal":"1. a","jawaban":"A"}`}

	_, err := newPipeline(e, c, failingStore{memory.New()}).Process(context.Background(), newBatch(t, 1))

	require.Equal(t, KindDocumentWrite, KindOf(err))
}

func TestDownloadNotFound(t *testing.T) {
	p := newPipeline(&fakeExtractor{}, &fakeCompleter{}, memory.New())

	_, err := p.Download(context.Background(), "missing")

	require.Equal(t, KindDownloadNotFound, KindOf(err))
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDistinctHandles(t *testing.T) {
	e := &fakeExtractor{text: "soal"}
	s := memory.New()

	a, err := newPipeline(e, &fakeCompleter{reply: `{"soal":"A","jawaban":"a"}`}, s).Process(context.Background(), newBatch(t, 1))
	require.NoError(t, err)

	b, err := newPipeline(e, &fakeCompleter{reply: `{"soal":"B","jawaban":"b"}`}, s).Process(context.Background(), newBatch(t, 1))
	require.NoError(t, err)

	require.NotEqual(t, a.ID, b.ID)

	object, err := s.Get(context.Background(), a.ID)
	require.NoError(t, err)
	require.Contains(t, string(object.Content), "\nA\n")
	require.NotContains(t, string(object.Content), "\nB\n")
}

func TestKindOf(t *testing.T) {
	require.Equal(t, KindInternal, KindOf(errors.New("x")))
	require.Equal(t, KindInternal, KindOf(nil))

	err := newError(KindOCREmpty, ocr.ErrEmpty)
	require.Equal(t, "ocr_empty: no text recognized in any image", err.Error())
	require.False(t, KindOCREmpty.Retryable())
}
