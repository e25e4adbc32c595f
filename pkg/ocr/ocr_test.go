package ocr

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/scansoal/scansoal/pkg/extractor"
	"github.com/scansoal/scansoal/pkg/upload"
)

var pngData = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 16)...)

// fakeExtractor returns the text mapped to the file name, or an error.
type fakeExtractor struct {
	texts map[string]string
	errs  map[string]error
	delay time.Duration

	calls    atomic.Int64
	language string
	mu       sync.Mutex
}

func (f *fakeExtractor) Extract(ctx context.Context, file extractor.File, options *extractor.ExtractOptions) (*extractor.Document, error) {
	f.calls.Add(1)

	f.mu.Lock()
	f.language = options.Language
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err := f.errs[file.Name]; err != nil {
		return nil, err
	}

	return &extractor.Document{Text: f.texts[file.Name]}, nil
}

func spool(t *testing.T, names ...string) (string, []*upload.Image) {
	t.Helper()

	dir := t.TempDir()

	s, err := upload.NewSpool(dir)
	require.NoError(t, err)

	var images []*upload.Image

	for _, name := range names {
		image, err := s.Save(name, "image/png", bytes.NewReader(pngData))
		require.NoError(t, err)

		images = append(images, image)
	}

	return dir, images
}

func requireEmptyDir(t *testing.T, dir string) {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestAggregateOrder(t *testing.T) {
	for _, concurrency := range []int{1, 3} {
		dir, images := spool(t, "a.png", "b.png", "c.png")

		e := &fakeExtractor{
			texts: map[string]string{
				"a.png": "1. Soal pertama",
				"b.png": "2. Soal kedua",
				"c.png": "3. Soal ketiga",
			},
		}

		a := New(e, WithConcurrency(concurrency), WithLanguage("ind"))

		result, err := a.Aggregate(context.Background(), images)
		require.NoError(t, err)

		expected := "\n\n--- Gambar 1 ---\n1. Soal pertama" +
			"\n\n--- Gambar 2 ---\n2. Soal kedua" +
			"\n\n--- Gambar 3 ---\n3. Soal ketiga"

		require.Equal(t, expected, result.Text)
		require.Equal(t, 0, result.Failed())
		require.Equal(t, "ind", e.language)
		require.EqualValues(t, 3, e.calls.Load())

		requireEmptyDir(t, dir)
	}
}

func TestAggregatePartialFailure(t *testing.T) {
	dir, images := spool(t, "a.png", "broken.png")

	e := &fakeExtractor{
		texts: map[string]string{"a.png": "1. Soal"},
		errs:  map[string]error{"broken.png": errors.New("corrupt image")},
	}

	result, err := New(e).Aggregate(context.Background(), images)
	require.NoError(t, err)

	require.Equal(t, "\n\n--- Gambar 1 ---\n1. Soal\n\n--- Gambar 2 ---\n", result.Text)
	require.Equal(t, 1, result.Failed())
	require.False(t, result.Outcomes[1].OK())
	require.Equal(t, "broken.png", result.Outcomes[1].Name)

	requireEmptyDir(t, dir)
}

func TestAggregateEmpty(t *testing.T) {
	dir, images := spool(t, "blank.png", "broken.png")

	e := &fakeExtractor{
		texts: map[string]string{"blank.png": "  \n "},
		errs:  map[string]error{"broken.png": errors.New("corrupt image")},
	}

	result, err := New(e).Aggregate(context.Background(), images)
	require.ErrorIs(t, err, ErrEmpty)
	require.Equal(t, 1, result.Failed())

	requireEmptyDir(t, dir)
}

func TestAggregateTimeout(t *testing.T) {
	dir, images := spool(t, "slow.png")

	e := &fakeExtractor{
		texts: map[string]string{"slow.png": "text"},
		delay: time.Second,
	}

	result, err := New(e, WithTimeout(10*time.Millisecond)).Aggregate(context.Background(), images)
	require.ErrorIs(t, err, ErrEmpty)
	require.ErrorIs(t, result.Outcomes[0].Err, context.DeadlineExceeded)

	requireEmptyDir(t, dir)
}

func TestAggregateCanceled(t *testing.T) {
	dir, images := spool(t, "a.png", "b.png")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := &fakeExtractor{}

	_, err := New(e).Aggregate(ctx, images)
	require.ErrorIs(t, err, context.Canceled)
	require.EqualValues(t, 0, e.calls.Load())

	requireEmptyDir(t, dir)

	for _, image := range images {
		_, err := os.Stat(filepath.Join(dir, filepath.Base(image.Path)))
		require.True(t, os.IsNotExist(err))
	}
}

func TestSeparator(t *testing.T) {
	require.Equal(t, "\n\n--- Gambar 4 ---\n", Separator(4))
}
