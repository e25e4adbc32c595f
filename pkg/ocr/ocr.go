package ocr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/scansoal/scansoal/pkg/extractor"
	"github.com/scansoal/scansoal/pkg/upload"
)

const DefaultLanguage = "ind+eng"

// ErrEmpty is returned when no image produced any text.
var ErrEmpty = errors.New("no text recognized in any image")

// Outcome is the recognition result of a single image.
type Outcome struct {
	Index int
	Name  string

	Text string
	Err  error
}

func (o Outcome) OK() bool {
	return o.Err == nil
}

type Aggregation struct {
	Outcomes []Outcome

	// Text holds every recognized text in upload order, each introduced by
	// its image separator.
	Text string
}

// Failed counts images whose recognition failed.
func (a *Aggregation) Failed() int {
	var n int

	for _, o := range a.Outcomes {
		if !o.OK() {
			n++
		}
	}

	return n
}

// Separator introduces the text of the image at 1-based position n.
func Separator(n int) string {
	return fmt.Sprintf("\n\n--- Gambar %d ---\n", n)
}

type Aggregator struct {
	extractor extractor.Provider

	language    string
	concurrency int
	timeout     time.Duration
}

type Option func(*Aggregator)

func WithLanguage(language string) Option {
	return func(a *Aggregator) {
		a.language = language
	}
}

func WithConcurrency(n int) Option {
	return func(a *Aggregator) {
		a.concurrency = n
	}
}

// WithTimeout bounds the recognition of each image.
func WithTimeout(d time.Duration) Option {
	return func(a *Aggregator) {
		a.timeout = d
	}
}

func New(e extractor.Provider, options ...Option) *Aggregator {
	a := &Aggregator{
		extractor: e,

		language:    DefaultLanguage,
		concurrency: 1,
	}

	for _, option := range options {
		option(a)
	}

	if a.concurrency < 1 {
		a.concurrency = 1
	}

	return a
}

// Aggregate recognizes every image and joins the texts in upload order.
// Each image is released right after its attempt, whatever the result.
// Per image failures are recorded in the outcomes only.
func (a *Aggregator) Aggregate(ctx context.Context, images []*upload.Image) (*Aggregation, error) {
	outcomes := make([]Outcome, len(images))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	for i, image := range images {
		if gctx.Err() != nil {
			image.Release()
			continue
		}

		g.Go(func() error {
			defer image.Release()

			if err := gctx.Err(); err != nil {
				return err
			}

			outcomes[i] = a.recognize(gctx, i, image)

			// the request is gone, stop the remaining images
			if err := ctx.Err(); err != nil {
				return err
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Aggregation{
		Outcomes: outcomes,
	}

	var builder strings.Builder
	var ok bool

	for _, o := range outcomes {
		if !o.OK() {
			slog.WarnContext(ctx, "image not recognized", "image", o.Index+1, "name", o.Name, "error", o.Err)
		}

		if strings.TrimSpace(o.Text) != "" {
			ok = true
		}

		builder.WriteString(Separator(o.Index + 1))
		builder.WriteString(o.Text)
	}

	if !ok {
		return result, ErrEmpty
	}

	result.Text = builder.String()

	return result, nil
}

func (a *Aggregator) recognize(ctx context.Context, index int, image *upload.Image) Outcome {
	outcome := Outcome{
		Index: index,
		Name:  image.Name,
	}

	data, err := image.Read()

	if err != nil {
		outcome.Err = err
		return outcome
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	file := extractor.File{
		Name:        image.Name,
		Content:     data,
		ContentType: image.ContentType,
	}

	document, err := a.extractor.Extract(ctx, file, &extractor.ExtractOptions{
		Language: a.language,
	})

	if err != nil {
		outcome.Err = err
		return outcome
	}

	outcome.Text = strings.TrimSpace(document.Text)

	slog.DebugContext(ctx, "image recognized", "image", index+1, "name", image.Name, "length", len(outcome.Text))

	return outcome
}
