package scan

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/scansoal/scansoal/pkg/document"
	"github.com/scansoal/scansoal/pkg/ocr"
	"github.com/scansoal/scansoal/pkg/partition"
	"github.com/scansoal/scansoal/pkg/provider"
	"github.com/scansoal/scansoal/pkg/store"
	"github.com/scansoal/scansoal/pkg/structure"
	"github.com/scansoal/scansoal/pkg/text"
	"github.com/scansoal/scansoal/pkg/upload"
)

var (
	ErrNoImages = errors.New("no images supplied")
)

// Pipeline turns an upload batch into a structured answer and a stored
// document.
type Pipeline struct {
	aggregator *ocr.Aggregator
	completer  provider.Completer
	renderer   document.Renderer
	store      store.Provider

	title string
	ttl   time.Duration

	completionTimeout time.Duration
	requestOptions    []structure.RequestOption

	now func() time.Time
}

type Option func(*Pipeline)

func WithTitle(title string) Option {
	return func(p *Pipeline) {
		p.title = title
	}
}

// WithTTL sets how long generated documents can be downloaded.
func WithTTL(ttl time.Duration) Option {
	return func(p *Pipeline) {
		p.ttl = ttl
	}
}

func WithCompletionTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		p.completionTimeout = d
	}
}

func WithRequestOptions(options ...structure.RequestOption) Option {
	return func(p *Pipeline) {
		p.requestOptions = append(p.requestOptions, options...)
	}
}

func New(aggregator *ocr.Aggregator, completer provider.Completer, renderer document.Renderer, s store.Provider, options ...Option) *Pipeline {
	p := &Pipeline{
		aggregator: aggregator,
		completer:  completer,
		renderer:   renderer,
		store:      s,

		title: document.DefaultTitle,
		ttl:   store.DefaultTTL,

		now: time.Now,
	}

	for _, option := range options {
		option(p)
	}

	return p
}

type Result struct {
	// ID is the handle of the stored document.
	ID string

	Answer   structure.Answer
	Outcome  structure.Outcome
	Reason   string
	Sections *partition.Sections

	Images int
	Failed int

	Truncated bool

	ExpiresAt time.Time
}

func (r *Result) Fallback() bool {
	return r.Outcome == structure.OutcomeFallback
}

// Process runs the whole pipeline for one batch. The batch images are
// released while the recognition runs.
func (p *Pipeline) Process(ctx context.Context, batch *upload.Batch) (*Result, error) {
	if batch == nil || len(batch.Images) == 0 {
		return nil, newError(KindInputInvalid, ErrNoImages)
	}

	aggregation, err := p.aggregator.Aggregate(ctx, batch.Images)

	if err != nil {
		if errors.Is(err, ocr.ErrEmpty) {
			return nil, newError(KindOCREmpty, err)
		}

		return nil, err
	}

	if n := aggregation.Failed(); n > 0 {
		slog.WarnContext(ctx, "partial ocr failure", "images", len(batch.Images), "failed", n)
	}

	normalized := text.Normalize(aggregation.Text)
	counts := structure.NewCounts(batch.PGCount, batch.EssayCount)

	request := structure.NewRequest(normalized, counts, p.requestOptions...)

	if request.Truncated {
		slog.WarnContext(ctx, "exam text truncated to prompt budget", "length", len(normalized))
	}

	reply, err := p.complete(ctx, request)

	if err != nil {
		return nil, newError(KindAIUnavailable, err)
	}

	parsed := structure.Parse(reply, normalized)

	if parsed.Fallback() {
		slog.WarnContext(ctx, "malformed model reply, using fallback", "reason", parsed.Reason)
	}

	var sections *partition.Sections

	if counts != nil {
		sections = partition.Apply(parsed.Answer, *counts)
	}

	doc := document.Assemble(p.title, parsed.Answer, sections)

	object, err := p.save(ctx, doc)

	if err != nil {
		return nil, newError(KindDocumentWrite, err)
	}

	slog.InfoContext(ctx, "document generated", "id", object.ID, "outcome", parsed.Outcome.String(), "size", len(object.Content))

	return &Result{
		ID: object.ID,

		Answer:   parsed.Answer,
		Outcome:  parsed.Outcome,
		Reason:   parsed.Reason,
		Sections: sections,

		Images: len(aggregation.Outcomes),
		Failed: aggregation.Failed(),

		Truncated: request.Truncated,

		ExpiresAt: object.ExpiresAt,
	}, nil
}

// Download returns the stored document for a handle.
func (p *Pipeline) Download(ctx context.Context, id string) (*store.Object, error) {
	object, err := p.store.Get(ctx, id)

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, newError(KindDownloadNotFound, err)
		}

		return nil, err
	}

	return object, nil
}

func (p *Pipeline) complete(ctx context.Context, request *structure.Request) (string, error) {
	if p.completionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.completionTimeout)
		defer cancel()
	}

	completion, err := provider.Collect(p.completer.Complete(ctx, request.Messages, request.Options))

	if err != nil {
		return "", err
	}

	if completion.Message == nil {
		return "", nil
	}

	return completion.Message.Text(), nil
}

func (p *Pipeline) save(ctx context.Context, doc *document.Document) (*store.Object, error) {
	var buf bytes.Buffer

	if err := p.renderer.Render(ctx, &buf, doc); err != nil {
		return nil, err
	}

	now := p.now().UTC()

	object := &store.Object{
		ID: uuid.NewString(),

		Name:        document.Filename(p.renderer),
		ContentType: p.renderer.ContentType(),

		Content: buf.Bytes(),

		CreatedAt: now,
	}

	if p.ttl > 0 {
		object.ExpiresAt = now.Add(p.ttl)
	}

	if err := p.store.Put(ctx, object); err != nil {
		return nil, err
	}

	return object, nil
}
