package otel

import (
	"context"

	"github.com/scansoal/scansoal/pkg/extractor"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Extractor interface {
	Observable
	extractor.Provider
}

type observableExtractor struct {
	model    string
	provider string

	extractor extractor.Provider
}

func NewExtractor(provider, model string, p extractor.Provider) Extractor {
	return &observableExtractor{
		extractor: p,

		model:    model,
		provider: provider,
	}
}

func (p *observableExtractor) otelSetup() {
}

func (p *observableExtractor) Extract(ctx context.Context, file extractor.File, options *extractor.ExtractOptions) (*extractor.Document, error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "extract "+p.model)
	defer span.End()

	span.SetAttributes(
		attribute.String("ocr.provider", p.provider),
		attribute.String("ocr.file", file.Name),
		attribute.Int("ocr.file.size", len(file.Content)),
	)

	span.SetAttributes(EndUserAttrs(ctx)...)

	if options != nil && options.Language != "" {
		span.SetAttributes(attribute.String("ocr.language", options.Language))
	}

	result, err := p.extractor.Extract(ctx, file, options)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}

	span.SetAttributes(attribute.Int("ocr.text.length", len(result.Text)))

	return result, nil
}
