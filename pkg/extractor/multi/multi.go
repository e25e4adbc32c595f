package multi

import (
	"context"
	"errors"

	"github.com/scansoal/scansoal/pkg/extractor"
)

var _ extractor.Provider = &Extractor{}

type Extractor struct {
	providers []extractor.Provider
}

func New(provider ...extractor.Provider) *Extractor {
	return &Extractor{
		providers: provider,
	}
}

// Extract returns the first successful result. A provider that errors or
// finds no text hands the file to the next one.
func (e *Extractor) Extract(ctx context.Context, file extractor.File, options *extractor.ExtractOptions) (*extractor.Document, error) {
	if options == nil {
		options = new(extractor.ExtractOptions)
	}

	var errs []error
	var empty *extractor.Document

	for _, p := range e.providers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := p.Extract(ctx, file, options)

		if err != nil {
			errs = append(errs, err)
			continue
		}

		if result.Text == "" {
			empty = result
			continue
		}

		return result, nil
	}

	if empty != nil {
		return empty, nil
	}

	if len(errs) == 0 {
		return nil, extractor.ErrUnsupported
	}

	return nil, errors.Join(errs...)
}
