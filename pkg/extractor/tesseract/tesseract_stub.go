//go:build !tesseract

package tesseract

import (
	"context"
	"errors"

	"github.com/scansoal/scansoal/pkg/extractor"
)

var _ extractor.Provider = &Client{}

var ErrNotAvailable = errors.New("tesseract support not compiled in, build with -tags tesseract")

type Client struct {
	languages []string
	variables map[string]string
}

func New(options ...Option) (*Client, error) {
	return nil, ErrNotAvailable
}

func (c *Client) Extract(ctx context.Context, file extractor.File, options *extractor.ExtractOptions) (*extractor.Document, error) {
	return nil, ErrNotAvailable
}
