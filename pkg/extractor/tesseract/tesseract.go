//go:build tesseract

package tesseract

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/scansoal/scansoal/pkg/extractor"
)

var _ extractor.Provider = &Client{}

type Client struct {
	languages []string
	variables map[string]string
}

func New(options ...Option) (*Client, error) {
	c := &Client{}

	for _, option := range options {
		option(c)
	}

	return c, nil
}

func (c *Client) Extract(ctx context.Context, file extractor.File, options *extractor.ExtractOptions) (*extractor.Document, error) {
	if !extractor.IsImage(file) {
		return nil, extractor.ErrUnsupported
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImageFromBytes(file.Content); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}

	languages := options.Languages()

	if len(languages) == 0 {
		languages = c.languages
	}

	if len(languages) > 0 {
		if err := client.SetLanguage(languages...); err != nil {
			return nil, fmt.Errorf("set languages: %w", err)
		}
	}

	for k, v := range c.variables {
		if err := client.SetVariable(gosseract.SettableVariable(k), v); err != nil {
			return nil, fmt.Errorf("set variable %s: %w", k, err)
		}
	}

	text, err := client.Text()

	if err != nil {
		return nil, fmt.Errorf("recognize text: %w", err)
	}

	// recognition itself cannot be interrupted
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)

	return &extractor.Document{
		Text: text,

		Pages: []extractor.Page{
			{
				Page: 1,
				Text: text,
			},
		},
	}, nil
}
