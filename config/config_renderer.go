package config

import (
	"errors"

	"github.com/scansoal/scansoal/pkg/document"
	"github.com/scansoal/scansoal/pkg/document/docx"
	"github.com/scansoal/scansoal/pkg/document/html"
	"github.com/scansoal/scansoal/pkg/document/markdown"
	"github.com/scansoal/scansoal/pkg/document/pdf"
)

func (cfg *Config) RegisterRenderer(id string, r document.Renderer) {
	if cfg.renderer == nil {
		cfg.renderer = make(map[string]document.Renderer)
	}

	if _, ok := cfg.renderer[""]; !ok {
		cfg.renderer[""] = r
	}

	cfg.renderer[id] = r
}

func (cfg *Config) Renderer(id string) (document.Renderer, error) {
	if cfg.renderer != nil {
		if r, ok := cfg.renderer[id]; ok {
			return r, nil
		}
	}

	return nil, errors.New("renderer not found: " + id)
}

func (cfg *Config) registerRenderers() {
	cfg.RegisterRenderer("docx", docx.New())
	cfg.RegisterRenderer("pdf", pdf.New())
	cfg.RegisterRenderer("markdown", markdown.New())
	cfg.RegisterRenderer("html", html.New())
}
