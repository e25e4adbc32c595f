package api

import (
	"github.com/scansoal/scansoal/config"
	"github.com/scansoal/scansoal/pkg/scan"
	"github.com/scansoal/scansoal/pkg/upload"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	*config.Config

	spool   *upload.Spool
	scanner *scan.Pipeline
}

func New(cfg *config.Config) (*Handler, error) {
	spool, err := cfg.Spool()

	if err != nil {
		return nil, err
	}

	scanner, err := cfg.Scanner()

	if err != nil {
		return nil, err
	}

	h := &Handler{
		Config: cfg,

		spool:   spool,
		scanner: scanner,
	}

	return h, nil
}

func (h *Handler) Attach(r chi.Router) {
	r.Post("/upload", h.handleUpload)
	r.Get("/download/{id}", h.handleDownload)
}
