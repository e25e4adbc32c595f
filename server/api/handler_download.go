package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	object, err := h.scanner.Download(r.Context(), id)

	if err != nil {
		WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", object.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(object.Content)))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", object.Name))
	w.Header().Set("Cache-Control", "no-store")

	w.Write(object.Content)
}
