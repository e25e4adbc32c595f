package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/scansoal/scansoal/pkg/upload"
)

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.Pipeline.MaxBodySize())

	reader, err := r.MultipartReader()

	if err != nil {
		WriteError(w, fmt.Errorf("%w: %w", upload.ErrInvalid, err))
		return
	}

	batch, err := h.spool.ReadMultipart(reader)

	if err != nil {
		WriteError(w, err)
		return
	}

	defer batch.Release()

	result, err := h.scanner.Process(r.Context(), batch)

	if err != nil {
		WriteError(w, err)
		return
	}

	response := Scan{
		ID: result.ID,

		Soal:    result.Answer.Soal,
		Jawaban: result.Answer.Jawaban,

		Fallback:  result.Fallback(),
		Truncated: result.Truncated,

		Images: result.Images,
		Failed: result.Failed,

		Download: "/download/" + result.ID,
	}

	if s := result.Sections; s != nil {
		response.PGSoal = group(s.PGSoal)
		response.EssaySoal = group(s.EssaySoal)

		response.PGJawaban = group(s.PGJawaban)
		response.EssayJawaban = group(s.EssayJawaban)
	}

	if !result.ExpiresAt.IsZero() {
		response.ExpiresAt = result.ExpiresAt.Format(time.RFC3339)
	}

	writeJson(w, response)
}

// group never returns nil, so an empty group is sent as [].
func group(items []string) *[]string {
	if items == nil {
		items = []string{}
	}

	return &items
}
