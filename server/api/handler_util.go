package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/scansoal/scansoal/pkg/auth"
	"github.com/scansoal/scansoal/pkg/scan"
	"github.com/scansoal/scansoal/pkg/upload"
)

func writeJson(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	enc.Encode(v)
}

// WriteError writes err as a JSON error body with the status of its kind.
func WriteError(w http.ResponseWriter, err error) {
	kind, code := classify(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	message := http.StatusText(code)

	if err != nil && code != http.StatusInternalServerError {
		message = err.Error()
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	enc.Encode(ErrorResponse{
		Error: Error{
			Type:    kind,
			Message: message,

			Retryable: scan.Kind(kind).Retryable(),
		},
	})
}

func classify(err error) (string, int) {
	var maxBytes *http.MaxBytesError

	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		return "unauthorized", http.StatusUnauthorized

	case errors.Is(err, upload.ErrInvalid), errors.As(err, &maxBytes):
		return string(scan.KindInputInvalid), http.StatusBadRequest
	}

	kind := scan.KindOf(err)

	switch kind {
	case scan.KindInputInvalid:
		return string(kind), http.StatusBadRequest

	case scan.KindOCREmpty:
		return string(kind), http.StatusUnprocessableEntity

	case scan.KindAIUnavailable:
		return string(kind), http.StatusServiceUnavailable

	case scan.KindDownloadNotFound:
		return string(kind), http.StatusNotFound

	default:
		return string(kind), http.StatusInternalServerError
	}
}
