package provider

import (
	"fmt"
	"net/http"
)

type File struct {
	Name string

	Content     []byte
	ContentType string
}

type Schema struct {
	Name        string
	Description string

	Strict *bool

	Schema map[string]any
}

type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Error is a failed call to a remote model API.
type Error struct {
	Provider   string
	StatusCode int

	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: status %d: %v", e.Provider, e.StatusCode, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether the same call may succeed later.
func (e *Error) Retryable() bool {
	switch e.StatusCode {
	case http.StatusRequestTimeout, http.StatusConflict, http.StatusTooManyRequests:
		return true
	}

	return e.StatusCode >= 500
}
