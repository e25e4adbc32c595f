package scan

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindInputInvalid     Kind = "input_invalid"
	KindOCREmpty         Kind = "ocr_empty"
	KindAIUnavailable    Kind = "ai_unavailable"
	KindDocumentWrite    Kind = "document_write_failure"
	KindDownloadNotFound Kind = "download_not_found"
	KindInternal         Kind = "internal"
)

// Retryable reports whether the same request may succeed later.
func (k Kind) Retryable() bool {
	return k == KindAIUnavailable
}

type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, err error) error {
	return &Error{Kind: kind, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error

	if errors.As(err, &e) {
		return e.Kind
	}

	return KindInternal
}
