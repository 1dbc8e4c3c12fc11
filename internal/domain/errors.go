package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRequest signals a malformed or incomplete request.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrIndexNotReady signals that no snapshot has been published yet.
	ErrIndexNotReady = errors.New("index not ready")
	// ErrReindexInProgress signals that a rebuild is already running.
	ErrReindexInProgress = errors.New("reindex in progress")

	// ErrEmptyDocument signals a source document with no text after extraction.
	ErrEmptyDocument = errors.New("empty document")
	// ErrDuplicateDocument signals a document ID that was already ingested.
	ErrDuplicateDocument = errors.New("duplicate document")
	// ErrUnreadableSource signals a source document that could not be read.
	ErrUnreadableSource = errors.New("unreadable source")
	// ErrUnsupportedFormat signals a source document in a format we cannot extract text from.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrSourceUnavailable signals that the document source itself failed.
	ErrSourceUnavailable = errors.New("source unavailable")
)

// SourceError wraps a per-document source failure with the document ID.
type SourceError struct {
	DocID string
	Err   error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source %s: %s", e.DocID, e.Err.Error())
}

func (e *SourceError) Unwrap() error { return e.Err }

// NewSourceError creates a per-document source error.
func NewSourceError(docID string, err error) error {
	return &SourceError{DocID: docID, Err: err}
}
