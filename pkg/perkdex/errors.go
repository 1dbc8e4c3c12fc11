package perkdex

import "github.com/kailas-cloud/perkdex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound          = domain.ErrNotFound
	ErrInvalidRequest    = domain.ErrInvalidRequest
	ErrIndexNotReady     = domain.ErrIndexNotReady
	ErrSourceUnavailable = domain.ErrSourceUnavailable
	ErrEmptyDocument     = domain.ErrEmptyDocument
	ErrDuplicateDocument = domain.ErrDuplicateDocument
	ErrUnreadableSource  = domain.ErrUnreadableSource
	ErrUnsupportedFormat = domain.ErrUnsupportedFormat
)
