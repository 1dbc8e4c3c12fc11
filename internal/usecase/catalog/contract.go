package catalog

import (
	"context"

	"github.com/kailas-cloud/perkdex/internal/domain/ingest"
)

// Source lists and reads every offer document. Per-document read failures are
// reported through RawDocument.Err; a returned error means the source itself
// is unusable.
type Source interface {
	Load(ctx context.Context) ([]ingest.RawDocument, error)
}
