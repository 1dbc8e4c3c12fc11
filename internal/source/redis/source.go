// Package redis reads offer documents stored as plain string values under a
// common key prefix.
package redis

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/perkdex/internal/db"
	"github.com/kailas-cloud/perkdex/internal/domain"
	"github.com/kailas-cloud/perkdex/internal/domain/ingest"
)

// DefaultKeyPrefix namespaces offer documents in Redis.
const DefaultKeyPrefix = "perkdex:offers:"

// Source scans <prefix>* and reads every key in one pipelined batch. The
// document ID is the key without the prefix.
type Source struct {
	store  db.KVReader
	prefix string
	logger *zap.Logger
}

// New creates a Redis-backed source.
func New(store db.KVReader, prefix string, logger *zap.Logger) *Source {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{store: store, prefix: prefix, logger: logger}
}

// Load implements catalog.Source.
func (s *Source) Load(ctx context.Context) ([]ingest.RawDocument, error) {
	keys, err := s.store.Scan(ctx, s.prefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan %s*: %w: %w", s.prefix, domain.ErrSourceUnavailable, err)
	}
	// SCAN may return a key more than once.
	slices.Sort(keys)
	keys = slices.Compact(keys)

	values := s.store.GetMulti(ctx, keys)
	docs := make([]ingest.RawDocument, 0, len(values))
	for _, v := range values {
		id := strings.TrimPrefix(v.Key, s.prefix)
		if id == "" {
			continue
		}
		d := ingest.RawDocument{ID: id}
		if v.Err != nil {
			d.Err = domain.NewSourceError(id, fmt.Errorf("%w: %w", domain.ErrUnreadableSource, v.Err))
		} else {
			d.Text = strings.ToValidUTF8(string(v.Data), "")
		}
		docs = append(docs, d)
	}

	s.logger.Debug("Source listed", zap.String("prefix", s.prefix), zap.Int("documents", len(docs)))
	return docs, nil
}
