package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/perkdex/internal/domain"
	"github.com/kailas-cloud/perkdex/internal/domain/ingest"
	"github.com/kailas-cloud/perkdex/internal/domain/offer"
	"github.com/kailas-cloud/perkdex/internal/domain/search/mode"
	"github.com/kailas-cloud/perkdex/internal/domain/search/request"
	"github.com/kailas-cloud/perkdex/internal/domain/search/result"
	"github.com/kailas-cloud/perkdex/internal/engine/scorer"
	"github.com/kailas-cloud/perkdex/internal/engine/store"
	"github.com/kailas-cloud/perkdex/internal/logger"
	"github.com/kailas-cloud/perkdex/internal/metrics"
)

// Stats describes the published snapshot.
type Stats struct {
	TotalDocuments int
	TotalTerms     int
	SnapshotID     string
	BuiltAt        time.Time
	Strategy       mode.Mode
}

// Service owns the published index snapshot. Queries read whichever snapshot
// is current; rebuilds happen off to the side and are swapped in atomically.
type Service struct {
	source   Source
	defaults request.Defaults
	logger   *zap.Logger

	snapshot  atomic.Pointer[store.Snapshot]
	reindexMu sync.Mutex
}

// New creates a catalog service. source may be nil when documents are only
// supplied through Ingest.
func New(source Source, defaults request.Defaults, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if !defaults.Mode.IsValid() {
		defaults.Mode = mode.Name
	}
	return &Service{source: source, defaults: defaults, logger: log}
}

// Defaults returns the request defaults the service was configured with.
func (s *Service) Defaults() request.Defaults { return s.defaults }

// Ready reports whether a snapshot has been published.
func (s *Service) Ready() bool { return s.snapshot.Load() != nil }

// Reindex reads the whole source, builds a fresh snapshot and publishes it.
// Only one rebuild runs at a time; a concurrent call gets ErrReindexInProgress.
func (s *Service) Reindex(ctx context.Context) (ingest.Report, error) {
	if s.source == nil {
		return ingest.Report{}, fmt.Errorf("no source configured: %w", domain.ErrSourceUnavailable)
	}
	if !s.reindexMu.TryLock() {
		return ingest.Report{}, domain.ErrReindexInProgress
	}
	defer s.reindexMu.Unlock()

	docs, err := s.source.Load(ctx)
	if err != nil {
		return ingest.Report{}, fmt.Errorf("load source: %w", err)
	}
	return s.ingest(docs), nil
}

// Ingest builds a snapshot from docs and publishes it, replacing the current one.
// Documents are indexed in ascending ID order whatever order they arrive in.
func (s *Service) Ingest(docs []ingest.RawDocument) ingest.Report {
	s.reindexMu.Lock()
	defer s.reindexMu.Unlock()
	return s.ingest(docs)
}

func (s *Service) ingest(docs []ingest.RawDocument) ingest.Report {
	sorted := make([]ingest.RawDocument, len(docs))
	copy(sorted, docs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	b := store.NewBuilder()
	for _, d := range sorted {
		var o ingest.Outcome
		if d.Err != nil {
			o = b.Skip(d.ID, d.Err)
		} else {
			o = b.Add(d.ID, d.Text)
		}
		if o.Status() == ingest.StatusSkipped {
			s.logger.Warn("Document skipped",
				zap.String("doc_id", o.DocID()),
				zap.Error(o.Reason()),
			)
		}
	}

	snap := b.Freeze()
	s.snapshot.Store(snap)

	report := snap.Report()
	st := snap.Stats()
	metrics.RecordIngest(report)
	metrics.RecordSnapshot(st.Documents, st.Terms)

	s.logger.Info("Index built",
		zap.String("snapshot_id", snap.ID()),
		zap.Int("indexed", report.Indexed()),
		zap.Int("skipped", report.Skipped()),
		zap.Int("terms", st.Terms),
	)
	return report
}

// Query ranks documents against req. Results are cut to top_k first and then
// narrowed by the category filter, so a filtered query may return fewer than
// top_k results even when more matching documents exist.
func (s *Service) Query(ctx context.Context, req *request.Request) ([]result.Result, error) {
	strategy, ok := scorer.ForMode(req.Mode())
	if !ok {
		return nil, fmt.Errorf("unsupported search mode %q: %w", req.Mode(), domain.ErrInvalidRequest)
	}

	snap := s.snapshot.Load()
	if snap == nil {
		metrics.RecordSearch(string(req.Mode()), 0)
		return []result.Result{}, nil
	}

	hits := scorer.Rank(strategy.Score(req.Query(), snap), req.TopK())
	if len(hits) == 0 {
		logger.FromContextOr(ctx, s.logger).Debug("No matches",
			zap.String("query", req.Query()),
			zap.String("strategy", string(req.Mode())),
		)
	}

	out := make([]result.Result, 0, len(hits))
	for _, h := range hits {
		rec, ok := snap.Record(h.DocID)
		if !ok {
			continue
		}
		if !req.MatchesCategory(rec.Category().String()) {
			continue
		}
		out = append(out, result.New(rec, h.Score))
	}

	metrics.RecordSearch(string(req.Mode()), len(out))
	return out, nil
}

// List returns every offer record in ingestion order.
func (s *Service) List(_ context.Context) []offer.Record {
	snap := s.snapshot.Load()
	if snap == nil {
		return []offer.Record{}
	}
	return snap.Records()
}

// Get returns the record extracted from the document with the given ID.
func (s *Service) Get(_ context.Context, docID string) (offer.Record, error) {
	snap := s.snapshot.Load()
	if snap == nil {
		return offer.Record{}, domain.ErrIndexNotReady
	}
	rec, ok := snap.Record(docID)
	if !ok {
		return offer.Record{}, fmt.Errorf("document %q: %w", docID, domain.ErrNotFound)
	}
	return rec, nil
}

// Stats describes the current snapshot. Before the first build every count is zero.
func (s *Service) Stats() Stats {
	st := Stats{Strategy: s.defaults.Mode}
	snap := s.snapshot.Load()
	if snap == nil {
		return st
	}
	size := snap.Stats()
	st.TotalDocuments = size.Documents
	st.TotalTerms = size.Terms
	st.SnapshotID = snap.ID()
	st.BuiltAt = snap.BuiltAt()
	return st
}
