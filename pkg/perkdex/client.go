package perkdex

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/kailas-cloud/perkdex/internal/db"
	dbRedis "github.com/kailas-cloud/perkdex/internal/db/redis"
	"github.com/kailas-cloud/perkdex/internal/domain/ingest"
	"github.com/kailas-cloud/perkdex/internal/domain/search/mode"
	"github.com/kailas-cloud/perkdex/internal/domain/search/request"
	fssource "github.com/kailas-cloud/perkdex/internal/source/fs"
	redissource "github.com/kailas-cloud/perkdex/internal/source/redis"
	cataloguc "github.com/kailas-cloud/perkdex/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/perkdex/internal/usecase/health"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is an in-process offer index.
type Client struct {
	store   db.Store
	source  *mergedSource
	catalog *cataloguc.Service
	health  *healthuc.Service
	obs     *observer

	// mu serializes rebuilds so concurrent Ingest calls never see
	// ErrReindexInProgress from the catalog.
	mu sync.Mutex
}

// New creates a Client. When a directory or Redis source is configured the
// index is built from it before New returns.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	c := &Client{source: &mergedSource{}, obs: obs}
	var pinger healthuc.SourcePinger

	switch cfg.driver {
	case driverNone:
	case driverFS:
		c.source.base = fssource.New(fssource.Config{
			Dir:        cfg.dir,
			Extensions: cfg.extensions,
			Workers:    cfg.workers,
		}, obs.logger)
	case driverRedis:
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("perkdex: create redis store: %w", err)
		}
		if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			store.Close()
			return nil, fmt.Errorf("perkdex: redis not ready: %w", err)
		}
		prefix := cfg.keyPrefix
		if prefix == "" {
			prefix = redissource.DefaultKeyPrefix
		}
		c.store = store
		c.source.base = redissource.New(store, prefix, obs.logger)
		pinger = store
	default:
		return nil, fmt.Errorf("perkdex: unknown driver %q", cfg.driver)
	}

	c.catalog = cataloguc.New(c.source, request.Defaults{
		TopK:    cfg.topK,
		MaxTopK: cfg.maxTopK,
		Mode:    mode.Mode(cfg.strategy),
	}, obs.logger)
	c.health = healthuc.New(c.catalog, pinger)

	if c.source.base != nil {
		if _, err := c.Reindex(ctx); err != nil {
			c.Close()
			return nil, err
		}
	}
	return c, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Reindex rebuilds the index from the configured source plus every document
// added with Ingest.
func (c *Client) Reindex(ctx context.Context) (rep Report, err error) {
	start := time.Now()
	defer func() { c.obs.observe("reindex", start, err) }()

	c.mu.Lock()
	defer c.mu.Unlock()

	report, err := c.catalog.Reindex(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("reindex: %w", err)
	}
	return reportFromDomain(report), nil
}

// Ingest adds one document and republishes the index. A document that cannot
// be indexed (blank text, duplicate source) is reported in the Outcome and
// not kept.
func (c *Client) Ingest(ctx context.Context, docID, rawText string) (out Outcome, err error) {
	start := time.Now()
	defer func() { c.obs.observe("ingest", start, err) }()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.source.add(ingest.RawDocument{ID: docID, Text: rawText})
	report, err := c.catalog.Reindex(ctx)
	if err != nil {
		c.source.removeLast(docID)
		return Outcome{}, fmt.Errorf("ingest %s: %w", docID, err)
	}

	// Ingestion order is stable by ID, so the newest copy of docID is last.
	for i := len(report.Outcomes) - 1; i >= 0; i-- {
		if report.Outcomes[i].DocID() == docID {
			out = outcomeFromDomain(report.Outcomes[i])
			break
		}
	}
	if !out.Indexed {
		c.source.removeLast(docID)
	}
	return out, nil
}

// Query ranks offers against text.
func (c *Client) Query(ctx context.Context, text string, opts SearchOptions) (hits []Discount, err error) {
	start := time.Now()
	defer func() { c.obs.observe("query", start, err) }()

	req, err := request.New(text, mode.Mode(opts.Strategy), opts.TopK, opts.Category, c.catalog.Defaults())
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	results, err := c.catalog.Query(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	hits = make([]Discount, len(results))
	for i := range results {
		hits[i] = discountFromResult(results[i])
	}
	return hits, nil
}

// List returns every indexed offer ordered by source.
func (c *Client) List(ctx context.Context) []Discount {
	records := c.catalog.List(ctx)
	out := make([]Discount, len(records))
	for i, rec := range records {
		out[i] = discountFromRecord(rec)
	}
	return out
}

// Get returns the offer extracted from one source document.
func (c *Client) Get(ctx context.Context, docID string) (Discount, error) {
	rec, err := c.catalog.Get(ctx, docID)
	if err != nil {
		return Discount{}, fmt.Errorf("get %s: %w", docID, err)
	}
	return discountFromRecord(rec), nil
}

// Stats describes the served index.
func (c *Client) Stats() Stats {
	st := c.catalog.Stats()
	return Stats{
		Documents:  st.TotalDocuments,
		Terms:      st.TotalTerms,
		SnapshotID: st.SnapshotID,
		BuiltAt:    st.BuiltAt,
	}
}

// mergedSource serves the configured source followed by documents pushed
// through Ingest.
type mergedSource struct {
	base cataloguc.Source

	mu    sync.Mutex
	extra []ingest.RawDocument
}

func (m *mergedSource) Load(ctx context.Context) ([]ingest.RawDocument, error) {
	var docs []ingest.RawDocument
	if m.base != nil {
		loaded, err := m.base.Load(ctx)
		if err != nil {
			return nil, err
		}
		docs = loaded
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Concat(docs, m.extra), nil
}

func (m *mergedSource) add(doc ingest.RawDocument) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.extra = append(m.extra, doc)
}

func (m *mergedSource) removeLast(docID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.extra) - 1; i >= 0; i-- {
		if m.extra[i].ID == docID {
			m.extra = slices.Delete(m.extra, i, i+1)
			return
		}
	}
}
