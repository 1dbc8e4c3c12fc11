package perkdex

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

const hiltonText = "Hilton Hotels\nSave 20% off your stay. How to book: call 1-800 and use code SAVE20."

func newMemoryClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	c, err := New(context.Background(), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func mustIngest(t *testing.T, c *Client, docID, text string) Outcome {
	t.Helper()
	out, err := c.Ingest(context.Background(), docID, text)
	if err != nil {
		t.Fatalf("Ingest(%s): %v", docID, err)
	}
	return out
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := New(context.Background(), optionFunc(func(c *clientConfig) { c.driver = "s3" }))
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestNew_MissingDir(t *testing.T) {
	_, err := New(context.Background(), WithDir(filepath.Join(t.TempDir(), "missing")))
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestIngestAndQuery(t *testing.T) {
	c := newMemoryClient(t)
	ctx := context.Background()

	if out := mustIngest(t, c, "hilton.txt", hiltonText); !out.Indexed {
		t.Fatalf("expected hilton.txt indexed, got %+v", out)
	}
	mustIngest(t, c, "starbucks.txt", "Starbucks Coffee\n15% off any drink at the cafe.")

	hits, err := c.Query(ctx, "hotel booking", SearchOptions{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	h := hits[0]
	if h.Score != 60 || h.Discount != "20%" || h.Category != "Travel" || h.Code != "SAVE20" {
		t.Errorf("unexpected hit: %+v", h)
	}
	if h.HowToUse == "" {
		t.Error("expected usage instructions")
	}
}

func TestIngest_SkipsBlankAndDuplicate(t *testing.T) {
	c := newMemoryClient(t)

	out := mustIngest(t, c, "blank.txt", "  \n\t")
	if out.Indexed || !errors.Is(out.Reason, ErrEmptyDocument) {
		t.Errorf("blank: got %+v", out)
	}

	mustIngest(t, c, "hilton.txt", hiltonText)
	out = mustIngest(t, c, "hilton.txt", "Another Hilton text")
	if out.Indexed || !errors.Is(out.Reason, ErrDuplicateDocument) {
		t.Errorf("duplicate: got %+v", out)
	}

	if got := c.Stats().Documents; got != 1 {
		t.Errorf("documents: got %d, want 1", got)
	}
	d, err := c.Get(context.Background(), "hilton.txt")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if d.Name != "Hilton Hotels" {
		t.Errorf("first copy must win, got name %q", d.Name)
	}
}

func TestQuery_Validation(t *testing.T) {
	c := newMemoryClient(t)
	mustIngest(t, c, "hilton.txt", hiltonText)

	_, err := c.Query(context.Background(), "hotel", SearchOptions{Strategy: "vector"})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}

	hits, err := c.Query(context.Background(), "   ", SearchOptions{})
	if err != nil || len(hits) != 0 {
		t.Errorf("blank query: got %v, %v", hits, err)
	}
}

func TestQuery_KeywordStrategy(t *testing.T) {
	c := newMemoryClient(t, WithStrategy(StrategyKeyword))
	mustIngest(t, c, "hilton.txt", hiltonText)
	mustIngest(t, c, "marriott.txt", "Marriott Hotels\n10% discount on weekend stays.")

	hits, err := c.Query(context.Background(), "hotels stay", SearchOptions{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].Score != 1 {
		t.Errorf("top keyword score must be normalized to 1, got %v", hits[0].Score)
	}
	for _, h := range hits {
		if h.Score <= 0 || h.Score > 1 {
			t.Errorf("%s: score %v outside (0,1]", h.Source, h.Score)
		}
	}
}

func TestGet_Errors(t *testing.T) {
	c := newMemoryClient(t)

	if _, err := c.Get(context.Background(), "x.txt"); !errors.Is(err, ErrIndexNotReady) {
		t.Errorf("before ingest: got %v", err)
	}
	mustIngest(t, c, "hilton.txt", hiltonText)
	if _, err := c.Get(context.Background(), "x.txt"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing doc: got %v", err)
	}
}

func TestWithDir_MergesIngestedDocuments(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "hilton.txt"), []byte(hiltonText), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "menu.pdf"), []byte("%PDF-1.4 truncated"), 0o600); err != nil {
		t.Fatal(err)
	}

	c := newMemoryClient(t, WithDir(dir), WithWorkers(2))
	if got := c.Stats().Documents; got != 1 {
		t.Fatalf("documents after New: got %d, want 1", got)
	}

	mustIngest(t, c, "amc.txt", "AMC Theatres\nSave 30% on movie tickets.")

	rep, err := c.Reindex(context.Background())
	if err != nil {
		t.Fatalf("Reindex: %v", err)
	}
	if rep.Indexed != 2 {
		t.Errorf("indexed: got %d, want 2", rep.Indexed)
	}
	if len(rep.Skipped) != 1 || !errors.Is(rep.Skipped[0].Reason, ErrUnreadableSource) {
		t.Errorf("skipped: got %+v", rep.Skipped)
	}

	list := c.List(context.Background())
	if len(list) != 2 || list[0].Source != "amc.txt" || list[1].Source != "hilton.txt" {
		t.Errorf("list: got %+v", list)
	}
}

func TestHealth(t *testing.T) {
	c := newMemoryClient(t)
	if got := c.Health(context.Background()); got.Status != "error" {
		t.Errorf("before ingest: got %q", got.Status)
	}
	mustIngest(t, c, "hilton.txt", hiltonText)
	got := c.Health(context.Background())
	if got.Status != "ok" || got.Checks["index"] != "ok" {
		t.Errorf("after ingest: got %+v", got)
	}
}

func TestWithPrometheus_CountsOperations(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := newMemoryClient(t, WithPrometheus(reg))
	mustIngest(t, c, "hilton.txt", hiltonText)
	_, _ = c.Query(context.Background(), "hotel", SearchOptions{})
	_, _ = c.Query(context.Background(), "hotel", SearchOptions{TopK: -1})

	ops := c.obs.metrics.operations
	if got := testutil.ToFloat64(ops.WithLabelValues("ingest", "ok")); got != 1 {
		t.Errorf("ingest ok: got %v", got)
	}
	if got := testutil.ToFloat64(ops.WithLabelValues("query", "ok")); got != 1 {
		t.Errorf("query ok: got %v", got)
	}
	if got := testutil.ToFloat64(ops.WithLabelValues("query", "error")); got != 1 {
		t.Errorf("query error: got %v", got)
	}

	// A second client on the same registry reuses the collectors.
	if _, err := New(context.Background(), WithPrometheus(reg)); err != nil {
		t.Fatalf("second client: %v", err)
	}
}

func TestObserver_NilSafe(t *testing.T) {
	var o *observer
	o.observe("noop", time.Now(), nil)
}
