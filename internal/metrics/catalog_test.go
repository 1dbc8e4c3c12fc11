package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/perkdex/internal/domain/ingest"
)

func TestRecordIngest(t *testing.T) {
	indexedBefore := testutil.ToFloat64(IngestDocumentsTotal.WithLabelValues("indexed"))
	skippedBefore := testutil.ToFloat64(IngestDocumentsTotal.WithLabelValues("skipped"))

	RecordIngest(ingest.Report{Outcomes: []ingest.Outcome{
		ingest.Indexed("a.txt"),
		ingest.Indexed("b.txt"),
		ingest.Skipped("c.pdf", errors.New("unsupported")),
	}})

	if got := testutil.ToFloat64(IngestDocumentsTotal.WithLabelValues("indexed")) - indexedBefore; got != 2 {
		t.Errorf("expected 2 indexed, got %f", got)
	}
	if got := testutil.ToFloat64(IngestDocumentsTotal.WithLabelValues("skipped")) - skippedBefore; got != 1 {
		t.Errorf("expected 1 skipped, got %f", got)
	}
}

func TestRecordSnapshot(t *testing.T) {
	RecordSnapshot(7, 300)

	if got := testutil.ToFloat64(IndexDocuments); got != 7 {
		t.Errorf("expected 7 documents, got %f", got)
	}
	if got := testutil.ToFloat64(IndexTerms); got != 300 {
		t.Errorf("expected 300 terms, got %f", got)
	}
}

func TestRecordSearch(t *testing.T) {
	before := testutil.ToFloat64(SearchRequestsTotal.WithLabelValues("keyword"))

	RecordSearch("keyword", 0)

	if got := testutil.ToFloat64(SearchRequestsTotal.WithLabelValues("keyword")) - before; got != 1 {
		t.Errorf("expected 1 search, got %f", got)
	}
}
