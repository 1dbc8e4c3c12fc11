package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/perkdex/internal/domain"
	"github.com/kailas-cloud/perkdex/internal/domain/category"
	"github.com/kailas-cloud/perkdex/internal/domain/ingest"
	"github.com/kailas-cloud/perkdex/internal/domain/search/mode"
	"github.com/kailas-cloud/perkdex/internal/domain/search/request"
)

// --- Mocks ---

type mockSource struct {
	docs  []ingest.RawDocument
	err   error
	calls int
	block chan struct{}
	mu    sync.Mutex
}

func (m *mockSource) Load(_ context.Context) ([]ingest.RawDocument, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.block != nil {
		<-m.block
	}
	return m.docs, m.err
}

// --- Helpers ---

const hiltonText = "Hilton Hotels\nSave 20% off your stay. How to book: call 1-800 and use code SAVE20."

func corpus() []ingest.RawDocument {
	return []ingest.RawDocument{
		{ID: "starbucks.txt", Text: "Starbucks Coffee\n15% off any drink at the cafe. Use code BREW15."},
		{ID: "hilton.txt", Text: hiltonText},
		{ID: "amc.txt", Text: "AMC Theatres\nSave 30% on movie tickets. Bonus: free popcorn."},
		{ID: "marriott.txt", Text: "Marriott Hotels\n10% discount on weekend stays."},
		{ID: "empty.txt", Text: "   "},
		{ID: "scan.docx", Err: domain.NewSourceError("scan.docx", domain.ErrUnsupportedFormat)},
	}
}

func newReq(t *testing.T, q string, m mode.Mode, topK int, cat string) *request.Request {
	t.Helper()
	r, err := request.New(q, m, topK, cat, request.Defaults{})
	require.NoError(t, err)
	return &r
}

func ingested(t *testing.T) *Service {
	t.Helper()
	svc := New(nil, request.Defaults{}, nil)
	svc.Ingest(corpus())
	return svc
}

// --- Tests ---

func TestIngest_Report(t *testing.T) {
	svc := New(nil, request.Defaults{}, nil)
	report := svc.Ingest(corpus())

	assert.Equal(t, 4, report.Indexed())
	assert.Equal(t, 2, report.Skipped())

	reasons := map[string]error{}
	for _, o := range report.Outcomes {
		reasons[o.DocID()] = o.Reason()
	}
	assert.ErrorIs(t, reasons["empty.txt"], domain.ErrEmptyDocument)
	assert.ErrorIs(t, reasons["scan.docx"], domain.ErrUnsupportedFormat)
	assert.NoError(t, reasons["hilton.txt"])
}

func TestList_IngestionOrderIsSortedByID(t *testing.T) {
	svc := ingested(t)

	recs := svc.List(context.Background())

	ids := make([]string, 0, len(recs))
	for i := range recs {
		ids = append(ids, recs[i].Source())
	}
	assert.Equal(t, []string{"amc.txt", "hilton.txt", "marriott.txt", "starbucks.txt"}, ids)
}

func TestQuery_HiltonScenario(t *testing.T) {
	svc := New(nil, request.Defaults{}, nil)
	svc.Ingest([]ingest.RawDocument{{ID: "hilton.txt", Text: hiltonText}})

	results, err := svc.Query(context.Background(), newReq(t, "hotel discounts", "", 0, ""))
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	rec := r.Record()
	assert.Equal(t, 60.0, r.Score())
	assert.Equal(t, "20%", rec.Discount())
	assert.Equal(t, category.Travel, rec.Category())
	code, ok := rec.Code()
	assert.True(t, ok)
	assert.Equal(t, "SAVE20", code)
	assert.Contains(t, rec.HowToUse(), "call 1-800")
}

func TestQuery_ExactNameRanksFirst(t *testing.T) {
	svc := ingested(t)

	results, err := svc.Query(context.Background(), newReq(t, "marriott hotels", "", 0, ""))
	require.NoError(t, err)
	require.NotEmpty(t, results)

	assert.Equal(t, "marriott.txt", results[0].ID())
	assert.Equal(t, 100.0, results[0].Score())
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i].Score(), results[i-1].Score())
	}
}

func TestQuery_TiesBrokenByID(t *testing.T) {
	svc := ingested(t)

	results, err := svc.Query(context.Background(), newReq(t, "hotels", "", 0, ""))
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "hilton.txt", results[0].ID())
	assert.Equal(t, "marriott.txt", results[1].ID())
}

func TestQuery_EmptyQuery(t *testing.T) {
	svc := ingested(t)

	for _, q := range []string{"", "   ", "!!"} {
		results, err := svc.Query(context.Background(), newReq(t, q, "", 0, ""))
		require.NoError(t, err)
		assert.Empty(t, results, "query %q", q)
	}
}

func TestQuery_NoMatchLeavesStatsUnchanged(t *testing.T) {
	svc := ingested(t)
	before := svc.Stats()

	results, err := svc.Query(context.Background(), newReq(t, "zebra", "", 0, ""))
	require.NoError(t, err)

	assert.Empty(t, results)
	assert.Equal(t, before, svc.Stats())
}

func TestQuery_BeforeIngest(t *testing.T) {
	svc := New(nil, request.Defaults{}, nil)

	results, err := svc.Query(context.Background(), newReq(t, "hotel", "", 0, ""))
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.False(t, svc.Ready())
}

func TestQuery_CategoryFilterAfterTopK(t *testing.T) {
	svc := New(nil, request.Defaults{}, nil)
	svc.Ingest([]ingest.RawDocument{
		{ID: "a.txt", Text: "Deals Hotel\nhotel"},
		{ID: "b.txt", Text: "Deals Cafe\ncafe food"},
	})

	// Both names contain the query; a.txt (Travel) wins the single top-k slot
	// on the ID tie-break, so a Dining filter finds nothing.
	results, err := svc.Query(context.Background(), newReq(t, "deals", "", 1, "dining"))
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = svc.Query(context.Background(), newReq(t, "deals", "", 2, "DINING"))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "b.txt", results[0].ID())
}

func TestQuery_KeywordStrategy(t *testing.T) {
	svc := ingested(t)

	results, err := svc.Query(context.Background(), newReq(t, "movie tickets", mode.Keyword, 0, ""))
	require.NoError(t, err)
	require.NotEmpty(t, results)

	assert.Equal(t, "amc.txt", results[0].ID())
	assert.Equal(t, 1.0, results[0].Score())
	for _, r := range results {
		assert.Greater(t, r.Score(), 0.0)
		assert.LessOrEqual(t, r.Score(), 1.0)
	}
}

func TestStats(t *testing.T) {
	svc := New(nil, request.Defaults{Mode: mode.Keyword}, nil)
	empty := svc.Stats()
	assert.Zero(t, empty.TotalDocuments)
	assert.Empty(t, empty.SnapshotID)
	assert.Equal(t, mode.Keyword, empty.Strategy)

	svc.Ingest(corpus())
	st := svc.Stats()
	assert.Equal(t, 4, st.TotalDocuments)
	assert.Positive(t, st.TotalTerms)
	assert.NotEmpty(t, st.SnapshotID)
	assert.False(t, st.BuiltAt.IsZero())
}

func TestReindex_SwapsSnapshot(t *testing.T) {
	src := &mockSource{docs: corpus()}
	svc := New(src, request.Defaults{}, nil)

	_, err := svc.Reindex(context.Background())
	require.NoError(t, err)
	first := svc.Stats().SnapshotID

	src.docs = append(src.docs, ingest.RawDocument{ID: "target.txt", Text: "Target\n5% off at the store"})
	report, err := svc.Reindex(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, report.Indexed())
	assert.Equal(t, 5, svc.Stats().TotalDocuments)
	assert.NotEqual(t, first, svc.Stats().SnapshotID)
}

func TestReindex_SourceError(t *testing.T) {
	src := &mockSource{err: domain.ErrSourceUnavailable}
	svc := New(src, request.Defaults{}, nil)
	svc.Ingest(corpus())
	before := svc.Stats()

	_, err := svc.Reindex(context.Background())

	require.ErrorIs(t, err, domain.ErrSourceUnavailable)
	assert.Equal(t, before, svc.Stats(), "failed rebuild must keep the published snapshot")
}

func TestReindex_NoSource(t *testing.T) {
	_, err := New(nil, request.Defaults{}, nil).Reindex(context.Background())
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestReindex_Concurrent(t *testing.T) {
	src := &mockSource{docs: corpus(), block: make(chan struct{})}
	svc := New(src, request.Defaults{}, nil)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Reindex(context.Background())
		done <- err
	}()

	// Wait for the first rebuild to reach the source.
	require.Eventually(t, func() bool {
		src.mu.Lock()
		defer src.mu.Unlock()
		return src.calls == 1
	}, time.Second, time.Millisecond)

	_, err := svc.Reindex(context.Background())
	assert.True(t, errors.Is(err, domain.ErrReindexInProgress))

	close(src.block)
	require.NoError(t, <-done)
}

func TestGet(t *testing.T) {
	svc := New(nil, request.Defaults{}, nil)
	_, err := svc.Get(context.Background(), "hilton.txt")
	require.ErrorIs(t, err, domain.ErrIndexNotReady)

	svc.Ingest(corpus())

	rec, err := svc.Get(context.Background(), "hilton.txt")
	require.NoError(t, err)
	assert.Equal(t, "Hilton Hotels", rec.Name())
	assert.Equal(t, category.Travel, rec.Category())

	_, err = svc.Get(context.Background(), "missing.txt")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Get(context.Background(), "empty.txt")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
