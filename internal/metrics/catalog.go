package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/perkdex/internal/domain/ingest"
)

// Catalog Prometheus metrics.
var (
	IngestDocumentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_documents_total",
			Help:      "Source documents processed by ingestion, by outcome",
		},
		[]string{"status"},
	)

	IndexDocuments = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "index_documents",
			Help:      "Documents in the published snapshot",
		},
	)

	IndexTerms = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "index_terms",
			Help:      "Distinct terms in the published snapshot",
		},
	)

	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_requests_total",
			Help:      "Search queries served, by scoring strategy",
		},
		[]string{"strategy"},
	)

	SearchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_results",
			Help:      "Number of results returned per search",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
	)
)

func init() {
	prometheus.MustRegister(IngestDocumentsTotal)
	prometheus.MustRegister(IndexDocuments)
	prometheus.MustRegister(IndexTerms)
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchResults)
}

// RecordIngest counts every outcome of an ingestion run.
func RecordIngest(report ingest.Report) {
	for _, o := range report.Outcomes {
		IngestDocumentsTotal.WithLabelValues(string(o.Status())).Inc()
	}
}

// RecordSnapshot sets the index size gauges.
func RecordSnapshot(documents, terms int) {
	IndexDocuments.Set(float64(documents))
	IndexTerms.Set(float64(terms))
}

// RecordSearch counts one search and its result size.
func RecordSearch(strategy string, results int) {
	SearchRequestsTotal.WithLabelValues(strategy).Inc()
	SearchResults.Observe(float64(results))
}
