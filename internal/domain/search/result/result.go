package result

import "github.com/kailas-cloud/perkdex/internal/domain/offer"

// Result is a single ranked offer.
type Result struct {
	record offer.Record
	score  float64
}

// New creates a search result.
func New(record offer.Record, score float64) Result {
	return Result{record: record, score: score}
}

// ID returns the source document identifier.
func (r Result) ID() string { return r.record.Source() }

// Score returns the relevance score.
func (r Result) Score() float64 { return r.score }

// Record returns the offer metadata.
func (r Result) Record() offer.Record { return r.record }
