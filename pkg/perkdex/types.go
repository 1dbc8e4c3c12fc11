package perkdex

import (
	"time"

	"github.com/kailas-cloud/perkdex/internal/domain/ingest"
	"github.com/kailas-cloud/perkdex/internal/domain/offer"
	"github.com/kailas-cloud/perkdex/internal/domain/search/mode"
	"github.com/kailas-cloud/perkdex/internal/domain/search/result"
)

// Strategy selects the scoring algorithm.
type Strategy string

// Scoring strategies.
const (
	// StrategyName ranks by offer name match (100 for a name containing the
	// whole query, 60 for a name containing a query term).
	StrategyName Strategy = Strategy(mode.Name)
	// StrategyKeyword is the cumulative term scorer normalized to [0,1].
	StrategyKeyword Strategy = Strategy(mode.Keyword)
)

// Discount is the structured metadata of one offer.
// Code and Bonus are empty when the text has none.
type Discount struct {
	Name     string
	Discount string
	Category string
	Code     string
	HowToUse string
	Bonus    string
	Source   string
	// Score is the relevance score; zero outside of Query results.
	Score float64
}

// SearchOptions narrows a query. Zero values use the client defaults.
type SearchOptions struct {
	TopK     int
	Category string
	Strategy Strategy
}

// Stats describes the served index.
type Stats struct {
	Documents  int
	Terms      int
	SnapshotID string
	BuiltAt    time.Time
}

// Outcome is the ingestion result of one document.
type Outcome struct {
	Source  string
	Indexed bool
	// Reason is set when the document was skipped.
	Reason error
}

// Report summarizes an index rebuild.
type Report struct {
	Indexed int
	Skipped []Outcome
}

func discountFromRecord(rec offer.Record) Discount {
	code, _ := rec.Code()
	bonus, _ := rec.Bonus()
	return Discount{
		Name:     rec.Name(),
		Discount: rec.Discount(),
		Category: rec.Category().String(),
		Code:     code,
		HowToUse: rec.HowToUse(),
		Bonus:    bonus,
		Source:   rec.Source(),
	}
}

func discountFromResult(r result.Result) Discount {
	d := discountFromRecord(r.Record())
	d.Score = r.Score()
	return d
}

func outcomeFromDomain(o ingest.Outcome) Outcome {
	return Outcome{
		Source:  o.DocID(),
		Indexed: o.Status() == ingest.StatusIndexed,
		Reason:  o.Reason(),
	}
}

func reportFromDomain(r ingest.Report) Report {
	out := Report{Indexed: r.Indexed()}
	for _, o := range r.Outcomes {
		if o.Status() == ingest.StatusSkipped {
			out.Skipped = append(out.Skipped, outcomeFromDomain(o))
		}
	}
	return out
}
