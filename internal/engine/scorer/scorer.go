// Package scorer ranks documents against a free-text query.
package scorer

import (
	"sort"

	"github.com/kailas-cloud/perkdex/internal/domain/document"
	"github.com/kailas-cloud/perkdex/internal/domain/search/mode"
)

// Corpus is the read-only view of the document store a Strategy scores against.
type Corpus interface {
	Documents() []document.Document
	Postings(term string) []string
}

// Strategy computes a relevance score per candidate document.
// Documents absent from the returned map did not match.
type Strategy interface {
	Mode() mode.Mode
	Score(query string, corpus Corpus) map[string]float64
}

// Hit is one ranked document.
type Hit struct {
	DocID string
	Score float64
}

// Rank keeps positive scores, sorts them by descending score with ties broken
// by ascending DocID, and truncates to topK (topK <= 0 means no limit).
func Rank(scores map[string]float64, topK int) []Hit {
	hits := make([]Hit, 0, len(scores))
	for id, s := range scores {
		if s > 0 {
			hits = append(hits, Hit{DocID: id, Score: s})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].DocID < hits[j].DocID
	})
	if topK > 0 && len(hits) > topK {
		hits = hits[:topK]
	}
	return hits
}

// ForMode returns the strategy registered for m.
func ForMode(m mode.Mode) (Strategy, bool) {
	switch m {
	case mode.Name:
		return NameScorer{}, true
	case mode.Keyword:
		return KeywordScorer{}, true
	default:
		return nil, false
	}
}
