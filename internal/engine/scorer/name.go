package scorer

import (
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/perkdex/internal/domain/search/mode"
	"github.com/kailas-cloud/perkdex/internal/engine/tokenizer"
)

// Name scorer tiers.
const (
	// NameMatchScore is awarded when the whole query occurs in the display name.
	NameMatchScore = 100.0
	// TermMatchScore is awarded when a single query term occurs in the display name.
	TermMatchScore = 60.0
)

// minQueryTermLength is exclusive: terms must be longer than this.
const minQueryTermLength = 2

// NameScorer is the primary strategy: a title-biased, first-rule-wins ranking.
type NameScorer struct{}

// Mode implements Strategy.
func (NameScorer) Mode() mode.Mode { return mode.Name }

// Score implements Strategy.
func (NameScorer) Score(query string, corpus Corpus) map[string]float64 {
	q := tokenizer.Normalize(query)
	if q == "" {
		return map[string]float64{}
	}
	// Short names such as "TV" yield no terms but still match as a whole.
	terms := QueryTerms(q)

	scores := make(map[string]float64)
	for _, doc := range corpus.Documents() {
		name := tokenizer.Normalize(doc.DisplayName())
		switch {
		case strings.Contains(name, q):
			scores[doc.ID()] = NameMatchScore
		case containsAny(name, terms):
			scores[doc.ID()] = TermMatchScore
		}
	}
	return scores
}

// QueryTerms splits a normalized query into terms longer than two characters,
// dropping stop words. When every term is a stop word the unfiltered terms
// are returned instead.
func QueryTerms(normalized string) []string {
	var long, kept []string
	for _, f := range strings.Fields(normalized) {
		if utf8.RuneCountInString(f) <= minQueryTermLength {
			continue
		}
		long = append(long, f)
		if !IsStopWord(f) {
			kept = append(kept, f)
		}
	}
	if len(kept) == 0 {
		return long
	}
	return kept
}

func containsAny(name string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(name, t) {
			return true
		}
	}
	return false
}
