package scorer

import (
	"strings"

	"github.com/kailas-cloud/perkdex/internal/domain/search/mode"
	"github.com/kailas-cloud/perkdex/internal/engine/tokenizer"
)

// Keyword scorer weights.
const (
	PostingWeight   = 10.0
	SubstringWeight = 1.0
)

// KeywordScorer is the legacy cumulative strategy. Every query token adds
// PostingWeight to each document in its posting list and SubstringWeight to
// each document whose text contains it; totals are divided by the maximum.
type KeywordScorer struct{}

// Mode implements Strategy.
func (KeywordScorer) Mode() mode.Mode { return mode.Keyword }

// Score implements Strategy.
func (KeywordScorer) Score(query string, corpus Corpus) map[string]float64 {
	tokens := tokenizer.Tokenize(query)
	if len(tokens) == 0 {
		return map[string]float64{}
	}

	docs := corpus.Documents()
	lowered := make([]string, len(docs))
	for i := range docs {
		lowered[i] = strings.ToLower(docs[i].RawText())
	}

	scores := make(map[string]float64)
	for _, tok := range tokens {
		for _, id := range corpus.Postings(tok) {
			scores[id] += PostingWeight
		}
		for i := range docs {
			if strings.Contains(lowered[i], tok) {
				scores[docs[i].ID()] += SubstringWeight
			}
		}
	}

	var maxScore float64
	for _, s := range scores {
		if s > maxScore {
			maxScore = s
		}
	}
	if maxScore == 0 {
		return scores
	}
	for id, s := range scores {
		scores[id] = s / maxScore
	}
	return scores
}
