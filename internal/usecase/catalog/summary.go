package catalog

import (
	"fmt"

	"github.com/kailas-cloud/perkdex/internal/domain/search/result"
)

// Summary is the human-facing digest of a result set.
type Summary struct {
	Message    string
	ByCategory map[string][]string
}

// Summarize builds the response message and groups result sources by category.
func Summarize(query string, results []result.Result) Summary {
	byCategory := make(map[string][]string)
	for i := range results {
		rec := results[i].Record()
		label := rec.Category().String()
		byCategory[label] = append(byCategory[label], rec.Source())
	}

	var msg string
	switch len(results) {
	case 0:
		msg = fmt.Sprintf("No discounts found for '%s'. Try a different search!", query)
	case 1:
		msg = fmt.Sprintf("Found 1 discount for '%s'!", query)
	default:
		msg = fmt.Sprintf("Found %d discounts matching '%s'!", len(results), query)
	}

	return Summary{Message: msg, ByCategory: byCategory}
}
