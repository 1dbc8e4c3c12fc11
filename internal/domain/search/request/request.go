package request

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/perkdex/internal/domain"
	"github.com/kailas-cloud/perkdex/internal/domain/search/mode"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 1024
	DefaultTopK    = 10
	MaxTopK        = 100
)

// Defaults fills unset request parameters and bounds top_k.
// Zero fields fall back to the package defaults.
type Defaults struct {
	TopK    int
	MaxTopK int
	Mode    mode.Mode
}

func (d Defaults) normalized() Defaults {
	if d.TopK <= 0 {
		d.TopK = DefaultTopK
	}
	if d.MaxTopK <= 0 {
		d.MaxTopK = MaxTopK
	}
	if d.TopK > d.MaxTopK {
		d.TopK = d.MaxTopK
	}
	if !d.Mode.IsValid() {
		d.Mode = mode.Name
	}
	return d
}

// Request is a validated search query.
type Request struct {
	query      string
	searchMode mode.Mode
	topK       int
	category   string
}

// New validates and normalizes search parameters.
// Unset mode and topK come from defaults; topK is clamped to defaults.MaxTopK.
// An empty query is valid here and yields no results.
func New(query string, m mode.Mode, topK int, category string, defaults Defaults) (Request, error) {
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars): %w", MaxQueryLength, domain.ErrInvalidRequest)
	}
	defaults = defaults.normalized()
	if m == "" {
		m = defaults.Mode
	}
	if !m.IsValid() {
		return Request{}, fmt.Errorf("invalid search mode %q: %w", m, domain.ErrInvalidRequest)
	}
	if topK < 0 {
		return Request{}, fmt.Errorf("top_k must not be negative: %w", domain.ErrInvalidRequest)
	}

	if topK == 0 {
		topK = defaults.TopK
	}
	if topK > defaults.MaxTopK {
		topK = defaults.MaxTopK
	}

	return Request{
		query:      query,
		searchMode: m,
		topK:       topK,
		category:   strings.TrimSpace(category),
	}, nil
}

// Query returns the search query text.
func (r *Request) Query() string { return r.query }

// Mode returns the scoring strategy.
func (r *Request) Mode() mode.Mode { return r.searchMode }

// TopK returns the maximum number of ranked documents.
func (r *Request) TopK() int { return r.topK }

// Category returns the category filter, empty when unset.
func (r *Request) Category() string { return r.category }

// MatchesCategory reports whether label passes the category filter
// (case-insensitive equality).
func (r *Request) MatchesCategory(label string) bool {
	return r.category == "" || strings.EqualFold(r.category, label)
}
