package document

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/perkdex/internal/domain"
)

// UnknownDisplayName is used when the text has no non-empty line.
const UnknownDisplayName = "Unknown"

// Document is one ingested source text (immutable value object).
type Document struct {
	id          string
	rawText     string
	displayName string
	terms       map[string]struct{}
}

// New validates and creates a Document. terms is the tokenizer output for
// rawText; duplicates are collapsed.
func New(id, rawText string, terms []string) (Document, error) {
	if id == "" {
		return Document{}, fmt.Errorf("document ID is required: %w", domain.ErrInvalidRequest)
	}
	if strings.TrimSpace(rawText) == "" {
		return Document{}, fmt.Errorf("document %s: %w", id, domain.ErrEmptyDocument)
	}

	set := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		set[t] = struct{}{}
	}

	return Document{
		id:          id,
		rawText:     rawText,
		displayName: displayName(rawText),
		terms:       set,
	}, nil
}

// ID returns the document identifier.
func (d Document) ID() string { return d.id }

// RawText returns the full extracted text.
func (d Document) RawText() string { return d.rawText }

// DisplayName returns the first non-empty line, trimmed.
func (d Document) DisplayName() string { return d.displayName }

// HasTerm reports whether term occurs in the document.
func (d Document) HasTerm(term string) bool {
	_, ok := d.terms[term]
	return ok
}

// Terms returns the deduplicated terms in sorted order.
func (d Document) Terms() []string {
	out := make([]string, 0, len(d.terms))
	for t := range d.terms {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func displayName(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return UnknownDisplayName
}
