// Package store holds ingested documents, their offer records and the inverted
// index. A Builder is filled by a single goroutine and frozen into an
// immutable Snapshot that any number of readers can query.
package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/perkdex/internal/domain"
	"github.com/kailas-cloud/perkdex/internal/domain/document"
	"github.com/kailas-cloud/perkdex/internal/domain/ingest"
	"github.com/kailas-cloud/perkdex/internal/domain/offer"
	"github.com/kailas-cloud/perkdex/internal/engine/extractor"
	"github.com/kailas-cloud/perkdex/internal/engine/index"
	"github.com/kailas-cloud/perkdex/internal/engine/tokenizer"
)

// Builder accumulates documents in ingestion order. Not safe for concurrent use.
type Builder struct {
	docs     []document.Document
	records  map[string]offer.Record
	ix       *index.Inverted
	outcomes []ingest.Outcome
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		records: make(map[string]offer.Record),
		ix:      index.New(),
	}
}

// Add extracts, tokenizes and indexes one document. Empty texts and IDs that
// were already added are skipped; the outcome says which.
func (b *Builder) Add(docID, rawText string) ingest.Outcome {
	if _, dup := b.records[docID]; dup {
		return b.skip(docID, fmt.Errorf("document %s: %w", docID, domain.ErrDuplicateDocument))
	}

	terms := tokenizer.TermSet(rawText)
	doc, err := document.New(docID, rawText, terms)
	if err != nil {
		return b.skip(docID, err)
	}

	b.docs = append(b.docs, doc)
	b.records[docID] = offer.New(docID, extractor.Extract(rawText))
	b.ix.Add(docID, terms)

	o := ingest.Indexed(docID)
	b.outcomes = append(b.outcomes, o)
	return o
}

// Skip records a document that never reached Add, such as an unreadable file.
func (b *Builder) Skip(docID string, reason error) ingest.Outcome {
	return b.skip(docID, reason)
}

func (b *Builder) skip(docID string, reason error) ingest.Outcome {
	o := ingest.Skipped(docID, reason)
	b.outcomes = append(b.outcomes, o)
	return o
}

// Freeze publishes everything added so far as a Snapshot and resets the builder.
func (b *Builder) Freeze() *Snapshot {
	s := &Snapshot{
		id:      uuid.NewString(),
		builtAt: time.Now().UTC(),
		docs:    b.docs,
		records: b.records,
		ix:      b.ix,
		report:  ingest.Report{Outcomes: b.outcomes},
	}
	*b = *NewBuilder()
	return s
}

// Stats is the size of a snapshot.
type Stats struct {
	Documents int
	Terms     int
}

// Snapshot is an immutable, fully built index.
type Snapshot struct {
	id      string
	builtAt time.Time
	docs    []document.Document
	records map[string]offer.Record
	ix      *index.Inverted
	report  ingest.Report
}

// ID returns the snapshot identifier.
func (s *Snapshot) ID() string { return s.id }

// BuiltAt returns when the snapshot was frozen.
func (s *Snapshot) BuiltAt() time.Time { return s.builtAt }

// Documents returns the documents in ingestion order. Callers must not modify
// the returned slice.
func (s *Snapshot) Documents() []document.Document { return s.docs }

// Postings returns the documents containing term in ascending ID order.
func (s *Snapshot) Postings(term string) []string { return s.ix.Postings(term) }

// Record returns the offer record of a document.
func (s *Snapshot) Record(docID string) (offer.Record, bool) {
	r, ok := s.records[docID]
	return r, ok
}

// Records returns every offer record in ingestion order.
func (s *Snapshot) Records() []offer.Record {
	out := make([]offer.Record, 0, len(s.docs))
	for i := range s.docs {
		out = append(out, s.records[s.docs[i].ID()])
	}
	return out
}

// Stats returns the number of documents and distinct terms.
func (s *Snapshot) Stats() Stats {
	_, terms := s.ix.Size()
	return Stats{Documents: len(s.docs), Terms: terms}
}

// Report returns the ingestion outcomes that produced the snapshot.
func (s *Snapshot) Report() ingest.Report { return s.report }
