// Package index provides an in-memory inverted index from terms to document IDs.
package index

import "sort"

// Inverted maps terms to the set of documents containing them.
// Not safe for concurrent writes; reads are safe once writes stop.
type Inverted struct {
	postings map[string]map[string]struct{}
	docs     map[string][]string
}

// New creates an empty index.
func New() *Inverted {
	return &Inverted{
		postings: make(map[string]map[string]struct{}),
		docs:     make(map[string][]string),
	}
}

// Add registers docID under every term. Adding the same document twice
// merges its terms.
func (ix *Inverted) Add(docID string, terms []string) {
	for _, t := range terms {
		set, ok := ix.postings[t]
		if !ok {
			set = make(map[string]struct{})
			ix.postings[t] = set
		}
		if _, dup := set[docID]; !dup {
			set[docID] = struct{}{}
			ix.docs[docID] = append(ix.docs[docID], t)
		}
	}
	if _, ok := ix.docs[docID]; !ok {
		ix.docs[docID] = nil
	}
}

// Remove drops docID from every posting list. Terms left without documents
// are removed.
func (ix *Inverted) Remove(docID string) {
	for _, t := range ix.docs[docID] {
		set := ix.postings[t]
		delete(set, docID)
		if len(set) == 0 {
			delete(ix.postings, t)
		}
	}
	delete(ix.docs, docID)
}

// Postings returns the documents containing term in ascending order.
func (ix *Inverted) Postings(term string) []string {
	set := ix.postings[term]
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Contains reports whether docID is listed under term.
func (ix *Inverted) Contains(term, docID string) bool {
	_, ok := ix.postings[term][docID]
	return ok
}

// Size returns the number of indexed documents and distinct terms.
func (ix *Inverted) Size() (documents, terms int) {
	return len(ix.docs), len(ix.postings)
}
