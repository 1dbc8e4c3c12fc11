package ingest

// Status is the ingestion outcome of a single source document.
type Status string

// Ingestion status values.
const (
	StatusIndexed Status = "indexed"
	StatusSkipped Status = "skipped"
)

// Outcome is the result of ingesting one source document.
type Outcome struct {
	docID  string
	status Status
	err    error
}

// Indexed creates a successful outcome.
func Indexed(docID string) Outcome { return Outcome{docID: docID, status: StatusIndexed} }

// Skipped creates an outcome for a document that was left out of the index.
func Skipped(docID string, reason error) Outcome {
	return Outcome{docID: docID, status: StatusSkipped, err: reason}
}

// DocID returns the document identifier.
func (o Outcome) DocID() string { return o.docID }

// Status returns the ingestion outcome.
func (o Outcome) Status() Status { return o.status }

// Reason returns why the document was skipped, nil when indexed.
func (o Outcome) Reason() error { return o.err }

// Report summarizes one ingestion run.
type Report struct {
	Outcomes []Outcome
}

// Indexed returns the number of documents that made it into the index.
func (r Report) Indexed() int { return r.count(StatusIndexed) }

// Skipped returns the number of documents left out.
func (r Report) Skipped() int { return r.count(StatusSkipped) }

func (r Report) count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.status == s {
			n++
		}
	}
	return n
}
