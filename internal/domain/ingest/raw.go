package ingest

// RawDocument is one document as read from a source, before extraction.
// Err is set when the document could not be read; Text is then empty.
type RawDocument struct {
	ID   string
	Text string
	Err  error
}
