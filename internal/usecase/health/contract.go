package health

import "context"

// IndexReadiness reports whether an index snapshot is being served.
type IndexReadiness interface {
	Ready() bool
}

// SourcePinger checks the document source's backing store.
type SourcePinger interface {
	Ping(ctx context.Context) error
}
