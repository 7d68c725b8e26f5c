package shopparse

import "context"

// RecordSink receives the records of a conversion run.
// Write is called once per document, in input order.
type RecordSink interface {
	Write(ctx context.Context, extraction *Extraction) error

	// Close flushes buffered output and releases resources.
	Close() error
}

// Deduplicator reports whether a record key was seen earlier in a run.
type Deduplicator interface {
	// Add records key and returns false if it was already present.
	Add(key string) bool
}
