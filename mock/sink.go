package mock

import (
	"context"

	"github.com/fwojciec/shopparse"
)

var _ shopparse.RecordSink = (*RecordSink)(nil)

// RecordSink is a mock implementation of shopparse.RecordSink.
type RecordSink struct {
	WriteFn func(ctx context.Context, extraction *shopparse.Extraction) error
	CloseFn func() error
}

func (s *RecordSink) Write(ctx context.Context, extraction *shopparse.Extraction) error {
	return s.WriteFn(ctx, extraction)
}

// Close calls CloseFn, or returns nil when it is not set.
func (s *RecordSink) Close() error {
	if s.CloseFn != nil {
		return s.CloseFn()
	}
	return nil
}

var _ shopparse.Deduplicator = (*Deduplicator)(nil)

// Deduplicator is a mock implementation of shopparse.Deduplicator.
type Deduplicator struct {
	AddFn func(key string) bool
}

func (d *Deduplicator) Add(key string) bool {
	return d.AddFn(key)
}
