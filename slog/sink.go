package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/shopparse"
)

// Ensure LoggingSink implements shopparse.RecordSink.
var _ shopparse.RecordSink = (*LoggingSink)(nil)

// LoggingSink wraps a RecordSink with debug logging.
type LoggingSink struct {
	next   shopparse.RecordSink
	logger *slog.Logger
}

// NewLoggingSink creates a new LoggingSink.
func NewLoggingSink(next shopparse.RecordSink, logger *slog.Logger) *LoggingSink {
	return &LoggingSink{next: next, logger: logger}
}

// Write delegates to the wrapped sink and logs the operation.
func (s *LoggingSink) Write(ctx context.Context, extraction *shopparse.Extraction) (err error) {
	defer func(begin time.Time) {
		details := 0
		if extraction != nil && extraction.Detail != nil {
			details = 1
		}
		items := 0
		if extraction != nil {
			items = len(extraction.Items)
		}
		s.logger.Debug("sink write",
			"items", items,
			"details", details,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Write(ctx, extraction)
}

// Close delegates to the wrapped sink and logs failures.
func (s *LoggingSink) Close() error {
	err := s.next.Close()
	if err != nil {
		s.logger.Error("sink close", "err", err)
	}
	return err
}
