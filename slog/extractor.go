package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/shopparse"
)

// Ensure LoggingExtractor implements shopparse.Extractor.
var _ shopparse.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with logging. Each document produces
// one summary line and one warning per skipped item.
type LoggingExtractor struct {
	next   shopparse.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next shopparse.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the operation.
func (e *LoggingExtractor) Extract(doc *shopparse.Document) (result *shopparse.Extraction, err error) {
	defer func(begin time.Time) {
		var skipped []shopparse.SkippedItem
		if result != nil {
			skipped = result.Skipped
		}
		path, url := documentSource(doc)
		for _, s := range skipped {
			e.logger.Warn("item skipped",
				"extractor", e.next.Name(),
				"path", path,
				"index", s.Index,
				"name", s.Name,
				"err", s.Err,
			)
		}
		e.logger.Info("extraction",
			"extractor", e.next.Name(),
			"path", path,
			"url", url,
			"records", result.Len(),
			"skipped", len(skipped),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(doc)
}

// Name delegates to the wrapped extractor.
func (e *LoggingExtractor) Name() string {
	return e.next.Name()
}

func documentSource(doc *shopparse.Document) (path, url string) {
	if doc == nil {
		return "", ""
	}
	return doc.Path, doc.SourceURL
}
