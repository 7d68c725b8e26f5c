package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/shopparse"
)

// Ensure LoggingRegistry implements shopparse.ExtractorRegistry.
var _ shopparse.ExtractorRegistry = (*LoggingRegistry)(nil)

// LoggingRegistry wraps an ExtractorRegistry with logging for page
// classification. Extractors it hands out are wrapped in LoggingExtractor.
type LoggingRegistry struct {
	next   shopparse.ExtractorRegistry
	logger *slog.Logger
}

// NewLoggingRegistry creates a new LoggingRegistry.
func NewLoggingRegistry(next shopparse.ExtractorRegistry, logger *slog.Logger) *LoggingRegistry {
	return &LoggingRegistry{next: next, logger: logger}
}

// Get delegates to the wrapped registry.
func (r *LoggingRegistry) Get(pageType shopparse.PageType) shopparse.Extractor {
	return r.wrap(r.next.Get(pageType))
}

// ForDocument classifies doc through the wrapped registry and logs the
// outcome.
func (r *LoggingRegistry) ForDocument(doc *shopparse.Document) (shopparse.PageType, shopparse.Extractor) {
	begin := time.Now()
	pageType, extractor := r.next.ForDocument(doc)
	extractorName := "(none)"
	if extractor != nil {
		extractorName = extractor.Name()
	}
	pageTypeName := string(pageType)
	if pageType == shopparse.PageTypeUnknown {
		pageTypeName = "(unknown)"
	}
	path, url := documentSource(doc)
	r.logger.Info("page classification",
		"path", path,
		"url", url,
		"page_type", pageTypeName,
		"extractor", extractorName,
		"duration", time.Since(begin),
	)
	return pageType, r.wrap(extractor)
}

// Register delegates to the wrapped registry.
func (r *LoggingRegistry) Register(pageType shopparse.PageType, extractor shopparse.Extractor) {
	r.next.Register(pageType, extractor)
}

// List delegates to the wrapped registry.
func (r *LoggingRegistry) List() []shopparse.PageType {
	return r.next.List()
}

func (r *LoggingRegistry) wrap(e shopparse.Extractor) shopparse.Extractor {
	if e == nil {
		return nil
	}
	return NewLoggingExtractor(e, r.logger)
}
