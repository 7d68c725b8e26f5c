package shopparse

// SkippedItem records a listing container or review entry that was dropped
// while the rest of the document was still processed.
type SkippedItem struct {
	// Index is the position of the container within the page.
	Index int

	// Name is the product name, when it was resolved before the failure.
	Name string

	// Err explains why the item was dropped. Schema violations carry EINVALID.
	Err error
}

// Extraction is the outcome of running one extractor over one document.
type Extraction struct {
	// PageType is the page type the extractor handles.
	PageType PageType

	// Items holds listing records. Empty for detail pages.
	Items []*BasicItem

	// Detail holds the product detail record, or nil when the page could
	// not be resolved into a complete record.
	Detail *DetailedItem

	// Skipped lists candidates rejected during extraction.
	Skipped []SkippedItem
}

// Len returns the number of records produced.
func (e *Extraction) Len() int {
	if e == nil {
		return 0
	}
	n := len(e.Items)
	if e.Detail != nil {
		n++
	}
	return n
}

// Extractor turns one document into zero or more typed records.
type Extractor interface {
	// Extract parses doc and returns the records it holds. Malformed input
	// or a page of the wrong type yields an empty Extraction, not an error.
	Extract(doc *Document) (*Extraction, error)

	// Name returns the extractor's identifier (e.g., "category", "detail").
	Name() string
}

// ExtractorRegistry maps page types to extractors.
type ExtractorRegistry interface {
	// Get returns the extractor for a page type.
	// Returns nil if no extractor is registered for it.
	Get(pageType PageType) Extractor

	// ForDocument classifies doc and returns the page type together with
	// the matching extractor. The extractor is nil for unknown pages.
	ForDocument(doc *Document) (PageType, Extractor)

	// Register adds an extractor for a page type.
	Register(pageType PageType, extractor Extractor)

	// List returns all registered page types.
	List() []PageType
}
