package goquery

import (
	"slices"

	"github.com/fwojciec/shopparse"
)

var _ shopparse.ExtractorRegistry = (*Registry)(nil)

// Registry maps page types to extractors and classifies documents to pick
// one automatically. Unknown pages and page types without a registered
// extractor resolve to a nil extractor, which callers treat as "no records".
type Registry struct {
	classifier shopparse.PageClassifier
	extractors map[shopparse.PageType]shopparse.Extractor
}

// NewRegistry creates a new empty Registry that uses classifier for
// ForDocument.
func NewRegistry(classifier shopparse.PageClassifier) *Registry {
	return &Registry{
		classifier: classifier,
		extractors: make(map[shopparse.PageType]shopparse.Extractor),
	}
}

// RegisterDefaults registers the four marketplace extractors. The converter
// is handed to the detail extractor for description fallback and may be nil.
func RegisterDefaults(r shopparse.ExtractorRegistry, converter shopparse.Converter) {
	r.Register(shopparse.PageTypeCategory, NewCategoryExtractor())
	r.Register(shopparse.PageTypeSearch, NewSearchExtractor())
	r.Register(shopparse.PageTypeShop, NewShopExtractor())
	r.Register(shopparse.PageTypeProductDetail, NewDetailExtractor(converter))
}

// Get returns the extractor for a specific page type.
// Returns nil if no extractor is registered for it.
func (r *Registry) Get(pageType shopparse.PageType) shopparse.Extractor {
	return r.extractors[pageType]
}

// ForDocument classifies doc and returns its page type with the matching
// extractor.
func (r *Registry) ForDocument(doc *shopparse.Document) (shopparse.PageType, shopparse.Extractor) {
	pageType := r.classifier.Classify(doc)
	return pageType, r.extractors[pageType]
}

// Register adds an extractor for a page type.
// If an extractor is already registered for the page type, it is replaced.
func (r *Registry) Register(pageType shopparse.PageType, extractor shopparse.Extractor) {
	r.extractors[pageType] = extractor
}

// List returns all registered page types in sorted order.
func (r *Registry) List() []shopparse.PageType {
	pageTypes := make([]shopparse.PageType, 0, len(r.extractors))
	for pt := range r.extractors {
		pageTypes = append(pageTypes, pt)
	}
	slices.Sort(pageTypes)
	return pageTypes
}
