package mock

import "github.com/fwojciec/shopparse"

var _ shopparse.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of shopparse.Extractor.
type Extractor struct {
	ExtractFn func(doc *shopparse.Document) (*shopparse.Extraction, error)
	NameFn    func() string
}

func (e *Extractor) Extract(doc *shopparse.Document) (*shopparse.Extraction, error) {
	return e.ExtractFn(doc)
}

func (e *Extractor) Name() string {
	return e.NameFn()
}

var _ shopparse.ExtractorRegistry = (*ExtractorRegistry)(nil)

// ExtractorRegistry is a mock implementation of shopparse.ExtractorRegistry.
type ExtractorRegistry struct {
	GetFn         func(pageType shopparse.PageType) shopparse.Extractor
	ForDocumentFn func(doc *shopparse.Document) (shopparse.PageType, shopparse.Extractor)
	RegisterFn    func(pageType shopparse.PageType, extractor shopparse.Extractor)
	ListFn        func() []shopparse.PageType
}

func (r *ExtractorRegistry) Get(pageType shopparse.PageType) shopparse.Extractor {
	return r.GetFn(pageType)
}

func (r *ExtractorRegistry) ForDocument(doc *shopparse.Document) (shopparse.PageType, shopparse.Extractor) {
	return r.ForDocumentFn(doc)
}

func (r *ExtractorRegistry) Register(pageType shopparse.PageType, extractor shopparse.Extractor) {
	r.RegisterFn(pageType, extractor)
}

func (r *ExtractorRegistry) List() []shopparse.PageType {
	return r.ListFn()
}
