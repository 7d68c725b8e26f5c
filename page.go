package shopparse

import (
	"context"
	"strings"
)

// PageType identifies which marketplace layout a document represents.
type PageType string

// Supported page types.
const (
	PageTypeUnknown       PageType = "unknown"
	PageTypeProductDetail PageType = "product_detail"
	PageTypeShop          PageType = "shop"
	PageTypeCategory      PageType = "category"
	PageTypeSearch        PageType = "keyword_search_result"
)

// PageTypes lists every page type an extractor can be registered for.
var PageTypes = []PageType{
	PageTypeCategory,
	PageTypeSearch,
	PageTypeShop,
	PageTypeProductDetail,
}

// ParsePageType converts a user-supplied label into a PageType.
// Besides the canonical values it accepts the short names used on the
// command line ("search", "product", "item"). "auto" and "" map to
// PageTypeUnknown, which callers treat as "ask the classifier".
func ParsePageType(s string) (PageType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto", "unknown":
		return PageTypeUnknown, nil
	case "category":
		return PageTypeCategory, nil
	case "search", "keyword_search_result":
		return PageTypeSearch, nil
	case "shop":
		return PageTypeShop, nil
	case "product", "item", "detail", "product_detail":
		return PageTypeProductDetail, nil
	}
	names := make([]string, 0, len(PageTypes)+1)
	names = append(names, "auto")
	for _, pt := range PageTypes {
		names = append(names, string(pt))
	}
	return PageTypeUnknown, Errorf(EINVALID, "unknown page type %q (want one of %s)", s, strings.Join(names, ", "))
}

// Document is one saved HTML page together with the URL it was saved from.
type Document struct {
	// Path is the file the document was loaded from, if any.
	Path string

	// SourceURL is the page URL. It may be empty when the saved file
	// carries no trace of where it came from.
	SourceURL string

	// Content is the raw HTML, decoded to UTF-8.
	Content string
}

// PageClassifier assigns a page type to a document.
type PageClassifier interface {
	// Classify inspects the URL and embedded metadata of doc.
	// Returns PageTypeUnknown when no rule matches.
	Classify(doc *Document) PageType
}

// DocumentLoader reads saved pages from storage.
type DocumentLoader interface {
	// Load reads the document at path.
	// Returns ENOTFOUND if the file does not exist.
	Load(ctx context.Context, path string) (*Document, error)
}
