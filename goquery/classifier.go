package goquery

import (
	"net/url"
	"strings"

	"github.com/fwojciec/shopparse"
)

var _ shopparse.PageClassifier = (*Classifier)(nil)

// reservedPaths are top-level path segments that belong to the marketplace
// itself and can never be a shop handle.
var reservedPaths = map[string]bool{
	"cart":     true,
	"checkout": true,
	"user":     true,
	"buyer":    true,
	"seller":   true,
	"search":   true,
	"mall":     true,
	"product":  true,
	"category": true,
	"live":     true,
	"blog":     true,
	"events3":  true,
}

// Classifier identifies marketplace page types from a document's source URL,
// falling back to embedded metadata for shop pages.
type Classifier struct{}

// NewClassifier creates a new Classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify returns the page type of doc.
// Returns PageTypeUnknown if the content or the source URL is empty, or if
// no rule matches.
func (c *Classifier) Classify(doc *shopparse.Document) shopparse.PageType {
	if doc == nil || doc.Content == "" || doc.SourceURL == "" {
		return shopparse.PageTypeUnknown
	}
	p := urlPath(doc.SourceURL)

	// Product URLs end in "-i.{shopID}.{productID}"
	if c.isProductPath(p) {
		return shopparse.PageTypeProductDetail
	}

	if strings.Contains(p, "-cat.") {
		return shopparse.PageTypeCategory
	}

	if strings.Contains(p, "/search") {
		return shopparse.PageTypeSearch
	}

	// Shop pages publish an Organization block; check it before the
	// path-shape heuristic since it is the stronger signal
	if c.hasOrganization(doc.Content) {
		return shopparse.PageTypeShop
	}

	if c.isShopPath(p) {
		return shopparse.PageTypeShop
	}

	return shopparse.PageTypeUnknown
}

// isProductPath checks for the "-i." marker followed by exactly one
// dot-separated numeric id pair.
func (c *Classifier) isProductPath(p string) bool {
	i := strings.LastIndex(p, "-i.")
	if i < 0 {
		return false
	}
	if strings.Count(p[i+len("-i."):], ".") != 1 {
		return false
	}
	shopID, productID := shopparse.ExtractIDsFromURL(p)
	return shopID != nil && productID != nil
}

// isShopPath checks for a single non-reserved path segment.
func (c *Classifier) isShopPath(p string) bool {
	p = strings.Trim(p, "/")
	if p == "" || strings.Contains(p, "/") {
		return false
	}
	return !reservedPaths[strings.ToLower(p)]
}

func (c *Classifier) hasOrganization(content string) bool {
	doc, err := newDocument(content)
	if err != nil {
		return false
	}
	_, ok := FindLinkedData(doc, "Organization")
	return ok
}

// urlPath returns the path component of raw, or raw without its query when
// it does not parse as a URL.
func urlPath(raw string) string {
	if u, err := url.Parse(raw); err == nil {
		return u.Path
	}
	p, _, _ := strings.Cut(raw, "?")
	return p
}

// CanonicalURL returns the page URL declared in the document head, from
// <link rel="canonical"> or the og:url meta tag. Returns "" if neither is
// present.
func CanonicalURL(content string) string {
	doc, err := newDocument(content)
	if err != nil {
		return ""
	}
	if href, ok := attr(doc.Find(`link[rel="canonical"]`), "href"); ok {
		return href
	}
	if u, ok := attr(doc.Find(`meta[property="og:url"]`), "content"); ok {
		return u
	}
	return ""
}
