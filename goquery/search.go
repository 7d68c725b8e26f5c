package goquery

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/shopparse"
)

var _ shopparse.Extractor = (*SearchExtractor)(nil)

const searchContainerSelector = "li.shopee-search-item-result__item"

var currencySymbolRe = regexp.MustCompile(`^\s*\$\s*$`)

// searchPriceChain reads the amount following the "$" symbol, then the
// legacy price block used by older result layouts.
var searchPriceChain = chain[float64]{
	{
		locate: func(s *goquery.Selection) (string, bool) {
			symbol := findByOwnString(s, "span", currencySymbolRe)
			if symbol.Length() == 0 {
				return "", false
			}
			amount := symbol.NextAllFiltered("span").First()
			if amount.Length() == 0 {
				return "", false
			}
			return amount.Text(), true
		},
		normalize: nonZeroPrice,
	},
	{locate: textOf(`div[class*="_3_FVSo"]`), normalize: price},
}

// SearchExtractor extracts listing records from keyword search result pages.
type SearchExtractor struct{}

// NewSearchExtractor creates a new SearchExtractor.
func NewSearchExtractor() *SearchExtractor {
	return &SearchExtractor{}
}

// Name returns the extractor's identifier.
func (e *SearchExtractor) Name() string {
	return "search"
}

// Extract returns one record per search result.
func (e *SearchExtractor) Extract(doc *shopparse.Document) (*shopparse.Extraction, error) {
	result := &shopparse.Extraction{PageType: shopparse.PageTypeSearch}
	if doc == nil || doc.Content == "" {
		return result, nil
	}
	d, err := newDocument(doc.Content)
	if err != nil {
		return result, nil
	}
	result.Items, result.Skipped = extractContainers(d.Find(searchContainerSelector), e.buildItem)
	return result, nil
}

func (e *SearchExtractor) buildItem(s *goquery.Selection) (*shopparse.BasicItem, error) {
	name := strippedText(s.Find("div.line-clamp-2").First(), "")
	if name == "" {
		return nil, nil
	}

	item := &shopparse.BasicItem{
		ProductName: name,
		Currency:    shopparse.DefaultCurrency,
		PageType:    shopparse.RecordSearch,
	}
	if href, ok := attr(s.Find("a[href]"), "href"); ok {
		item.ProductURL = shopparse.ToAbsoluteURL(href)
		item.ShopID, item.ProductID = shopparse.ExtractIDsFromURL(item.ProductURL)
	}
	if src, ok := attr(s.Find("img[src]"), "src"); ok {
		item.ImageURL = shopparse.ToAbsoluteImageURL(src)
	}
	if p, ok := searchPriceChain.resolve(s); ok {
		item.Price = p
	}
	applyListingFields(item, s)
	return item, nil
}
