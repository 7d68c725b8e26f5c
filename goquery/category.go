package goquery

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/shopparse"
)

var _ shopparse.Extractor = (*CategoryExtractor)(nil)

const (
	categoryContainerSelector = "div.col-xs-2-4, li.shopee-search-item-result__item"
	categoryMarkerSelector    = "li.shopee-search-item-result__item"
	itemPageSelector          = "div.page-product"
)

// categoryPriceChain reads the second span of the price row; the first one
// holds the currency symbol.
var categoryPriceChain = chain[float64]{
	{
		locate: func(s *goquery.Selection) (string, bool) {
			spans := s.Find("div.flex.items-baseline span")
			if spans.Length() < 2 {
				return "", false
			}
			return spans.Eq(1).Text(), true
		},
		normalize: price,
	},
}

// CategoryExtractor extracts listing records from category pages. Pages
// without a product grid that turn out to be a single product page yield
// one record built from the page's Product metadata.
type CategoryExtractor struct{}

// NewCategoryExtractor creates a new CategoryExtractor.
func NewCategoryExtractor() *CategoryExtractor {
	return &CategoryExtractor{}
}

// Name returns the extractor's identifier.
func (e *CategoryExtractor) Name() string {
	return "category"
}

// Extract returns one record per product container.
func (e *CategoryExtractor) Extract(doc *shopparse.Document) (*shopparse.Extraction, error) {
	result := &shopparse.Extraction{PageType: shopparse.PageTypeCategory}
	if doc == nil || doc.Content == "" {
		return result, nil
	}
	d, err := newDocument(doc.Content)
	if err != nil {
		return result, nil
	}

	switch {
	case d.Find(categoryMarkerSelector).Length() > 0:
		result.Items, result.Skipped = extractContainers(d.Find(categoryContainerSelector), e.buildItem)
	case d.Find(itemPageSelector).Length() > 0:
		item, err := e.buildFromProductPage(d)
		if err != nil {
			result.Skipped = append(result.Skipped, shopparse.SkippedItem{Name: nameOf(item), Err: err})
			break
		}
		if item != nil {
			result.Items = append(result.Items, item)
		}
	}
	return result, nil
}

func (e *CategoryExtractor) buildItem(s *goquery.Selection) (*shopparse.BasicItem, error) {
	name := strippedText(s.Find("div.line-clamp-2").First(), " ")
	if name == "" {
		return nil, nil
	}

	item := &shopparse.BasicItem{
		ProductName: name,
		Currency:    shopparse.DefaultCurrency,
		PageType:    shopparse.RecordCategory,
	}
	if href, ok := attr(s.Find("a[href]"), "href"); ok {
		item.ProductURL = shopparse.ToAbsoluteURL(href)
	}
	if src, ok := attr(s.Find("img[alt]"), "src"); ok {
		item.ImageURL = shopparse.ToAbsoluteImageURL(src)
	}
	if p, ok := categoryPriceChain.resolve(s); ok {
		item.Price = p
	}
	applyListingFields(item, s)
	return item, nil
}

// buildFromProductPage builds a single record from the Product metadata of a
// product page reached through a category link. It returns nil when the
// page carries no usable Product block.
func (e *CategoryExtractor) buildFromProductPage(d *goquery.Document) (*shopparse.BasicItem, error) {
	product, ok := FindLinkedData(d, "Product")
	if !ok {
		return nil, nil
	}
	name, ok := stringValue(product, "name")
	if !ok {
		return nil, nil
	}

	item := &shopparse.BasicItem{
		ProductName: name,
		Currency:    shopparse.DefaultCurrency,
		PageType:    shopparse.RecordItem,
	}

	offers := object(product, "offers")
	p, _, err := floatValue(offers, "price")
	if err != nil {
		return item, shopparse.Errorf(shopparse.EINVALID, "offers: %v", err)
	}
	item.Price = p
	if currency, ok := stringValue(offers, "priceCurrency"); ok {
		item.Currency = currency
	}

	r, ok, err := floatValue(object(product, "aggregateRating"), "ratingValue")
	if err != nil {
		return item, shopparse.Errorf(shopparse.EINVALID, "aggregateRating: %v", err)
	}
	if ok {
		item.Rating = r
		item.Rated = true
	}

	if el := d.Find("div.aleSBU").First(); el.Length() > 0 {
		item.Sold = shopparse.ExtractSold(el.Text())
	}
	if u, ok := stringValue(product, "url"); ok {
		item.ProductURL = shopparse.ToAbsoluteURL(u)
		item.ShopID, item.ProductID = shopparse.ExtractIDsFromURL(item.ProductURL)
	}
	if images := stringValues(product, "image"); len(images) > 0 {
		item.ImageURL = shopparse.ToAbsoluteImageURL(images[0])
	}

	if err := item.Validate(); err != nil {
		return item, err
	}
	return item, nil
}
