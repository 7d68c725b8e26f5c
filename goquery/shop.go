package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/shopparse"
)

var _ shopparse.Extractor = (*ShopExtractor)(nil)

const (
	shopMarkerSelector      = "div.shop-search-result-view"
	shopContainerSelector   = "div.shop-search-result-view__item"
	shopDescriptionSelector = "div.shop-page-shop-description > span"
)

var (
	shopSoldRe  = regexp.MustCompile(` sold$`)
	shipsFromRe = regexp.MustCompile(`(?i:ships?\s+from)\s+(\p{Lu}[\p{L}'-]*(?:\s\p{Lu}[\p{L}'-]*)*)`)

	// shippingOrigins are the overseas origins shops advertise in their
	// description when they do not use the "ships from" phrasing.
	shippingOrigins = []string{"Japan", "Korea", "China", "Taiwan", "Malaysia"}
)

var shopRatingChain = chain[float64]{
	{locate: siblingText(`img[alt="rating-star"]`, "span"), normalize: rating},
}

var shopSoldChain = chain[int64]{
	{locate: ownStringMatching("div", shopSoldRe), normalize: sold},
}

// shopLocationChain reads the shipping origin from the shop description.
var shopLocationChain = chain[string]{
	{
		locate: textOf(shopDescriptionSelector),
		normalize: func(s string) (string, bool) {
			m := shipsFromRe.FindStringSubmatch(s)
			if m == nil {
				return "", false
			}
			return nonEmpty(m[1])
		},
	},
	{
		locate: textOf(shopDescriptionSelector),
		normalize: func(s string) (string, bool) {
			for _, origin := range shippingOrigins {
				if strings.Contains(s, origin) {
					return origin, true
				}
			}
			return "", false
		},
	},
}

// ShopExtractor extracts listing records from a shop's storefront. The shop
// name and shipping origin are read once per page and copied to every
// record.
type ShopExtractor struct{}

// NewShopExtractor creates a new ShopExtractor.
func NewShopExtractor() *ShopExtractor {
	return &ShopExtractor{}
}

// Name returns the extractor's identifier.
func (e *ShopExtractor) Name() string {
	return "shop"
}

// Extract returns one record per product tile in the shop's product grid.
func (e *ShopExtractor) Extract(doc *shopparse.Document) (*shopparse.Extraction, error) {
	result := &shopparse.Extraction{PageType: shopparse.PageTypeShop}
	if doc == nil || doc.Content == "" {
		return result, nil
	}
	d, err := newDocument(doc.Content)
	if err != nil {
		return result, nil
	}
	if d.Find(shopMarkerSelector).Length() == 0 {
		return result, nil
	}

	var shopName *string
	canonical, ok := attr(d.Find(`link[rel="canonical"]`), "href")
	if !ok {
		canonical = doc.SourceURL
	}
	if name, ok := shopparse.ExtractShopNameFromURL(canonical); ok {
		shopName = &name
	}

	var location *string
	if loc, ok := shopLocationChain.resolve(d.Selection); ok {
		location = &loc
	}

	result.Items, result.Skipped = extractContainers(d.Find(shopContainerSelector), func(s *goquery.Selection) (*shopparse.BasicItem, error) {
		return e.buildItem(s, shopName, location)
	})
	return result, nil
}

func (e *ShopExtractor) buildItem(s *goquery.Selection, shopName, location *string) (*shopparse.BasicItem, error) {
	link := s.Find("a[href]").First()
	href, ok := attr(link, "href")
	if !ok {
		return nil, nil
	}
	name := strippedText(link.Find("div.line-clamp-2").First(), "")
	if name == "" {
		return nil, nil
	}

	item := &shopparse.BasicItem{
		ProductName: name,
		ProductURL:  shopparse.ToAbsoluteURL(href),
		ShopName:    shopName,
		Location:    location,
		Currency:    shopparse.DefaultCurrency,
		PageType:    shopparse.RecordShop,
	}
	item.ShopID, item.ProductID = shopparse.ExtractIDsFromURL(item.ProductURL)
	if src, ok := attr(link.Find("img.inset-y-0"), "src"); ok {
		item.ImageURL = shopparse.ToAbsoluteImageURL(src)
	}
	if el := link.Find("div.truncate.flex.items-baseline").First(); el.Length() > 0 {
		item.Price = shopparse.ExtractPrice(el.Text())
	}
	if r, ok := shopRatingChain.resolve(s); ok {
		item.Rating = r
		item.Rated = true
	}
	if n, ok := shopSoldChain.resolve(s); ok {
		item.Sold = n
	}
	return item, nil
}
