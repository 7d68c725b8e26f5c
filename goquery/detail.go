package goquery

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/shopparse"
)

var _ shopparse.Extractor = (*DetailExtractor)(nil)

// Detail page selectors.
const (
	detailSoldSelector        = "div.mnzVGI"
	detailShopLinkSelector    = "div.page-product__shop a.lG5Xxv"
	detailThumbnailSelector   = "div.airUhU img.raRnQV"
	detailQuantitySelector    = "section.flex.items-center.OaFP0p > div > div:nth-of-type(2)"
	detailGuaranteeSelector   = "div._GVeNA > div.tUagTH"
	detailDescriptionSelector = "div.product-detail div.QN2lPu"

	shippingSelector          = "section.flex.KIoPj6.lkKD9l"
	shippingGuaranteeSelector = "div.O3NAB1 > span"
	shippingCostSelector      = "div.O3NAB1.zRFiFo > span"
	shippingVoucherSelector   = "div.O3NAB1.onPwxQ"

	specRowSelector   = "div.product-detail div.Gf4Ro0 > div.ybxj32"
	specLabelSelector = "h3.VJOnTD"

	variationSelector = "div.j7HL5Q button.sApkZm"

	reviewSelector        = "div.shopee-product-comment-list > div.q2b7Oq"
	reviewUserSelector    = "a.InK5kS"
	reviewStarSelector    = "svg.shopee-svg-icon.YBGCRA.icon-rating-solid"
	reviewMetaSelector    = "div.j5ucs4 > div.XYk98l"
	reviewCommentSelector = "div.shopee-product-rating__content"
	reviewVariationLabel  = "Variation:"
	reviewMetaSeparator   = "|"
)

// DetailExtractor builds one complete record from a product detail page.
// Base fields come from the page's Product metadata and are supplemented
// from the DOM. The record is all-or-nothing: if any field fails to
// coerce or the assembled record fails validation, no record is returned.
type DetailExtractor struct {
	converter shopparse.Converter
}

// NewDetailExtractor creates a new DetailExtractor. The converter renders
// the page's description section when the metadata carries no
// description; it may be nil.
func NewDetailExtractor(converter shopparse.Converter) *DetailExtractor {
	return &DetailExtractor{converter: converter}
}

// Name returns the extractor's identifier.
func (e *DetailExtractor) Name() string {
	return "detail"
}

// Extract returns the detail record, or an Extraction with a nil Detail if
// the page has no Product metadata. A rejected record is reported in
// Skipped.
func (e *DetailExtractor) Extract(doc *shopparse.Document) (*shopparse.Extraction, error) {
	result := &shopparse.Extraction{PageType: shopparse.PageTypeProductDetail}
	if doc == nil || doc.Content == "" {
		return result, nil
	}
	d, err := newDocument(doc.Content)
	if err != nil {
		return result, nil
	}

	item, skipped, err := e.buildSafely(d, doc.SourceURL)
	result.Skipped = skipped
	if err != nil {
		name := ""
		if item != nil {
			name = item.ProductName
		}
		result.Skipped = append(result.Skipped, shopparse.SkippedItem{Name: name, Err: err})
		return result, nil
	}
	result.Detail = item
	return result, nil
}

func (e *DetailExtractor) buildSafely(d *goquery.Document, sourceURL string) (item *shopparse.DetailedItem, skipped []shopparse.SkippedItem, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = shopparse.Errorf(shopparse.EINTERNAL, "detail assembly panicked: %v", r)
		}
	}()
	return e.build(d, sourceURL)
}

func (e *DetailExtractor) build(d *goquery.Document, sourceURL string) (*shopparse.DetailedItem, []shopparse.SkippedItem, error) {
	product, ok := FindLinkedData(d, "Product")
	if !ok {
		return nil, nil, nil
	}
	name, ok := stringValue(product, "name")
	if !ok {
		return nil, nil, nil
	}

	item := &shopparse.DetailedItem{
		ProductName:    name,
		Currency:       shopparse.DefaultCurrency,
		Specifications: make(map[string]string),
		PageType:       shopparse.RecordProductDetail,
	}

	offers := object(product, "offers")
	if err := e.applyOffer(item, offers); err != nil {
		return item, nil, err
	}
	if err := e.applyRating(item, object(product, "aggregateRating")); err != nil {
		return item, nil, err
	}

	productURL, ok := stringValue(product, "url")
	if !ok {
		productURL = sourceURL
	}
	item.ProductURL = shopparse.ToAbsoluteURL(productURL)
	shopID, urlProductID := shopparse.ExtractIDsFromURL(item.ProductURL)
	if shopID == nil {
		return item, nil, shopparse.Errorf(shopparse.EINVALID, "no shop id in product URL %q", item.ProductURL)
	}
	item.ShopID = strconv.FormatInt(*shopID, 10)

	switch {
	case hasString(product, "productID"):
		item.ProductID, _ = stringValue(product, "productID")
	case hasString(product, "sku"):
		item.ProductID, _ = stringValue(product, "sku")
	case urlProductID != nil:
		item.ProductID = strconv.FormatInt(*urlProductID, 10)
	}

	if seller, ok := stringValue(object(offers, "seller"), "name"); ok {
		item.ShopName = seller
	}
	if href, ok := attr(d.Find(detailShopLinkSelector), "href"); ok {
		shopURL := shopparse.ToAbsoluteURL(href)
		item.ShopURL = &shopURL
		if item.ShopName == "" {
			item.ShopName, _ = shopparse.ExtractShopNameFromURL(shopURL)
		}
	}

	description, err := e.description(product, d)
	if err != nil {
		return item, nil, err
	}
	item.ProductDescription = description

	item.ImageURLs = e.images(product, d)

	if err := e.applySold(item, d); err != nil {
		return item, nil, err
	}
	item.Quantity = e.quantity(d)
	item.ShoppingGuarantee = optionalText(d.Find(detailGuaranteeSelector))
	item.ShippingInfo = e.shipping(d)
	e.applySpecifications(item, d)
	item.Variations = e.variations(d)

	var skipped []shopparse.SkippedItem
	item.DetailedRatings, skipped = e.reviews(d)

	if err := item.Validate(); err != nil {
		return item, skipped, err
	}
	return item, skipped, nil
}

func (e *DetailExtractor) applyOffer(item *shopparse.DetailedItem, offers map[string]any) error {
	p, ok, err := floatValue(offers, "price")
	if err != nil {
		return shopparse.Errorf(shopparse.EINVALID, "offers: %v", err)
	}
	if !ok {
		// AggregateOffer publishes a range instead of a single price
		p, ok, err = floatValue(offers, "lowPrice")
		if err != nil {
			return shopparse.Errorf(shopparse.EINVALID, "offers: %v", err)
		}
	}
	if !ok {
		return shopparse.Errorf(shopparse.EINVALID, "offer price missing")
	}
	item.Price = p
	if currency, ok := stringValue(offers, "priceCurrency"); ok {
		item.Currency = currency
	}
	return nil
}

func (e *DetailExtractor) applyRating(item *shopparse.DetailedItem, agg map[string]any) error {
	r, ok, err := floatValue(agg, "ratingValue")
	if err != nil {
		return shopparse.Errorf(shopparse.EINVALID, "aggregateRating: %v", err)
	}
	if ok {
		item.Rating = &r
	}
	for _, key := range []string{"ratingCount", "reviewCount"} {
		n, ok, err := intValue(agg, key)
		if err != nil {
			return shopparse.Errorf(shopparse.EINVALID, "aggregateRating: %v", err)
		}
		if ok {
			item.RatingCount = &n
			break
		}
	}
	return nil
}

func (e *DetailExtractor) description(product map[string]any, d *goquery.Document) (string, error) {
	if s, ok := stringValue(product, "description"); ok {
		return s, nil
	}
	if e.converter == nil {
		return "", nil
	}
	section := d.Find(detailDescriptionSelector).First()
	if section.Length() == 0 {
		return "", nil
	}
	html, err := goquery.OuterHtml(section)
	if err != nil {
		return "", nil
	}
	md, err := e.converter.Convert(html)
	if err != nil {
		return "", nil
	}
	return strings.TrimSpace(md), nil
}

// images returns the metadata images followed by the gallery thumbnails,
// without duplicates.
func (e *DetailExtractor) images(product map[string]any, d *goquery.Document) []string {
	var images []string
	seen := make(map[string]bool)
	add := func(u string) {
		if u == "" || seen[u] {
			return
		}
		seen[u] = true
		images = append(images, u)
	}
	for _, u := range stringValues(product, "image") {
		add(shopparse.ToAbsoluteImageURL(u))
	}
	d.Find(detailThumbnailSelector).Each(func(_ int, s *goquery.Selection) {
		if src, ok := attr(s, "src"); ok {
			add(shopparse.ToAbsoluteImageURL(src))
		}
	})
	return images
}

func (e *DetailExtractor) applySold(item *shopparse.DetailedItem, d *goquery.Document) error {
	el := d.Find(detailSoldSelector).First()
	if el.Length() == 0 {
		return nil
	}
	text := el.Text()
	if !strings.Contains(strings.ToLower(text), "sold") {
		return nil
	}
	n, ok := shopparse.ExtractDigits(text)
	if !ok {
		return shopparse.Errorf(shopparse.EINVALID, "sold count has no digits: %q", text)
	}
	item.Sold = &n
	return nil
}

// quantity reads the first token of the stock line, e.g. "10 pieces available".
func (e *DetailExtractor) quantity(d *goquery.Document) *int64 {
	el := d.Find(detailQuantitySelector).First()
	if el.Length() == 0 {
		return nil
	}
	fields := strings.Fields(el.Text())
	if len(fields) == 0 {
		return nil
	}
	for _, r := range fields[0] {
		if r < '0' || r > '9' {
			return nil
		}
	}
	n, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

func (e *DetailExtractor) shipping(d *goquery.Document) *shopparse.ShippingInfo {
	section := d.Find(shippingSelector).First()
	if section.Length() == 0 {
		return nil
	}
	return &shopparse.ShippingInfo{
		GuaranteeText:          optionalText(section.Find(shippingGuaranteeSelector)),
		CostText:               optionalText(section.Find(shippingCostSelector)),
		LateArrivalVoucherText: optionalText(section.Find(shippingVoucherSelector)),
	}
}

func (e *DetailExtractor) applySpecifications(item *shopparse.DetailedItem, d *goquery.Document) {
	d.Find(specRowSelector).Each(func(_ int, row *goquery.Selection) {
		label := row.Find(specLabelSelector).First()
		if label.Length() == 0 {
			return
		}
		key := strippedText(label, "")
		value := strippedText(label.NextAllFiltered("div").First(), " ")
		if key != "" && value != "" {
			item.Specifications[key] = value
		}
	})
}

func (e *DetailExtractor) variations(d *goquery.Document) []shopparse.Variation {
	var variations []shopparse.Variation
	d.Find(variationSelector).Each(func(_ int, s *goquery.Selection) {
		name := strippedText(s, "")
		if name == "" {
			return
		}
		disabled, ok := s.Attr("aria-disabled")
		variations = append(variations, shopparse.Variation{
			Name:      name,
			Available: !ok || disabled == "false",
		})
	})
	return variations
}

// reviews extracts each review independently. Entries with an invalid star
// count are reported as skipped instead of failing the record.
func (e *DetailExtractor) reviews(d *goquery.Document) ([]shopparse.Review, []shopparse.SkippedItem) {
	var reviews []shopparse.Review
	var skipped []shopparse.SkippedItem
	d.Find(reviewSelector).Each(func(i int, s *goquery.Selection) {
		review := shopparse.Review{
			Username:    optionalText(s.Find(reviewUserSelector)),
			RatingStars: s.Find(reviewStarSelector).Length(),
			Comment:     optionalText(s.Find(reviewCommentSelector)),
		}
		if meta := s.Find(reviewMetaSelector).First(); meta.Length() > 0 {
			timestamp, variation, found := strings.Cut(strippedText(meta, " "), reviewMetaSeparator)
			if ts := strings.TrimSpace(timestamp); ts != "" {
				review.Timestamp = &ts
			}
			if found {
				v := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(variation), reviewVariationLabel))
				if v != "" {
					review.Variation = &v
				}
			}
		}
		if err := review.Validate(); err != nil {
			name := ""
			if review.Username != nil {
				name = *review.Username
			}
			skipped = append(skipped, shopparse.SkippedItem{Index: i, Name: name, Err: err})
			return
		}
		reviews = append(reviews, review)
	})
	return reviews, skipped
}

func hasString(obj map[string]any, key string) bool {
	_, ok := stringValue(obj, key)
	return ok
}
