package shopparse

import (
	"math"
	"net/url"
)

// Record page_type tags. They name the extractor that produced a record and
// are distinct from the classifier's PageType labels.
const (
	RecordCategory      = "category"
	RecordSearch        = "search"
	RecordShop          = "shop"
	RecordItem          = "item"
	RecordProductDetail = "product_detail"
)

// DefaultCurrency is used when a page does not declare one.
const DefaultCurrency = "SGD"

// BasicItem is a product entry scraped from a listing page.
type BasicItem struct {
	ProductID   *int64   `json:"product_id"`
	ShopID      *int64   `json:"shop_id"`
	ShopName    *string  `json:"shop_name"`
	ProductName string   `json:"product_name"`
	Price       float64  `json:"price"`
	Sold        int64    `json:"sold"`
	Rating      float64  `json:"rating"`
	Location    *string  `json:"location"`
	ProductURL  string   `json:"product_url"`
	ImageURL    string   `json:"image_url"`
	Discount    *float64 `json:"discount"`
	ShopType    *string  `json:"shop_type"`
	Currency    string   `json:"currency"`
	PageType    string   `json:"page_type"`

	// Rated reports whether a rating was observed on the page. Rating stays
	// 0.0 when it was not, so "no reviews" and "averages zero" can only be
	// told apart through this flag.
	Rated bool `json:"-"`
}

// Validate returns an error if the item violates a field constraint.
func (i *BasicItem) Validate() error {
	if i.ProductName == "" {
		return Errorf(EINVALID, "product name required")
	}
	if math.IsNaN(i.Price) || i.Price < 0 {
		return Errorf(EINVALID, "price must be a non-negative number, got %v", i.Price)
	}
	if i.Sold < 0 {
		return Errorf(EINVALID, "sold must be non-negative, got %d", i.Sold)
	}
	if math.IsNaN(i.Rating) || i.Rating < 0 || i.Rating > 5 {
		return Errorf(EINVALID, "rating must be between 0 and 5, got %v", i.Rating)
	}
	if !IsAbsoluteURL(i.ProductURL) {
		return Errorf(EINVALID, "product URL must be absolute, got %q", i.ProductURL)
	}
	if !IsAbsoluteURL(i.ImageURL) {
		return Errorf(EINVALID, "image URL must be absolute, got %q", i.ImageURL)
	}
	if i.Currency == "" {
		return Errorf(EINVALID, "currency required")
	}
	if i.PageType == "" {
		return Errorf(EINVALID, "page type required")
	}
	return nil
}

// Review is a single buyer review embedded in a product detail page.
type Review struct {
	Username    *string `json:"username"`
	RatingStars int     `json:"rating_stars"`
	Timestamp   *string `json:"timestamp"`
	Variation   *string `json:"variation"`
	Comment     *string `json:"comment"`
}

// Validate returns an error if the star count is out of range.
func (r *Review) Validate() error {
	if r.RatingStars < 1 || r.RatingStars > 5 {
		return Errorf(EINVALID, "review stars must be between 1 and 5, got %d", r.RatingStars)
	}
	return nil
}

// ShippingInfo holds the free-text shipping lines of a product detail page.
type ShippingInfo struct {
	GuaranteeText          *string `json:"guarantee_text"`
	CostText               *string `json:"cost_text"`
	LateArrivalVoucherText *string `json:"late_arrival_voucher_text"`
}

// Variation is one selectable option of a product.
type Variation struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

// DetailedItem is the record produced from a product detail page.
type DetailedItem struct {
	ProductID          string   `json:"product_id"`
	ProductName        string   `json:"product_name"`
	ProductDescription string   `json:"product_description"`
	Price              float64  `json:"price"`
	OriginalPrice      *float64 `json:"original_price"`
	Currency           string   `json:"currency"`
	ProductURL         string   `json:"product_url"`
	ImageURLs          []string `json:"image_urls"`
	Quantity           *int64   `json:"quantity"`

	Rating          *float64 `json:"rating"`
	RatingCount     *int64   `json:"rating_count"`
	Sold            *int64   `json:"sold"`
	DetailedRatings []Review `json:"detailed_ratings"`

	ShopID       string           `json:"shop_id"`
	ShopName     string           `json:"shop_name"`
	ShopURL      *string          `json:"shop_url"`
	ShopVouchers []map[string]any `json:"shop_vouchers"`

	Specifications map[string]string `json:"specifications"`
	Variations     []Variation       `json:"variations"`

	ShippingInfo      *ShippingInfo `json:"shipping_info"`
	ShoppingGuarantee *string       `json:"shopping_guarantee"`
	PageType          string        `json:"page_type"`
}

// Validate returns an error if the item violates a field constraint.
func (d *DetailedItem) Validate() error {
	if d.ProductID == "" {
		return Errorf(EINVALID, "product ID required")
	}
	if d.ShopID == "" {
		return Errorf(EINVALID, "shop ID required")
	}
	if d.ProductName == "" {
		return Errorf(EINVALID, "product name required")
	}
	if d.ProductDescription == "" {
		return Errorf(EINVALID, "product description required")
	}
	if math.IsNaN(d.Price) || d.Price < 0 {
		return Errorf(EINVALID, "price must be a non-negative number, got %v", d.Price)
	}
	if d.Currency == "" {
		return Errorf(EINVALID, "currency required")
	}
	if !IsAbsoluteURL(d.ProductURL) {
		return Errorf(EINVALID, "product URL must be absolute, got %q", d.ProductURL)
	}
	if len(d.ImageURLs) == 0 {
		return Errorf(EINVALID, "at least one image URL required")
	}
	seen := make(map[string]bool, len(d.ImageURLs))
	for _, u := range d.ImageURLs {
		if !IsAbsoluteURL(u) {
			return Errorf(EINVALID, "image URL must be absolute, got %q", u)
		}
		if seen[u] {
			return Errorf(EINVALID, "duplicate image URL %q", u)
		}
		seen[u] = true
	}
	if d.Quantity != nil && *d.Quantity < 0 {
		return Errorf(EINVALID, "quantity must be non-negative, got %d", *d.Quantity)
	}
	if d.Rating != nil && (*d.Rating < 0 || *d.Rating > 5) {
		return Errorf(EINVALID, "rating must be between 0 and 5, got %v", *d.Rating)
	}
	if d.ShopURL != nil && !IsAbsoluteURL(*d.ShopURL) {
		return Errorf(EINVALID, "shop URL must be absolute, got %q", *d.ShopURL)
	}
	for i := range d.DetailedRatings {
		if err := d.DetailedRatings[i].Validate(); err != nil {
			return err
		}
	}
	if d.PageType != RecordProductDetail {
		return Errorf(EINVALID, "page type must be %q, got %q", RecordProductDetail, d.PageType)
	}
	return nil
}

// IsAbsoluteURL reports whether s is an http(s) URL with a host. Stray "%"
// signs and spaces in the path are tolerated.
func IsAbsoluteURL(s string) bool {
	if s == "" {
		return false
	}
	u, err := url.Parse(escapeStray(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
