package csv

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fwojciec/shopparse"
)

// BasicHeader is the column order of listing rows.
var BasicHeader = []string{
	"product_id",
	"shop_id",
	"shop_name",
	"product_name",
	"price",
	"sold",
	"rating",
	"rated",
	"location",
	"product_url",
	"image_url",
	"discount",
	"shop_type",
	"currency",
	"page_type",
}

// BasicRow flattens a listing record into BasicHeader order. Absent
// optional values become empty cells. An unobserved rating is written as
// 0 with rated=false.
func BasicRow(item *shopparse.BasicItem) []string {
	return []string{
		formatIntPtr(item.ProductID),
		formatIntPtr(item.ShopID),
		deref(item.ShopName),
		item.ProductName,
		formatFloat(item.Price),
		strconv.FormatInt(item.Sold, 10),
		formatFloat(item.Rating),
		strconv.FormatBool(item.Rated),
		deref(item.Location),
		item.ProductURL,
		item.ImageURL,
		formatFloatPtr(item.Discount),
		deref(item.ShopType),
		item.Currency,
		item.PageType,
	}
}

// DetailHeader is the column order of detail rows.
var DetailHeader = []string{
	"product_id",
	"product_name",
	"product_description",
	"price",
	"original_price",
	"currency",
	"product_url",
	"image_urls",
	"quantity",
	"rating",
	"rating_count",
	"sold",
	"detailed_ratings",
	"shop_id",
	"shop_name",
	"shop_url",
	"shop_vouchers",
	"specifications",
	"variations",
	"shipping_info",
	"shopping_guarantee",
	"page_type",
}

// DetailRow flattens a detail record into DetailHeader order. Nested fields
// are rendered as display strings:
//
//	image_urls        url1,url2
//	specifications    key: value; key: value   (sorted by key)
//	variations        name; name (unavailable)
//	shipping_info     guarantee | cost | voucher
//	detailed_ratings  4★ user: comment / 5★ user
func DetailRow(d *shopparse.DetailedItem) []string {
	return []string{
		d.ProductID,
		d.ProductName,
		d.ProductDescription,
		formatFloat(d.Price),
		formatFloatPtr(d.OriginalPrice),
		d.Currency,
		d.ProductURL,
		strings.Join(d.ImageURLs, ","),
		formatIntPtr(d.Quantity),
		formatFloatPtr(d.Rating),
		formatIntPtr(d.RatingCount),
		formatIntPtr(d.Sold),
		formatReviews(d.DetailedRatings),
		d.ShopID,
		d.ShopName,
		deref(d.ShopURL),
		formatVouchers(d.ShopVouchers),
		formatSpecifications(d.Specifications),
		formatVariations(d.Variations),
		formatShipping(d.ShippingInfo),
		deref(d.ShoppingGuarantee),
		d.PageType,
	}
}

func formatSpecifications(specs map[string]string) string {
	keys := make([]string, 0, len(specs))
	for k := range specs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+specs[k])
	}
	return strings.Join(parts, "; ")
}

func formatVariations(variations []shopparse.Variation) string {
	parts := make([]string, 0, len(variations))
	for _, v := range variations {
		if v.Available {
			parts = append(parts, v.Name)
		} else {
			parts = append(parts, v.Name+" (unavailable)")
		}
	}
	return strings.Join(parts, "; ")
}

func formatShipping(s *shopparse.ShippingInfo) string {
	if s == nil {
		return ""
	}
	return deref(s.GuaranteeText) + " | " + deref(s.CostText) + " | " + deref(s.LateArrivalVoucherText)
}

func formatReviews(reviews []shopparse.Review) string {
	parts := make([]string, 0, len(reviews))
	for _, r := range reviews {
		s := fmt.Sprintf("%d★", r.RatingStars)
		if r.Username != nil {
			s += " " + *r.Username
		}
		if r.Comment != nil {
			s += ": " + *r.Comment
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " / ")
}

// formatVouchers renders the free-form voucher objects as JSON.
func formatVouchers(vouchers []map[string]any) string {
	if len(vouchers) == 0 {
		return ""
	}
	b, err := json.Marshal(vouchers)
	if err != nil {
		return ""
	}
	return string(b)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatFloatPtr(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}

func formatIntPtr(n *int64) string {
	if n == nil {
		return ""
	}
	return strconv.FormatInt(*n, 10)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
