package goquery

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/shopparse"
)

// buildFunc assembles one listing record from a container. It returns a nil
// item and nil error for containers that are placeholders rather than
// products, such as lazy-loaded slots without a name.
type buildFunc func(s *goquery.Selection) (*shopparse.BasicItem, error)

// extractContainers builds a record from every container. A container that
// fails to build or validate is recorded in skipped and the loop moves on.
func extractContainers(containers *goquery.Selection, build buildFunc) (items []*shopparse.BasicItem, skipped []shopparse.SkippedItem) {
	containers.Each(func(i int, s *goquery.Selection) {
		item, err := buildSafely(s, build)
		if err != nil {
			skipped = append(skipped, shopparse.SkippedItem{Index: i, Name: nameOf(item), Err: err})
			return
		}
		if item == nil {
			return
		}
		if err := item.Validate(); err != nil {
			skipped = append(skipped, shopparse.SkippedItem{Index: i, Name: item.ProductName, Err: err})
			return
		}
		items = append(items, item)
	})
	return items, skipped
}

// buildSafely runs build and converts a panic into an EINTERNAL error so one
// pathological container cannot abort the page.
func buildSafely(s *goquery.Selection, build buildFunc) (item *shopparse.BasicItem, err error) {
	defer func() {
		if r := recover(); r != nil {
			item, err = nil, shopparse.Errorf(shopparse.EINTERNAL, "container panicked: %v", r)
		}
	}()
	return build(s)
}

func nameOf(item *shopparse.BasicItem) string {
	if item == nil {
		return ""
	}
	return item.ProductName
}

// applyListingFields fills the fields every listing layout resolves with
// the same chains.
func applyListingFields(item *shopparse.BasicItem, s *goquery.Selection) {
	if r, ok := ratingChain.resolve(s); ok {
		item.Rating = r
		item.Rated = true
	}
	if n, ok := soldChain.resolve(s); ok {
		item.Sold = n
	}
	if loc, ok := locationChain.resolve(s); ok {
		item.Location = &loc
	}
}
