package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/shopparse"
)

// step is one way of reading a field: locate finds the raw text in the
// markup, normalize turns it into a value. Either half reports false to
// hand over to the next step.
type step[T any] struct {
	locate    func(*goquery.Selection) (string, bool)
	normalize func(string) (T, bool)
}

// chain is an ordered list of steps. The first step that both locates and
// normalizes a value wins.
type chain[T any] []step[T]

func (c chain[T]) resolve(s *goquery.Selection) (T, bool) {
	for _, st := range c {
		text, ok := st.locate(s)
		if !ok {
			continue
		}
		if v, ok := st.normalize(text); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Locators.

// textOf locates the text of the first element matching selector.
func textOf(selector string) func(*goquery.Selection) (string, bool) {
	return func(s *goquery.Selection) (string, bool) {
		el := s.Find(selector).First()
		if el.Length() == 0 {
			return "", false
		}
		return el.Text(), true
	}
}

// siblingText locates the first element matching selector and returns the
// text of its next sibling matching sibling.
func siblingText(selector, sibling string) func(*goquery.Selection) (string, bool) {
	return func(s *goquery.Selection) (string, bool) {
		el := s.Find(selector).First()
		if el.Length() == 0 {
			return "", false
		}
		next := el.NextAllFiltered(sibling).First()
		if next.Length() == 0 {
			return "", false
		}
		return next.Text(), true
	}
}

// parentText locates the first element matching selector and returns the
// stripped text of its parent.
func parentText(selector string) func(*goquery.Selection) (string, bool) {
	return func(s *goquery.Selection) (string, bool) {
		el := s.Find(selector).First()
		if el.Length() == 0 {
			return "", false
		}
		return strippedText(el.Parent(), ""), true
	}
}

// ownStringMatching locates the first element matching selector whose own
// string matches re.
func ownStringMatching(selector string, re *regexp.Regexp) func(*goquery.Selection) (string, bool) {
	return func(s *goquery.Selection) (string, bool) {
		el := findByOwnString(s, selector, re)
		if el.Length() == 0 {
			return "", false
		}
		text, _ := ownString(el.Get(0))
		return text, true
	}
}

// Normalizers.

func rating(s string) (float64, bool) {
	return shopparse.ExtractRating(s)
}

func sold(s string) (int64, bool) {
	return shopparse.ExtractSold(s), true
}

func price(s string) (float64, bool) {
	return shopparse.ExtractPrice(s), true
}

// nonZeroPrice rejects a zero price so a later step can try again.
func nonZeroPrice(s string) (float64, bool) {
	p := shopparse.ExtractPrice(s)
	return p, p != 0
}

func nonEmpty(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}

// Chains shared by the listing extractors.

var (
	soldRe = regexp.MustCompile(`(?i)sold/month|sold`)

	// ratingChain reads the star rating shown next to the full-star icon,
	// then the outline-star variant.
	ratingChain = chain[float64]{
		{locate: siblingText(`img[alt="rating-star-full"]`, "div"), normalize: rating},
		{locate: siblingText(`img[alt="rating-star"]`, "span"), normalize: rating},
	}

	soldChain = chain[int64]{
		{locate: ownStringMatching("div", soldRe), normalize: sold},
	}

	// locationChain reads the text around the location pin.
	locationChain = chain[string]{
		{locate: parentText(`img[alt="location-icon"]`), normalize: nonEmpty},
		{locate: siblingText(`img[alt="location-icon"]`, "span"), normalize: nonEmpty},
	}
)
