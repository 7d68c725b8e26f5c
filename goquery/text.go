package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// newDocument parses raw HTML. The HTML5 parser accepts any input, so the
// error path only triggers on reader failures.
func newDocument(content string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(content))
}

// strippedText collects every text node below s, trims each one and joins
// the non-empty pieces with sep.
func strippedText(s *goquery.Selection, sep string) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return strings.Join(parts, sep)
}

// ownString returns the text of an element whose content is a single text
// node, possibly wrapped in single-child elements. Elements with mixed or
// multiple children have no own string.
func ownString(n *html.Node) (string, bool) {
	for {
		c := n.FirstChild
		if c == nil || c.NextSibling != nil {
			return "", false
		}
		switch c.Type {
		case html.TextNode:
			return c.Data, true
		case html.ElementNode:
			n = c
		default:
			return "", false
		}
	}
}

// findByOwnString returns the first element matching selector below s whose
// own string matches re.
func findByOwnString(s *goquery.Selection, selector string, re *regexp.Regexp) *goquery.Selection {
	return s.Find(selector).FilterFunction(func(_ int, el *goquery.Selection) bool {
		text, ok := ownString(el.Get(0))
		return ok && re.MatchString(text)
	}).First()
}

// attr returns the trimmed value of an attribute of the first element in s.
func attr(s *goquery.Selection, name string) (string, bool) {
	v, ok := s.First().Attr(name)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

// optionalText returns a pointer to the stripped text of s, or nil when s
// is empty or holds only whitespace.
func optionalText(s *goquery.Selection) *string {
	if s.Length() == 0 {
		return nil
	}
	t := strippedText(s.First(), "")
	if t == "" {
		return nil
	}
	return &t
}
