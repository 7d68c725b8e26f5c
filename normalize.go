package shopparse

import (
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"
)

// BaseURL is the marketplace origin relative links are resolved against.
const BaseURL = "https://shopee.sg"

// ImageCDN is the file endpoint full-resolution product images are served from.
const ImageCDN = "https://down-sg.img.susercontent.com/file/"

var (
	priceRe     = regexp.MustCompile(`[\d,.]+`)
	soldRe      = regexp.MustCompile(`([\d.]+)\s*([km])?`)
	ratingRe    = regexp.MustCompile(`[\d.]+`)
	thumbnailRe = regexp.MustCompile(`_tn(\.[A-Za-z0-9]+)?$`)
)

// ToAbsoluteURL resolves u against BaseURL.
// Empty and already absolute URLs are returned unchanged.
func ToAbsoluteURL(u string) string {
	return ResolveURL(u, BaseURL)
}

// ResolveURL resolves u against base.
// Empty and already absolute URLs are returned unchanged. The reference is
// joined as written, so a stray "%" or a space in a product slug survives
// resolution; only references with dot segments are normalized.
func ResolveURL(u, base string) string {
	if u == "" || hasScheme(u) {
		return u
	}
	b, err := url.Parse(base)
	if err != nil || b.Host == "" {
		return u
	}
	ref := strings.TrimSpace(u)
	origin := b.Scheme + "://" + b.Host

	switch {
	case strings.HasPrefix(ref, "//"):
		return b.Scheme + ":" + ref
	case hasDotSegment(ref) || strings.HasPrefix(ref, "?") || strings.HasPrefix(ref, "#"):
		r, err := url.Parse(escapeStray(ref))
		if err != nil {
			return u
		}
		return b.ResolveReference(r).String()
	case strings.HasPrefix(ref, "/"):
		return origin + ref
	}
	dir := b.EscapedPath()
	dir = dir[:strings.LastIndex(dir, "/")+1]
	if dir == "" {
		dir = "/"
	}
	return origin + dir + ref
}

// hasDotSegment reports whether the path part of ref holds a "." or ".."
// segment.
func hasDotSegment(ref string) bool {
	p, _, _ := strings.Cut(ref, "?")
	p, _, _ = strings.Cut(p, "#")
	for _, seg := range strings.Split(p, "/") {
		if seg == "." || seg == ".." {
			return true
		}
	}
	return false
}

// escapeStray percent-encodes spaces and "%" signs that do not start an
// escape sequence, so hand-written slugs such as "100%-Cotton" parse.
func escapeStray(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == ' ':
			b.WriteString("%20")
		case c == '%' && (i+2 >= len(s) || !isHex(s[i+1]) || !isHex(s[i+2])):
			b.WriteString("%25")
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

// ToAbsoluteImageURL re-hosts a relative image reference on ImageCDN.
// The thumbnail marker "_tn" is stripped from the file name so the URL
// points at the full-resolution asset. Empty and already absolute URLs are
// returned unchanged.
func ToAbsoluteImageURL(u string) string {
	return ResolveImageURL(u, ImageCDN)
}

// ResolveImageURL is ToAbsoluteImageURL with an explicit CDN prefix.
func ResolveImageURL(u, cdn string) string {
	if u == "" || hasScheme(u) {
		return u
	}
	p := u
	if parsed, err := url.Parse(u); err == nil {
		p = parsed.Path
	}
	filename := path.Base(p)
	if filename == "" || filename == "." || filename == "/" {
		return u
	}
	filename = thumbnailRe.ReplaceAllString(filename, "$1")
	return cdn + filename
}

func hasScheme(u string) bool {
	lower := strings.ToLower(u)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// ExtractPrice returns the first decimal number in s.
// For ranges such as "10.00 - 20.00" the lower bound is returned.
// Returns 0 when s holds no number.
func ExtractPrice(s string) float64 {
	if s == "" {
		return 0
	}
	s, _, _ = strings.Cut(s, "-")
	m := priceRe.FindString(s)
	if m == "" {
		return 0
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
	if err != nil {
		return 0
	}
	return f
}

// ExtractSold converts a human-readable sold count ("1.2k sold",
// "5.6K sold/month", "1m sold") to an integer. Returns 0 when s holds no
// number.
func ExtractSold(s string) int64 {
	if s == "" {
		return 0
	}
	v := strings.ToLower(s)
	v = strings.ReplaceAll(v, "sold/month", "")
	v = strings.ReplaceAll(v, "sold", "")
	v = strings.ReplaceAll(v, ",", "")
	v = strings.TrimSpace(v)

	m := soldRe.FindStringSubmatch(v)
	if m == nil {
		return 0
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	switch m[2] {
	case "k":
		f *= 1000
	case "m":
		f *= 1000000
	}
	// Products like 1.2*1000 are not always exact in binary floating point.
	return int64(f + 1e-9)
}

// ExtractRating returns the first decimal number in s.
// The boolean is false when s is empty or holds no parseable number.
func ExtractRating(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	m := ratingRe.FindString(s)
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ExtractDigits concatenates every digit in s and parses the result.
// The boolean is false when s holds no digit.
func ExtractDigits(s string) (int64, bool) {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ExtractIDsFromURL reads the shop and product ids from a product URL of
// the form ".../Some-Name-i.{shopID}.{productID}". Both are nil when the
// path does not end with two dot-separated numeric segments.
func ExtractIDsFromURL(u string) (shopID, productID *int64) {
	p := u
	if parsed, err := url.Parse(u); err == nil {
		p = parsed.Path
	}
	parts := strings.Split(p, ".")
	if len(parts) < 3 {
		return nil, nil
	}
	shopPart, productPart := parts[len(parts)-2], parts[len(parts)-1]
	if !isDigits(shopPart) || !isDigits(productPart) {
		return nil, nil
	}
	shop, err := strconv.ParseInt(shopPart, 10, 64)
	if err != nil {
		return nil, nil
	}
	product, err := strconv.ParseInt(productPart, 10, 64)
	if err != nil {
		return nil, nil
	}
	return &shop, &product
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ExtractShopNameFromURL returns the final path segment of a shop URL,
// e.g. "nobistar.sg" for "https://shopee.sg/nobistar.sg?page=2".
// The boolean is false when u has no path segment.
func ExtractShopNameFromURL(u string) (string, bool) {
	if u == "" {
		return "", false
	}
	parsed, err := url.Parse(u)
	if err != nil {
		return "", false
	}
	p := strings.Trim(parsed.Path, "/")
	if p == "" {
		return "", false
	}
	return path.Base(p), true
}
