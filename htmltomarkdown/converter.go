package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/shopparse"
)

// Ensure Converter implements shopparse.Converter at compile time.
var _ shopparse.Converter = (*Converter)(nil)

// Converter renders product description markup as Markdown.
// Relative links and images are resolved against the marketplace origin.
type Converter struct {
	conv   *converter.Converter
	domain string
}

// Option configures a Converter.
type Option func(*Converter)

// WithDomain sets the origin relative links are resolved against.
// Defaults to shopparse.BaseURL.
func WithDomain(domain string) Option {
	return func(c *Converter) {
		c.domain = domain
	}
}

// NewConverter creates a new Converter.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
		domain: shopparse.BaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert transforms a description fragment into trimmed Markdown.
// Returns EINVALID for blank input or markup without any text.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", shopparse.Errorf(shopparse.EINVALID, "empty HTML input")
	}

	result, err := c.conv.ConvertString(html, converter.WithDomain(c.domain))
	if err != nil {
		return "", err
	}

	result = strings.TrimSpace(result)
	if result == "" {
		return "", shopparse.Errorf(shopparse.EINVALID, "HTML input has no text content")
	}
	return result, nil
}
