package shopparse

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms an HTML fragment, such as a product description
	// section, into Markdown.
	Convert(html string) (string, error)
}
