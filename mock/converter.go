package mock

import "github.com/fwojciec/shopparse"

var _ shopparse.Converter = (*Converter)(nil)

// Converter is a mock implementation of shopparse.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
