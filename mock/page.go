package mock

import (
	"context"

	"github.com/fwojciec/shopparse"
)

var _ shopparse.PageClassifier = (*PageClassifier)(nil)

// PageClassifier is a mock implementation of shopparse.PageClassifier.
type PageClassifier struct {
	ClassifyFn func(doc *shopparse.Document) shopparse.PageType
}

func (c *PageClassifier) Classify(doc *shopparse.Document) shopparse.PageType {
	return c.ClassifyFn(doc)
}

var _ shopparse.DocumentLoader = (*DocumentLoader)(nil)

// DocumentLoader is a mock implementation of shopparse.DocumentLoader.
type DocumentLoader struct {
	LoadFn func(ctx context.Context, path string) (*shopparse.Document, error)
}

func (l *DocumentLoader) Load(ctx context.Context, path string) (*shopparse.Document, error) {
	return l.LoadFn(ctx, path)
}
