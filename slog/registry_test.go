package slog_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/fwojciec/shopparse"
	"github.com/fwojciec/shopparse/mock"
	shopslog "github.com/fwojciec/shopparse/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingRegistry_ForDocument(t *testing.T) {
	t.Parallel()

	t.Run("logs classified page type with duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		extractor := &mock.Extractor{NameFn: func() string { return "search" }}
		inner := &mock.ExtractorRegistry{
			ForDocumentFn: func(doc *shopparse.Document) (shopparse.PageType, shopparse.Extractor) {
				return shopparse.PageTypeSearch, extractor
			},
		}

		registry := shopslog.NewLoggingRegistry(inner, logger)
		pageType, got := registry.ForDocument(&shopparse.Document{Path: "search.html", SourceURL: "https://shopee.sg/search?keyword=x"})

		assert.Equal(t, shopparse.PageTypeSearch, pageType)
		require.NotNil(t, got)
		assert.Equal(t, "search", got.Name())
		output := buf.String()
		assert.Contains(t, output, "page classification")
		assert.Contains(t, output, "page_type=keyword_search_result")
		assert.Contains(t, output, "extractor=search")
		assert.Contains(t, output, "path=search.html")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs unknown page without extractor", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.ExtractorRegistry{
			ForDocumentFn: func(doc *shopparse.Document) (shopparse.PageType, shopparse.Extractor) {
				return shopparse.PageTypeUnknown, nil
			},
		}

		registry := shopslog.NewLoggingRegistry(inner, logger)
		_, got := registry.ForDocument(&shopparse.Document{})

		assert.Nil(t, got)
		output := buf.String()
		assert.Contains(t, output, "page_type=(unknown)")
		assert.Contains(t, output, "extractor=(none)")
	})

	t.Run("wraps returned extractor with logging", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		extractor := &mock.Extractor{
			NameFn: func() string { return "shop" },
			ExtractFn: func(doc *shopparse.Document) (*shopparse.Extraction, error) {
				return &shopparse.Extraction{PageType: shopparse.PageTypeShop}, nil
			},
		}
		inner := &mock.ExtractorRegistry{
			ForDocumentFn: func(doc *shopparse.Document) (shopparse.PageType, shopparse.Extractor) {
				return shopparse.PageTypeShop, extractor
			},
		}

		registry := shopslog.NewLoggingRegistry(inner, logger)
		_, got := registry.ForDocument(&shopparse.Document{})
		_, err := got.Extract(&shopparse.Document{})

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "msg=extraction")
	})
}

func TestLoggingRegistry_Get(t *testing.T) {
	t.Parallel()

	t.Run("delegates to inner registry", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.ExtractorRegistry{
			GetFn: func(pageType shopparse.PageType) shopparse.Extractor {
				return &mock.Extractor{NameFn: func() string { return string(pageType) }}
			},
		}

		registry := shopslog.NewLoggingRegistry(inner, logger)
		got := registry.Get(shopparse.PageTypeCategory)

		require.NotNil(t, got)
		assert.Equal(t, "category", got.Name())
	})

	t.Run("returns nil for unregistered page type", func(t *testing.T) {
		t.Parallel()

		logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
		inner := &mock.ExtractorRegistry{
			GetFn: func(shopparse.PageType) shopparse.Extractor { return nil },
		}

		registry := shopslog.NewLoggingRegistry(inner, logger)

		assert.Nil(t, registry.Get(shopparse.PageTypeShop))
	})
}

func TestLoggingRegistry_Register(t *testing.T) {
	t.Parallel()

	t.Run("delegates to inner registry", func(t *testing.T) {
		t.Parallel()

		var registered shopparse.PageType
		inner := &mock.ExtractorRegistry{
			RegisterFn: func(pageType shopparse.PageType, _ shopparse.Extractor) {
				registered = pageType
			},
			ListFn: func() []shopparse.PageType { return []shopparse.PageType{registered} },
		}

		registry := shopslog.NewLoggingRegistry(inner, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
		registry.Register(shopparse.PageTypeShop, &mock.Extractor{})

		assert.Equal(t, []shopparse.PageType{shopparse.PageTypeShop}, registry.List())
	})
}
