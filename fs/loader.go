// Package fs reads saved marketplace pages from disk and writes output files
// atomically.
package fs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/fwojciec/shopparse"
	"golang.org/x/net/html/charset"
)

// Ensure Loader implements shopparse.DocumentLoader at compile time.
var _ shopparse.DocumentLoader = (*Loader)(nil)

// savedFromRe matches the comment browsers insert when saving a page,
// e.g. "<!-- saved from url=(0029)https://shopee.sg/nobistar.sg -->".
var savedFromRe = regexp.MustCompile(`<!--\s*saved from url=\(\d+\)(\S+?)\s*-->`)

// Loader reads saved HTML pages. The source URL comes from the browser's
// "saved from" comment, or from the URL fallback when one is configured.
type Loader struct {
	urlFallback func(content string) string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithURLFallback sets a function that derives the source URL from page
// content when the page has no "saved from" comment.
func WithURLFallback(fn func(content string) string) LoaderOption {
	return func(l *Loader) {
		l.urlFallback = fn
	}
}

// NewLoader creates a new Loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the page at path and decodes it to UTF-8.
// Returns ENOTFOUND if the file does not exist.
func (l *Loader) Load(ctx context.Context, path string) (*shopparse.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, shopparse.Errorf(shopparse.ENOTFOUND, "file not found: %s", path)
	} else if err != nil {
		return nil, err
	}

	content, err := decode(data)
	if err != nil {
		return nil, shopparse.Errorf(shopparse.EMALFORMED, "decode %s: %v", path, err)
	}

	doc := &shopparse.Document{
		Path:      path,
		SourceURL: SavedFromURL(content),
		Content:   content,
	}
	if doc.SourceURL == "" && l.urlFallback != nil {
		doc.SourceURL = l.urlFallback(content)
	}
	return doc, nil
}

// decode converts data to UTF-8, honouring a byte order mark or a charset
// declared in the markup.
func decode(data []byte) (string, error) {
	r, err := charset.NewReader(bytes.NewReader(data), "text/html")
	if err != nil {
		return "", err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// SavedFromURL returns the URL recorded in a browser's "saved from" comment,
// or "" if the page has none.
func SavedFromURL(content string) string {
	m := savedFromRe.FindStringSubmatch(content)
	if m == nil {
		return ""
	}
	return m[1]
}

// Glob returns the files in dir matching pattern, sorted by name.
// Returns ENOTFOUND if dir does not exist or holds no matching file.
func Glob(dir, pattern string) ([]string, error) {
	info, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, shopparse.Errorf(shopparse.ENOTFOUND, "directory not found: %s", dir)
	} else if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, shopparse.Errorf(shopparse.EINVALID, "not a directory: %s", dir)
	}

	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, shopparse.Errorf(shopparse.EINVALID, "invalid pattern %q: %v", pattern, err)
	}

	var files []string
	for _, m := range matches {
		if fi, err := os.Stat(m); err == nil && fi.Mode().IsRegular() {
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, shopparse.Errorf(shopparse.ENOTFOUND, "no files matching %q in %s", pattern, dir)
	}
	sort.Strings(files)
	return files, nil
}
