// Package bloom provides record de-duplication across documents using Bloom
// filters.
package bloom

import (
	"net/url"
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/fwojciec/shopparse"
)

// Ensure Deduplicator implements shopparse.Deduplicator at compile time.
var _ shopparse.Deduplicator = (*Deduplicator)(nil)

// Deduplicator remembers record keys in a Bloom filter. A false positive
// drops a record that was never seen; false negatives are not possible.
type Deduplicator struct {
	mu sync.Mutex
	f  *bloom.BloomFilter
}

// NewDeduplicator creates a Deduplicator sized for n expected keys with the
// given false positive rate.
func NewDeduplicator(n uint, fpRate float64) *Deduplicator {
	return &Deduplicator{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add records key and returns false if it was (probably) seen before.
func (d *Deduplicator) Add(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.f.TestAndAddString(key)
}

// EstimatedCount returns the approximate number of distinct keys added.
func (d *Deduplicator) EstimatedCount() uint {
	d.mu.Lock()
	defer d.mu.Unlock()
	return uint(d.f.ApproximatedSize())
}

// ItemKey returns the de-duplication key of a listing record: its product
// URL without query string or fragment, so tracking parameters added by
// different listing pages do not hide a repeat.
func ItemKey(item *shopparse.BasicItem) string {
	u, err := url.Parse(item.ProductURL)
	if err != nil {
		return item.ProductURL
	}
	u.RawQuery = ""
	u.Fragment = ""
	return strings.ToLower(u.Host) + u.EscapedPath()
}
