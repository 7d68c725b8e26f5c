package bloom_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/fwojciec/shopparse"
	"github.com/fwojciec/shopparse/bloom"
	"github.com/stretchr/testify/assert"
)

func TestDeduplicator_Add(t *testing.T) {
	t.Parallel()

	d := bloom.NewDeduplicator(1000, 0.01)

	// First sighting is new
	assert.True(t, d.Add("shopee.sg/Socks-i.1.2"))

	// Second sighting is a duplicate
	assert.False(t, d.Add("shopee.sg/Socks-i.1.2"))

	// Different key is still new
	assert.True(t, d.Add("shopee.sg/Socks-i.1.3"))
}

func TestDeduplicator_EstimatedCount(t *testing.T) {
	t.Parallel()

	d := bloom.NewDeduplicator(1000, 0.01)

	// Empty filter should have count near 0
	assert.Equal(t, uint(0), d.EstimatedCount())

	d.Add("a")
	d.Add("b")
	d.Add("c")
	d.Add("a")

	// Estimated count should be approximately 3
	count := d.EstimatedCount()
	assert.True(t, count >= 2 && count <= 4, "expected count near 3, got %d", count)
}

func TestDeduplicator_ConcurrentAdd(t *testing.T) {
	t.Parallel()

	d := bloom.NewDeduplicator(10000, 0.001)

	// Every key is added by two goroutines; exactly one must win
	var mu sync.Mutex
	wins := make(map[string]int)
	var wg sync.WaitGroup
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 500 {
				key := fmt.Sprintf("key-%d", i)
				if d.Add(key) {
					mu.Lock()
					wins[key]++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	for key, n := range wins {
		assert.Equal(t, 1, n, key)
	}
}

func TestDeduplicator_FalsePositiveRate(t *testing.T) {
	t.Parallel()

	const (
		numItems   = 10000
		fpRate     = 0.01
		testProbes = 10000
	)

	d := bloom.NewDeduplicator(numItems, fpRate)

	for i := range numItems {
		d.Add(fmt.Sprintf("shopee.sg/added-i.1.%d", i))
	}

	falsePositives := 0
	for i := range testProbes {
		if !d.Add(fmt.Sprintf("shopee.sg/notadded-i.2.%d", i)) {
			falsePositives++
		}
	}

	// Allow up to 2% to account for statistical variance
	actualRate := float64(falsePositives) / float64(testProbes)
	assert.Less(t, actualRate, 0.02, "false positive rate %f exceeds 2%%", actualRate)
}

func TestItemKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{"plain product URL", "https://shopee.sg/Socks-i.1.2", "shopee.sg/Socks-i.1.2"},
		{"drops tracking query", "https://shopee.sg/Socks-i.1.2?sp_atk=abc&xptdk=def", "shopee.sg/Socks-i.1.2"},
		{"drops fragment and folds host case", "https://Shopee.SG/Socks-i.1.2#reviews", "shopee.sg/Socks-i.1.2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, bloom.ItemKey(&shopparse.BasicItem{ProductURL: tt.url}))
		})
	}
}
