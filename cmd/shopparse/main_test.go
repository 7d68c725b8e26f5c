package main_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	main "github.com/fwojciec/shopparse/cmd/shopparse"
	"github.com/fwojciec/shopparse/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const categoryURL = "https://shopee.sg/Ankle-socks-cat.11012819.11012954.11012956"

// categoryPage renders a saved category page holding products first..last.
func categoryPage(first, last int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<!-- saved from url=(%04d)%s -->\n", len(categoryURL), categoryURL)
	b.WriteString(`<html><head><title>Ankle socks</title></head><body><ul>`)
	for i := first; i <= last; i++ {
		fmt.Fprintf(&b, `<li class="shopee-search-item-result__item">
	<a href="/Ankle-Socks-%[1]d-i.1000.%[1]d">
		<img alt="Ankle Socks %[1]d" src="./files/socks-%[1]d_tn.webp">
		<div class="line-clamp-2">Ankle Socks %[1]d</div>
		<div class="flex items-baseline"><span>$</span><span>%[1]d.90</span></div>
		<div>1.2k sold</div>
	</a>
</li>`, i)
	}
	b.WriteString(`</ul></body></html>`)
	return b.String()
}

// writeFiles creates files in a fresh directory and returns its path.
func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer
	err = main.NewMain().Run(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), err
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints help and fails without arguments", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t)

		require.Error(t, err)
		assert.Contains(t, stdout, "parse")
		assert.Contains(t, stdout, "classify")
	})

	t.Run("prints help", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t, "--help")

		require.NoError(t, err)
		assert.Contains(t, stdout, "shopparse")
	})

	t.Run("converts a directory to CSV", func(t *testing.T) {
		t.Parallel()

		dir := writeFiles(t, map[string]string{
			"a.html":     categoryPage(1, 2),
			"b.html":     categoryPage(3, 4),
			"notes.html": "<html><body>nothing here</body></html>",
			"readme.txt": "not html",
		})
		out := filepath.Join(dir, "out", "items.csv")

		stdout, stderr, err := run(t, "parse", "--dir", dir, "--out", out, "--detail-out", filepath.Join(dir, "out", "details.csv"))

		require.NoError(t, err)
		assert.Contains(t, stdout, "Parsing 3 HTML files")
		assert.Contains(t, stdout, "Processed 3 files (1 failed)")
		assert.Contains(t, stdout, "4 listing items, 0 product details")
		assert.Contains(t, stdout, "Saved "+out)
		assert.Contains(t, stderr, "skip")
		assert.Contains(t, stderr, "notes.html")

		data, err := os.ReadFile(out)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		require.Len(t, lines, 5)
		assert.True(t, strings.HasPrefix(lines[0], "\ufeffproduct_id"))
		assert.Contains(t, lines[1], "Ankle Socks 1")
		assert.Contains(t, lines[4], "Ankle Socks 4")

		_, err = os.Stat(filepath.Join(dir, "out", "details.csv"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("drops duplicates across pages", func(t *testing.T) {
		t.Parallel()

		dir := writeFiles(t, map[string]string{
			"a.html": categoryPage(1, 2),
			"b.html": categoryPage(1, 2),
		})

		stdout, _, err := run(t, "parse", "--dir", dir, "--out", filepath.Join(dir, "items.csv"), "--dedupe")

		require.NoError(t, err)
		assert.Contains(t, stdout, "2 listing items, 0 product details, 2 duplicates")
	})

	t.Run("logs the dedupe filter size when verbose", func(t *testing.T) {
		t.Parallel()

		dir := writeFiles(t, map[string]string{
			"a.html": categoryPage(1, 2),
			"b.html": categoryPage(1, 2),
		})

		_, stderr, err := run(t, "--verbose", "parse", "--dir", dir, "--out", filepath.Join(dir, "items.csv"), "--dedupe")

		require.NoError(t, err)
		assert.Contains(t, stderr, "dedupe filter")
		assert.Contains(t, stderr, "estimated_keys=")
		assert.Contains(t, stderr, "duplicates=2")
	})

	t.Run("writes to SQLite", func(t *testing.T) {
		t.Parallel()

		dir := writeFiles(t, map[string]string{"a.html": categoryPage(1, 3)})
		dbPath := filepath.Join(dir, "out.db")

		stdout, _, err := run(t, "parse", "--dir", dir, "--format", "sqlite", "--db", dbPath)

		require.NoError(t, err)
		assert.Contains(t, stdout, "Saved "+dbPath)

		db := sqlite.NewDB(dbPath)
		require.NoError(t, db.Open())
		defer db.Close()

		var items, runs int
		require.NoError(t, db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM listing_items").Scan(&items))
		require.NoError(t, db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM runs WHERE finished_at != ''").Scan(&runs))
		assert.Equal(t, 3, items)
		assert.Equal(t, 1, runs)
	})

	t.Run("fails for a missing directory", func(t *testing.T) {
		t.Parallel()

		_, stderr, err := run(t, "parse", "--dir", filepath.Join(t.TempDir(), "missing"))

		require.Error(t, err)
		assert.Contains(t, stderr, "directory not found")
	})

	t.Run("fails for a directory without matching files", func(t *testing.T) {
		t.Parallel()

		dir := writeFiles(t, map[string]string{"readme.txt": "text"})

		_, stderr, err := run(t, "parse", "--dir", dir)

		require.Error(t, err)
		assert.Contains(t, stderr, "error:")
	})

	t.Run("rejects an unknown page type", func(t *testing.T) {
		t.Parallel()

		dir := writeFiles(t, map[string]string{"a.html": categoryPage(1, 1)})

		_, stderr, err := run(t, "parse", "--dir", dir, "--type", "forum")

		require.Error(t, err)
		assert.Contains(t, stderr, `unknown page type "forum"`)
	})

	t.Run("classifies files", func(t *testing.T) {
		t.Parallel()

		dir := writeFiles(t, map[string]string{
			"a.html":     categoryPage(1, 1),
			"notes.html": "<html><body>nothing</body></html>",
		})
		a, notes := filepath.Join(dir, "a.html"), filepath.Join(dir, "notes.html")

		stdout, _, err := run(t, "classify", a, notes)

		require.NoError(t, err)
		assert.Equal(t,
			"category\t"+categoryURL+"\t"+a+"\n"+
				"unknown\t-\t"+notes+"\n",
			stdout)
	})
}
