package htmltomarkdown_test

import (
	"testing"

	"github.com/fwojciec/shopparse"
	"github.com/fwojciec/shopparse/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Converter implements shopparse.Converter at compile time.
var _ shopparse.Converter = (*htmltomarkdown.Converter)(nil)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts description paragraphs", func(t *testing.T) {
		t.Parallel()

		html := `<div class="QN2lPu"><p class="irIKAp">Direct from Japan.</p><p class="irIKAp">Sheer stockings.</p></div>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "Direct from Japan.")
		assert.Contains(t, md, "Sheer stockings.")
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert("<p>  Size M  </p>\n\n")

		require.NoError(t, err)
		assert.Equal(t, "Size M", md)
	})

	t.Run("converts feature lists", func(t *testing.T) {
		t.Parallel()

		html := `<ul><li>Breathable</li><li>Machine washable</li></ul>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "- Breathable")
		assert.Contains(t, md, "- Machine washable")
	})

	t.Run("converts bold and italic", func(t *testing.T) {
		t.Parallel()

		html := `<p><strong>Note:</strong> colours may <em>vary</em>.</p>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "**Note:**")
		assert.Contains(t, md, "*vary*")
	})

	t.Run("converts size tables", func(t *testing.T) {
		t.Parallel()

		html := `<table>
<thead><tr><th>Size</th><th>Height</th></tr></thead>
<tbody><tr><td>M</td><td>150-165cm</td></tr><tr><td>L</td><td>160-175cm</td></tr></tbody>
</table>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html)

		require.NoError(t, err)
		// Table cells may have padding for alignment, so check for content
		assert.Contains(t, md, "Size")
		assert.Contains(t, md, "150-165cm")
		assert.Contains(t, md, "|")
		assert.Contains(t, md, "---")
	})

	t.Run("resolves relative links against the marketplace origin", func(t *testing.T) {
		t.Parallel()

		html := `<p>See <a href="/nobistar.sg">our shop</a>.</p>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "[our shop](https://shopee.sg/nobistar.sg)")
	})

	t.Run("resolves relative links against a custom origin", func(t *testing.T) {
		t.Parallel()

		html := `<p>See <a href="/nobistar.my">our shop</a>.</p>`

		conv := htmltomarkdown.NewConverter(htmltomarkdown.WithDomain("https://shopee.com.my"))
		md, err := conv.Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "[our shop](https://shopee.com.my/nobistar.my)")
	})

	t.Run("returns error for empty input", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		_, err := conv.Convert("  \n")

		require.Error(t, err)
		assert.Equal(t, shopparse.EINVALID, shopparse.ErrorCode(err))
	})

	t.Run("returns error for markup without text", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		_, err := conv.Convert(`<div class="QN2lPu"><span></span></div>`)

		require.Error(t, err)
		assert.Equal(t, shopparse.EINVALID, shopparse.ErrorCode(err))
	})
}
