package trafilatura_test

import (
	"testing"

	"github.com/civsearch/civsearch"
	"github.com/civsearch/civsearch/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_ExtractText(t *testing.T) {
	t.Parallel()

	t.Run("extracts main content", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>Permits</title></head><body>
			<nav><a href="/">Home</a><a href="/about">About</a></nav>
			<main><article>
				<h1>Building Permits</h1>
				<p>Applications for building permits are accepted at the town clerk's office between 9am and 5pm on weekdays. Processing typically takes ten business days.</p>
				<p>Fees depend on the assessed value of the proposed construction and are due at submission.</p>
			</article></main>
			<footer>Copyright Town of Example</footer>
		</body></html>`

		e := trafilatura.NewExtractor()
		text, err := e.ExtractText(html)
		require.NoError(t, err)

		assert.Contains(t, text, "building permits")
		assert.Contains(t, text, "ten business days")
	})

	t.Run("empty input is invalid", func(t *testing.T) {
		t.Parallel()

		e := trafilatura.NewExtractor()
		_, err := e.ExtractText("")
		assert.Equal(t, civsearch.EINVALID, civsearch.ErrorCode(err))
	})
}
