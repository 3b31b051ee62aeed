package trafilatura_test

import (
	"testing"

	"github.com/fwojciec/pagedrift/goquery"
	"github.com/fwojciec/pagedrift/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ goquery.Region = (*trafilatura.Region)(nil)

func TestRegion_Name(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "trafilatura", trafilatura.NewRegion().Name())
}

func TestRegion_Match(t *testing.T) {
	t.Parallel()

	extract := func(t *testing.T, html string) string {
		t.Helper()
		ext := goquery.NewExtractor(goquery.WithRegions(trafilatura.NewRegion()))
		page := ext.Extract(html)
		require.False(t, page.Failed(), page.Text)
		return page.Text
	}

	t.Run("extracts main content", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
<nav><a href="/">Home</a><a href="/docs">Docs</a></nav>
<article>
<h1>Documentation</h1>
<p>This is important documentation content that should be extracted.</p>
</article>
<aside>Sidebar content</aside>
<footer>Copyright 2024</footer>
</body>
</html>`

		assert.Contains(t, extract(t, html), "important documentation content")
	})

	t.Run("removes navigation boilerplate", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
<nav class="main-nav">
<ul>
<li><a href="/">Home</a></li>
<li><a href="/about">About</a></li>
<li><a href="/docs">Documentation</a></li>
</ul>
</nav>
<main>
<h1>Main Content</h1>
<p>This paragraph contains the actual content we want.</p>
</main>
</body>
</html>`

		text := extract(t, html)

		assert.Contains(t, text, "actual content we want")
		assert.NotContains(t, text, "About")
	})

	t.Run("removes footer boilerplate", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
<article>
<h1>Article Title</h1>
<p>Article body with substantive content for readers.</p>
</article>
<footer>
<p>Copyright 2024 Example Corp</p>
<nav>Privacy | Terms | Contact</nav>
</footer>
</body>
</html>`

		text := extract(t, html)

		assert.Contains(t, text, "substantive content")
		assert.NotContains(t, text, "Copyright 2024 Example Corp")
	})
}
