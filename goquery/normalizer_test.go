package goquery_test

import (
	"errors"
	"testing"

	"github.com/fwojciec/textract"
	"github.com/fwojciec/textract/goquery"
	"github.com/fwojciec/textract/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizer_NormalizeHTML(t *testing.T) {
	t.Parallel()

	t.Run("strips scripts and collapses whitespace", func(t *testing.T) {
		t.Parallel()

		n := goquery.NewNormalizer()

		got, err := n.NormalizeHTML(`<html><body><script>x</script><p>Hello  World</p></body></html>`)

		require.NoError(t, err)
		assert.Equal(t, "Hello World", got)
	})

	t.Run("removes denylisted elements", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><style>p{}</style></head><body>
<header>Site header</header>
<nav>Menu</nav>
<div role="navigation">Breadcrumbs</div>
<p>Content</p>
<aside>Related</aside>
<iframe src="x"></iframe>
<noscript>Enable JS</noscript>
<footer>Copyright</footer>
</body></html>`

		got, err := goquery.NewNormalizer().NormalizeHTML(html)

		require.NoError(t, err)
		assert.Equal(t, "Content", got)
	})

	t.Run("removes elements marked by id or class in any case", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<div id="Cookie-Banner">Accept cookies</div>
<div class="sidebar AD-slot">Buy now</div>
<p>Article text</p>
</body></html>`

		got, err := goquery.NewNormalizer().NormalizeHTML(html)

		require.NoError(t, err)
		assert.Equal(t, "Article text", got)
	})

	t.Run("keeps body even when its class matches a marker", func(t *testing.T) {
		t.Parallel()

		got, err := goquery.NewNormalizer().NormalizeHTML(`<html><body class="loaded"><p>Still here</p></body></html>`)

		require.NoError(t, err)
		assert.Equal(t, "Still here", got)
	})

	t.Run("uses configured markers", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><div class="header-shadow">Kept</div><div class="promo">Gone</div></body></html>`

		got, err := goquery.NewNormalizer(goquery.WithMarkers("promo")).NormalizeHTML(html)

		require.NoError(t, err)
		assert.Equal(t, "Kept", got)
	})

	t.Run("prefers main over article and body", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><p>Outside</p><article>Article</article><main><p>Main content</p></main></body></html>`

		got, err := goquery.NewNormalizer().NormalizeHTML(html)

		require.NoError(t, err)
		assert.Equal(t, "Main content", got)
	})

	t.Run("falls back to article when there is no main", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><p>Outside</p><article><h1>Title</h1><p>Body</p></article></body></html>`

		got, err := goquery.NewNormalizer().NormalizeHTML(html)

		require.NoError(t, err)
		assert.Equal(t, "Title\nBody", got)
	})

	t.Run("renders block elements and line breaks on separate lines", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><h1>Title</h1><p>First <b>bold</b> line<br>second line</p><ul><li>one</li><li>two</li></ul></body></html>`

		got, err := goquery.NewNormalizer().NormalizeHTML(html)

		require.NoError(t, err)
		assert.Equal(t, "Title\nFirst bold line\nsecond line\none\ntwo", got)
	})

	t.Run("separates table cells", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><table><tr><td>a</td><td>b</td></tr><tr><td>c</td><td>d</td></tr></table></body></html>`

		got, err := goquery.NewNormalizer().NormalizeHTML(html)

		require.NoError(t, err)
		assert.Equal(t, "a b\nc d", got)
	})

	t.Run("output contains no markup", func(t *testing.T) {
		t.Parallel()

		got, err := goquery.NewNormalizer().NormalizeHTML(`<div><span>Text</span><!-- comment --></div>`)

		require.NoError(t, err)
		assert.Equal(t, "Text", got)
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.NewNormalizer().NormalizeHTML("  ")

		assert.Equal(t, textract.EDECODE, textract.ErrorCode(err))
	})
}

func TestNormalizer_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		`<html><body><script>x</script><p>Hello  World</p></body></html>`,
		`<html><body><h1>Title</h1><p>  Body   text </p><p></p><p>More</p></body></html>`,
		`<main><ul><li>a</li><li>b</li></ul></main>`,
		`<p>Use &lt;script&gt;init()&lt;/script&gt; in head</p><p>a &lt;b&gt; c</p>`,
		`<pre>&lt;!-- note --&gt; &amp;lt; &amp;copy; AT&amp;T</pre>`,
		`<p><b>&lt;</b>div&gt; split across nodes</p>`,
	}

	n := goquery.NewNormalizer()
	for _, input := range inputs {
		once, err := n.NormalizeHTML(input)
		require.NoError(t, err)

		twice, err := n.NormalizeHTML(once)
		require.NoError(t, err)

		assert.Equal(t, once, twice)
	}
}

func TestNormalizer_EscapedMarkup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "escaped tags stay text",
			input: `<p>Use &lt;script&gt;init()&lt;/script&gt; in head</p><p>a &lt;b&gt; c</p>`,
			want:  "Use < script>init()< /script> in head\na < b> c",
		},
		{
			name:  "escaped references stay text",
			input: `<p>&amp;lt; and &amp;#60; and AT&amp;T</p>`,
			want:  "& lt; and & #60; and AT&T",
		},
		{
			name:  "comparisons are untouched",
			input: `<p>if a &lt; 3 &amp;&amp; b &gt; 2</p>`,
			want:  "if a < 3 && b > 2",
		},
		{
			name:  "tag split across elements",
			input: `<p><b>&lt;</b>div&gt;</p>`,
			want:  "< div>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := goquery.NewNormalizer().NormalizeHTML(tt.input)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizer_WithExtractor(t *testing.T) {
	t.Parallel()

	t.Run("normalizes extracted content", func(t *testing.T) {
		t.Parallel()

		extractor := &mock.Extractor{
			ExtractFn: func(_ string) (*textract.ExtractResult, error) {
				return &textract.ExtractResult{ContentHTML: "<article><p>Core</p></article>"}, nil
			},
		}

		got, err := goquery.NewNormalizer(goquery.WithExtractor(extractor)).
			NormalizeHTML(`<html><body><p>Noise</p><article><p>Core</p></article></body></html>`)

		require.NoError(t, err)
		assert.Equal(t, "Core", got)
	})

	t.Run("falls back to full page when extractor fails", func(t *testing.T) {
		t.Parallel()

		extractor := &mock.Extractor{
			ExtractFn: func(_ string) (*textract.ExtractResult, error) {
				return nil, errors.New("no content")
			},
		}

		got, err := goquery.NewNormalizer(goquery.WithExtractor(extractor)).
			NormalizeHTML(`<html><body><p>Page</p></body></html>`)

		require.NoError(t, err)
		assert.Equal(t, "Page", got)
	})
}

func TestNormalizer_WithConverter(t *testing.T) {
	t.Parallel()

	t.Run("converts content root to markdown", func(t *testing.T) {
		t.Parallel()

		var received string
		converter := &mock.Converter{
			ConvertFn: func(html string) (string, error) {
				received = html
				return "\n# Title\n\n\n\nBody\n", nil
			},
		}

		got, err := goquery.NewNormalizer(goquery.WithConverter(converter)).
			NormalizeHTML(`<html><body><nav>Menu</nav><main><h1>Title</h1><p>Body</p></main></body></html>`)

		require.NoError(t, err)
		assert.Equal(t, "# Title\n\nBody", got)
		assert.Contains(t, received, "<main>")
		assert.NotContains(t, received, "Menu")
	})

	t.Run("reports converter failure as decode error", func(t *testing.T) {
		t.Parallel()

		converter := &mock.Converter{
			ConvertFn: func(_ string) (string, error) {
				return "", errors.New("boom")
			},
		}

		_, err := goquery.NewNormalizer(goquery.WithConverter(converter)).NormalizeHTML(`<p>x</p>`)

		assert.Equal(t, textract.EDECODE, textract.ErrorCode(err))
	})
}
