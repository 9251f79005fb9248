package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/textract"
	"golang.org/x/net/html"
)

// Ensure Normalizer implements textract.HTMLNormalizer at compile time.
var _ textract.HTMLNormalizer = (*Normalizer)(nil)

// DefaultDenylist lists elements that never carry primary content.
var DefaultDenylist = []string{
	"script",
	"style",
	"nav",
	"footer",
	"header",
	"aside",
	"iframe",
	"noscript",
	`[role="navigation"]`,
	`[role="banner"]`,
	`[role="contentinfo"]`,
}

// DefaultMarkers are matched case-insensitively against id and class
// attributes. Matching elements are removed.
var DefaultMarkers = []string{"cookie", "ad"}

// contentRoots are tried in order when selecting the primary content root.
var contentRoots = []string{"main", "article", "body"}

// blockElements get a line break before and after their rendered text.
var blockElements = map[string]bool{
	"address": true, "article": true, "blockquote": true, "dd": true,
	"details": true, "dialog": true, "div": true, "dl": true, "dt": true,
	"fieldset": true, "figcaption": true, "figure": true, "form": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"hr": true, "li": true, "main": true, "ol": true, "p": true, "pre": true,
	"section": true, "summary": true, "table": true, "tr": true, "ul": true,
	"caption": true, "thead": true, "tbody": true, "tfoot": true,
}

// Normalizer flattens HTML pages to plain text using goquery.
type Normalizer struct {
	denylist  []string
	markers   []string
	extractor textract.Extractor
	converter textract.Converter
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithMarkers sets the id/class substrings that mark elements for removal.
// Defaults to DefaultMarkers if not specified.
func WithMarkers(markers ...string) Option {
	return func(n *Normalizer) {
		n.markers = markers
	}
}

// WithExtractor runs a boilerplate extractor over the raw page first.
// The extracted content HTML is normalized instead of the full page; when
// the extractor fails or finds nothing, the full page is used.
func WithExtractor(e textract.Extractor) Option {
	return func(n *Normalizer) {
		n.extractor = e
	}
}

// WithConverter renders the content root as Markdown instead of flattened
// text.
func WithConverter(c textract.Converter) Option {
	return func(n *Normalizer) {
		n.converter = c
	}
}

// NewNormalizer creates a new Normalizer.
func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{
		denylist: DefaultDenylist,
		markers:  DefaultMarkers,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NormalizeHTML strips non-content elements from raw, selects the primary
// content root and returns its rendered text with normalized whitespace.
func (n *Normalizer) NormalizeHTML(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", textract.Errorf(textract.EDECODE, "empty HTML input")
	}

	source := raw
	if n.extractor != nil {
		if result, err := n.extractor.Extract(raw); err == nil && strings.TrimSpace(result.ContentHTML) != "" {
			source = result.ContentHTML
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(source))
	if err != nil {
		return "", textract.Errorf(textract.EDECODE, "failed to parse HTML: %v", err)
	}

	doc.Find(strings.Join(n.denylist, ", ")).Remove()
	n.removeMarked(doc)

	root := contentRoot(doc)
	if root.Length() == 0 {
		return "", textract.Errorf(textract.EDECODE, "HTML has no content root")
	}

	if n.converter != nil {
		return n.markdown(root)
	}

	var b strings.Builder
	for _, node := range root.Nodes {
		renderText(&b, node)
	}
	return neutralize(textract.NormalizeWhitespace(b.String())), nil
}

// markupLike matches text that would parse as a tag, comment or character
// reference if the output were read as HTML again.
var markupLike = regexp.MustCompile(`<[A-Za-z/!?]|&(?:#[0-9]+;?|#[xX][0-9A-Fa-f]+;?|[A-Za-z][A-Za-z0-9]*;?)`)

// neutralize inserts a space after the leading < or & of markup-like text
// decoded from entities, so the rendered text reads as plain text when
// parsed again. References that decode to themselves are left alone.
func neutralize(text string) string {
	return markupLike.ReplaceAllStringFunc(text, func(m string) string {
		if m[0] == '&' && html.UnescapeString(m) == m {
			return m
		}
		return m[:1] + " " + m[1:]
	})
}

// removeMarked drops elements whose id or class contains a marker.
// The document element and body are kept so a marker never empties the page.
func (n *Normalizer) removeMarked(doc *goquery.Document) {
	if len(n.markers) == 0 {
		return
	}
	doc.Find("[id], [class]").Each(func(_ int, sel *goquery.Selection) {
		if sel.Is("html, body") {
			return
		}
		id, _ := sel.Attr("id")
		class, _ := sel.Attr("class")
		if n.marked(id) || n.marked(class) {
			sel.Remove()
		}
	})
}

func (n *Normalizer) marked(attr string) bool {
	if attr == "" {
		return false
	}
	attr = strings.ToLower(attr)
	for _, m := range n.markers {
		if m != "" && strings.Contains(attr, strings.ToLower(m)) {
			return true
		}
	}
	return false
}

func (n *Normalizer) markdown(root *goquery.Selection) (string, error) {
	content, err := goquery.OuterHtml(root)
	if err != nil {
		return "", textract.Errorf(textract.EDECODE, "failed to render content root: %v", err)
	}
	md, err := n.converter.Convert(content)
	if err != nil {
		return "", textract.Errorf(textract.EDECODE, "failed to convert to markdown: %v", err)
	}
	return textract.CollapseBlankLines(md), nil
}

// contentRoot returns the first main, article or body element.
func contentRoot(doc *goquery.Document) *goquery.Selection {
	for _, selector := range contentRoots {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			return sel
		}
	}
	return doc.Selection
}

// renderText writes the visible text of n, breaking lines around block
// elements and at <br>.
func renderText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
		switch n.Data {
		case "br":
			b.WriteByte('\n')
			return
		case "td", "th":
			defer b.WriteByte(' ')
		}
	}

	block := n.Type == html.ElementNode && blockElements[n.Data]
	if block {
		b.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderText(b, c)
	}
	if block {
		b.WriteByte('\n')
	}
}
