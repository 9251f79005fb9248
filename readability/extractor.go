// Package readability isolates the main content of pages with go-readability,
// a port of the Firefox reader view heuristics.
package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/textract"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements textract.Extractor at compile time.
var _ textract.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability.
type Extractor struct {
	pageURL *url.URL
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithPageURL sets the URL relative links in the content are resolved
// against.
func WithPageURL(u *url.URL) Option {
	return func(e *Extractor) {
		e.pageURL = u
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the readable content of rawHTML.
// Returns EDECODE if the page is empty or yields no content.
func (e *Extractor) Extract(rawHTML string) (*textract.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, textract.Errorf(textract.EDECODE, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), e.pageURL)
	if err != nil {
		return nil, textract.Errorf(textract.EDECODE, "readability: %v", err)
	}
	if strings.TrimSpace(article.Content) == "" {
		return nil, textract.Errorf(textract.EDECODE, "readability found no content")
	}

	return &textract.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
