// Package trafilatura isolates the main content of article-like pages with
// go-trafilatura before they are flattened to text.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/textract"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements textract.Extractor at compile time.
var _ textract.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura.
type Extractor struct {
	opts trafilatura.Options
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithTables controls whether tables are kept in the extracted content.
// Tables are kept by default.
func WithTables(keep bool) Option {
	return func(e *Extractor) {
		e.opts.ExcludeTables = !keep
	}
}

// WithComments controls whether reader comment sections are kept.
// Comments are dropped by default.
func WithComments(keep bool) Option {
	return func(e *Extractor) {
		e.opts.ExcludeComments = !keep
	}
}

// NewExtractor creates a new Extractor with fallback extraction enabled.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		opts: trafilatura.Options{
			EnableFallback:  true,
			ExcludeComments: true,
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the main content of rawHTML.
// Returns EDECODE if the page is empty or yields no content.
func (e *Extractor) Extract(rawHTML string) (*textract.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, textract.Errorf(textract.EDECODE, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil {
		return nil, textract.Errorf(textract.EDECODE, "trafilatura: %v", err)
	}
	if result.ContentNode == nil {
		return nil, textract.Errorf(textract.EDECODE, "trafilatura found no main content")
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, result.ContentNode); err != nil {
		return nil, textract.Errorf(textract.EDECODE, "failed to render content: %v", err)
	}

	return &textract.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: buf.String(),
	}, nil
}
