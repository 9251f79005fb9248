package mock

import "github.com/fwojciec/textract"

var _ textract.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of textract.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*textract.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*textract.ExtractResult, error) {
	return e.ExtractFn(html)
}
