package mock

import (
	"context"

	"github.com/fwojciec/textract"
)

// Compile-time interface verification.
var (
	_ textract.HTMLNormalizer = (*HTMLNormalizer)(nil)
	_ textract.PDFNormalizer  = (*PDFNormalizer)(nil)
	_ textract.PDFDecoder     = (*PDFDecoder)(nil)
)

// HTMLNormalizer is a mock implementation of textract.HTMLNormalizer.
type HTMLNormalizer struct {
	NormalizeHTMLFn func(raw string) (string, error)
}

func (n *HTMLNormalizer) NormalizeHTML(raw string) (string, error) {
	return n.NormalizeHTMLFn(raw)
}

// PDFNormalizer is a mock implementation of textract.PDFNormalizer.
type PDFNormalizer struct {
	NormalizePDFFn func(ctx context.Context, data []byte) (string, error)
}

func (n *PDFNormalizer) NormalizePDF(ctx context.Context, data []byte) (string, error) {
	return n.NormalizePDFFn(ctx, data)
}

// PDFDecoder is a mock implementation of textract.PDFDecoder.
type PDFDecoder struct {
	DecodeFn func(ctx context.Context, data []byte) ([]textract.PDFPage, error)
}

func (d *PDFDecoder) Decode(ctx context.Context, data []byte) ([]textract.PDFPage, error) {
	return d.DecodeFn(ctx, data)
}
