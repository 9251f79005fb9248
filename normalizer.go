package textract

import "context"

// HTMLNormalizer turns raw HTML into clean plain text.
type HTMLNormalizer interface {
	// NormalizeHTML strips non-content elements, selects the primary content
	// root and returns its rendered text with normalized whitespace.
	// Returns EDECODE if the input cannot be parsed or has no content.
	NormalizeHTML(raw string) (string, error)
}

// PDFNormalizer turns raw PDF bytes into reading-order text.
type PDFNormalizer interface {
	// NormalizePDF decodes the document and returns per-page text, each page
	// prefixed with a page marker. Returns EDECODE for malformed documents.
	NormalizePDF(ctx context.Context, data []byte) (string, error)
}

// TextFragment is a positioned run of text on a PDF page.
// Y grows towards the top of the page.
type TextFragment struct {
	X    float64
	Y    float64
	Text string
}

// PDFPage holds the text fragments of one page in no particular order.
type PDFPage struct {
	Number    int
	Fragments []TextFragment
}

// PDFDecoder decodes a PDF document into pages of positioned fragments.
type PDFDecoder interface {
	// Decode returns the pages of the document in page order.
	// Returns EDECODE if data is not a valid PDF.
	Decode(ctx context.Context, data []byte) ([]PDFPage, error)
}
