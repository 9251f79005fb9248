package pdf

import (
	"bytes"
	"context"
	"math"
	"strings"
	"unicode"

	"github.com/fwojciec/textract"
	"github.com/ledongthuc/pdf"
)

// Ensure Decoder implements textract.PDFDecoder at compile time.
var _ textract.PDFDecoder = (*Decoder)(nil)

// headerWindow is how far into the data the %PDF- header is searched for.
const headerWindow = 1024

// Decoder wraps ledongthuc/pdf to decode PDF pages into positioned text
// fragments.
type Decoder struct{}

// NewDecoder creates a new Decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode parses data and returns the text fragments of every page.
// Glyphs are merged into word fragments; fragment order within a page is
// whatever the content stream yields.
func (d *Decoder) Decode(ctx context.Context, data []byte) (pages []textract.PDFPage, err error) {
	if !hasHeader(data) {
		return nil, textract.Errorf(textract.EDECODE, "missing PDF header")
	}

	// The parser panics on some malformed streams.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = textract.Errorf(textract.EDECODE, "malformed PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, textract.Errorf(textract.EDECODE, "failed to open PDF: %v", err)
	}

	n := reader.NumPage()
	pages = make([]textract.PDFPage, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, textract.Errorf(textract.ECANCELED, "PDF decode canceled: %v", err)
		}

		page := textract.PDFPage{Number: i}
		p := reader.Page(i)
		if !p.V.IsNull() {
			page.Fragments = mergeGlyphs(p.Content().Text)
		}
		pages = append(pages, page)
	}
	return pages, nil
}

func hasHeader(data []byte) bool {
	window := data
	if len(window) > headerWindow {
		window = window[:headerWindow]
	}
	return bytes.Contains(window, []byte("%PDF-"))
}

// mergeGlyphs joins consecutive glyphs into word fragments. A fragment ends at
// whitespace, at a baseline change or when the next glyph does not continue
// the current run horizontally.
func mergeGlyphs(glyphs []pdf.Text) []textract.TextFragment {
	var (
		fragments []textract.TextFragment
		current   strings.Builder
		startX    float64
		y         float64
		endX      float64
		size      float64
	)

	flush := func() {
		if current.Len() > 0 {
			fragments = append(fragments, textract.TextFragment{X: startX, Y: y, Text: current.String()})
			current.Reset()
		}
	}

	for _, g := range glyphs {
		if strings.TrimFunc(g.S, unicode.IsSpace) == "" {
			flush()
			continue
		}
		if current.Len() > 0 && !continues(g, y, endX, size) {
			flush()
		}
		if current.Len() == 0 {
			startX, y, size = g.X, g.Y, g.FontSize
		}
		current.WriteString(g.S)
		endX = g.X + g.W
	}
	flush()
	return fragments
}

// continues reports whether glyph g extends a run ending at endX on baseline y.
func continues(g pdf.Text, y, endX, size float64) bool {
	if math.Abs(g.Y-y) > 0.5 {
		return false
	}
	gap := g.X - endX
	slack := size * 0.3
	if slack < 1 {
		slack = 1
	}
	return gap >= -slack && gap <= slack
}
