package textract

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Default line-grouping tolerances in PDF user-space units. They are
// empirical; tune them through LayoutOption for unusual documents.
const (
	DefaultSameLineTolerance  = 2.0
	DefaultLineBreakTolerance = 5.0
)

// Tolerance controls how fragments are grouped into lines.
type Tolerance struct {
	// SameLine is the largest vertical distance between fragments that are
	// still placed on the same line.
	SameLine float64

	// LineBreak is the vertical gap between consecutive lines above which a
	// newline is emitted. Smaller gaps join the lines with a space.
	LineBreak float64
}

// DefaultTolerance returns the default line-grouping tolerances.
func DefaultTolerance() Tolerance {
	return Tolerance{
		SameLine:  DefaultSameLineTolerance,
		LineBreak: DefaultLineBreakTolerance,
	}
}

// Ensure LayoutNormalizer implements PDFNormalizer at compile time.
var _ PDFNormalizer = (*LayoutNormalizer)(nil)

// LayoutNormalizer reconstructs reading order from the positioned fragments
// produced by a PDFDecoder.
type LayoutNormalizer struct {
	decoder   PDFDecoder
	tolerance Tolerance
}

// LayoutOption configures a LayoutNormalizer.
type LayoutOption func(*LayoutNormalizer)

// WithTolerance sets the line-grouping tolerances.
// Defaults to DefaultTolerance() if not specified.
func WithTolerance(t Tolerance) LayoutOption {
	return func(n *LayoutNormalizer) {
		n.tolerance = t
	}
}

// NewLayoutNormalizer creates a LayoutNormalizer that decodes with d.
func NewLayoutNormalizer(d PDFDecoder, opts ...LayoutOption) *LayoutNormalizer {
	n := &LayoutNormalizer{
		decoder:   d,
		tolerance: DefaultTolerance(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NormalizePDF decodes data and returns the text of every page in reading
// order, each page headed by a "[PAGE n]" marker and separated by a blank line.
func (n *LayoutNormalizer) NormalizePDF(ctx context.Context, data []byte) (string, error) {
	pages, err := n.decoder.Decode(ctx, data)
	if err != nil {
		return "", err
	}
	if len(pages) == 0 {
		return "", Errorf(EDECODE, "PDF has no pages")
	}

	parts := make([]string, 0, len(pages))
	for i, page := range pages {
		number := page.Number
		if number <= 0 {
			number = i + 1
		}
		text := ReadingOrder(page.Fragments, n.tolerance)
		if text == "" {
			parts = append(parts, PageMarker(number))
			continue
		}
		parts = append(parts, PageMarker(number)+"\n"+text)
	}
	return strings.Join(parts, "\n\n"), nil
}

// PageMarker returns the boundary marker for a 1-based page number.
func PageMarker(number int) string {
	return fmt.Sprintf("[PAGE %d]", number)
}

// line is a group of fragments sharing a baseline.
type line struct {
	y         float64
	fragments []TextFragment
}

// ReadingOrder arranges fragments top-to-bottom, left-to-right.
// Fragments within t.SameLine of a line's baseline join that line and are
// separated by one space; consecutive lines are separated by a newline when
// their vertical gap exceeds t.LineBreak and by a space otherwise.
func ReadingOrder(fragments []TextFragment, t Tolerance) string {
	sorted := make([]TextFragment, 0, len(fragments))
	for _, f := range fragments {
		f.Text = strings.TrimSpace(f.Text)
		if f.Text == "" {
			continue
		}
		sorted = append(sorted, f)
	}
	if len(sorted) == 0 {
		return ""
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var lines []*line
	for _, f := range sorted {
		if n := len(lines); n > 0 && lines[n-1].y-f.Y <= t.SameLine {
			lines[n-1].fragments = append(lines[n-1].fragments, f)
			continue
		}
		lines = append(lines, &line{y: f.Y, fragments: []TextFragment{f}})
	}

	var b strings.Builder
	for i, ln := range lines {
		sort.SliceStable(ln.fragments, func(a, c int) bool {
			return ln.fragments[a].X < ln.fragments[c].X
		})
		if i > 0 {
			if lines[i-1].y-ln.y > t.LineBreak {
				b.WriteByte('\n')
			} else {
				b.WriteByte(' ')
			}
		}
		for j, f := range ln.fragments {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(f.Text)
		}
	}
	return b.String()
}
