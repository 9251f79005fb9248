// Package htmltomarkdown renders content HTML as Markdown for the markdown
// output mode of the HTML normalizer.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/textract"
)

// Ensure Converter implements textract.Converter at compile time.
var _ textract.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown with CommonMark and table support.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	return &Converter{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// Convert renders html as Markdown.
// Returns EDECODE for empty input or conversion failures.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", textract.Errorf(textract.EDECODE, "empty HTML input")
	}

	md, err := c.conv.ConvertString(html)
	if err != nil {
		return "", textract.Errorf(textract.EDECODE, "markdown conversion: %v", err)
	}
	return strings.TrimSpace(md), nil
}
