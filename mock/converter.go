package mock

import "github.com/fwojciec/textract"

var _ textract.Converter = (*Converter)(nil)

// Converter is a mock implementation of textract.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
