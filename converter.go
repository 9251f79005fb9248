package textract

// Converter renders content HTML as Markdown. When an HTML normalizer is
// configured with a Converter, sections keep headings, lists and links as
// Markdown instead of flattened text.
type Converter interface {
	Convert(html string) (string, error)
}
