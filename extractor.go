package textract

// ExtractResult is the outcome of a boilerplate-removal pass over a page.
type ExtractResult struct {
	// Title is the page title taken from metadata.
	Title string

	// ContentHTML is the main content of the page as HTML.
	ContentHTML string
}

// Extractor isolates the main content of an HTML page before it is
// flattened to text. It is an optional stage of HTML normalization.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}
