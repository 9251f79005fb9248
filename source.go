package textract

import (
	"strings"
)

// Format identifies how a source is decoded.
type Format string

// Supported source formats.
const (
	FormatHTML Format = "HTML"
	FormatPDF  Format = "PDF"
)

// DefaultSeparator is placed between extracted sections when none is given.
const DefaultSeparator = "__SEP__"

// SourceTarget is a single URL scheduled for extraction.
type SourceTarget struct {
	URL    string `json:"url"`
	Format Format `json:"format"`
}

// NewSourceTarget returns a target for url with its format classified.
func NewSourceTarget(url string) SourceTarget {
	return SourceTarget{URL: url, Format: Classify(url)}
}

// Classify determines the format of a URL from its path suffix.
// URLs whose path ends in ".pdf" (any case) are PDF; everything else is HTML.
// Query strings and fragments are ignored.
func Classify(url string) Format {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	if strings.HasSuffix(strings.ToLower(url), ".pdf") {
		return FormatPDF
	}
	return FormatHTML
}

// ParseTargets turns newline-separated input into targets.
// Lines are trimmed and lines that do not begin with "http" are discarded.
func ParseTargets(input string) []SourceTarget {
	var targets []SourceTarget
	for _, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "http") {
			continue
		}
		targets = append(targets, NewSourceTarget(line))
	}
	return targets
}

// ExtractedSection is the normalized text of one successfully extracted source.
type ExtractedSection struct {
	SourceURL string `json:"sourceUrl"`
	Format    Format `json:"format"`
	Text      string `json:"text"`
	Relay     string `json:"relay"`
	Hash      string `json:"hash"`
}

// FormatSection renders a section as a text block headed by its source URL
// and format.
func FormatSection(s ExtractedSection) string {
	var b strings.Builder
	b.WriteString("[SOURCE: ")
	b.WriteString(s.SourceURL)
	b.WriteString("] (")
	b.WriteString(string(s.Format))
	b.WriteString(")\n\n")
	b.WriteString(s.Text)
	return b.String()
}

// Aggregate joins formatted sections in order, separated by the separator on
// its own paragraph. Returns an empty string for no sections.
func Aggregate(sections []ExtractedSection, separator string) string {
	if len(sections) == 0 {
		return ""
	}

	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		parts = append(parts, FormatSection(s))
	}
	return strings.Join(parts, "\n\n"+separator+"\n\n")
}
