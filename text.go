package textract

import (
	"regexp"
	"strings"
)

var (
	horizontalSpaceRe = regexp.MustCompile(`[ \t\f\v\x{00A0}]+`)
	blankRunRe        = regexp.MustCompile(`\n{3,}`)
)

// NormalizeWhitespace flattens text into trimmed, non-empty lines.
// Runs of horizontal whitespace become a single space, each line is trimmed,
// empty lines are dropped and any remaining run of three or more newlines is
// collapsed to one blank line.
func NormalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = horizontalSpaceRe.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		kept = append(kept, line)
	}

	return blankRunRe.ReplaceAllString(strings.Join(kept, "\n"), "\n\n")
}

// CollapseBlankLines trims s and collapses runs of three or more newlines to
// one blank line, leaving line contents untouched.
func CollapseBlankLines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return blankRunRe.ReplaceAllString(strings.TrimSpace(s), "\n\n")
}
