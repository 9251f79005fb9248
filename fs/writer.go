// Package fs writes extracted sections to a directory tree, one file per
// source.
package fs

import (
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/fwojciec/textract"
	"gopkg.in/yaml.v3"
)

// URLToPath converts a source URL to a relative file path below a directory
// named after its host. The extension replaces any existing one.
// Example: https://example.com/docs/report.pdf → example.com/docs/report.txt
func URLToPath(rawURL, ext string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", textract.Errorf(textract.EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if u.Host == "" {
		return "", textract.Errorf(textract.EINVALID, "URL %q has no host", rawURL)
	}

	p := strings.TrimPrefix(path.Clean("/"+u.Path), "/")
	switch {
	case p == "" || strings.HasSuffix(u.Path, "/"):
		p = path.Join(p, "index")
	default:
		p = strings.TrimSuffix(p, path.Ext(p))
	}

	return filepath.FromSlash(path.Join(u.Host, p) + ext), nil
}

// frontmatter is the YAML header of a section file.
type frontmatter struct {
	Source string `yaml:"source"`
	Format string `yaml:"format"`
	Relay  string `yaml:"relay"`
	Hash   string `yaml:"hash,omitempty"`
}

// FormatFile renders a section with a YAML frontmatter header.
func FormatFile(s textract.ExtractedSection) (string, error) {
	header, err := yaml.Marshal(frontmatter{
		Source: s.SourceURL,
		Format: string(s.Format),
		Relay:  s.Relay,
		Hash:   s.Hash,
	})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(header)
	b.WriteString("---\n\n")
	b.WriteString(s.Text)
	b.WriteString("\n")
	return b.String(), nil
}

// Writer writes sections as files below a base directory.
type Writer struct {
	baseDir string
	ext     string
}

// NewWriter creates a new Writer that writes files with extension ext to
// baseDir.
func NewWriter(baseDir, ext string) *Writer {
	return &Writer{baseDir: baseDir, ext: ext}
}

// WriteSections writes every section to its own file and returns the paths
// written, in section order.
func (w *Writer) WriteSections(sections []textract.ExtractedSection) ([]string, error) {
	paths := make([]string, 0, len(sections))
	for _, s := range sections {
		rel, err := URLToPath(s.SourceURL, w.ext)
		if err != nil {
			return paths, err
		}

		full := filepath.Join(w.baseDir, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			return paths, err
		}
		content, err := FormatFile(s)
		if err != nil {
			return paths, err
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			return paths, err
		}
		paths = append(paths, full)
	}
	return paths, nil
}
