// Package document extracts ordered paragraph lines from uploaded documents.
package document

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

var ErrUnsupportedFormat = errors.New("unsupported document format")

// Reader returns the paragraph-level text of a document in document order.
// Blank paragraphs are kept.
type Reader interface {
	ReadLines(r io.Reader) ([]string, error)
}

var readersByExt = map[string]Reader{
	".docx": &DOCX{},
	".html": &HTML{},
	".htm":  &HTML{},
	".txt":  &Text{},
	".text": &Text{},
	".md":   &Text{},
}

// ForName picks a Reader by the extension of filename.
func ForName(filename string) (Reader, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	reader, ok := readersByExt[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return reader, nil
}

// Extensions lists supported file extensions.
func Extensions() []string {
	return []string{".docx", ".html", ".htm", ".txt", ".text", ".md"}
}
