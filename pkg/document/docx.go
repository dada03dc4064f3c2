package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	documentXMLName = "word/document.xml"
	wordNamespace   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
)

var ErrNoDocumentXML = errors.New("word/document.xml not found")

// DOCX reads Office Open XML word documents. Only body paragraphs are
// returned; paragraphs nested in tables are skipped.
type DOCX struct{}

func (d *DOCX) ReadLines(r io.Reader) ([]string, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("can not read docx: %w", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("can not open docx: %w", err)
	}
	for _, f := range zr.File {
		if f.Name != documentXMLName {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("can not open %s: %w", documentXMLName, err)
		}
		defer rc.Close()
		return readParagraphs(rc)
	}
	return nil, ErrNoDocumentXML
}

func isWord(name xml.Name, local string) bool {
	return name.Local == local && (name.Space == wordNamespace || name.Space == "w" || name.Space == "")
}

func readParagraphs(r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)
	var (
		lines      []string
		paragraph  strings.Builder
		inPara     bool
		inText     bool
		tableDepth int
	)
	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("can not decode %s: %w", documentXMLName, err)
		}
		switch t := token.(type) {
		case xml.StartElement:
			switch {
			case isWord(t.Name, "tbl"):
				tableDepth++
			case tableDepth > 0:
			case isWord(t.Name, "p"):
				inPara = true
				paragraph.Reset()
			case !inPara:
			case isWord(t.Name, "t"):
				inText = true
			case isWord(t.Name, "tab"):
				paragraph.WriteByte('\t')
			case isWord(t.Name, "br"), isWord(t.Name, "cr"):
				paragraph.WriteByte('\n')
			}
		case xml.EndElement:
			switch {
			case isWord(t.Name, "tbl"):
				tableDepth--
			case tableDepth > 0:
			case isWord(t.Name, "p"):
				if inPara {
					lines = append(lines, paragraph.String())
				}
				inPara = false
			case isWord(t.Name, "t"):
				inText = false
			}
		case xml.CharData:
			if inPara && inText && tableDepth == 0 {
				paragraph.Write(t)
			}
		}
	}
	return lines, nil
}
