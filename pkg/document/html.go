package document

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

var paragraphMatcher = cascadia.MustCompile(strings.Join([]string{
	`p`,
	`h1`, `h2`, `h3`, `h4`, `h5`, `h6`,
	`li:not(:has(p))`,
}, ", "))

// HTML reads paragraph-like elements of an HTML page (for example a word
// document saved as a web page).
type HTML struct{}

func (h *HTML) ReadLines(r io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("can not parse page: %w", err)
	}
	lines := doc.FindMatcher(paragraphMatcher).Map(func(i int, sel *goquery.Selection) string {
		return sel.Text()
	})
	return lines, nil
}
