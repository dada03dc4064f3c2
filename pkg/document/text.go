package document

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const maxLineSize = 1 << 20

// Text reads plain text, one paragraph per line.
type Text struct{}

func (t *Text) ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("can not read text: %w", err)
	}
	return lines, nil
}
