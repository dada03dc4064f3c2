package drill

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/darkclainer/vocadrill/pkg/parser"
)

const quitCommand = "quit"

var errQuit = errors.New("quit")

type Summary struct {
	Total   int `json:"total"`
	Correct int `json:"correct"`
}

// Terminal runs a line-oriented drill: it shows the meaning and masked
// sentences of every unsolved entry and asks for the headword.
type Terminal struct {
	in     *bufio.Reader
	out    io.Writer
	bold   *color.Color
	ok     *color.Color
	failed *color.Color
	// OnAnswer is called after every answered entry with its index.
	OnAnswer func(index int, entry *parser.Entry, correct bool) error
}

func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		in:     bufio.NewReader(in),
		out:    out,
		bold:   color.New(color.Bold),
		ok:     color.New(color.FgGreen, color.Bold),
		failed: color.New(color.FgRed),
	}
}

// Run asks about entries in order and sets Solved on correct answers.
func (t *Terminal) Run(ctx context.Context, entries []*parser.Entry) (Summary, error) {
	var summary Summary
	for i, entry := range entries {
		if entry.Solved {
			continue
		}
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		correct, err := t.ask(entry)
		if errors.Is(err, errQuit) {
			break
		}
		if err != nil {
			return summary, err
		}
		summary.Total++
		if correct {
			summary.Correct++
			entry.Solved = true
		}
		if t.OnAnswer != nil {
			if err := t.OnAnswer(i, entry, correct); err != nil {
				return summary, err
			}
		}
	}
	t.printf(t.bold, "\n%d/%d correct\n", summary.Correct, summary.Total)
	return summary, nil
}

func (t *Terminal) ask(entry *parser.Entry) (bool, error) {
	t.printf(t.bold, "\n%s\n", entry.Meaning)
	for i, sentence := range entry.Sentences {
		fmt.Fprintf(t.out, "  %d. %s\n", i+1, Mask(sentence, entry.Word))
	}
	fmt.Fprint(t.out, "> ")

	answer, err := t.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && answer != "") {
		if errors.Is(err, io.EOF) {
			return false, errQuit
		}
		return false, fmt.Errorf("can not read answer: %w", err)
	}
	answer = strings.TrimSpace(answer)
	if answer == quitCommand {
		return false, errQuit
	}
	if CheckWord(answer, entry.Word) {
		t.printf(t.ok, "✓ OK\n")
		return true, nil
	}
	t.printf(t.failed, "✗ %s\n", entry.Word)
	return false, nil
}

func (t *Terminal) printf(c *color.Color, format string, args ...interface{}) {
	_, _ = c.Fprintf(t.out, format, args...)
}
