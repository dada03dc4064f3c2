package drill

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkclainer/vocadrill/pkg/parser"
)

func TestMask(t *testing.T) {
	testCases := map[string]struct {
		sentence string
		word     string
		expected string
	}{
		"single":         {sentence: "I eat an apple.", word: "apple", expected: "I eat an ________."},
		"case":           {sentence: "Apple pie and APPLE juice.", word: "apple", expected: "________ pie and ________ juice."},
		"substring":      {sentence: "Pineapples are sweet.", word: "apple", expected: "Pine________s are sweet."},
		"phrase":         {sentence: "Never Give Up now.", word: "give up", expected: "Never ________ now."},
		"regexp chars":   {sentence: "a.b and axb", word: "a.b", expected: "________ and axb"},
		"missing":        {sentence: "Bananas are yellow.", word: "apple", expected: "Bananas are yellow."},
		"empty word":     {sentence: "Bananas are yellow.", word: "", expected: "Bananas are yellow."},
		"dollar in word": {sentence: "It costs $5.", word: "$5", expected: "It costs ________."},
	}
	for name := range testCases {
		tc := testCases[name]
		t.Run(name, func(t *testing.T) {
			masked := Mask(tc.sentence, tc.word)
			assert.Equal(t, tc.expected, masked)
			if tc.word != "" {
				assert.NotContains(t, strings.ToLower(masked), strings.ToLower(tc.word))
			}
		})
	}
}

func TestCheckWord(t *testing.T) {
	assert.True(t, CheckWord("Apple", "apple"))
	assert.True(t, CheckWord("  give UP ", "give up"))
	assert.False(t, CheckWord("apples", "apple"))
	assert.False(t, CheckWord("", ""))
}

func TestCheckMeaning(t *testing.T) {
	assert.True(t, CheckMeaning("사과", "사과, 능금"))
	assert.True(t, CheckMeaning(" 능금 ", "사과, 능금"))
	assert.False(t, CheckMeaning("배", "사과"))
	assert.False(t, CheckMeaning("  ", "사과"))
}

func newTestEntries() []*parser.Entry {
	return []*parser.Entry{
		{Word: "apple", Meaning: "사과", Sentences: []string{"I eat an apple."}},
		{Word: "banana", Meaning: "바나나", Sentences: []string{"Bananas are yellow."}, Solved: true},
		{Word: "cat", Meaning: "고양이", Sentences: []string{"The cat ran."}},
	}
}

func TestTerminalRun(t *testing.T) {
	color.NoColor = true

	testCases := map[string]struct {
		input    string
		summary  Summary
		solved   []bool
		answered []int
	}{
		"all answered": {
			input:    "Apple\ndog\n",
			summary:  Summary{Total: 2, Correct: 1},
			solved:   []bool{true, true, false},
			answered: []int{0, 2},
		},
		"quit": {
			input:    "quit\n",
			summary:  Summary{},
			solved:   []bool{false, true, false},
			answered: nil,
		},
		"eof without newline": {
			input:    "apple\ncat",
			summary:  Summary{Total: 2, Correct: 2},
			solved:   []bool{true, true, true},
			answered: []int{0, 2},
		},
		"eof early": {
			input:    "apple\n",
			summary:  Summary{Total: 1, Correct: 1},
			solved:   []bool{true, true, false},
			answered: []int{0},
		},
	}
	for name := range testCases {
		tc := testCases[name]
		t.Run(name, func(t *testing.T) {
			entries := newTestEntries()
			out := new(bytes.Buffer)
			terminal := NewTerminal(strings.NewReader(tc.input), out)
			var answered []int
			terminal.OnAnswer = func(index int, entry *parser.Entry, correct bool) error {
				answered = append(answered, index)
				return nil
			}

			summary, err := terminal.Run(context.Background(), entries)
			require.NoError(t, err)
			assert.Equal(t, tc.summary, summary)
			for i, e := range entries {
				assert.Equal(t, tc.solved[i], e.Solved, "entry %d", i)
			}
			assert.Equal(t, tc.answered, answered)
			assert.NotContains(t, out.String(), "I eat an apple.")
		})
	}
}

func TestTerminalRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewTerminal(strings.NewReader("apple\n"), new(bytes.Buffer)).Run(ctx, newTestEntries())
	assert.ErrorIs(t, err, context.Canceled)
}
