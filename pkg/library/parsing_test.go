package library

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkclainer/vocadrill/pkg/document"
	"github.com/darkclainer/vocadrill/pkg/parser"
)

type failingReader struct{}

func (failingReader) ReadLines(r io.Reader) ([]string, error) {
	return nil, errors.New("broken")
}

func TestParsingLoad(t *testing.T) {
	content := []byte("give up\nKorean: 포기하다 answer: give up\n1) Never give up.\n")
	testCases := map[string]struct {
		name     string
		readers  ReaderFunc
		config   ParsingConfig
		expected []*parser.Entry
		err      error
	}{
		"text document": {
			name: "words.txt",
			expected: []*parser.Entry{
				{Word: "give up", Meaning: "포기하다", Sentences: []string{"Never give up."}},
			},
		},
		"parser options": {
			name:     "words.txt",
			config:   ParsingConfig{Parser: parser.Options{MaxHeadwordTokens: 1, DefaultMeaning: "-"}},
			expected: []*parser.Entry{},
		},
		"unsupported": {
			name: "words.pdf",
			err:  document.ErrUnsupportedFormat,
		},
		"reader error": {
			name: "words.txt",
			readers: func(string) (document.Reader, error) {
				return failingReader{}, nil
			},
			err: errors.New("broken"),
		},
	}
	for name := range testCases {
		tc := testCases[name]
		t.Run(name, func(t *testing.T) {
			config := tc.config
			p := NewParsing(tc.readers, &config)
			defer p.Close(context.TODO())

			doc, err := p.Load(context.TODO(), tc.name, content)
			if tc.err != nil {
				require.Error(t, err)
				if errors.Is(tc.err, document.ErrUnsupportedFormat) {
					assert.True(t, errors.Is(err, tc.err))
				} else {
					assert.True(t, errors.Is(err, ErrUnreadableDocument))
				}
				return
			}
			require.NoError(t, err)
			variant, err := p.Variant(tc.name)
			require.NoError(t, err)
			assert.Equal(t, DocumentID(variant, content), doc.ID)
			assert.Equal(t, tc.name, doc.Name)
			assert.Equal(t, tc.expected, doc.Entries)
		})
	}
}

func TestParsingVariant(t *testing.T) {
	defaults := NewParsing(nil, &ParsingConfig{MaxWorkers: 1})
	defer defaults.Close(context.TODO())
	strict := NewParsing(nil, &ParsingConfig{MaxWorkers: 1, Parser: parser.Options{Strict: true}})
	defer strict.Close(context.TODO())

	txt, err := defaults.Variant("words.txt")
	require.NoError(t, err)
	md, err := defaults.Variant("notes.MD")
	require.NoError(t, err)
	assert.Equal(t, txt, md)

	html, err := defaults.Variant("words.html")
	require.NoError(t, err)
	assert.NotEqual(t, txt, html)

	strictTxt, err := strict.Variant("words.txt")
	require.NoError(t, err)
	assert.NotEqual(t, txt, strictTxt)

	_, err = defaults.Variant("words.pdf")
	assert.True(t, errors.Is(err, document.ErrUnsupportedFormat))
}

func TestParsingCancelled(t *testing.T) {
	p := NewParsing(nil, &ParsingConfig{MaxWorkers: 1})
	defer p.Close(context.TODO())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Load(ctx, "words.txt", []byte("cat"))
	assert.True(t, errors.Is(err, context.Canceled))
}
