package library_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dgraph-io/badger/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/darkclainer/vocadrill/pkg/document"
	"github.com/darkclainer/vocadrill/pkg/library"
	"github.com/darkclainer/vocadrill/pkg/mocks"
	"github.com/darkclainer/vocadrill/pkg/parser"
)

func getDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

var testContent = []byte("apple\nKorean: 사과\n1. I eat an apple.\nbanana\n")

const testVariant = "text"

var testID = library.DocumentID(testVariant, testContent)

func newLoader() *mocks.Loader {
	q := &mocks.Loader{}
	q.On("Variant", mock.MatchedBy(func(name string) bool {
		return strings.HasSuffix(name, ".txt") || strings.HasSuffix(name, ".docx")
	})).Return(testVariant, nil).Maybe()
	q.On("Variant", mock.MatchedBy(func(name string) bool {
		return strings.HasSuffix(name, ".html")
	})).Return("html", nil).Maybe()
	q.On("Variant", mock.Anything).Return("", document.ErrUnsupportedFormat).Maybe()
	return q
}

func newTestDocument() *library.Document {
	return &library.Document{
		ID:   testID,
		Name: "words.txt",
		Entries: []*parser.Entry{
			{Word: "apple", Meaning: "사과", Sentences: []string{"I eat an apple."}},
			{Word: "banana", Sentences: []string{}},
		},
	}
}

func TestCachedLoad(t *testing.T) {
	db := getDB(t)
	expected := newTestDocument()
	t.Run("load through loader", func(t *testing.T) {
		q := newLoader()
		q.On("Load", mock.Anything, "words.txt", testContent).Return(newTestDocument(), nil)
		cached := library.NewCached(q, db, nil)

		doc, err := cached.Load(context.TODO(), "words.txt", testContent)
		q.AssertExpectations(t)
		require.NoError(t, err)
		assert.Equal(t, expected, doc)
	})
	t.Run("load through storage", func(t *testing.T) {
		q := newLoader()
		cached := library.NewCached(q, db, nil)

		doc, err := cached.Load(context.TODO(), "renamed.txt", testContent)
		q.AssertNotCalled(t, "Load", mock.Anything, mock.Anything, mock.Anything)
		require.NoError(t, err)
		assert.Equal(t, expected, doc)
	})
	t.Run("unsupported name is not served from storage", func(t *testing.T) {
		q := newLoader()
		cached := library.NewCached(q, db, nil)

		_, err := cached.Load(context.TODO(), "words.pdf", testContent)
		assert.True(t, errors.Is(err, document.ErrUnsupportedFormat))
		q.AssertNotCalled(t, "Load", mock.Anything, mock.Anything, mock.Anything)
	})
	t.Run("other reader parses again", func(t *testing.T) {
		htmlDoc := &library.Document{
			Name:    "words.html",
			Entries: []*parser.Entry{{Word: "apple", Sentences: []string{}}},
		}
		q := newLoader()
		q.On("Load", mock.Anything, "words.html", testContent).Return(htmlDoc, nil).Once()
		cached := library.NewCached(q, db, nil)

		doc, err := cached.Load(context.TODO(), "words.html", testContent)
		q.AssertExpectations(t)
		require.NoError(t, err)
		assert.Equal(t, library.DocumentID("html", testContent), doc.ID)
		assert.NotEqual(t, testID, doc.ID)
		assert.Len(t, doc.Entries, 1)
	})
	t.Run("loader error is not cached", func(t *testing.T) {
		content := []byte("broken")
		q := newLoader()
		q.On("Load", mock.Anything, "broken.docx", content).Return(nil, errors.New("test error")).Twice()
		cached := library.NewCached(q, db, nil)

		_, err := cached.Load(context.TODO(), "broken.docx", content)
		assert.EqualError(t, err, "test error")
		_, err = cached.Load(context.TODO(), "broken.docx", content)
		assert.EqualError(t, err, "test error")
		q.AssertExpectations(t)
	})
}

func newLoadedCached(t *testing.T) *library.Cached {
	t.Helper()
	q := newLoader()
	q.On("Load", mock.Anything, mock.Anything, mock.Anything).Return(newTestDocument(), nil)
	cached := library.NewCached(q, getDB(t), nil)
	_, err := cached.Load(context.TODO(), "words.txt", testContent)
	require.NoError(t, err)
	return cached
}

func TestCachedProgress(t *testing.T) {
	cached := newLoadedCached(t)
	id := testID

	doc, err := cached.SetSolved(context.TODO(), id, 1, true)
	require.NoError(t, err)
	assert.False(t, doc.Entries[0].Solved)
	assert.True(t, doc.Entries[1].Solved)

	doc, err = cached.SetSolved(context.TODO(), id, 0, true)
	require.NoError(t, err)
	assert.Equal(t, library.Summary{ID: id, Name: "words.txt", Total: 2, Solved: 2}, doc.Summary())

	doc, err = cached.SetSolved(context.TODO(), id, 1, false)
	require.NoError(t, err)
	assert.True(t, doc.Entries[0].Solved)
	assert.False(t, doc.Entries[1].Solved)

	doc, err = cached.Get(context.TODO(), id)
	require.NoError(t, err)
	assert.True(t, doc.Entries[0].Solved)

	reloaded, err := cached.Load(context.TODO(), "words.txt", testContent)
	require.NoError(t, err)
	assert.Equal(t, doc, reloaded)

	doc, err = cached.Reset(context.TODO(), id)
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Summary().Solved)

	_, err = cached.SetSolved(context.TODO(), id, 2, true)
	assert.True(t, errors.Is(err, library.ErrEntryOutOfRange))
	_, err = cached.SetSolved(context.TODO(), id, -1, true)
	assert.True(t, errors.Is(err, library.ErrEntryOutOfRange))
	_, err = cached.SetSolved(context.TODO(), "unknown", 0, true)
	assert.True(t, errors.Is(err, library.ErrDocumentNotFound))
}

func TestCachedListAndDelete(t *testing.T) {
	cached := newLoadedCached(t)
	id := testID

	summaries, err := cached.List(context.TODO())
	require.NoError(t, err)
	assert.Equal(t, []library.Summary{{ID: id, Name: "words.txt", Total: 2}}, summaries)

	require.NoError(t, cached.Delete(context.TODO(), id))
	summaries, err = cached.List(context.TODO())
	require.NoError(t, err)
	assert.Empty(t, summaries)

	_, err = cached.Get(context.TODO(), id)
	assert.True(t, errors.Is(err, library.ErrDocumentNotFound))
	assert.True(t, errors.Is(cached.Delete(context.TODO(), id), library.ErrDocumentNotFound))
}

func TestCachedParserOptions(t *testing.T) {
	db := getDB(t)
	content := []byte("give up\nKorean: 포기하다\nlook forward to it\n")
	newCached := func(maxTokens int) *library.Cached {
		parsing := library.NewParsing(nil, &library.ParsingConfig{
			MaxWorkers: 1,
			Parser:     parser.Options{MaxHeadwordTokens: maxTokens},
		})
		t.Cleanup(func() { _ = parsing.Close(context.TODO()) })
		return library.NewCached(parsing, db, nil)
	}

	wide, err := newCached(4).Load(context.TODO(), "words.txt", content)
	require.NoError(t, err)
	require.Len(t, wide.Entries, 2)
	_, err = newCached(4).SetSolved(context.TODO(), wide.ID, 1, true)
	require.NoError(t, err)

	narrow, err := newCached(2).Load(context.TODO(), "words.txt", content)
	require.NoError(t, err)
	require.Len(t, narrow.Entries, 1)
	assert.NotEqual(t, wide.ID, narrow.ID)
	assert.Equal(t, []string{"look forward to it"}, narrow.Entries[0].Sentences)
	assert.False(t, narrow.Entries[0].Solved)

	again, err := newCached(4).Load(context.TODO(), "words.txt", content)
	require.NoError(t, err)
	assert.Equal(t, wide.ID, again.ID)
	require.Len(t, again.Entries, 2)
	assert.True(t, again.Entries[1].Solved)
}

func TestCachedClose(t *testing.T) {
	t.Run("fine", func(t *testing.T) {
		db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
		require.NoError(t, err)
		q := &mocks.Loader{}
		q.On("Close", mock.Anything).Return(nil)
		cached := library.NewCached(q, db, nil)

		err = cached.Close(context.TODO())
		q.AssertExpectations(t)
		assert.NoError(t, err)
	})
	t.Run("error in loader", func(t *testing.T) {
		db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
		require.NoError(t, err)
		q := &mocks.Loader{}
		q.On("Close", mock.Anything).Return(errors.New("test err"))
		cached := library.NewCached(q, db, nil)

		err = cached.Close(context.TODO())
		q.AssertExpectations(t)
		assert.ErrorContains(t, err, "test err")
	})
}
