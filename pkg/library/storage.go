package library

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v2"

	"github.com/darkclainer/vocadrill/pkg/parser"
)

type keyType byte

const (
	documentKey keyType = iota + 1
	progressKey
)

// cachedDocument is the parse result for a content hash. Solved flags are
// kept apart, under progressKey.
type cachedDocument struct {
	Name    string
	Entries []*parser.Entry
}

// progress holds the sorted indexes of solved entries.
type progress []int

type cachedDocumentKey string

func (k cachedDocumentKey) MarshalBinary() ([]byte, error) {
	return marshalKey(string(k), documentKey), nil
}

func (k *cachedDocumentKey) UnmarshalBinary(data []byte) error {
	unmarshalledKey, err := unmarshalKey(data, documentKey)
	if err != nil {
		return err
	}
	*k = cachedDocumentKey(unmarshalledKey)
	return nil
}

func marshalKey(k string, t keyType) []byte {
	result := make([]byte, 0, len(k)+1)
	result = append(result, byte(t))
	return append(result, []byte(k)...)
}

func unmarshalKey(data []byte, expected keyType) (string, error) {
	if len(data) < 1 {
		return "", errors.New("key lenght must be at least 1")
	}
	if data[0] != byte(expected) {
		return "", fmt.Errorf("key type doesn't equal to expected type")
	}
	return string(data[1:]), nil
}

// Storage keeps parse results and progress in badger.
type Storage struct {
	DB *badger.DB
}

// OpenStorage opens badger at path, or in memory when inMemory is set.
func OpenStorage(path string, inMemory bool) (*Storage, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("can not open storage: %w", err)
	}
	return &Storage{DB: db}, nil
}

func (s *Storage) getJSON(key []byte, v interface{}) error {
	return s.DB.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
}

func (s *Storage) putJSON(key []byte, v interface{}) error {
	value, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("can not encode value: %w", err)
	}
	return s.DB.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

// GetDocument returns badger.ErrKeyNotFound for unknown ids.
func (s *Storage) GetDocument(id string) (*cachedDocument, error) {
	var doc cachedDocument
	if err := s.getJSON(marshalKey(id, documentKey), &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *Storage) PutDocument(id string, doc *cachedDocument) error {
	return s.putJSON(marshalKey(id, documentKey), doc)
}

// GetProgress returns an empty progress for documents never drilled.
func (s *Storage) GetProgress(id string) (progress, error) {
	var p progress
	err := s.getJSON(marshalKey(id, progressKey), &p)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return progress{}, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Storage) PutProgress(id string, p progress) error {
	sort.Ints(p)
	return s.putJSON(marshalKey(id, progressKey), p)
}

func (s *Storage) DeleteProgress(id string) error {
	return s.DB.Update(func(txn *badger.Txn) error {
		return txn.Delete(marshalKey(id, progressKey))
	})
}

func (s *Storage) DeleteDocument(id string) error {
	return s.DB.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(marshalKey(id, documentKey)); err != nil {
			return err
		}
		return txn.Delete(marshalKey(id, progressKey))
	})
}

// DocumentIDs returns the ids of all stored documents in key order.
func (s *Storage) DocumentIDs() ([]string, error) {
	var ids []string
	prefix := []byte{byte(documentKey)}
	err := s.DB.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var key cachedDocumentKey
			if err := key.UnmarshalBinary(it.Item().KeyCopy(nil)); err != nil {
				return err
			}
			ids = append(ids, string(key))
		}
		return nil
	})
	return ids, err
}

func (s *Storage) Close() error {
	return s.DB.Close()
}
