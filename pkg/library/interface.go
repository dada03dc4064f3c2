package library

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/darkclainer/vocadrill/pkg/parser"
)

//go:generate go run github.com/vektra/mockery/cmd/mockery -name Loader -output ../mocks/

// Loader turns uploaded document content into a parsed Document.
type Loader interface {
	// Variant names how a document called name would be read and parsed.
	// It fails for names Load can not read.
	Variant(name string) (string, error)
	Load(ctx context.Context, name string, content []byte) (*Document, error)
	Close(ctx context.Context) error
}

// Document is a parsed upload identified by the hash of its content.
type Document struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Entries []*parser.Entry `json:"entries"`
}

// Summary describes a stored document without its entries.
type Summary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Total  int    `json:"total"`
	Solved int    `json:"solved"`
}

func (d *Document) Summary() Summary {
	s := Summary{
		ID:    d.ID,
		Name:  d.Name,
		Total: len(d.Entries),
	}
	for _, e := range d.Entries {
		if e.Solved {
			s.Solved++
		}
	}
	return s
}

// DocumentID returns the identity of content parsed the way variant says.
// The same bytes read by another reader or parsed with other options get
// another id.
func DocumentID(variant string, content []byte) string {
	h := sha256.New()
	h.Write([]byte(variant))
	h.Write([]byte{0})
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}
