package library

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/gammazero/workerpool"

	"github.com/darkclainer/vocadrill/pkg/document"
	"github.com/darkclainer/vocadrill/pkg/parser"
)

// ErrUnreadableDocument wraps failures of a reader on uploaded content.
var ErrUnreadableDocument = errors.New("unreadable document")

type ParsingConfig struct {
	// MaxWorkers specifies how many workers read and parse documents.
	// Zero value mean that it will be equal to number of logical CPU
	MaxWorkers int
	Parser     parser.Options
}

// ReaderFunc picks a document reader for an uploaded file name.
type ReaderFunc func(name string) (document.Reader, error)

// Parsing reads and parses documents. It stores nothing.
type Parsing struct {
	config  *ParsingConfig
	pool    *workerpool.WorkerPool
	parser  *parser.Parser
	readers ReaderFunc
}

func NewParsing(readers ReaderFunc, config *ParsingConfig) *Parsing {
	if readers == nil {
		readers = document.ForName
	}
	if config.MaxWorkers < 1 { // nolint:gomnd // if number not specified
		config.MaxWorkers = runtime.NumCPU()
	}
	return &Parsing{
		config:  config,
		pool:    workerpool.New(config.MaxWorkers),
		parser:  parser.New(config.Parser),
		readers: readers,
	}
}

// Variant combines the reader picked for name with the parser options.
func (p *Parsing) Variant(name string) (string, error) {
	reader, err := p.readers(name)
	if err != nil {
		return "", err
	}
	return p.variant(reader), nil
}

func (p *Parsing) variant(reader document.Reader) string {
	return fmt.Sprintf("%T;%s", reader, p.parser.Options().Fingerprint())
}

func (p *Parsing) Load(ctx context.Context, name string, content []byte) (*Document, error) {
	reader, err := p.readers(name)
	if err != nil {
		return nil, err
	}
	var (
		entries  []*parser.Entry
		parseErr error
	)
	done := make(chan struct{})
	// Use pool here, because extraction and parsing are cpu bound
	p.pool.Submit(func() {
		defer close(done)
		if ctx.Err() != nil {
			parseErr = ctx.Err()
			return
		}
		lines, err := reader.ReadLines(bytes.NewReader(content))
		if err != nil {
			parseErr = fmt.Errorf("%w %q: %w", ErrUnreadableDocument, name, err)
			return
		}
		entries = p.parser.Parse(lines)
	})
	select {
	case <-done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if parseErr != nil {
		return nil, parseErr
	}
	return &Document{
		ID:      DocumentID(p.variant(reader), content),
		Name:    name,
		Entries: entries,
	}, nil
}

func (p *Parsing) Close(ctx context.Context) error {
	p.pool.StopWait()
	return nil
}
