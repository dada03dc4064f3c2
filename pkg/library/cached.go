package library

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dgraph-io/badger/v2"
	"go.uber.org/zap"

	"github.com/darkclainer/vocadrill/pkg/parser"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrEntryOutOfRange  = errors.New("entry index out of range")
)

// Cached keeps parse results keyed by content hash, so every upload of the
// same document is parsed once, and stores solved progress next to them.
type Cached struct {
	loader  Loader
	storage *Storage
	logger  *zap.Logger
	// mu serializes progress read-modify-write cycles.
	mu sync.Mutex
}

func NewCached(loader Loader, storage *badger.DB, logger *zap.Logger) *Cached {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cached{
		loader:  loader,
		storage: &Storage{DB: storage},
		logger:  logger,
	}
}

func (c *Cached) Variant(name string) (string, error) {
	return c.loader.Variant(name)
}

// Load returns the stored parse of content when it was already read the
// same way, otherwise it delegates to the loader and stores the result.
func (c *Cached) Load(ctx context.Context, name string, content []byte) (*Document, error) {
	variant, err := c.loader.Variant(name)
	if err != nil {
		return nil, err
	}
	id := DocumentID(variant, content)
	cached, err := c.storage.GetDocument(id)
	if err == nil {
		return c.withProgress(id, cached)
	}
	if !errors.Is(err, badger.ErrKeyNotFound) {
		return nil, err
	}
	doc, err := c.loader.Load(ctx, name, content)
	if err != nil {
		return nil, err
	}
	if err := c.storage.PutDocument(id, &cachedDocument{Name: doc.Name, Entries: doc.Entries}); err != nil {
		c.logger.Warn("Can not store parsed document", zap.Error(err), zap.String("id", id))
	}
	doc.ID = id
	return doc, nil
}

// Get returns a stored document with its progress applied.
func (c *Cached) Get(ctx context.Context, id string) (*Document, error) {
	cached, err := c.getDocument(id)
	if err != nil {
		return nil, err
	}
	return c.withProgress(id, cached)
}

// List returns summaries of all stored documents.
func (c *Cached) List(ctx context.Context) ([]Summary, error) {
	ids, err := c.storage.DocumentIDs()
	if err != nil {
		return nil, fmt.Errorf("can not list documents: %w", err)
	}
	summaries := make([]Summary, 0, len(ids))
	for _, id := range ids {
		doc, err := c.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, doc.Summary())
	}
	return summaries, nil
}

// SetSolved marks or unmarks entry index of document id.
func (c *Cached) SetSolved(ctx context.Context, id string, index int, solved bool) (*Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cached, err := c.getDocument(id)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(cached.Entries) {
		return nil, fmt.Errorf("%w: %d", ErrEntryOutOfRange, index)
	}
	current, err := c.storage.GetProgress(id)
	if err != nil {
		return nil, err
	}
	updated := make(progress, 0, len(current)+1)
	for _, i := range current {
		if i != index {
			updated = append(updated, i)
		}
	}
	if solved {
		updated = append(updated, index)
	}
	if err := c.storage.PutProgress(id, updated); err != nil {
		return nil, fmt.Errorf("can not store progress: %w", err)
	}
	return c.withProgress(id, cached)
}

// Reset clears progress of document id.
func (c *Cached) Reset(ctx context.Context, id string) (*Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cached, err := c.getDocument(id)
	if err != nil {
		return nil, err
	}
	if err := c.storage.DeleteProgress(id); err != nil {
		return nil, fmt.Errorf("can not reset progress: %w", err)
	}
	return c.withProgress(id, cached)
}

func (c *Cached) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.getDocument(id); err != nil {
		return err
	}
	return c.storage.DeleteDocument(id)
}

func (c *Cached) getDocument(id string) (*cachedDocument, error) {
	cached, err := c.storage.GetDocument(id)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}
	return cached, err
}

func (c *Cached) withProgress(id string, cached *cachedDocument) (*Document, error) {
	solved, err := c.storage.GetProgress(id)
	if err != nil {
		return nil, fmt.Errorf("can not get progress: %w", err)
	}
	doc := &Document{
		ID:      id,
		Name:    cached.Name,
		Entries: make([]*parser.Entry, len(cached.Entries)),
	}
	for i, e := range cached.Entries {
		doc.Entries[i] = e.Clone()
		doc.Entries[i].Solved = false
	}
	for _, i := range solved {
		if i >= 0 && i < len(doc.Entries) {
			doc.Entries[i].Solved = true
		}
	}
	return doc, nil
}

func (c *Cached) Close(ctx context.Context) error {
	var errs []error
	if closeErr := c.loader.Close(ctx); closeErr != nil {
		errs = append(errs, fmt.Errorf("loader close failed: %w", closeErr))
	}
	if closeErr := c.storage.Close(); closeErr != nil {
		errs = append(errs, fmt.Errorf("storage close failed: %w", closeErr))
	}
	if len(errs) != 0 {
		var strErrs []string
		for _, e := range errs {
			strErrs = append(strErrs, e.Error())
		}
		summary := strings.Join(strErrs, " AND ")
		return fmt.Errorf("while closing next errors happend: %s", summary)
	}
	return nil
}
