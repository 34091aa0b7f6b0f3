package template

import (
	"context"
	"fmt"
	"sync"

	"github.com/c360/flowcompiler/errors"
)

// Catalog resolves job templates by URI. Resolution may block on storage;
// callers must not hold locks across a Resolve call.
type Catalog interface {
	// Resolve returns the template addressed by uri. It fails with
	// errors.ErrTemplateNotFound when no such template exists and with
	// errors.ErrTemplateMalformed when the template cannot be decoded.
	Resolve(ctx context.Context, uri string) (*JobTemplate, error)
}

// MemoryCatalog is an in-memory Catalog, used in tests and for templates
// registered programmatically.
type MemoryCatalog struct {
	mu        sync.RWMutex
	templates map[string]*JobTemplate
}

// NewMemoryCatalog creates an empty in-memory catalog.
func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{templates: make(map[string]*JobTemplate)}
}

// Put registers a template under its URI, overwriting any previous entry.
func (c *MemoryCatalog) Put(t *JobTemplate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.templates[t.URI] = t
}

// Resolve implements Catalog.
func (c *MemoryCatalog) Resolve(_ context.Context, uri string) (*JobTemplate, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	t, ok := c.templates[uri]
	if !ok {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: %s", errors.ErrTemplateNotFound, uri),
			"MemoryCatalog", "Resolve", "template lookup")
	}
	return t, nil
}
