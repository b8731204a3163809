package catalog

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// Holder keeps the catalog currently being served. Readers never block;
// Reload swaps in a freshly loaded catalog only when loading succeeds.
type Holder struct {
	current atomic.Pointer[Catalog]
	loader  Loader
	mu      sync.Mutex // serializes reloads
}

func NewHolder(initial *Catalog, loader Loader) *Holder {
	h := &Holder{loader: loader}
	h.current.Store(initial)
	return h
}

func (h *Holder) Catalog() *Catalog {
	return h.current.Load()
}

// Books returns the books of the current catalog.
func (h *Holder) Books() []entities.Book {
	if c := h.Catalog(); c != nil {
		return c.Books()
	}
	return nil
}

// Reload asks the loader for a new catalog. On error the current catalog
// stays in place.
func (h *Holder) Reload(ctx context.Context) (*Catalog, error) {
	if h.loader == nil {
		return nil, fmt.Errorf("catalog reload is not configured")
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	next, err := h.loader.LoadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("reload catalog: %w", err)
	}
	h.current.Store(next)
	return next, nil
}
