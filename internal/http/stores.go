package http

import (
	"context"

	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// Each controller depends on the narrow interface it uses. This file keeps
// them together so the wiring in entrypoint is easy to audit.

// CatalogProvider hands out the catalog currently being served. The result
// may change between calls after a reload.
type CatalogProvider interface {
	Catalog() *catalog.Catalog
}

// CatalogReloader reloads the served catalog from its source.
type CatalogReloader interface {
	Reload(ctx context.Context) (*catalog.Catalog, error)
}

// ImportHistory exposes past catalog imports.
type ImportHistory interface {
	Latest(ctx context.Context) (*entities.CatalogImport, error)
	List(ctx context.Context, limit int) ([]entities.CatalogImport, error)
}

// CoverCache serves locally cached book covers.
type CoverCache interface {
	GetCover(ctx context.Context, bookID, coverURL string) (string, error)
}

// DatabasePinger is the part of the database the health check needs.
type DatabasePinger interface {
	Ping(ctx context.Context) error
}
