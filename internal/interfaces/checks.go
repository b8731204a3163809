package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/covers"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/database/imports"
	"github.com/mrlokans/bookshelf/internal/http"
	"github.com/mrlokans/bookshelf/internal/scheduler"
	"github.com/mrlokans/bookshelf/internal/tasks"
)

// =============================================================================
// Catalog Sources
// =============================================================================

var _ catalog.Loader = (*books.Repository)(nil)
var _ catalog.Loader = catalog.FileLoader{}
var _ catalog.Loader = (*catalog.PostgresRepo)(nil)

// =============================================================================
// HTTP Dependencies
// =============================================================================

var _ http.CatalogProvider = (*catalog.Holder)(nil)
var _ http.CatalogReloader = (*catalog.Holder)(nil)
var _ http.ImportHistory = (*imports.Repository)(nil)
var _ http.DatabasePinger = (*database.Database)(nil)
var _ http.CoverCache = (*covers.Cache)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ tasks.BookLister = (*catalog.Holder)(nil)
var _ tasks.CoverFetcher = (*covers.Cache)(nil)
var _ scheduler.WarmRequester = (*tasks.Client)(nil)
var _ scheduler.CoverPruner = (*covers.Cache)(nil)
