// Package interfaces documents the core abstractions used throughout the application.
//
// # Catalog
//
//   - catalog.Loader: builds a *catalog.Catalog from a store. Implemented by
//     books.Repository (SQLite), catalog.FileLoader (JSON dataset) and
//     catalog.PostgresRepo.
//   - listing.Renderer: draws what a listing.Presenter produces. Implemented by
//     the HTML renderer in internal/http and the terminal list in internal/tui.
//
// # HTTP
//
// Controllers depend on small interfaces declared in internal/http/stores.go:
//
//   - CatalogProvider / CatalogReloader: catalog.Holder
//   - ImportHistory: imports.Repository
//   - DatabasePinger: database.Database
//   - CoverCache: covers.Cache
//
// # Background Work
//
//   - tasks.BookLister and tasks.CoverFetcher feed the cover warming queues.
//   - scheduler.WarmRequester and scheduler.CoverPruner are driven by the cron
//     schedule in COVERS_WARM_SCHEDULE.
//
// Compile-time checks for all of the above live in checks.go.
package interfaces
