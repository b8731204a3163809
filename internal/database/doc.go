// Package database provides the SQLite storage for the book catalog.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup and migrations
//	├── books/           # Catalog import and loading
//	└── imports/         # History of catalog imports
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("./bookshelf.db")
//	repo := books.NewRepository(db.DB)
//
//	// Replace the stored catalog with a dataset
//	err = repo.ReplaceCatalog(ctx, dataset)
//
//	// Build the in-memory catalog the list engine runs on
//	cat, err := repo.LoadCatalog(ctx)
//
// The catalog is written only by imports. At runtime it is read once at
// startup and held in memory; nothing in the request path queries SQLite for
// books.
package database
