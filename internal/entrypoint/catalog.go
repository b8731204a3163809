package entrypoint

import (
	"context"
	"fmt"
	"log"

	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/database/imports"
	"github.com/mrlokans/bookshelf/internal/demo"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// SampleImportSource names the embedded sample in the import history.
const SampleImportSource = "embedded sample"

// CatalogSource is the catalog being served together with the store it
// reloads from.
type CatalogSource struct {
	Holder *catalog.Holder
	close  func()
}

// Close releases connections opened for the source.
func (s *CatalogSource) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenCatalog loads the catalog from the configured source. db backs the
// SQLite source and the import history; it must stay open while the source
// is in use.
func OpenCatalog(ctx context.Context, cfg *config.Config, db *database.Database) (*CatalogSource, error) {
	var (
		loader catalog.Loader
		closer func()
	)

	switch cfg.Catalog.Source {
	case config.CatalogSourceSQLite:
		repo := books.NewRepository(db.DB)
		if cfg.Catalog.SeedSample {
			if err := seedSample(ctx, repo, imports.NewRepository(db.DB)); err != nil {
				return nil, err
			}
		}
		loader = repo
	case config.CatalogSourceJSON:
		loader = catalog.FileLoader{Path: cfg.Catalog.Path}
	case config.CatalogSourcePostgres:
		pool, err := catalog.OpenPostgres(ctx, cfg.Catalog.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to catalog database: %w", err)
		}
		repo := catalog.NewPostgresRepo(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		loader = repo
		closer = pool.Close
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Catalog.Source)
	}

	initial, err := loader.LoadCatalog(ctx)
	if err != nil {
		if closer != nil {
			closer()
		}
		return nil, fmt.Errorf("failed to load catalog from %s: %w", cfg.Catalog.Source, err)
	}
	log.Printf("Catalog loaded from %s: %d books, %d authors, %d genres",
		cfg.Catalog.Source, initial.Len(), len(initial.Authors()), len(initial.Genres()))

	return &CatalogSource{
		Holder: catalog.NewHolder(initial, loader),
		close:  closer,
	}, nil
}

func seedSample(ctx context.Context, repo *books.Repository, history *imports.Repository) error {
	ds, err := demo.SampleDataset()
	if err != nil {
		return err
	}
	seeded, err := repo.SeedIfEmpty(ctx, ds)
	if err != nil {
		return fmt.Errorf("failed to seed sample catalog: %w", err)
	}
	if !seeded {
		return nil
	}

	log.Printf("Catalog was empty, stored the embedded sample (%d books)", len(ds.Books))
	err = history.Record(ctx, &entities.CatalogImport{
		Source:  SampleImportSource,
		Books:   len(ds.Books),
		Authors: len(ds.Authors),
		Genres:  len(ds.Genres),
	})
	if err != nil {
		log.Printf("WARNING: failed to record sample import: %v", err)
	}
	return nil
}
