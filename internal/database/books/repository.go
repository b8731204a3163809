// Package books stores the book catalog in SQLite.
//
// The repository is the import/export side of the catalog: ReplaceCatalog
// writes a whole dataset atomically, LoadCatalog reads it back in the stored
// order and validates it into a *catalog.Catalog.
//
// # Interface Implementation
//
//	var _ catalog.Loader = (*Repository)(nil)
//
// # Usage
//
//	repo := books.NewRepository(db)
//	cat, err := repo.LoadCatalog(ctx)
package books

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/entities"
)

const (
	bookGenresTable = "book_genres"
	insertBatchSize = 200
)

// Repository handles catalog database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Count returns the number of stored books.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entities.Book{}).Count(&n).Error
	return n, err
}

// ReplaceCatalog validates ds and swaps it in for whatever is stored, in a
// single transaction. Book positions follow the dataset order.
func (r *Repository) ReplaceCatalog(ctx context.Context, ds *catalog.Dataset) error {
	if _, err := ds.Catalog(); err != nil {
		return fmt.Errorf("invalid catalog: %w", err)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{bookGenresTable, "books", "genres", "authors"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}

		if authors := ds.AuthorList(); len(authors) > 0 {
			if err := tx.CreateInBatches(&authors, insertBatchSize).Error; err != nil {
				return fmt.Errorf("failed to insert authors: %w", err)
			}
		}
		if genres := ds.GenreList(); len(genres) > 0 {
			if err := tx.CreateInBatches(&genres, insertBatchSize).Error; err != nil {
				return fmt.Errorf("failed to insert genres: %w", err)
			}
		}

		if len(ds.Books) == 0 {
			return nil
		}

		books := make([]entities.Book, len(ds.Books))
		var links []map[string]any
		for i, b := range ds.Books {
			b.Position = i
			b.Author = entities.Author{}
			b.Genres = nil
			books[i] = b
			for _, genreID := range b.GenreIDs {
				links = append(links, map[string]any{"book_id": b.ID, "genre_id": genreID})
			}
		}

		if err := tx.Omit("Author", "Genres").CreateInBatches(&books, insertBatchSize).Error; err != nil {
			return fmt.Errorf("failed to insert books: %w", err)
		}
		if len(links) > 0 {
			if err := tx.Table(bookGenresTable).CreateInBatches(links, insertBatchSize).Error; err != nil {
				return fmt.Errorf("failed to link genres: %w", err)
			}
		}

		log.Printf("Stored catalog: %d books, %d authors, %d genres", len(books), len(ds.Authors), len(ds.Genres))
		return nil
	})
}

// SeedIfEmpty stores ds only when no books are stored yet.
func (r *Repository) SeedIfEmpty(ctx context.Context, ds *catalog.Dataset) (bool, error) {
	n, err := r.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to count books: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	if err := r.ReplaceCatalog(ctx, ds); err != nil {
		return false, err
	}
	return true, nil
}

// LoadCatalog reads the stored catalog in position order.
func (r *Repository) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	ds, err := r.LoadDataset(ctx)
	if err != nil {
		return nil, err
	}
	return ds.Catalog()
}

// LoadDataset reads the stored catalog without validating it.
func (r *Repository) LoadDataset(ctx context.Context) (*catalog.Dataset, error) {
	db := r.db.WithContext(ctx)

	var authors []entities.Author
	if err := db.Order("id").Find(&authors).Error; err != nil {
		return nil, fmt.Errorf("failed to load authors: %w", err)
	}
	var genres []entities.Genre
	if err := db.Order("id").Find(&genres).Error; err != nil {
		return nil, fmt.Errorf("failed to load genres: %w", err)
	}
	var books []entities.Book
	if err := db.Order("position ASC, id ASC").Find(&books).Error; err != nil {
		return nil, fmt.Errorf("failed to load books: %w", err)
	}

	genreIDs, err := r.genreLinks(db)
	if err != nil {
		return nil, err
	}

	ds := &catalog.Dataset{
		Books:   books,
		Authors: make(map[string]string, len(authors)),
		Genres:  make(map[string]string, len(genres)),
	}
	for _, a := range authors {
		ds.Authors[a.ID] = a.Name
	}
	for _, g := range genres {
		ds.Genres[g.ID] = g.Name
	}
	for i := range ds.Books {
		ds.Books[i].GenreIDs = genreIDs[ds.Books[i].ID]
	}
	return ds, nil
}

// genreLinks returns genre ids per book in insertion order.
func (r *Repository) genreLinks(db *gorm.DB) (map[string][]string, error) {
	rows, err := db.Table(bookGenresTable).Select("book_id, genre_id").Order("rowid").Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to load book genres: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var bookID, genreID string
		if err := rows.Scan(&bookID, &genreID); err != nil {
			return nil, fmt.Errorf("failed to scan book genre: %w", err)
		}
		out[bookID] = append(out[bookID], genreID)
	}
	return out, rows.Err()
}
