// Package catalog holds the immutable book catalog the list engine works on.
//
// A Catalog is built once at startup from one of the Loader implementations
// (SQLite via internal/database/books, a JSON dataset file, or PostgreSQL) and
// is never mutated afterwards. All accessors are safe for concurrent readers.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// UnknownAuthor is shown for books whose author id has no name.
const UnknownAuthor = "Unknown Author"

var (
	ErrEmptyID       = errors.New("empty id")
	ErrDuplicateBook = errors.New("duplicate book id")
	ErrUnknownAuthor = errors.New("unknown author")
	ErrUnknownGenre  = errors.New("unknown genre")
)

// Loader produces a fully built catalog from some backing store.
type Loader interface {
	LoadCatalog(ctx context.Context) (*Catalog, error)
}

// Catalog is a read-only, ordered collection of books plus the author and
// genre reference data they point into.
type Catalog struct {
	books []entities.Book
	index map[string]int

	authors     []entities.Author
	authorNames map[string]string
	genres      []entities.Genre
	genreNames  map[string]string
}

// New validates the reference data and builds a catalog. Book order is kept
// exactly as given; it becomes the catalog's iteration order.
func New(books []entities.Book, authors []entities.Author, genres []entities.Genre) (*Catalog, error) {
	c := &Catalog{
		books:       make([]entities.Book, 0, len(books)),
		index:       make(map[string]int, len(books)),
		authors:     make([]entities.Author, 0, len(authors)),
		authorNames: make(map[string]string, len(authors)),
		genres:      make([]entities.Genre, 0, len(genres)),
		genreNames:  make(map[string]string, len(genres)),
	}

	for _, a := range authors {
		if a.ID == "" {
			return nil, fmt.Errorf("author %q: %w", a.Name, ErrEmptyID)
		}
		if _, exists := c.authorNames[a.ID]; exists {
			continue
		}
		c.authorNames[a.ID] = a.Name
		c.authors = append(c.authors, a)
	}

	for _, g := range genres {
		if g.ID == "" {
			return nil, fmt.Errorf("genre %q: %w", g.Name, ErrEmptyID)
		}
		if _, exists := c.genreNames[g.ID]; exists {
			continue
		}
		c.genreNames[g.ID] = g.Name
		c.genres = append(c.genres, g)
	}

	for _, b := range books {
		if b.ID == "" {
			return nil, fmt.Errorf("book %q: %w", b.Title, ErrEmptyID)
		}
		if _, exists := c.index[b.ID]; exists {
			return nil, fmt.Errorf("book %s: %w", b.ID, ErrDuplicateBook)
		}
		if _, ok := c.authorNames[b.AuthorID]; !ok {
			return nil, fmt.Errorf("book %s references author %q: %w", b.ID, b.AuthorID, ErrUnknownAuthor)
		}
		for _, genreID := range b.GenreIDs {
			if _, ok := c.genreNames[genreID]; !ok {
				return nil, fmt.Errorf("book %s references genre %q: %w", b.ID, genreID, ErrUnknownGenre)
			}
		}

		b.GenreIDs = slices.Clone(b.GenreIDs)
		b.Genres = nil
		b.Author = entities.Author{}
		b.Position = len(c.books)

		c.index[b.ID] = len(c.books)
		c.books = append(c.books, b)
	}

	sort.SliceStable(c.authors, func(i, j int) bool { return c.authors[i].Name < c.authors[j].Name })
	sort.SliceStable(c.genres, func(i, j int) bool { return c.genres[i].Name < c.genres[j].Name })

	return c, nil
}

// Books returns every book in catalog order. The slice is shared and must
// not be modified by callers.
func (c *Catalog) Books() []entities.Book {
	return c.books
}

// Len returns the number of books in the catalog.
func (c *Catalog) Len() int {
	return len(c.books)
}

// BookByID looks a book up by its identifier.
func (c *Catalog) BookByID(id string) (entities.Book, bool) {
	i, ok := c.index[id]
	if !ok {
		return entities.Book{}, false
	}
	return c.books[i], true
}

// Authors returns all authors ordered by name, for dropdowns.
func (c *Catalog) Authors() []entities.Author {
	return slices.Clone(c.authors)
}

// Genres returns all genres ordered by name, for dropdowns.
func (c *Catalog) Genres() []entities.Genre {
	return slices.Clone(c.genres)
}

// AuthorName resolves an author id, falling back to UnknownAuthor.
func (c *Catalog) AuthorName(id string) string {
	if name, ok := c.authorNames[id]; ok && name != "" {
		return name
	}
	return UnknownAuthor
}

// GenreName resolves a genre id. Returns the empty string for unknown ids.
func (c *Catalog) GenreName(id string) string {
	return c.genreNames[id]
}
