package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mrlokans/bookshelf/internal/entities"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS catalog_authors (
	id   TEXT PRIMARY KEY,
	name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS catalog_genres (
	id   TEXT PRIMARY KEY,
	name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS catalog_books (
	id          TEXT PRIMARY KEY,
	position    INTEGER NOT NULL,
	title       TEXT NOT NULL,
	author_id   TEXT NOT NULL REFERENCES catalog_authors(id),
	description TEXT NOT NULL DEFAULT '',
	image       TEXT NOT NULL DEFAULT '',
	published   TIMESTAMPTZ
);
CREATE TABLE IF NOT EXISTS catalog_book_genres (
	book_id  TEXT NOT NULL REFERENCES catalog_books(id) ON DELETE CASCADE,
	genre_id TEXT NOT NULL REFERENCES catalog_genres(id),
	ordinal  INTEGER NOT NULL,
	PRIMARY KEY (book_id, genre_id)
);
CREATE INDEX IF NOT EXISTS idx_catalog_books_position ON catalog_books(position);`

// PostgresRepo reads and writes a catalog stored in PostgreSQL.
type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: db}
}

// OpenPostgres creates a pool for dsn and verifies the connection.
func OpenPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot create db pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("cannot ping database: %w", err)
	}
	return pool, nil
}

// EnsureSchema creates the catalog tables if they do not exist yet.
func (r *PostgresRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("create catalog schema: %w", err)
	}
	return nil
}

// ReplaceCatalog swaps the stored catalog for ds in a single transaction.
func (r *PostgresRepo) ReplaceCatalog(ctx context.Context, ds *Dataset) error {
	if _, err := ds.Catalog(); err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, stmt := range []string{
		"DELETE FROM catalog_book_genres",
		"DELETE FROM catalog_books",
		"DELETE FROM catalog_genres",
		"DELETE FROM catalog_authors",
	} {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("clear catalog: %w", err)
		}
	}

	batch := &pgx.Batch{}
	for _, a := range ds.AuthorList() {
		batch.Queue("INSERT INTO catalog_authors (id, name) VALUES ($1, $2)", a.ID, a.Name)
	}
	for _, g := range ds.GenreList() {
		batch.Queue("INSERT INTO catalog_genres (id, name) VALUES ($1, $2)", g.ID, g.Name)
	}
	for i, b := range ds.Books {
		var published *time.Time
		if !b.Published.IsZero() {
			p := b.Published
			published = &p
		}
		batch.Queue(`
			INSERT INTO catalog_books (id, position, title, author_id, description, image, published)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			b.ID, i, b.Title, b.AuthorID, b.Description, b.Image, published)
		for ord, genreID := range b.GenreIDs {
			batch.Queue("INSERT INTO catalog_book_genres (book_id, genre_id, ordinal) VALUES ($1, $2, $3)", b.ID, genreID, ord)
		}
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert catalog: %w", err)
	}

	return tx.Commit(ctx)
}

// LoadCatalog reads every table and builds the catalog in stored order.
func (r *PostgresRepo) LoadCatalog(ctx context.Context) (*Catalog, error) {
	authors, err := r.listAuthors(ctx)
	if err != nil {
		return nil, err
	}
	genres, err := r.listGenres(ctx)
	if err != nil {
		return nil, err
	}
	bookGenres, err := r.listBookGenres(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, title, author_id, description, image, published
		FROM catalog_books
		ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	var books []entities.Book
	for rows.Next() {
		var (
			b         entities.Book
			published *time.Time
		)
		if err := rows.Scan(&b.ID, &b.Title, &b.AuthorID, &b.Description, &b.Image, &published); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		if published != nil {
			b.Published = published.UTC()
		}
		b.GenreIDs = bookGenres[b.ID]
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	return New(books, authors, genres)
}

func (r *PostgresRepo) listAuthors(ctx context.Context) ([]entities.Author, error) {
	rows, err := r.db.Query(ctx, "SELECT id, name FROM catalog_authors ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	authors, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.Author, error) {
		var a entities.Author
		err := row.Scan(&a.ID, &a.Name)
		return a, err
	})
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	return authors, nil
}

func (r *PostgresRepo) listGenres(ctx context.Context) ([]entities.Genre, error) {
	rows, err := r.db.Query(ctx, "SELECT id, name FROM catalog_genres ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	genres, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.Genre, error) {
		var g entities.Genre
		err := row.Scan(&g.ID, &g.Name)
		return g, err
	})
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	return genres, nil
}

func (r *PostgresRepo) listBookGenres(ctx context.Context) (map[string][]string, error) {
	rows, err := r.db.Query(ctx, "SELECT book_id, genre_id FROM catalog_book_genres ORDER BY book_id, ordinal")
	if err != nil {
		return nil, fmt.Errorf("list book genres: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var bookID, genreID string
		if err := rows.Scan(&bookID, &genreID); err != nil {
			return nil, fmt.Errorf("scan book genre: %w", err)
		}
		out[bookID] = append(out[bookID], genreID)
	}
	return out, rows.Err()
}
