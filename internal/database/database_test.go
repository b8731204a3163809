package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// setupTestDB creates a fresh test database
func setupTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewDatabase_Migrates(t *testing.T) {
	db := setupTestDB(t)

	for _, model := range []any{&entities.Author{}, &entities.Genre{}, &entities.Book{}, &entities.CatalogImport{}} {
		assert.True(t, db.DB.Migrator().HasTable(model), "%T table missing", model)
	}
	assert.True(t, db.DB.Migrator().HasTable("book_genres"))
}

func TestDatabase_PingAndStats(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Ping(ctx))

	require.NoError(t, db.DB.Create(&entities.Author{ID: "a1", Name: "Author"}).Error)
	require.NoError(t, db.DB.Create(&entities.Genre{ID: "g1", Name: "Genre"}).Error)
	require.NoError(t, db.DB.Omit("Author", "Genres").Create(&entities.Book{ID: "b1", Title: "Book", AuthorID: "a1"}).Error)

	books, authors, genres, err := db.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), books)
	assert.Equal(t, int64(1), authors)
	assert.Equal(t, int64(1), genres)
}

func TestDatabase_Close(t *testing.T) {
	db, err := NewDatabase(filepath.Join(t.TempDir(), "close.db"))
	require.NoError(t, err)

	require.NoError(t, db.Close())
	assert.Error(t, db.Ping(context.Background()))
}
