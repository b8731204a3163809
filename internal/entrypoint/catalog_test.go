package entrypoint

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/imports"
	"github.com/mrlokans/bookshelf/internal/demo"
)

func newTestDatabase(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "bookshelf.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenCatalog_SQLiteSeedsSample(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)
	cfg := &config.Config{Catalog: config.Catalog{Source: config.CatalogSourceSQLite, SeedSample: true}}

	source, err := OpenCatalog(ctx, cfg, db)
	require.NoError(t, err)
	defer source.Close()

	sample, err := demo.SampleCatalog()
	require.NoError(t, err)
	assert.Equal(t, sample.Len(), source.Holder.Catalog().Len())

	latest, err := imports.NewRepository(db.DB).Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, SampleImportSource, latest.Source)

	// A second open finds books and leaves the history alone.
	again, err := OpenCatalog(ctx, cfg, db)
	require.NoError(t, err)
	defer again.Close()
	list, err := imports.NewRepository(db.DB).List(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestOpenCatalog_SQLiteWithoutSeed(t *testing.T) {
	db := newTestDatabase(t)
	cfg := &config.Config{Catalog: config.Catalog{Source: config.CatalogSourceSQLite}}

	source, err := OpenCatalog(context.Background(), cfg, db)
	require.NoError(t, err)
	defer source.Close()

	assert.Equal(t, 0, source.Holder.Catalog().Len())
}

func TestOpenCatalog_JSONReloads(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalog.json")
	write := func(body string) {
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	}
	write(`{"books":[{"id":"b1","title":"One","author":"a1","genres":["g1"]}],"authors":{"a1":"Ada"},"genres":{"g1":"Fantasy"}}`)

	cfg := &config.Config{Catalog: config.Catalog{Source: config.CatalogSourceJSON, Path: path}}
	source, err := OpenCatalog(ctx, cfg, newTestDatabase(t))
	require.NoError(t, err)
	defer source.Close()
	assert.Equal(t, 1, source.Holder.Catalog().Len())

	write(`{"books":[{"id":"b1","title":"One","author":"a1","genres":[]},{"id":"b2","title":"Two","author":"a1","genres":[]}],"authors":{"a1":"Ada"},"genres":{}}`)
	cat, err := source.Holder.Reload(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, cat.Len())
}

func TestOpenCatalog_Errors(t *testing.T) {
	db := newTestDatabase(t)

	_, err := OpenCatalog(context.Background(), &config.Config{Catalog: config.Catalog{
		Source: config.CatalogSourceJSON,
		Path:   filepath.Join(t.TempDir(), "missing.json"),
	}}, db)
	assert.Error(t, err)

	_, err = OpenCatalog(context.Background(), &config.Config{Catalog: config.Catalog{Source: "mongo"}}, db)
	assert.ErrorContains(t, err, "unknown catalog source")
}
