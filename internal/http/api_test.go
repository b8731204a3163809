package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/database/imports"
	"github.com/mrlokans/bookshelf/internal/demo"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/listing"
)

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v))
	return v
}

type previewPage struct {
	Data      []listing.BookPreview `json:"data"`
	Total     int                   `json:"total"`
	Page      int                   `json:"page"`
	PageSize  int                   `json:"page_size"`
	Remaining int                   `json:"remaining"`
	HasMore   bool                  `json:"has_more"`
}

func TestBooksController_GetBooks(t *testing.T) {
	router := newTestRouter(t, 40)

	t.Run("first page by default", func(t *testing.T) {
		w := get(router, "/api/books")
		require.Equal(t, http.StatusOK, w.Code)

		page := decode[previewPage](t, w.Body.Bytes())
		assert.Len(t, page.Data, 36)
		assert.Equal(t, 40, page.Total)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, 36, page.PageSize)
		assert.Equal(t, 4, page.Remaining)
		assert.True(t, page.HasMore)
		assert.Equal(t, listing.BookPreview{ID: "b00", Title: "Volume 0", Image: "https://img.example/0.jpg", AuthorName: "Ada"}, page.Data[0])
	})

	t.Run("second page holds only the rest", func(t *testing.T) {
		page := decode[previewPage](t, get(router, "/api/books?page=2").Body.Bytes())
		require.Len(t, page.Data, 4)
		assert.Equal(t, "b36", page.Data[0].ID)
		assert.Equal(t, 0, page.Remaining)
		assert.False(t, page.HasMore)
	})

	t.Run("pages past the end are empty", func(t *testing.T) {
		page := decode[previewPage](t, get(router, "/api/books?page=9").Body.Bytes())
		assert.Empty(t, page.Data)
		assert.Equal(t, 40, page.Total)
	})

	t.Run("filters", func(t *testing.T) {
		page := decode[previewPage](t, get(router, "/api/books?title=VOLUME%201&author=a2&page_size=5").Body.Bytes())
		// Volume 1, 11, 13, 15, 17, 19
		assert.Equal(t, 6, page.Total)
		assert.Len(t, page.Data, 5)
		assert.Equal(t, 1, page.Remaining)
	})

	t.Run("rejects a bad page", func(t *testing.T) {
		for _, q := range []string{"page=0", "page=abc", "page_size=-1"} {
			w := get(router, "/api/books?"+q)
			assert.Equal(t, http.StatusBadRequest, w.Code, q)
			assert.NotEmpty(t, decode[ErrorResponse](t, w.Body.Bytes()).Error)
		}
	})
}

func TestBooksController_GetBook(t *testing.T) {
	router := newTestRouter(t, 3)

	w := get(router, "/api/books/b02")
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[listing.BookDetail](t, w.Body.Bytes())
	assert.Equal(t, "Volume 2", detail.Title)
	assert.Equal(t, "Ada (1992)", detail.Subtitle)
	assert.Equal(t, []string{"Fantasy"}, detail.Genres)

	w = get(router, "/api/books/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Book not found", decode[ErrorResponse](t, w.Body.Bytes()).Error)
}

func TestBooksController_Options(t *testing.T) {
	router := newTestRouter(t, 3)

	authors := decode[map[string][]listing.Option](t, get(router, "/api/authors").Body.Bytes())["authors"]
	assert.Equal(t, []listing.Option{
		{Value: "any", Label: "All Authors"},
		{Value: "a1", Label: "Ada"},
		{Value: "a2", Label: "Bo"},
	}, authors)

	genres := decode[map[string][]listing.Option](t, get(router, "/api/genres").Body.Bytes())["genres"]
	assert.Equal(t, []listing.Option{
		{Value: "any", Label: "All Genres"},
		{Value: "g2", Label: "Drama"},
		{Value: "g1", Label: "Fantasy"},
	}, genres)
}

func TestCatalogController(t *testing.T) {
	t.Run("reload swaps the served catalog", func(t *testing.T) {
		holder := catalog.NewHolder(buildCatalog(t, 40), loaderFunc(func(context.Context) (*catalog.Catalog, error) {
			return buildCatalog(t, 7), nil
		}))
		router := newTestRouter(t, 0, func(cfg *RouterConfig) {
			cfg.Catalog = holder
			cfg.Reloader = holder
		})

		w := postForm(router, "/api/catalog/reload", nil)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[SuccessResponse](t, w.Body.Bytes())
		assert.Equal(t, "Catalog reloaded", resp.Message)
		assert.Equal(t, float64(7), resp.Data.(map[string]any)["books"])

		page := decode[previewPage](t, get(router, "/api/books").Body.Bytes())
		assert.Equal(t, 7, page.Total)
	})

	t.Run("reload failure keeps the catalog", func(t *testing.T) {
		holder := catalog.NewHolder(buildCatalog(t, 4), loaderFunc(func(context.Context) (*catalog.Catalog, error) {
			return nil, errors.New("disk gone")
		}))
		router := newTestRouter(t, 0, func(cfg *RouterConfig) {
			cfg.Catalog = holder
			cfg.Reloader = holder
		})

		w := postForm(router, "/api/catalog/reload", nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "internal server error", decode[ErrorResponse](t, w.Body.Bytes()).Error)
		assert.Equal(t, 4, holder.Catalog().Len())
	})

	t.Run("reload without a source", func(t *testing.T) {
		router := newTestRouter(t, 1)
		w := postForm(router, "/api/catalog/reload", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("demo mode blocks reload but not browsing", func(t *testing.T) {
		holder := catalog.NewHolder(buildCatalog(t, 4), loaderFunc(func(context.Context) (*catalog.Catalog, error) {
			t.Fatal("reload must not run in demo mode")
			return nil, nil
		}))
		router := newTestRouter(t, 0, func(cfg *RouterConfig) {
			cfg.Catalog = holder
			cfg.Reloader = holder
			cfg.DemoMiddleware = demo.NewMiddleware(true, "/ui/", "/settings/theme")
		})

		w := postForm(router, "/api/catalog/reload", nil)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = postForm(router, "/ui/more", nil, htmx...)
		assert.NotEqual(t, http.StatusForbidden, w.Code)

		status := decode[DemoStatusResponse](t, get(router, "/api/demo/status").Body.Bytes())
		assert.True(t, status.Enabled)

		doc := parseHTML(t, get(router, "/").Body)
		assert.Equal(t, 1, doc.Find("[data-demo-banner]").Length())
	})

	t.Run("lists imports newest first", func(t *testing.T) {
		db := newTestDatabase(t)
		repo := imports.NewRepository(db.DB)
		require.NoError(t, repo.Record(context.Background(), &entities.CatalogImport{Source: "first.json", Books: 1}))
		require.NoError(t, repo.Record(context.Background(), &entities.CatalogImport{Source: "second.json", Books: 2}))

		router := newTestRouter(t, 1, func(cfg *RouterConfig) { cfg.Imports = repo })

		resp := decode[map[string][]entities.CatalogImport](t, get(router, "/api/imports").Body.Bytes())
		require.Len(t, resp["imports"], 2)
		assert.Equal(t, "second.json", resp["imports"][0].Source)

		resp = decode[map[string][]entities.CatalogImport](t, get(router, "/api/imports?limit=1").Body.Bytes())
		assert.Len(t, resp["imports"], 1)
	})
}

type fakeCoverCache struct {
	path string
	err  error
}

func (f fakeCoverCache) GetCover(context.Context, string, string) (string, error) {
	return f.path, f.err
}

func TestCoversController_GetCover(t *testing.T) {
	cover := filepath.Join(t.TempDir(), "cover.jpg")
	require.NoError(t, os.WriteFile(cover, []byte("jpeg-bytes"), 0o644))

	t.Run("serves the cached file", func(t *testing.T) {
		router := newTestRouter(t, 2, func(cfg *RouterConfig) { cfg.CoverCache = fakeCoverCache{path: cover} })
		w := get(router, "/api/books/b01/cover")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "jpeg-bytes", w.Body.String())
	})

	t.Run("redirects to the source when caching fails", func(t *testing.T) {
		router := newTestRouter(t, 2, func(cfg *RouterConfig) { cfg.CoverCache = fakeCoverCache{err: errors.New("offline")} })
		w := get(router, "/api/books/b01/cover")
		assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
		assert.Equal(t, "https://img.example/1.jpg", w.Header().Get("Location"))
	})

	t.Run("unknown book", func(t *testing.T) {
		router := newTestRouter(t, 2, func(cfg *RouterConfig) { cfg.CoverCache = fakeCoverCache{path: cover} })
		assert.Equal(t, http.StatusNotFound, get(router, "/api/books/zz/cover").Code)
	})
}

func TestHealthController_Status(t *testing.T) {
	t.Run("healthy with database and catalog", func(t *testing.T) {
		db := newTestDatabase(t)
		repo := imports.NewRepository(db.DB)
		router := newTestRouter(t, 3, func(cfg *RouterConfig) {
			cfg.Database = db
			cfg.Imports = repo
		})

		w := get(router, "/health")
		require.Equal(t, http.StatusOK, w.Code)
		health := decode[HealthResponse](t, w.Body.Bytes())
		assert.Equal(t, "healthy", health.Status)
		assert.Equal(t, "test", health.Version)
		assert.Equal(t, "ok", health.Checks["database"])
		assert.Equal(t, "3 books", health.Checks["catalog"])
		assert.Equal(t, "never", health.Checks["last_import"])
		assert.NotEmpty(t, health.Time)
	})

	t.Run("database not configured", func(t *testing.T) {
		router := newTestRouter(t, 1)
		health := decode[HealthResponse](t, get(router, "/health").Body.Bytes())
		assert.Equal(t, "healthy", health.Status)
		assert.Equal(t, "not configured", health.Checks["database"])
	})

	t.Run("closed database is unhealthy", func(t *testing.T) {
		db := newTestDatabase(t)
		require.NoError(t, db.Close())
		router := newTestRouter(t, 1, func(cfg *RouterConfig) { cfg.Database = db })

		w := get(router, "/health")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		health := decode[HealthResponse](t, w.Body.Bytes())
		assert.Equal(t, "unhealthy", health.Status)
		assert.Contains(t, health.Checks["database"], "error")
	})

	t.Run("ping", func(t *testing.T) {
		router := newTestRouter(t, 1)
		w := get(router, "/ping")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "pong")
	})
}
