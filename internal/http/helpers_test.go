package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/entities"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// buildCatalog makes n books titled "Volume 0".."Volume n-1". Even books are
// Ada's fantasy, odd ones Bo's drama; book i was published in 1990+i.
func buildCatalog(t *testing.T, n int) *catalog.Catalog {
	t.Helper()
	books := make([]entities.Book, 0, n)
	for i := 0; i < n; i++ {
		b := entities.Book{
			ID:          fmt.Sprintf("b%02d", i),
			Title:       fmt.Sprintf("Volume %d", i),
			AuthorID:    "a1",
			GenreIDs:    []string{"g1"},
			Description: fmt.Sprintf("About volume %d", i),
			Image:       fmt.Sprintf("https://img.example/%d.jpg", i),
			Published:   time.Date(1990+i, time.June, 1, 0, 0, 0, 0, time.UTC),
		}
		if i%2 == 1 {
			b.AuthorID = "a2"
			b.GenreIDs = []string{"g2"}
		}
		books = append(books, b)
	}
	cat, err := catalog.New(books,
		[]entities.Author{{ID: "a1", Name: "Ada"}, {ID: "a2", Name: "Bo"}},
		[]entities.Genre{{ID: "g1", Name: "Fantasy"}, {ID: "g2", Name: "Drama"}},
	)
	require.NoError(t, err)
	return cat
}

func newHolderForTest(t *testing.T) *catalog.Holder {
	t.Helper()
	return catalog.NewHolder(buildCatalog(t, 1), nil)
}

func newTestDatabase(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// newTestRouter serves a catalog of n books with a page size of 36.
func newTestRouter(t *testing.T, n int, mutate ...func(*RouterConfig)) *gin.Engine {
	t.Helper()
	cfg := RouterConfig{
		Catalog:      catalog.NewHolder(buildCatalog(t, n), nil),
		BooksPerPage: 36,
		Version:      "test",
	}
	for _, m := range mutate {
		m(&cfg)
	}
	router, err := NewRouter(cfg)
	require.NoError(t, err)
	return router
}

func get(router http.Handler, path string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	setHeaders(req, headers)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func postForm(router http.Handler, path string, form url.Values, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	setHeaders(req, headers)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func setHeaders(req *http.Request, kv []string) {
	for i := 0; i+1 < len(kv); i += 2 {
		req.Header.Set(kv[i], kv[i+1])
	}
}

var htmx = []string{"HX-Request", "true"}

type loaderFunc func(ctx context.Context) (*catalog.Catalog, error)

func (f loaderFunc) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) { return f(ctx) }

func parseHTML(t *testing.T, body io.Reader) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(body)
	require.NoError(t, err)
	return doc
}
