package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/listing"
)

const maxAPIPageSize = 200

// BooksController is the stateless JSON view of the catalog. Every request
// carries its own filter and page, so it never touches the UI session.
type BooksController struct {
	catalog  CatalogProvider
	pageSize int
}

func NewBooksController(catalog CatalogProvider, pageSize int) *BooksController {
	if pageSize <= 0 {
		pageSize = listing.DefaultPageSize
	}
	return &BooksController{
		catalog:  catalog,
		pageSize: pageSize,
	}
}

// GetBooks returns one page of filtered books.
// GET /api/books?title=&author=&genre=&page=&page_size=
func (controller *BooksController) GetBooks(c *gin.Context) {
	var criteria listing.Criteria
	if err := c.ShouldBindQuery(&criteria); err != nil {
		respondBadRequest(c, "invalid filter")
		return
	}
	page, ok := parsePositiveQuery(c, "page", 1)
	if !ok {
		return
	}
	pageSize, ok := parsePositiveQuery(c, "page_size", controller.pageSize)
	if !ok {
		return
	}
	if pageSize > maxAPIPageSize {
		pageSize = maxAPIPageSize
	}

	cat := controller.catalog.Catalog()
	results := listing.Apply(cat.Books(), criteria)
	inc := listing.PageAt(results, page, pageSize)

	c.IndentedJSON(http.StatusOK, PageResponse{
		Data:      listing.Previews(cat, inc.Items),
		Total:     len(results),
		Page:      page,
		PageSize:  pageSize,
		Remaining: inc.Remaining,
		HasMore:   inc.Remaining > 0,
	})
}

// GetBook returns the detail view of a single book.
// GET /api/books/:id
func (controller *BooksController) GetBook(c *gin.Context) {
	detail, ok := listing.DetailByID(controller.catalog.Catalog(), c.Param("id"))
	if !ok {
		respondNotFound(c, "Book")
		return
	}
	c.IndentedJSON(http.StatusOK, detail)
}

// GetAuthors returns the author dropdown entries, "any" first.
// GET /api/authors
func (controller *BooksController) GetAuthors(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, gin.H{"authors": listing.AuthorOptions(controller.catalog.Catalog())})
}

// GetGenres returns the genre dropdown entries, "any" first.
// GET /api/genres
func (controller *BooksController) GetGenres(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, gin.H{"genres": listing.GenreOptions(controller.catalog.Catalog())})
}
