package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CoversController handles book cover requests.
type CoversController struct {
	cache   CoverCache
	catalog CatalogProvider
}

func NewCoversController(cache CoverCache, catalog CatalogProvider) *CoversController {
	return &CoversController{
		cache:   cache,
		catalog: catalog,
	}
}

// GetCover serves a cached book cover image.
// GET /api/books/:id/cover
func (cc *CoversController) GetCover(c *gin.Context) {
	book, ok := cc.catalog.Catalog().BookByID(c.Param("id"))
	if !ok || book.Image == "" {
		c.Status(http.StatusNotFound)
		return
	}

	// Get cached cover (will fetch if not cached)
	cachePath, err := cc.cache.GetCover(c.Request.Context(), book.ID, book.Image)
	if err != nil || cachePath == "" {
		// Fallback: redirect to original URL
		c.Redirect(http.StatusTemporaryRedirect, book.Image)
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.File(cachePath)
}
