package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CatalogController exposes catalog maintenance: reloading from the source
// and the import history.
type CatalogController struct {
	reloader CatalogReloader
	imports  ImportHistory
}

func NewCatalogController(reloader CatalogReloader, imports ImportHistory) *CatalogController {
	return &CatalogController{
		reloader: reloader,
		imports:  imports,
	}
}

// Reload re-reads the catalog source. The UI session restarts unfiltered on
// its next request.
// POST /api/catalog/reload
func (cc *CatalogController) Reload(c *gin.Context) {
	if cc.reloader == nil {
		respondError(c, http.StatusServiceUnavailable, "catalog reload is not configured")
		return
	}
	cat, err := cc.reloader.Reload(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "reload catalog")
		return
	}
	respondSuccess(c, "Catalog reloaded", gin.H{
		"books":   cat.Len(),
		"authors": len(cat.Authors()),
		"genres":  len(cat.Genres()),
	})
}

// ListImports returns recent catalog imports, newest first.
// GET /api/imports?limit=
func (cc *CatalogController) ListImports(c *gin.Context) {
	if cc.imports == nil {
		c.IndentedJSON(http.StatusOK, gin.H{"imports": []any{}})
		return
	}
	limit, ok := parsePositiveQuery(c, "limit", 20)
	if !ok {
		return
	}
	imps, err := cc.imports.List(c.Request.Context(), limit)
	if err != nil {
		respondInternalError(c, err, "list imports")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"imports": imps})
}
