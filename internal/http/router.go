package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("router needs a catalog")
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(SecurityHeadersMiddleware())

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	if cfg.DemoMiddleware != nil && cfg.DemoMiddleware.IsEnabled() {
		router.Use(cfg.DemoMiddleware.InjectContext())
		router.Use(cfg.DemoMiddleware.Handler())
	}

	tmpl, err := loadTemplates(cfg.TemplatesPath)
	if err != nil {
		return nil, err
	}
	router.SetHTMLTemplate(tmpl)

	health := NewHealthController(cfg.Database, cfg.Catalog, cfg.Imports, cfg.Version)
	booksController := NewBooksController(cfg.Catalog, cfg.BooksPerPage)
	catalogController := NewCatalogController(cfg.Reloader, cfg.Imports)
	uiController := NewUIController(cfg.Catalog, cfg.BooksPerPage, cfg.SessionManager, cfg.DefaultTheme)
	demoController := NewDemoController(cfg.DemoMiddleware)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	api := router.Group("/api")
	if cfg.RateLimitRPS > 0 {
		api.Use(NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).Middleware())
	}

	// Books API endpoints
	api.GET("/books", booksController.GetBooks)
	api.GET("/books/:id", booksController.GetBook)
	api.GET("/authors", booksController.GetAuthors)
	api.GET("/genres", booksController.GetGenres)

	// Book cover endpoint
	if cfg.CoverCache != nil {
		coversController := NewCoversController(cfg.CoverCache, cfg.Catalog)
		api.GET("/books/:id/cover", coversController.GetCover)
	}

	// Catalog maintenance
	api.POST("/catalog/reload", catalogController.Reload)
	api.GET("/imports", catalogController.ListImports)

	// Demo mode status endpoint (always available)
	api.GET("/demo/status", demoController.GetStatus)

	// UI routes
	router.GET("/", uiController.BooksPage)
	router.POST("/ui/search", uiController.Search)
	router.POST("/ui/more", uiController.ShowMore)
	router.GET("/ui/books/:id", uiController.BookPage)
	router.POST("/settings/theme", uiController.SetTheme)

	return router, nil
}
