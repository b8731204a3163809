package http

import (
	"github.com/mrlokans/bookshelf/internal/demo"
	"github.com/mrlokans/bookshelf/internal/theme"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Catalog  CatalogProvider
	Reloader CatalogReloader // optional, enables POST /api/catalog/reload
	Database DatabasePinger  // optional, used by /health
	Imports  ImportHistory   // optional

	// Cover caching (optional)
	CoverCache CoverCache

	// UI
	BooksPerPage  int
	TemplatesPath string // empty means the embedded templates
	DefaultTheme  theme.Theme

	// Browser sessions and form protection
	SessionManager *SessionManager // optional, theme falls back to DefaultTheme
	CSRFSecret     []byte          // CSRF protection is off when empty
	SecureCookies  bool

	// API throttling, off when RateLimitRPS is zero
	RateLimitRPS   float64
	RateLimitBurst int

	DemoMiddleware *demo.Middleware

	// Application info
	Version string
}
