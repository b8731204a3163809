package http

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCSRFSecret = []byte("0123456789abcdef0123456789abcdef")

func TestCSRFMiddleware(t *testing.T) {
	router := newTestRouter(t, 40, func(cfg *RouterConfig) { cfg.CSRFSecret = testCSRFSecret })

	t.Run("pages carry a token", func(t *testing.T) {
		w := get(router, "/")
		require.Equal(t, http.StatusOK, w.Code)

		doc := parseHTML(t, w.Body)
		token := doc.Find(`[data-search-form] input[name="gorilla.csrf.Token"]`).AttrOr("value", "")
		assert.NotEmpty(t, token)
		assert.Contains(t, doc.Find("[data-search-form]").AttrOr("hx-headers", ""), CSRFTokenHeader)
	})

	t.Run("posts without a token are rejected before the handler runs", func(t *testing.T) {
		w := postForm(router, "/ui/more", url.Values{}, htmx...)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "none", w.Header().Get("HX-Reswap"))

		// The rejected request must not have advanced the list.
		doc := parseHTML(t, get(router, "/").Body)
		assert.Equal(t, 36, doc.Find("[data-preview]").Length())
	})

	t.Run("json clients get a json error", func(t *testing.T) {
		w := postForm(router, "/api/catalog/reload", nil, "Accept", "application/json")
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.JSONEq(t, `{"error":"CSRF token invalid or missing"}`, w.Body.String())
	})
}

func TestRateLimiter(t *testing.T) {
	router := newTestRouter(t, 1, func(cfg *RouterConfig) {
		cfg.RateLimitRPS = 0.001
		cfg.RateLimitBurst = 2
	})

	assert.Equal(t, http.StatusOK, get(router, "/api/books").Code)
	assert.Equal(t, http.StatusOK, get(router, "/api/books").Code)

	w := get(router, "/api/books")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", decode[ErrorResponse](t, w.Body.Bytes()).Code)

	// Only the API is throttled.
	assert.Equal(t, http.StatusOK, get(router, "/").Code)
}

func TestRateLimiter_EvictsIdleClients(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	defer rl.Stop()

	assert.True(t, rl.allow("10.0.0.1"))
	assert.False(t, rl.allow("10.0.0.1"))

	rl.evictIdle(time.Now().Add(time.Hour))
	assert.True(t, rl.allow("10.0.0.1"), "a forgotten client starts with a full bucket")
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(SecurityHeadersMiddleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := get(router, "/")
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "img-src 'self' data: https:")
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "https://unpkg.com")
}

func TestNewRouter_RequiresCatalog(t *testing.T) {
	_, err := NewRouter(RouterConfig{})
	assert.Error(t, err)
}

func TestNewRouter_BadTemplatesPath(t *testing.T) {
	_, err := NewRouter(RouterConfig{
		Catalog:       newHolderForTest(t),
		TemplatesPath: t.TempDir(),
	})
	assert.Error(t, err)
}
