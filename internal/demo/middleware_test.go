package demo

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(m *Middleware) *gin.Engine {
	router := gin.New()
	router.Use(m.InjectContext(), m.Handler())
	ok := func(c *gin.Context) {
		c.String(http.StatusOK, "OK demo=%v", c.GetBool(ContextKeyDemoMode))
	}
	router.GET("/api/books", ok)
	router.POST("/ui/search", ok)
	router.POST("/api/catalog/reload", ok)
	return router
}

func TestMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		enabled    bool
		method     string
		path       string
		headers    map[string]string
		wantStatus int
		wantBody   string
	}{
		{name: "disabled passes writes", enabled: false, method: http.MethodPost, path: "/api/catalog/reload", wantStatus: http.StatusOK, wantBody: "OK demo=false"},
		{name: "GET always allowed", enabled: true, method: http.MethodGet, path: "/api/books", wantStatus: http.StatusOK, wantBody: "OK demo=true"},
		{name: "allowlisted POST", enabled: true, method: http.MethodPost, path: "/ui/search", wantStatus: http.StatusOK},
		{name: "blocked API POST", enabled: true, method: http.MethodPost, path: "/api/catalog/reload", wantStatus: http.StatusForbidden, wantBody: `"demo_mode":true`},
		{name: "blocked HTMX POST", enabled: true, method: http.MethodPost, path: "/api/catalog/reload",
			headers: map[string]string{"HX-Request": "true"}, wantStatus: http.StatusForbidden, wantBody: blockedMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(NewMiddleware(tt.enabled, "/ui/"))

			req := httptest.NewRequest(tt.method, tt.path, nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Contains(t, w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestMiddleware_HTMXBlockSetsReswap(t *testing.T) {
	router := newTestRouter(NewMiddleware(true))

	req := httptest.NewRequest(http.MethodPost, "/ui/search", nil)
	req.Header.Set("HX-Request", "true")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "none", w.Header().Get("HX-Reswap"))
}
