package demo

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextKeyDemoMode is set on every request for template rendering.
const ContextKeyDemoMode = "demo_mode"

const blockedMessage = "This action is disabled in demo mode"

// Middleware rejects state-changing requests when demo mode is on. Reads are
// always allowed, and so are POSTs whose path starts with one of the allowed
// prefixes (filter and theme forms post but change nothing stored).
type Middleware struct {
	enabled bool
	allowed []string
}

func NewMiddleware(enabled bool, allowedPrefixes ...string) *Middleware {
	return &Middleware{enabled: enabled, allowed: allowedPrefixes}
}

func (m *Middleware) IsEnabled() bool {
	return m.enabled
}

func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.enabled || m.permits(c.Request.Method, c.Request.URL.Path) {
			c.Next()
			return
		}
		m.respondBlocked(c)
	}
}

func (m *Middleware) permits(method, path string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	for _, prefix := range m.allowed {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (m *Middleware) respondBlocked(c *gin.Context) {
	if c.GetHeader("HX-Request") == "true" {
		c.Header("HX-Reswap", "none")
		c.String(http.StatusForbidden, blockedMessage)
		c.Abort()
		return
	}

	if strings.Contains(c.GetHeader("Accept"), "application/json") || strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":     blockedMessage,
			"demo_mode": true,
		})
		return
	}

	c.String(http.StatusForbidden, blockedMessage)
	c.Abort()
}

// InjectContext stores the demo flag on the gin context.
func (m *Middleware) InjectContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyDemoMode, m.enabled)
		c.Next()
	}
}
