package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	db      DatabasePinger
	catalog CatalogProvider
	imports ImportHistory
	version string
}

func NewHealthController(db DatabasePinger, catalog CatalogProvider, imports ImportHistory, version string) *HealthController {
	return &HealthController{
		db:      db,
		catalog: catalog,
		imports: imports,
		version: version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
	}

	if h.catalog != nil && h.catalog.Catalog() != nil {
		checks["catalog"] = fmt.Sprintf("%d books", h.catalog.Catalog().Len())
	} else {
		checks["catalog"] = "not loaded"
		status = "unhealthy"
	}

	if h.imports != nil {
		latest, err := h.imports.Latest(ctx)
		switch {
		case err != nil:
			checks["last_import"] = "error: " + err.Error()
		case latest == nil:
			checks["last_import"] = "never"
		default:
			checks["last_import"] = latest.CreatedAt.Format(time.RFC3339)
		}
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
