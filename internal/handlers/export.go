package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"seisaku-manager/internal/export"
	"seisaku-manager/internal/models"
	"seisaku-manager/internal/tracker"
)

// ExportCSV reads straight from the store so the file never lags behind a
// write that just returned.
func (h *Handler) ExportCSV(c *gin.Context) {
	scope := c.DefaultQuery("scope", "active")
	if scope != "active" && scope != "all" {
		badRequest(c, "scope は active または all を指定してください")
		return
	}

	projects, err := h.svc.Projects(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if scope == "active" {
		projects = tracker.Active(projects)
	}

	filename := fmt.Sprintf("projects-%s.csv", time.Now().Format(models.DateLayout))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Status(http.StatusOK)
	if err := export.WriteCSV(c.Writer, projects); err != nil {
		h.logger.ErrorContext(c.Request.Context(), "csv export failed", "error", err)
		_ = c.Error(err)
	}
}
