package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"seisaku-manager/internal/middleware"
)

// ProjectHistory lists the audit entries of one project, newest first.
// Tombstoned projects keep their history.
func (h *Handler) ProjectHistory(c *gin.Context) {
	logs, err := h.audit.History(c.Request.Context(), "project", c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": logs})
}

// record writes an audit entry. A failed write is logged and otherwise
// ignored; the mutation it describes has already succeeded.
func (h *Handler) record(c *gin.Context, userID uint, entity, entityID, action, details string) {
	if h.audit == nil || userID == 0 {
		return
	}
	ctx := c.Request.Context()
	if err := h.audit.Record(ctx, userID, entity, entityID, action, details); err != nil {
		h.logger.WarnContext(ctx, "failed to write audit log",
			"entity", entity, "entity_id", entityID, "action", action, "error", err)
	}
}

func (h *Handler) userID(c *gin.Context) uint {
	if u, ok := middleware.CurrentUser(c); ok {
		return u.ID
	}
	return 0
}
