package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"seisaku-manager/internal/models"
)

func (h *Handler) Health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// Departments lists the choices for the task editor and the calendar filter.
func (h *Handler) Departments(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"selectable": models.SelectableDepartments(),
		"all":        models.Departments(),
	})
}
