package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"seisaku-manager/internal/models"
	"seisaku-manager/internal/tracker"
)

func (h *Handler) CalendarTasks(c *gin.Context) {
	date := c.Query("date")
	if !tracker.ValidDate(date) {
		badRequest(c, "日付を yyyy-MM-dd 形式で指定してください")
		return
	}
	f := tracker.TaskFilter{
		Department: models.Department(c.Query("department")),
		ProjectID:  c.Query("project"),
	}
	if f.Department != "" && !f.Department.Valid() {
		badRequest(c, "部署が正しくありません")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":   date,
		"tasks":  h.coll.TasksDueOn(date, f),
		"legend": h.coll.Legend(f),
	})
}

func (h *Handler) CalendarDeadlines(c *gin.Context) {
	date := c.Query("date")
	if !tracker.ValidDate(date) {
		badRequest(c, "日付を yyyy-MM-dd 形式で指定してください")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":     date,
		"projects": h.coll.DeadlinesOn(date),
	})
}
