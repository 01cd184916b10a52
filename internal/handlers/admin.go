package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"seisaku-manager/internal/database"
)

func (h *Handler) ListUsers(c *gin.Context) {
	pending := c.Query("pending") == "true"
	users, err := h.users.List(c.Request.Context(), pending)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *Handler) ApproveUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "ユーザーIDが正しくありません")
		return
	}

	user, err := h.users.Approve(c.Request.Context(), uint(id))
	if errors.Is(err, database.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "ユーザーが見つかりません"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	h.record(c, h.userID(c), "user", user.Username, "approve", "")
	c.JSON(http.StatusOK, user)
}
