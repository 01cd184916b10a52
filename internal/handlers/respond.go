package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"seisaku-manager/internal/tracker"
)

// httpStatus maps a service error to its response code.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, tracker.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, tracker.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := httpStatus(err)
	_ = c.Error(err)

	var ve *tracker.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(status, gin.H{"error": "入力内容を確認してください", "fields": ve.Fields})
	case status == http.StatusNotFound:
		c.JSON(status, gin.H{"error": "見つかりません"})
	default:
		c.JSON(status, gin.H{"error": "保存に失敗しました。もう一度お試しください"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
