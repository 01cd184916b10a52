package middleware

import (
	"context"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"seisaku-manager/internal/models"
)

const (
	SessionUserID = "user_id"
	SessionRole   = "role"

	currentUserKey = "CurrentUser"
)

type UserLoader interface {
	ByID(ctx context.Context, id uint) (*models.User, error)
}

// InjectUser loads the session's user on every request so that approval
// and role changes apply without a new login.
func InjectUser(users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)

		if uid, ok := sess.Get(SessionUserID).(uint); ok && uid > 0 {
			if user, err := users.ByID(c.Request.Context(), uid); err == nil {
				c.Set(currentUserKey, user)
			}
		}

		c.Next()
	}
}

func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*models.User)
	return u, ok
}
