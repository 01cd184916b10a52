package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"seisaku-manager/internal/models"
)

// RequireAuth rejects requests without a logged-in user. It must run after
// InjectUser.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "ログインしてください"})
			return
		}
		c.Next()
	}
}

// RequireApproved lets through only users an admin has approved.
func RequireApproved() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "ログインしてください"})
			return
		}
		if !u.Approved {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "承認待ちです"})
			return
		}
		c.Next()
	}
}

func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := map[models.UserRole]struct{}{}
	for _, r := range roles {
		roleSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "ログインしてください"})
			return
		}
		if _, ok := roleSet[u.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "権限がありません"})
			return
		}
		c.Next()
	}
}
