package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"seisaku-manager/internal/database"
	"seisaku-manager/internal/middleware"
	"seisaku-manager/internal/models"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// bcrypt rejects longer passwords.
const maxPasswordBytes = 72

// Register creates a member account that stays unapproved until an admin
// approves it.
func (h *Handler) Register(c *gin.Context) {
	var form credentials
	if err := c.ShouldBindJSON(&form); err != nil {
		badRequest(c, "入力内容が正しくありません")
		return
	}

	form.Username = strings.TrimSpace(form.Username)
	if len([]rune(form.Username)) < 3 || len(form.Password) < 6 {
		badRequest(c, "ユーザー名は3文字以上、パスワードは6文字以上にしてください")
		return
	}
	if len(form.Password) > maxPasswordBytes {
		badRequest(c, "パスワードは72バイト以内にしてください")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, err)
		return
	}
	user := models.User{
		Username:     form.Username,
		PasswordHash: string(hash),
		Role:         models.RoleMember,
	}
	if err := h.users.Create(c.Request.Context(), &user); err != nil {
		if errors.Is(err, database.ErrUserExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "このユーザー名は既に使われています"})
			return
		}
		respondError(c, err)
		return
	}

	h.record(c, user.ID, "user", user.Username, "register", "")
	c.JSON(http.StatusCreated, user)
}

func (h *Handler) Login(c *gin.Context) {
	var form credentials
	if err := c.ShouldBindJSON(&form); err != nil {
		badRequest(c, "入力内容が正しくありません")
		return
	}

	user, err := h.users.ByUsername(c.Request.Context(), strings.TrimSpace(form.Username))
	if err != nil && !errors.Is(err, database.ErrUserNotFound) {
		respondError(c, err)
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(form.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "ユーザー名またはパスワードが正しくありません"})
		return
	}

	sess := sessions.Default(c)
	sess.Set(middleware.SessionUserID, user.ID)
	sess.Set(middleware.SessionRole, string(user.Role))
	if err := sess.Save(); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *Handler) Logout(c *gin.Context) {
	sess := sessions.Default(c)
	sess.Clear()
	sess.Options(sessions.Options{Path: "/", MaxAge: -1})
	_ = sess.Save()
	c.Status(http.StatusNoContent)
}

func (h *Handler) Me(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, u)
}
