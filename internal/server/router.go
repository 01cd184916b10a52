package server

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"seisaku-manager/internal/handlers"
	"seisaku-manager/internal/middleware"
	"seisaku-manager/internal/models"
)

const sessionName = "seisaku_session"

const sessionMaxAge = 7 * 24 * 60 * 60

type Options struct {
	SessionSecret string
	// SecureCookie marks the session cookie HTTPS-only.
	SecureCookie bool
	Logger       *slog.Logger
}

func NewRouter(opts Options, h *handlers.Handler, users middleware.UserLoader) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger, func(path string) bool {
		return path == "/health" || strings.HasPrefix(path, "/api/events")
	}))

	store := cookie.NewStore([]byte(opts.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))
	r.Use(middleware.InjectUser(users))

	r.GET("/health", h.Health)

	api := r.Group("/api")

	// AUTH
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
	api.POST("/auth/logout", h.Logout)
	api.GET("/auth/me", middleware.RequireAuth(), h.Me)

	app := api.Group("/")
	app.Use(middleware.RequireAuth(), middleware.RequireApproved())

	app.GET("/departments", h.Departments)

	// PROJECTS
	app.GET("/projects", h.ListProjects)
	app.POST("/projects", h.CreateProject)
	app.GET("/projects/:id", h.GetProject)
	app.PATCH("/projects/:id", h.UpdateProject)
	app.DELETE("/projects/:id", h.DeleteProject)
	app.PATCH("/projects/:id/tasks/:taskId", h.UpdateTask)
	app.GET("/projects/:id/history", h.ProjectHistory)

	// CALENDAR
	app.GET("/calendar/tasks", h.CalendarTasks)
	app.GET("/calendar/deadlines", h.CalendarDeadlines)

	app.GET("/export.csv", h.ExportCSV)
	app.GET("/events", h.Events)

	// ADMIN
	admin := app.Group("/admin")
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	admin.GET("/users", h.ListUsers)
	admin.POST("/users/:id/approve", h.ApproveUser)

	return r
}
